package schema

// KomposConfiguration is the merged tool configuration loaded from
// `.komposconfig.yaml` files (system dir, home dir, working dir, in that
// order of increasing precedence).
type KomposConfiguration struct {
	// MinVersion, when set, is the minimum tool version allowed to operate on
	// this configuration tree.
	MinVersion string `yaml:"min_version" json:"min_version" mapstructure:"min_version"`

	Logs         Logs         `yaml:"logs" json:"logs" mapstructure:"logs"`
	Compositions Compositions `yaml:"compositions" json:"compositions" mapstructure:"compositions"`
	Hierarchy    Hierarchy    `yaml:"hierarchy" json:"hierarchy" mapstructure:"hierarchy"`

	// CliConfigPath is the path of the highest-precedence config file that was
	// actually read. Not part of the file format.
	CliConfigPath string `yaml:"-" json:"-" mapstructure:"-"`
}

// Logs configures tool logging.
type Logs struct {
	// Level is one of Debug, Info, Warning, Off.
	Level string `yaml:"level" json:"level" mapstructure:"level"`
	File  string `yaml:"file" json:"file" mapstructure:"file"`
}

// Compositions configures per-composition-type ordering and key filtering.
type Compositions struct {
	// Order maps a composition type to the order its instances are processed in.
	Order map[string][]string `yaml:"order" json:"order" mapstructure:"order"`

	ConfigKeys ConfigKeys `yaml:"config_keys" json:"config_keys" mapstructure:"config_keys"`
}

// ConfigKeys configures which top-level keys are stripped from or kept in the
// resolved output, per composition type.
type ConfigKeys struct {
	// Excluded keys are removed before interpolation. A key excluded here but
	// still referenced by a `{{...}}` placeholder is the contradiction the
	// excluded-but-referenced rule detects.
	Excluded map[string][]string `yaml:"excluded" json:"excluded" mapstructure:"excluded"`

	// Filtered keys, when non-empty, are the only top-level keys kept in output.
	Filtered map[string][]string `yaml:"filtered" json:"filtered" mapstructure:"filtered"`
}

// Hierarchy configures the known hierarchy level names.
type Hierarchy struct {
	// Levels lists path segment keys that name hierarchy levels, root first.
	Levels []string `yaml:"levels" json:"levels" mapstructure:"levels"`
}

// DefaultHierarchyLevels is used when `hierarchy.levels` is not configured.
var DefaultHierarchyLevels = []string{
	"cloud", "account", "project", "env", "region", "vpc", "cluster", "composition",
}

// ExcludedConfigKeys returns the excluded keys for a composition type.
func (c *KomposConfiguration) ExcludedConfigKeys(composition string) []string {
	return c.Compositions.ConfigKeys.Excluded[composition]
}

// FilteredOutputKeys returns the filtered output keys for a composition type.
func (c *KomposConfiguration) FilteredOutputKeys(composition string) []string {
	return c.Compositions.ConfigKeys.Filtered[composition]
}

// CompositionOrder returns the configured instance order for a composition type.
func (c *KomposConfiguration) CompositionOrder(composition string) []string {
	return c.Compositions.Order[composition]
}

// HierarchyLevels returns the configured hierarchy level names, or the defaults.
func (c *KomposConfiguration) HierarchyLevels() []string {
	if len(c.Hierarchy.Levels) > 0 {
		return c.Hierarchy.Levels
	}
	return DefaultHierarchyLevels
}
