package config

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"

	errUtils "github.com/kompos-io/kompos/errors"
	log "github.com/kompos-io/kompos/pkg/logger"
	"github.com/kompos-io/kompos/pkg/schema"
	"github.com/kompos-io/kompos/pkg/version"
)

// CliConfigFileName is the config file base name without extension.
const CliConfigFileName = ".komposconfig"

// SystemDirConfigFilePath is the lowest-precedence config location.
const SystemDirConfigFilePath = "/etc/kompos"

//go:embed schema.json
var configSchema []byte

// LoadConfig reads `.komposconfig.yaml` from the following locations, from
// lower to higher priority:
// system dir (`/etc/kompos`), home dir (`~`), current directory, and an
// explicit path when provided. Later files are merged over earlier ones.
// The merged document is validated against the embedded JSON schema and the
// min_version gate before being returned.
func LoadConfig(explicitPath string) (schema.KomposConfiguration, error) {
	var komposConfig schema.KomposConfiguration

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName(CliConfigFileName)

	if err := readSystemConfig(v); err != nil {
		return komposConfig, err
	}
	if err := readHomeConfig(v); err != nil {
		return komposConfig, err
	}
	if err := readWorkDirConfig(v); err != nil {
		return komposConfig, err
	}
	if explicitPath != "" {
		if err := mergeConfigFile(v, explicitPath); err != nil {
			return komposConfig, err
		}
	}

	komposConfig.CliConfigPath = v.ConfigFileUsed()
	if komposConfig.CliConfigPath == "" {
		log.Default().Debug("no .komposconfig.yaml found", "paths", "system dir, home dir, current dir")
	}

	if err := validateSchema(v); err != nil {
		return komposConfig, err
	}

	if err := v.Unmarshal(&komposConfig); err != nil {
		return komposConfig, err
	}

	if err := validateVersion(&komposConfig); err != nil {
		return komposConfig, err
	}

	return komposConfig, nil
}

func readSystemConfig(v *viper.Viper) error {
	return mergeConfigDir(v, SystemDirConfigFilePath)
}

func readHomeConfig(v *viper.Viper) error {
	home, err := homedir.Dir()
	if err != nil {
		return err
	}
	return mergeConfigDir(v, home)
}

func readWorkDirConfig(v *viper.Viper) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	return mergeConfigDir(v, wd)
}

func mergeConfigDir(v *viper.Viper, dir string) error {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, CliConfigFileName+ext)
		if _, err := os.Stat(path); err == nil {
			return mergeConfigFile(v, path)
		}
	}
	return nil
}

func mergeConfigFile(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	log.Default().Debug("merging config", "file", path)
	if err := v.MergeConfig(f); err != nil {
		return errUtils.Wrapf(err, "failed to parse configuration file %s", path)
	}
	v.SetConfigFile(path)
	return nil
}

// validateSchema checks the merged settings against the embedded JSON schema.
func validateSchema(v *viper.Viper) error {
	document, err := json.Marshal(v.AllSettings())
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(configSchema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	b := errUtils.Build(errUtils.ErrInvalidKomposConfig)
	for _, desc := range result.Errors() {
		b.WithHint(desc.String())
	}
	return b.Error()
}

// validateVersion enforces the min_version gate from the merged config.
func validateVersion(komposConfig *schema.KomposConfiguration) error {
	if komposConfig.MinVersion == "" {
		return nil
	}

	minVersion, err := semver.NewVersion(komposConfig.MinVersion)
	if err != nil {
		return errUtils.Wrapf(err, "invalid min_version '%s'", komposConfig.MinVersion)
	}
	current, err := semver.NewVersion(version.Version)
	if err != nil {
		return err
	}
	if current.LessThan(minVersion) {
		return errUtils.Wrapf(
			errUtils.ErrUnsupportedVersion,
			"current version '%s' is lower than the minimum required version '%s'",
			version.Version, komposConfig.MinVersion,
		)
	}
	return nil
}
