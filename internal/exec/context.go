package exec

import (
	"strings"

	"github.com/kompos-io/kompos/pkg/diagnose"
	"github.com/kompos-io/kompos/pkg/explore"
	"github.com/kompos-io/kompos/pkg/hierarchy"
	log "github.com/kompos-io/kompos/pkg/logger"
	"github.com/kompos-io/kompos/pkg/resolver"
	"github.com/kompos-io/kompos/pkg/schema"
	"github.com/kompos-io/kompos/pkg/validate"
)

// ExecutionContext carries everything a command execution needs. The ring
// buffer is created by the entry point and shared with the logger so the
// diagnostics path can include recent warnings.
type ExecutionContext struct {
	Config     schema.KomposConfiguration
	ConfigPath string
	Format     string
	OutputFile string
	Logger     *log.KomposLogger
	Ring       *log.Ring
}

func (ctx ExecutionContext) logger() *log.KomposLogger {
	if ctx.Logger != nil {
		return ctx.Logger
	}
	return log.Default()
}

// compositionType resolves the composition type from the config path, if the
// path carries a composition segment.
func (ctx ExecutionContext) compositionType() string {
	return validate.DeriveCompositionType(ctx.ConfigPath)
}

// discoverComposition runs composition discovery when the path addresses a
// composition. Discovery failures are fatal; paths without a composition
// segment skip discovery so plain hierarchy prefixes stay analyzable.
func (ctx ExecutionContext) discoverComposition() error {
	compositionType := ctx.compositionType()
	if compositionType == "" {
		return nil
	}

	order := ctx.Config.CompositionOrder(compositionType)
	composition, err := hierarchy.Discover(ctx.ConfigPath, order, false)
	if err != nil {
		return err
	}
	ctx.logger().Debug("discovered composition",
		"type", composition.Type,
		"instances", strings.Join(composition.Instances, ","))
	return nil
}

// compositionAnalyzer resolves with the exclusions configured for the path's
// composition type, mirroring what generation would see.
func (ctx ExecutionContext) compositionAnalyzer() *explore.Analyzer {
	opts := resolver.Options{
		ExcludeKeys: ctx.Config.ExcludedConfigKeys(ctx.compositionType()),
	}
	return ctx.newAnalyzer(opts)
}

// provenanceAnalyzer resolves without exclusions. Tracing and validation
// must be able to observe values the composition's exclusion list would
// strip, otherwise excluded-but-referenced contradictions are invisible.
func (ctx ExecutionContext) provenanceAnalyzer() *explore.Analyzer {
	return ctx.newAnalyzer(resolver.Options{})
}

func (ctx ExecutionContext) newAnalyzer(opts resolver.Options) *explore.Analyzer {
	r := resolver.NewHierarchical()
	analyzer := explore.NewAnalyzer(r, r, opts)
	analyzer.SetLogger(ctx.logger())
	return analyzer
}

func (ctx ExecutionContext) diagnoser() *diagnose.Diagnoser {
	d := diagnose.NewDiagnoser(ctx.provenanceAnalyzer(), ctx.Config.HierarchyLevels(), ctx.Ring)
	d.SetLogger(ctx.logger())
	return d
}

func (ctx ExecutionContext) validator() *validate.Validator {
	v := validate.NewValidator(ctx.provenanceAnalyzer(), ctx.Config.HierarchyLevels())
	v.SetLogger(ctx.logger())
	return v
}
