package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	errUtils "github.com/kompos-io/kompos/errors"
	e "github.com/kompos-io/kompos/internal/exec"
	cfg "github.com/kompos-io/kompos/pkg/config"
	"github.com/kompos-io/kompos/pkg/format"
	log "github.com/kompos-io/kompos/pkg/logger"
	"github.com/kompos-io/kompos/pkg/schema"
)

// logRingCapacity bounds the in-memory buffer of recent log records shared
// with the diagnostics path.
const logRingCapacity = 100

var (
	komposConfig schema.KomposConfiguration
	logger       *log.KomposLogger
	logRing      *log.Ring

	// configPath is the positional hierarchy path the command operates on.
	configPath string

	flagConfig     string
	flagLogLevel   string
	flagFormat     string
	flagOutputFile string
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "kompos <config-path> <command>",
	Short: "Hierarchical configuration provenance for infrastructure compositions",
	Long: `Kompos resolves layered configuration for infrastructure compositions
selected by key=value directory paths, and explains where every value came
from: which layer introduced it, which file overrode it, and why a
{{key.path}} placeholder failed to interpolate.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfigAndLogger()
	},
}

// Execute parses the leading config-path positional, then runs the command
// tree. Called once from main.
func Execute() error {
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") && !isKnownCommand(args[0]) {
		configPath = strings.TrimSuffix(args[0], "/")
		args = args[1:]
	}
	RootCmd.SetArgs(args)

	if err := RootCmd.Execute(); err != nil {
		printErrorWithHints(err)
		return err
	}
	return nil
}

func init() {
	RootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"path to a .komposconfig.yaml (merged over system, home and working dir configs)")
	RootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "",
		"log level: Debug, Info, Warning, Off")
	RootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", format.FormatText,
		"output format: text, json, yaml, dot, markdown")
	RootCmd.PersistentFlags().StringVarP(&flagOutputFile, "output-file", "o", "",
		"write results to a file instead of stdout")
}

func isKnownCommand(name string) bool {
	if name == "help" || name == cobra.ShellCompRequestCmd || name == cobra.ShellCompNoDescRequestCmd {
		return true
	}
	for _, command := range RootCmd.Commands() {
		if command.Name() == name || command.HasAlias(name) {
			return true
		}
	}
	return false
}

// initConfigAndLogger loads the merged tool configuration and wires the
// logger plus its ring buffer. The ring is owned here and handed to the
// execution context by reference.
func initConfigAndLogger() error {
	var err error
	komposConfig, err = cfg.LoadConfig(flagConfig)
	if err != nil {
		return err
	}

	logLevel := flagLogLevel
	if logLevel == "" {
		logLevel = komposConfig.Logs.Level
	}
	level, err := log.ParseLogLevel(logLevel)
	if err != nil {
		return err
	}

	logRing = log.NewRing(logRingCapacity)
	logger = log.New(os.Stderr)
	logger.SetLevel(level)
	logger.Attach(logRing)
	log.SetDefault(logger)
	return nil
}

// executionContext assembles the context shared by every command. A
// subcommand positional path overrides the root-level one.
func executionContext(args []string) (e.ExecutionContext, error) {
	path := configPath
	if len(args) > 0 {
		path = strings.TrimSuffix(args[0], "/")
	}
	if path == "" {
		return e.ExecutionContext{}, errUtils.New(
			"no config path given; usage: kompos <config-path> <command>")
	}
	return e.ExecutionContext{
		Config:     komposConfig,
		ConfigPath: path,
		Format:     flagFormat,
		OutputFile: flagOutputFile,
		Logger:     logger,
		Ring:       logRing,
	}, nil
}

func printErrorWithHints(err error) {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	logger.Error(err.Error())
	for _, hint := range errUtils.GetAllHints(err) {
		logger.Info(hint)
	}
}
