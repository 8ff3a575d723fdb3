package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/panyam/splcheck/config"
	"github.com/spf13/cobra"
)

// Options shared by every subcommand.  They are filled from flags, the
// config file and SPLCHECK_* variables in that order of precedence.
type Options struct {
	ConfigPath string
	NoColor    bool

	Config *config.Config
	Logger *slog.Logger
}

// NewRootCmd builds the splcheck command tree.
func NewRootCmd() *cobra.Command {
	opts := &Options{}
	rootCmd := &cobra.Command{
		Use:   "splcheck",
		Short: "splcheck statically checks SPL models",
		Long: `splcheck parses SPL model files and reports illegal expressions:
conditions that are not boolean and initializers whose type does not
match the declared type of a variable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a YAML config file (default: SPLCHECK_CONFIG env var)")
	rootCmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "Disable coloured output")

	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newTypesCmd(opts))
	rootCmd.AddCommand(newFormatCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func (o *Options) setup(cmd *cobra.Command) error {
	envfile := ".env"
	env := os.Getenv("SPLCHECK_ENV")
	if env == "dev" {
		envfile = ".env.dev"
	}
	if err := config.LoadEnv(envfile); err != nil {
		return fmt.Errorf("loading %s: %w", envfile, err)
	}

	path := o.ConfigPath
	if path == "" {
		path = os.Getenv("SPLCHECK_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	o.Config = cfg

	if o.NoColor || (cfg.Color != nil && !*cfg.Color) {
		color.NoColor = true
	}
	o.Logger = newLogger(cmd.ErrOrStderr(), env, cfg.Level())
	slog.SetDefault(o.Logger)
	o.Logger.Debug("configuration loaded", "path", path, "types", len(cfg.Types), "widenings", len(cfg.Widenings))
	return nil
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}
