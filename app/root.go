// Package app implements the main application commands.
package app

import (
	"io"
	"os"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ClinicOps/clinicops/internal/config"
	"github.com/ClinicOps/clinicops/internal/logger"
	"github.com/ClinicOps/clinicops/internal/platform"
)

var (
	configPath string // directory containing main.toml
	actor      string // overrides rbac.actor

	// isInteractive reports whether the operator can answer prompts.
	isInteractive = func() bool { //nolint:gochecknoglobals
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd = &cobra.Command{
		Use:   "clinicops",
		Short: "ClinicOps manages module permissions and roles of the clinic platform",
		Long: `ClinicOps manages the module scoped permission catalog of the clinic platform:
it generates permissions from the module registry, synchronises roles with
modules and answers authorization checks for users.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory containing main.toml")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "operator recorded in audit fields (default: rbac.actor)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration and initialises the logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.ReadConfig(configPath)
	if err != nil {
		return cfg, err
	}

	if actor != "" {
		cfg.RBAC.Actor = actor
	}

	return cfg, logger.Init(cfg.Log)
}

type platformRunE func(cmd *cobra.Command, args []string, p *platform.Platform) error

// withPlatform boots the platform for one command and closes it afterwards.
func withPlatform(fn platformRunE) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		p, err := platform.New(&cfg)
		if err != nil {
			return err
		}

		defer func() { _ = p.Close() }()

		return fn(cmd, args, p)
	}
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) //nolint:mnd
}
