package app

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ClinicOps/clinicops/internal/platform"
)

func init() { //nolint: gochecknoinits
	checkCmd.Flags().BoolVar(&checkModules, "modules", false, "print the modules the user can access")

	rootCmd.AddCommand(checkCmd)
}

var (
	checkModules bool

	checkCmd = &cobra.Command{
		Use:   "check <username> [permission...]",
		Short: "Check the permissions of a user",
		Long: `Check whether a user holds the named permissions. The command fails if
any of them is denied, so it can be used in scripts.`,
		Args: cobra.MinimumNArgs(1),
		RunE: withPlatform(runCheck),
	}
)

func runCheck(cmd *cobra.Command, args []string, p *platform.Platform) error {
	username, names := args[0], args[1:]
	if len(names) == 0 && !checkModules {
		return errors.New("name a permission or pass --modules")
	}

	sub, err := p.Auth.SubjectByUsername(username)
	if err != nil {
		return errors.Wrapf(err, "user %s", username)
	}

	out := cmd.OutOrStdout()

	if sub == nil {
		_, _ = fmt.Fprintf(out, "user %s has no active role\n", username)
	} else {
		_, _ = fmt.Fprintf(out, "user %s has role %s\n", username, sub.RoleName)
	}

	denied := 0

	tw := table(out)
	for _, name := range names {
		has, err := p.Auth.HasPermission(sub, name)
		if err != nil {
			return err
		}

		decision := "allow"
		if !has {
			decision = "deny"
			denied++
		}

		note := ""
		if _, known := p.Registry.Lookup(name); !known {
			note = "not in registry"
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", name, decision, note)
	}

	_ = tw.Flush()

	if checkModules {
		modules, err := p.Auth.AccessibleModules(sub)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(out, "modules: %s\n", orDash(strings.Join(modules, ", ")))
	}

	if denied > 0 {
		return errors.Wrapf(ErrPermissionDenied, "%d of %d permissions", denied, len(names))
	}

	return nil
}
