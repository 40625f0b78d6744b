package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ClinicOps/clinicops/internal/db/controller/permission"
	"github.com/ClinicOps/clinicops/internal/db/models"
	"github.com/ClinicOps/clinicops/internal/platform"
	"github.com/ClinicOps/clinicops/internal/rbac"
)

const defaultHistoryLimit = 50

func init() { //nolint: gochecknoinits
	generateCmd.Flags().BoolVar(&generateAll, "all", false, "generate every registry module")
	generateCmd.Flags().BoolVarP(&generateForce, "force", "f", false,
		"delete and recreate existing permissions, revoking them from every role")
	generateCmd.Flags().BoolVarP(&generateYes, "yes", "y", false, "confirm forced regeneration without prompting")

	statusCmd.Flags().BoolVar(&statusStrict, "strict", false, "fail if any module is out of sync")

	listCmd.Flags().StringVarP(&listModule, "module", "m", "", "only list permissions of this module")

	historyCmd.Flags().StringVarP(&historyModule, "module", "m", "", "only show entries of this module")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", defaultHistoryLimit, "number of entries, 0 for all")

	pruneCmd.Flags().BoolVarP(&pruneYes, "yes", "y", false, "confirm deleting the permissions of the module")

	permissionCmd.AddCommand(generateCmd, statusCmd, listCmd, historyCmd, pruneCmd)
	rootCmd.AddCommand(permissionCmd)
}

var (
	generateAll   bool
	generateForce bool
	generateYes   bool
	statusStrict  bool
	listModule    string
	historyModule string
	historyLimit  int
	pruneYes      bool

	permissionCmd = &cobra.Command{
		Use:     "permission",
		Aliases: []string{"perm"},
		Short:   "Manage the permission catalog",
	}

	generateCmd = &cobra.Command{
		Use:   "generate [module...]",
		Short: "Create the permissions of modules and attach them to the omnipotent role",
		Long: `Create the permissions of the named modules from the module registry and
attach them to the omnipotent role. Complete modules are left alone.

With --force the existing permissions of a module are deleted first, which
revokes them from every role. Roles other than the omnipotent role must be
re-synced afterwards. A forced run asks for confirmation per module unless
--yes is given; without a terminal it refuses instead.`,
		RunE: withPlatform(runGenerate),
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Compare the permission catalog with the module registry",
		Args:  cobra.NoArgs,
		RunE:  withPlatform(runStatus),
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List catalog permissions",
		Args:  cobra.NoArgs,
		RunE:  withPlatform(runList),
	}

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show the permission audit trail, newest first",
		Args:  cobra.NoArgs,
		RunE:  withPlatform(runHistory),
	}

	pruneCmd = &cobra.Command{
		Use:   "prune <module>",
		Short: "Delete the permissions of a module that left the registry",
		Long: `Delete the catalog permissions of a module that is no longer in the module
registry and revoke them from every role. Modules still in the registry are
refused. Requires --yes.`,
		Args: cobra.ExactArgs(1),
		RunE: withPlatform(func(cmd *cobra.Command, args []string, p *platform.Platform) error {
			if !pruneYes {
				return errors.Wrap(ErrNotConfirmed, "pass --yes to prune "+args[0])
			}

			res, err := p.Generator.Prune(args[0])
			printReport(cmd.OutOrStdout(), rbac.Report{Results: []rbac.ModuleResult{res}}, nil)

			return err
		}),
	}
)

// confirmFunc decides whether module with existing permissions may be regenerated.
type confirmFunc func(module string, existing int64) (bool, error)

func runGenerate(cmd *cobra.Command, args []string, p *platform.Platform) error {
	modules := args

	switch {
	case generateAll && len(args) > 0:
		return ErrModulesAndAll
	case generateAll:
		modules = p.Registry.Keys()
	case len(modules) == 0:
		return ErrNoModules
	}

	var confirm confirmFunc

	switch {
	case generateYes:
		confirm = func(string, int64) (bool, error) { return true, nil }
	case isInteractive():
		confirm = prompt(cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	report, skipped := generate(p.Generator, modules, generateForce, confirm)
	printReport(cmd.OutOrStdout(), report, skipped)

	return report.Err()
}

// generate hands the confirmed modules to GenerateAll. Forced runs over modules
// that already have permissions need confirm; a nil confirm fails those modules
// as ambiguous. Refused modules are reported first, declined ones are skipped.
func generate(gen *rbac.Generator, modules []string, force bool, confirm confirmFunc) (rbac.Report, []string) {
	var (
		refused   []rbac.ModuleResult
		skipped   []string
		confirmed = modules
	)

	if force {
		confirmed = make([]string, 0, len(modules))

		for _, m := range modules {
			ok, err := confirmForce(gen, m, confirm)
			switch {
			case err != nil:
				refused = append(refused, rbac.ModuleResult{Module: m, Err: err})
			case !ok:
				skipped = append(skipped, m)
			default:
				confirmed = append(confirmed, m)
			}
		}
	}

	var report rbac.Report

	// GenerateAll treats an empty list as every module.
	if len(confirmed) > 0 {
		report = gen.GenerateAll(confirmed, force)
	}

	report.Results = append(refused, report.Results...)

	return report, skipped
}

func confirmForce(gen *rbac.Generator, module string, confirm confirmFunc) (bool, error) {
	existing, err := gen.Existing(module)
	if err != nil {
		return false, err
	}

	if existing == 0 {
		return true, nil
	}

	if confirm == nil {
		return false, rbac.NewError(rbac.KindAmbiguousRegeneration, module,
			errors.Errorf("%d permissions exist, pass --yes to confirm", existing))
	}

	return confirm(module, existing)
}

func prompt(in io.Reader, out io.Writer) confirmFunc {
	reader := bufio.NewReader(in)

	return func(module string, existing int64) (bool, error) {
		_, _ = fmt.Fprintf(out,
			"Module %s has %d permissions. Regenerating deletes them and revokes them from every role. Continue? [y/N] ",
			module, existing)

		answer, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, errors.Wrap(err, "failed to read answer")
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

func printReport(w io.Writer, report rbac.Report, skipped []string) {
	tw := table(w)
	_, _ = fmt.Fprintln(tw, "MODULE\tCREATED\tUPDATED\tDELETED\tREVOKED\tATTACHED\tRESULT")

	for _, r := range report.Results {
		result := "ok"

		switch {
		case r.Err != nil:
			result = "error: " + r.Err.Error()
		case r.NoOp:
			result = "unchanged"
		}

		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			r.Module, r.Created, r.Updated, r.Deleted, r.RevokedGrants, r.Attached, result)
	}

	for _, m := range skipped {
		_, _ = fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\tskipped\n", m)
	}

	_ = tw.Flush()
}

func runStatus(cmd *cobra.Command, _ []string, p *platform.Platform) error {
	status, err := p.Generator.Status()
	if err != nil {
		return err
	}

	drift := 0

	tw := table(cmd.OutOrStdout())
	_, _ = fmt.Fprintln(tw, "MODULE\tREGISTERED\tEXPECTED\tPRESENT\tMISSING\tSTALE\tVERSION\tSTATE")

	for _, s := range status {
		state := "in sync"
		if !s.InSync() {
			state = "drift"
			drift++
		}

		_, _ = fmt.Fprintf(tw, "%s\t%t\t%d\t%d\t%d\t%d\t%s\t%s\n",
			s.Module, s.Registered, s.Expected, s.Present, len(s.Missing), len(s.Stale),
			orDash(s.GeneratedVersion), state)
	}

	_ = tw.Flush()

	if statusStrict && drift > 0 {
		return errors.Wrapf(ErrCatalogDrift, "%d modules", drift)
	}

	return nil
}

func runList(cmd *cobra.Command, _ []string, p *platform.Platform) error {
	var (
		perms []models.Permission
		err   error
	)

	if listModule != "" {
		perms, err = permission.ListByModule(p.DB, listModule)
	} else {
		perms, err = permission.All(p.DB)
	}

	if err != nil {
		return errors.Wrap(err, "failed to list permissions")
	}

	tw := table(cmd.OutOrStdout())
	_, _ = fmt.Fprintln(tw, "NAME\tMODULE\tDISPLAY NAME")

	for _, perm := range perms {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", perm.Name, perm.Module, perm.DisplayName)
	}

	return tw.Flush()
}

func runHistory(cmd *cobra.Command, _ []string, p *platform.Platform) error {
	rows, err := rbac.History(p.DB, historyModule, historyLimit)
	if err != nil {
		return err
	}

	tw := table(cmd.OutOrStdout())
	_, _ = fmt.Fprintln(tw, "TIME\tOPERATION\tEVENT\tROLE\tPERMISSION\tACTOR\tREASON")

	for _, r := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.CreatedAt.Format(time.RFC3339), r.OperationID, r.Event, orDash(r.RoleName),
			r.PermissionName, r.Actor, r.Reason)
	}

	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
