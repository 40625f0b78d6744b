package app

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ClinicOps/clinicops/internal/db/controller/role"
	"github.com/ClinicOps/clinicops/internal/db/controller/rolepermission"
	"github.com/ClinicOps/clinicops/internal/db/controller/user"
	"github.com/ClinicOps/clinicops/internal/db/models"
	"github.com/ClinicOps/clinicops/internal/platform"
	"github.com/ClinicOps/clinicops/internal/rbac"
	"github.com/ClinicOps/clinicops/internal/registry"
)

func init() { //nolint: gochecknoinits
	syncCmd.Flags().BoolVar(&syncNone, "none", false, "detach every module from the role")

	roleCmd.AddCommand(syncCmd, attachCmd, detachCmd, showCmd, roleListCmd, assignCmd, unassignCmd)
	rootCmd.AddCommand(roleCmd)
}

var (
	syncNone bool

	roleCmd = &cobra.Command{
		Use:   "role",
		Short: "Synchronise roles with modules",
	}

	syncCmd = &cobra.Command{
		Use:   "sync <role> [module...]",
		Short: "Make the role hold exactly the named modules",
		Long: `Make the role hold exactly the named modules. Modules the role holds but
are not named are detached, named modules the role does not hold yet are
attached with every action. Modules already held keep their current actions.
The omnipotent role always receives the whole catalog.`,
		Args: cobra.MinimumNArgs(1),
		RunE: withPlatform(func(cmd *cobra.Command, args []string, p *platform.Platform) error {
			modules := args[1:]
			if len(modules) == 0 && !syncNone {
				return errors.Wrap(ErrNoModules, "pass --none to detach every module")
			}

			res, err := p.Synchronizer.SyncRole(args[0], modules)
			printSync(cmd.OutOrStdout(), res)

			return err
		}),
	}

	attachCmd = &cobra.Command{
		Use:   "attach <role> <module>",
		Short: "Grant every permission of a module to the role",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: withPlatform(func(cmd *cobra.Command, args []string, p *platform.Platform) error {
			res, err := p.Synchronizer.AttachModule(args[0], args[1])
			printSync(cmd.OutOrStdout(), res)

			return err
		}),
	}

	detachCmd = &cobra.Command{
		Use:   "detach <role> <module>",
		Short: "Revoke every permission of a module from the role",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: withPlatform(func(cmd *cobra.Command, args []string, p *platform.Platform) error {
			res, err := p.Synchronizer.DetachModule(args[0], args[1])
			printSync(cmd.OutOrStdout(), res)

			return err
		}),
	}

	showCmd = &cobra.Command{
		Use:   "show <role>",
		Short: "Show the modules and actions a role holds",
		Args:  cobra.ExactArgs(1),
		RunE:  withPlatform(runShow),
	}

	roleListCmd = &cobra.Command{
		Use:   "list",
		Short: "List roles",
		Args:  cobra.NoArgs,
		RunE:  withPlatform(runRoleList),
	}

	assignCmd = &cobra.Command{
		Use:   "assign <role> <username>",
		Short: "Assign a role to a user, replacing the previous one",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE:  withPlatform(runAssign),
	}

	unassignCmd = &cobra.Command{
		Use:   "unassign <username>",
		Short: "Remove the role of a user, leaving it without permissions",
		Args:  cobra.ExactArgs(1),
		RunE: withPlatform(func(cmd *cobra.Command, args []string, p *platform.Platform) error {
			u, err := lookupUser(p, args[0])
			if err != nil {
				return err
			}

			if err = user.AssignRole(p.DB, u.ID, nil); err != nil {
				return errors.Wrap(err, "failed to remove role")
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "user %s has no role\n", u.Username)

			return nil
		}),
	}
)

func printSync(w io.Writer, res rbac.SyncResult) {
	for _, e := range res.Errors {
		_, _ = fmt.Fprintf(w, "%s: %v\n", e.Item, e.Err)
	}

	if len(res.Modules) > 0 {
		tw := table(w)
		_, _ = fmt.Fprintln(tw, "MODULE\tATTACHED\tDETACHED")

		for _, m := range res.Modules {
			_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\n", m.Module, m.Attached, m.Detached)
		}

		_ = tw.Flush()
	}

	if res.OperationID != "" {
		_, _ = fmt.Fprintf(w, "role %s: %d attached, %d detached (operation %s)\n",
			res.Role, res.Attached, res.Detached, res.OperationID)
	}
}

func runShow(cmd *cobra.Command, args []string, p *platform.Platform) error {
	r, err := role.GetByName(p.DB, args[0])
	if errors.Is(err, role.ErrRoleNotFound) {
		return rbac.NewError(rbac.KindRoleNotFound, args[0], err)
	}

	if err != nil {
		return errors.Wrap(err, "failed to load role")
	}

	held, err := rolepermission.Held(p.DB, r.ID, "")
	if err != nil {
		return errors.Wrap(err, "failed to list permissions")
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "role %s (%s), active %t, %d permissions\n", r.Name, orDash(r.DisplayName), r.IsActive, len(held))

	if p.Synchronizer.IsOmnipotent(r.Name) {
		_, _ = fmt.Fprintln(out, "omnipotent role: every permission is granted, including ones missing from the catalog")
	}

	actions := make(map[string][]string)

	for _, perm := range held {
		_, action, err := registry.Split(perm.Name)
		if err != nil {
			action = perm.Name
		}

		actions[perm.Module] = append(actions[perm.Module], action)
	}

	modules := make([]string, 0, len(actions))
	for m := range actions {
		modules = append(modules, m)
	}

	sort.Strings(modules)

	tw := table(out)
	_, _ = fmt.Fprintln(tw, "MODULE\tCOMPLETE\tACTIONS")

	for _, m := range modules {
		complete := len(actions[m]) == len(p.Registry.Actions(m))
		_, _ = fmt.Fprintf(tw, "%s\t%t\t%s\n", m, complete, strings.Join(actions[m], ", "))
	}

	return tw.Flush()
}

func runRoleList(cmd *cobra.Command, _ []string, p *platform.Platform) error {
	roles, err := role.List(p.DB)
	if err != nil {
		return errors.Wrap(err, "failed to list roles")
	}

	tw := table(cmd.OutOrStdout())
	_, _ = fmt.Fprintln(tw, "NAME\tDISPLAY NAME\tACTIVE\tSYSTEM\tMODULES")

	for _, r := range roles {
		modules, err := rolepermission.HeldModules(p.DB, r.ID)
		if err != nil {
			return errors.Wrapf(err, "failed to list modules of %s", r.Name)
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%t\t%t\t%s\n",
			r.Name, orDash(r.DisplayName), r.IsActive, r.IsSystem, orDash(strings.Join(modules, ",")))
	}

	return tw.Flush()
}

func runAssign(cmd *cobra.Command, args []string, p *platform.Platform) error {
	r, err := role.GetByName(p.DB, args[0])
	if errors.Is(err, role.ErrRoleNotFound) {
		return rbac.NewError(rbac.KindRoleNotFound, args[0], err)
	}

	if err != nil {
		return errors.Wrap(err, "failed to load role")
	}

	u, err := lookupUser(p, args[1])
	if err != nil {
		return err
	}

	if err = user.AssignRole(p.DB, u.ID, &r.ID); err != nil {
		return errors.Wrap(err, "failed to assign role")
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "user %s now has role %s\n", u.Username, r.Name)

	return nil
}

func lookupUser(p *platform.Platform, username string) (*models.User, error) {
	u, err := user.GetByUsername(p.DB, username)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load user %s", username)
	}

	return u, nil
}
