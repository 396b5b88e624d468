package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"nriassist/internal/api"
	"nriassist/internal/ipc"
)

func newApplicationsCommand(ctx *commandContext) *cobra.Command {
	appsCmd := &cobra.Command{
		Use:     "apps",
		Aliases: []string{"applications"},
		Short:   "Inspect and advance account applications",
	}

	appsCmd.AddCommand(newApplicationListCommand(ctx))
	appsCmd.AddCommand(newApplicationShowCommand(ctx))
	appsCmd.AddCommand(newAdvanceCommand(ctx))

	return appsCmd
}

func newApplicationListCommand(ctx *commandContext) *cobra.Command {
	var statuses []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ApplicationList(statuses)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				out := cmd.OutOrStdout()
				if len(resp.Applications) == 0 {
					fmt.Fprintln(out, "No applications found")
					return nil
				}
				fmt.Fprint(out, renderApplicationTable(resp.Applications))
				fmt.Fprintln(out)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&statuses, "status", "s", nil, "Filter by status label or alias (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newApplicationShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an application with its progress and history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ApplicationDescribe(strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				printApplicationDetail(cmd.OutOrStdout(), resp)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newAdvanceCommand(ctx *commandContext) *cobra.Command {
	var role string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "advance <id>",
		Short: "Advance an application to its next stage on behalf of a staff role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(role) == "" {
				return fmt.Errorf("--role is required (branch, operations, or compliance)")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Transition(strings.TrimSpace(args[0]), role)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s advanced: %s → %s\n", resp.Application.ID, resp.From, resp.To)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&role, "role", "r", "", "Acting role (branch, operations, compliance)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newInboxCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inbox <role>",
		Short: "Show the applications a role can act on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Inbox(args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				out := cmd.OutOrStdout()
				if resp.Dashboard.Title != "" {
					fmt.Fprintf(out, "%s %s\n", resp.Dashboard.Icon, resp.Dashboard.Title)
					fmt.Fprintln(out, resp.Dashboard.Description)
					fmt.Fprintln(out)
				}
				if resp.Empty {
					message := resp.Dashboard.EmptyMessage
					if message == "" {
						message = "Nothing to action"
					}
					fmt.Fprintln(out, message)
					return nil
				}
				fmt.Fprint(out, renderApplicationTable(resp.Applications))
				fmt.Fprintln(out)
				if resp.Dashboard.ActionLabel != "" {
					fmt.Fprintf(out, "Action: %s (nriassist apps advance <id> --role %s)\n", resp.Dashboard.ActionLabel, roleFlagValue(resp.Dashboard.Role))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats <role>",
		Short: "Show a role's dashboard counters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Statistics(args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				rows := [][]string{
					{"Total Applications", fmt.Sprintf("%d", resp.Total)},
					{"Pending Action", fmt.Sprintf("%d", resp.Pending)},
					{"Processed", fmt.Sprintf("%d", resp.Processed)},
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, resp.Role)
				fmt.Fprint(out, renderTable([]string{"Metric", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
				fmt.Fprintln(out)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the application lifecycle stages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Catalog()
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				rows := make([][]string, 0, len(resp.Stages))
				for _, stage := range resp.Stages {
					owner := stage.Owner
					if owner == "" {
						owner = "-"
					}
					rows = append(rows, []string{
						fmt.Sprintf("%d", stage.Ordinal),
						stage.Icon + " " + stage.StepLabel,
						stage.Status,
						owner,
					})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"#", "Step", "Status", "Owner"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newRolesCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "roles",
		Short: "List the workflow roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Roles()
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				rows := make([][]string, 0, len(resp.Roles))
				for _, role := range resp.Roles {
					rows = append(rows, []string{role.Icon + " " + role.Name, role.Description, yesNo(role.Staff)})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Role", "Description", "Staff"}, rows, nil))
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func renderApplicationTable(apps []api.Application) string {
	rows := make([][]string, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, []string{
			app.ID,
			app.ApplicantName,
			app.AccountType,
			app.Branch,
			app.Chip.Icon + " " + app.Chip.Label,
			app.SubmittedDate,
		})
	}
	return renderTable(
		[]string{"ID", "Applicant", "Account", "Branch", "Status", "Submitted"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}

func printApplicationDetail(out io.Writer, resp *api.ApplicationResponse) {
	app := resp.Application
	fmt.Fprintf(out, "%s  %s\n", app.ID, app.ApplicantName)
	fmt.Fprintf(out, "  Account:   %s (%s)\n", app.AccountType, app.AccountDescription)
	fmt.Fprintf(out, "  Branch:    %s\n", app.Branch)
	if app.SubmittedDate != "" {
		fmt.Fprintf(out, "  Submitted: %s\n", app.SubmittedDate)
	}
	fmt.Fprintf(out, "  Status:    %s\n", app.Status)
	if app.Owner != "" {
		fmt.Fprintf(out, "  With:      %s\n", app.Owner)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Progress")
	for _, step := range resp.Steps {
		fmt.Fprintf(out, "  %s %d. %s %s\n", stepMarker(step.State), step.Ordinal, step.Icon, step.Label)
	}

	if len(resp.History) > 0 {
		fmt.Fprintln(out)
		rows := make([][]string, 0, len(resp.History))
		for _, entry := range resp.History {
			rows = append(rows, []string{entry.OccurredAt, entry.Role, entry.From, entry.To})
		}
		fmt.Fprint(out, renderTable([]string{"When", "Role", "From", "To"}, rows, nil))
		fmt.Fprintln(out)
	}
}

func stepMarker(state string) string {
	switch state {
	case "done":
		return "[x]"
	case "current":
		return "[>]"
	default:
		return "[ ]"
	}
}

// roleFlagValue returns the shortest alias accepted by --role.
func roleFlagValue(role string) string {
	lower := strings.ToLower(role)
	switch {
	case strings.HasPrefix(lower, "branch"):
		return "branch"
	case strings.HasPrefix(lower, "operations"):
		return "operations"
	case strings.HasPrefix(lower, "compliance"):
		return "compliance"
	default:
		return lower
	}
}
