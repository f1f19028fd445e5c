package issuescmder

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
	"github.com/linctl/linctl/pkg/text"
)

const listLongDesc string = `List issues, optionally filtered by team, state, assignee, project,
label, or cycle. Server-side filters use Linear's case-insensitive name
matching; --filter adds client-side equality filters on any field path.

Examples:
  linctl issues list
  linctl i list -t ENG -s "In Progress"
  linctl i list --assignee me --sort priority --order desc
  linctl i list --label Bug --all --output ndjson`

const listShortDesc string = "List issues"

const listQuery = `
	query($filter: IssueFilter, $includeArchived: Boolean, $first: Int, $after: String) {
		issues(
			first: $first,
			after: $after,
			includeArchived: $includeArchived,
			filter: $filter
		) {
			nodes {
				id
				identifier
				title
				priority
				dueDate
				state { name }
				assignee { name }
			}
			pageInfo {
				hasNextPage
				endCursor
			}
		}
	}
`

type listFlags struct {
	out      output.Flags
	team     string
	state    string
	assignee string
	project  string
	label    string
	cycle    string
	archived bool
}

func newListCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   listShortDesc,
		Long:    listLongDesc,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, flags)
		},
	}

	flags.out.RegisterList(cmd.Flags())
	cmd.Flags().StringVarP(&flags.team, "team", "t", "", "filter by team key or name")
	cmd.Flags().StringVarP(&flags.state, "state", "s", "", "filter by state name")
	cmd.Flags().StringVarP(&flags.assignee, "assignee", "a", "", "filter by assignee (name, email, or \"me\")")
	cmd.Flags().StringVar(&flags.project, "project", "", "filter by project name")
	cmd.Flags().StringVar(&flags.label, "label", "", "filter by label name or ID")
	cmd.Flags().StringVar(&flags.cycle, "cycle", "", "filter by cycle name or ID")
	cmd.Flags().BoolVar(&flags.archived, "archived", false, "include archived issues")

	return cmd
}

func runList(cmd *cobra.Command, flags listFlags) error {
	ctx := cmd.Context()

	sess, err := session.FromCommand(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	opts, err := sess.OutputOptions(&flags.out)
	if err != nil {
		return err
	}

	client, err := sess.Client()
	if err != nil {
		return err
	}

	filter, err := buildIssueFilter(ctx, sess, client, flags)
	if err != nil {
		return err
	}

	variables := map[string]any{"includeArchived": flags.archived}
	if len(filter) > 0 {
		variables["filter"] = filter
	}

	issues, err := client.PaginateNodes(ctx, listQuery, variables, linear.PageOptions{
		Limit:    opts.Limit,
		PageSize: opts.PageSize,
		All:      opts.All,
	}, "data", "issues")
	if err != nil {
		return err
	}

	return output.PrintRecords(issues, issueColumns(), opts)
}

// buildIssueFilter assembles the server-side IssueFilter from the
// name-based flags. Assignees resolve to UUIDs; the rest use Linear's
// eqIgnoreCase name filters.
func buildIssueFilter(ctx context.Context, sess *session.Session, client *linear.Client, flags listFlags) (map[string]any, error) {
	filter := map[string]any{}

	if flags.team != "" {
		filter["team"] = map[string]any{"name": map[string]any{"eqIgnoreCase": flags.team}}
		if text.IsUUID(flags.team) {
			filter["team"] = map[string]any{"id": map[string]any{"eq": flags.team}}
		}
	}
	if flags.state != "" {
		filter["state"] = map[string]any{"name": map[string]any{"eqIgnoreCase": flags.state}}
	}
	if flags.assignee != "" {
		userID, err := sess.ResolveUserID(ctx, client, flags.assignee)
		if err != nil {
			return nil, err
		}
		filter["assignee"] = map[string]any{"id": map[string]any{"eq": userID}}
	}
	if flags.project != "" {
		filter["project"] = map[string]any{"name": map[string]any{"eqIgnoreCase": flags.project}}
	}
	if flags.label != "" {
		filter["labels"] = map[string]any{"some": nameOrIDFilter(flags.label)}
	}
	if flags.cycle != "" {
		filter["cycle"] = nameOrIDFilter(flags.cycle)
	}

	return filter, nil
}

func nameOrIDFilter(ref string) map[string]any {
	if text.IsUUID(ref) {
		return map[string]any{"id": map[string]any{"eq": ref}}
	}
	return map[string]any{"name": map[string]any{"eqIgnoreCase": ref}}
}

func issueColumns() []output.Column {
	return []output.Column{
		{Header: "ID", Path: "identifier", Render: func(r any) string {
			return cliui.IDStyle.Render(jsonpath.String(r, "", "identifier"))
		}},
		{Header: "TITLE", Path: "title"},
		{Header: "STATE", Path: "state.name", Render: func(r any) string {
			return jsonpath.String(r, "-", "state", "name")
		}},
		{Header: "PRIORITY", Path: "priority", Render: func(r any) string {
			p, _ := jsonpath.Number(r, "priority")
			return cliui.Priority(int(p))
		}},
		{Header: "ASSIGNEE", Path: "assignee.name", Render: func(r any) string {
			return jsonpath.String(r, "-", "assignee", "name")
		}},
		{Header: "DUE", Path: "dueDate", Render: func(r any) string {
			return jsonpath.String(r, "-", "dueDate")
		}},
	}
}
