package bulkcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const createLongDesc string = `Create many issues in one call via Linear's batch create.

The payload is a JSON array of issue inputs, or an object with an
"issues" array. It can be passed inline, as a file path, as @file, or
as - for stdin. Convenience fields resolve automatically:
  team     -> teamId
  assignee -> assigneeId
  project  -> projectId
  labels   -> labelIds

Examples:
  linctl bulk create --data '[{"title":"Task A","team":"ENG"}]'
  linctl b create --data @issues.json
  cat issues.json | linctl b create --data -`

const batchCreateMutation = `
	mutation($input: IssueBatchCreateInput!) {
		issueBatchCreate(input: $input) {
			success
			issues { id identifier title }
		}
	}
`

func newCreateCmd() *cobra.Command {
	var flags output.Flags
	var data string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create many issues at once",
		Long:  createLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if data == "" {
				return fmt.Errorf("--data is required")
			}

			sess, err := session.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			opts, err := sess.OutputOptions(&flags)
			if err != nil {
				return err
			}

			client, err := sess.Client()
			if err != nil {
				return err
			}

			issues, err := parseBatchPayload(data)
			if err != nil {
				return err
			}
			for _, issue := range issues {
				if err := normalizeCreateInput(ctx, sess, client, issue); err != nil {
					return err
				}
			}

			if opts.DryRun {
				return output.PrintJSON(map[string]any{
					"count": len(issues),
					"input": map[string]any{"issues": issues},
				}, opts)
			}

			result, err := client.Mutate(ctx, batchCreateMutation, map[string]any{
				"input": map[string]any{"issues": issues},
			})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "issueBatchCreate", "success") {
				return fmt.Errorf("batch create failed")
			}

			created := jsonpath.Array(result, "data", "issueBatchCreate", "issues")
			if opts.IsJSON() {
				return output.PrintJSON(map[string]any{
					"issues":  created,
					"summary": map[string]any{"created": len(created)},
				}, opts)
			}

			fmt.Printf("%s Created %d issues\n", cliui.SuccessMark, len(created))
			for _, issue := range created {
				fmt.Printf("  %s %s\n",
					cliui.IDStyle.Render(jsonpath.String(issue, "-", "identifier")),
					jsonpath.String(issue, "", "title"))
			}
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON payload, file path, @file, or '-' for stdin")

	return cmd
}

// parseBatchPayload loads the --data value from stdin, a file, or the
// literal string, and returns the issue input objects.
func parseBatchPayload(data string) ([]map[string]any, error) {
	var raw []byte
	var err error
	switch {
	case data == "-":
		raw, err = io.ReadAll(os.Stdin)
	case strings.HasPrefix(data, "@"):
		raw, err = os.ReadFile(strings.TrimPrefix(data, "@"))
	default:
		if _, statErr := os.Stat(data); statErr == nil {
			raw, err = os.ReadFile(data)
		} else {
			raw = []byte(data)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("reading batch payload: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parsing batch payload JSON: %w", err)
	}

	var entries []any
	switch v := parsed.(type) {
	case []any:
		entries = v
	case map[string]any:
		nested, ok := v["issues"].([]any)
		if !ok {
			return nil, fmt.Errorf("expected a JSON array or an object with an 'issues' array")
		}
		entries = nested
	default:
		return nil, fmt.Errorf("expected a JSON array or an object with an 'issues' array")
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no issues provided in batch payload")
	}

	issues := make([]map[string]any, 0, len(entries))
	for i, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("issue at index %d is not a JSON object", i)
		}
		issues = append(issues, obj)
	}
	return issues, nil
}

// normalizeCreateInput rewrites convenience fields (team, assignee,
// project, labels) into the IDs Linear's input type wants. Explicit
// *Id fields always win.
func normalizeCreateInput(ctx context.Context, sess *session.Session, client *linear.Client, issue map[string]any) error {
	if _, ok := issue["teamId"]; !ok {
		if team, ok := issue["team"].(string); ok {
			teamID, err := sess.ResolveTeamID(ctx, client, team)
			if err != nil {
				return err
			}
			issue["teamId"] = teamID
		}
	}
	delete(issue, "team")

	if _, ok := issue["assigneeId"]; !ok {
		if assignee, ok := issue["assignee"].(string); ok {
			userID, err := sess.ResolveUserID(ctx, client, assignee)
			if err != nil {
				return err
			}
			issue["assigneeId"] = userID
		}
	}
	delete(issue, "assignee")

	if _, ok := issue["projectId"]; !ok {
		if project, ok := issue["project"].(string); ok {
			projectID, err := sess.ResolveProjectID(ctx, client, project, true)
			if err != nil {
				return err
			}
			issue["projectId"] = projectID
		}
	}
	delete(issue, "project")

	if _, ok := issue["labelIds"]; !ok {
		if labels, ok := issue["labels"].([]any); ok {
			ids := make([]string, 0, len(labels))
			for _, label := range labels {
				name, ok := label.(string)
				if !ok {
					return fmt.Errorf("labels entries must be strings")
				}
				id, err := sess.ResolveGlobalLabelID(ctx, client, name)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			issue["labelIds"] = ids
		}
	}
	delete(issue, "labels")

	return nil
}
