// Package bulkcmder provides the bulk command group for multi-issue
// operations.
package bulkcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
	"github.com/linctl/linctl/pkg/workpool"
)

const bulkLongDesc string = `Apply one change to many issues at once.

Issues are passed as a comma-separated -i list or piped on stdin with
-i -. Updates go through Linear's batch mutation in chunks, so a
partial failure reports per-issue results instead of aborting.

Examples:
  linctl bulk update-state Done -i ENG-1,ENG-2,ENG-3
  linctl b assign me -i ENG-1,ENG-2
  linctl i list --id-only | linctl b priority 2 -i -
  linctl b create --data '[{"title":"Task A","team":"ENG"}]'`

const bulkShortDesc string = "Apply one change to many issues at once"

// batchSize caps how many issue UUIDs go into one batch mutation.
const batchSize = 50

const batchUpdateMutation = `
	mutation($ids: [UUID!]!, $input: IssueUpdateInput!) {
		issueBatchUpdate(ids: $ids, input: $input) {
			success
			issues { id identifier }
		}
	}
`

const issueInfoQuery = `
	query($id: String!) {
		issue(id: $id) {
			id
			identifier
			team { id }
		}
	}
`

func NewBulkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bulk",
		Aliases: []string{"b"},
		Short:   bulkShortDesc,
		Long:    bulkLongDesc,
	}

	cmd.AddCommand(newUpdateStateCmd())
	cmd.AddCommand(newAssignCmd())
	cmd.AddCommand(newUnassignCmd())
	cmd.AddCommand(newPriorityCmd())
	cmd.AddCommand(newLabelCmd())
	cmd.AddCommand(newProjectCmd())
	cmd.AddCommand(newCycleCmd())
	cmd.AddCommand(newArchiveCmd())
	cmd.AddCommand(newCreateCmd())

	return cmd
}

// bulkResult records the outcome of one issue in a bulk operation.
type bulkResult struct {
	IssueID    string `json:"issue_id"`
	Identifier string `json:"identifier,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// issueInfo carries what a batch mutation needs to know per issue.
type issueInfo struct {
	ref        string
	uuid       string
	teamID     string
	identifier string
}

// readIssueRefs expands the -i flag, reading refs from stdin when the
// flag is the single value "-".
func readIssueRefs(refs []string) ([]string, error) {
	if len(refs) == 1 && refs[0] == "-" {
		return cliui.ReadLines(refs)
	}
	return refs, nil
}

// resolveIssueInfos looks up the UUID, team, and identifier for each
// issue reference, fanning lookups out across a worker pool. Failures
// become results instead of stopping the run, and output order follows
// the input order regardless of which lookup finishes first.
func resolveIssueInfos(ctx context.Context, sess *session.Session, client *linear.Client, refs []string) ([]issueInfo, []bulkResult) {
	resolved := make([]issueInfo, len(refs))
	failed := make([]bulkResult, len(refs))

	pool := workpool.New(ctx, &workpool.Config{Logger: sess.Log})
	for i, ref := range refs {
		pool.Enqueue(func(ctx context.Context) {
			info, err := resolveIssueInfo(ctx, client, ref)
			if err != nil {
				failed[i] = bulkResult{IssueID: ref, Error: err.Error()}
				return
			}
			resolved[i] = info
		})
	}
	pool.Close()

	var infos []issueInfo
	var failures []bulkResult
	for i := range refs {
		if failed[i].Error != "" {
			failures = append(failures, failed[i])
			continue
		}
		infos = append(infos, resolved[i])
	}
	return infos, failures
}

// resolveIssueInfo fetches one issue's UUID, team, and identifier.
func resolveIssueInfo(ctx context.Context, client *linear.Client, ref string) (issueInfo, error) {
	result, err := client.Query(ctx, issueInfoQuery, map[string]any{"id": ref})
	if err != nil {
		return issueInfo{}, err
	}
	issue, ok := jsonpath.Get(result, "data", "issue")
	if !ok || issue == nil {
		return issueInfo{}, fmt.Errorf("Issue not found")
	}
	uuid := jsonpath.String(issue, "", "id")
	teamID := jsonpath.String(issue, "", "team", "id")
	if uuid == "" || teamID == "" {
		return issueInfo{}, fmt.Errorf("Issue missing id or team")
	}
	return issueInfo{
		ref:        ref,
		uuid:       uuid,
		teamID:     teamID,
		identifier: jsonpath.String(issue, "", "identifier"),
	}, nil
}

// groupByTeam buckets infos by team so team-scoped references (states,
// cycles) resolve once per team.
func groupByTeam(infos []issueInfo) map[string][]issueInfo {
	grouped := map[string][]issueInfo{}
	for _, info := range infos {
		grouped[info.teamID] = append(grouped[info.teamID], info)
	}
	return grouped
}

// failAll marks a whole group of infos as failed with one error.
func failAll(infos []issueInfo, err error) []bulkResult {
	results := make([]bulkResult, 0, len(infos))
	for _, info := range infos {
		results = append(results, bulkResult{
			IssueID:    info.ref,
			Identifier: info.identifier,
			Error:      err.Error(),
		})
	}
	return results
}

// batchUpdate applies one input to all infos through issueBatchUpdate,
// chunked to batchSize.
func batchUpdate(ctx context.Context, client *linear.Client, infos []issueInfo, input map[string]any) []bulkResult {
	var results []bulkResult

	for start := 0; start < len(infos); start += batchSize {
		end := min(start+batchSize, len(infos))
		chunk := infos[start:end]

		ids := make([]string, 0, len(chunk))
		for _, info := range chunk {
			ids = append(ids, info.uuid)
		}

		data, err := client.Mutate(ctx, batchUpdateMutation, map[string]any{
			"ids":   ids,
			"input": input,
		})
		if err != nil {
			results = append(results, failAll(chunk, err)...)
			continue
		}
		if !jsonpath.Bool(data, "data", "issueBatchUpdate", "success") {
			results = append(results, failAll(chunk, fmt.Errorf("batch update failed"))...)
			continue
		}

		identifierByUUID := map[string]string{}
		for _, issue := range jsonpath.Array(data, "data", "issueBatchUpdate", "issues") {
			identifierByUUID[jsonpath.String(issue, "", "id")] = jsonpath.String(issue, "", "identifier")
		}
		for _, info := range chunk {
			identifier := identifierByUUID[info.uuid]
			if identifier == "" {
				identifier = info.identifier
			}
			results = append(results, bulkResult{
				IssueID:    info.ref,
				Identifier: identifier,
				Success:    true,
			})
		}
	}
	return results
}

// printSummary reports per-issue results and a success/failure count.
func printSummary(results []bulkResult, action string, opts output.Options) error {
	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	failed := len(results) - succeeded

	if opts.IsJSON() {
		return output.PrintJSON(map[string]any{
			"action":  action,
			"results": results,
			"summary": map[string]any{
				"total":     len(results),
				"succeeded": succeeded,
				"failed":    failed,
			},
		}, opts)
	}

	for _, r := range results {
		if r.Success {
			id := r.Identifier
			if id == "" {
				id = r.IssueID
			}
			fmt.Printf("  %s %s %s\n", cliui.SuccessMark, cliui.IDStyle.Render(id), action)
		} else {
			fmt.Printf("  %s %s failed: %s\n", cliui.FailMark,
				cliui.IDStyle.Render(r.IssueID), cliui.DimStyle.Render(r.Error))
		}
	}
	fmt.Printf("\nSummary: %d succeeded, %d failed\n", succeeded, failed)
	return nil
}
