// Package relationscmder provides the relations command group.
package relationscmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/clierr"
	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/output"
	"github.com/linctl/linctl/pkg/session"
)

const relationsLongDesc string = `Link issues to each other.

Relation types: blocks, blocked-by, duplicates, duplicate-of,
relates-to. Inverse forms store the same relation from the other side,
so "ENG-1 blocked-by ENG-2" and "ENG-2 blocks ENG-1" are equivalent.

Examples:
  linctl relations list ENG-1
  linctl rel add ENG-1 blocks ENG-2
  linctl rel remove ENG-1 blocks ENG-2
  linctl rel children ENG-1`

const relationsShortDesc string = "Link issues to each other"

// relationKind is a direction-normalized relation: kind is Linear's
// wire type and inverse marks that the user named the passive side.
type relationKind struct {
	kind    string
	inverse bool
}

func parseRelationKind(value string) (relationKind, error) {
	switch strings.ToLower(value) {
	case "blocks":
		return relationKind{"blocks", false}, nil
	case "blocked-by", "blocked_by":
		return relationKind{"blocks", true}, nil
	case "duplicates":
		return relationKind{"duplicate", false}, nil
	case "duplicate-of", "duplicate_of":
		return relationKind{"duplicate", true}, nil
	case "relates-to", "related", "relates_to":
		return relationKind{"related", false}, nil
	default:
		return relationKind{}, fmt.Errorf(
			"invalid relation %q: use blocks, blocked-by, duplicates, duplicate-of, or relates-to", value)
	}
}

// formatRelationType renders a wire type back to the user-facing name,
// flipped for inverse relations.
func formatRelationType(kind string, inverse bool) string {
	switch kind {
	case "blocks":
		if inverse {
			return "blocked-by"
		}
		return "blocks"
	case "duplicate":
		if inverse {
			return "duplicate-of"
		}
		return "duplicates"
	case "related":
		return "relates-to"
	default:
		return kind
	}
}

func NewRelationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "relations",
		Aliases: []string{"rel"},
		Short:   relationsShortDesc,
		Long:    relationsLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newChildrenCmd())

	return cmd
}

const listQuery = `
	query($id: String!) {
		issue(id: $id) {
			id
			identifier
			title
			relations(first: 50) {
				nodes {
					id
					type
					relatedIssue { id identifier title state { name } }
				}
			}
			inverseRelations(first: 50) {
				nodes {
					id
					type
					issue { id identifier title state { name } }
				}
			}
			children(first: 50) {
				nodes { id identifier title state { name } }
			}
		}
	}
`

func newListCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:     "list <issue>",
		Aliases: []string{"ls"},
		Short:   "List relations and children of an issue",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

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

			issueID, err := sess.ResolveIssueID(ctx, client, args[0], true)
			if err != nil {
				return err
			}

			result, err := client.Query(ctx, listQuery, map[string]any{"id": issueID})
			if err != nil {
				return err
			}
			issue, ok := jsonpath.Get(result, "data", "issue")
			if !ok || issue == nil {
				return clierr.New(clierr.CodeNotFound, "Issue not found: %s", args[0])
			}

			// Both directions flatten into one list with the type
			// rendered from this issue's point of view.
			var rows []any
			for _, rel := range jsonpath.Array(issue, "relations", "nodes") {
				related, _ := jsonpath.Get(rel, "relatedIssue")
				rows = append(rows, relationRow(rel, related, false))
			}
			for _, rel := range jsonpath.Array(issue, "inverseRelations", "nodes") {
				related, _ := jsonpath.Get(rel, "issue")
				rows = append(rows, relationRow(rel, related, true))
			}
			children := jsonpath.Array(issue, "children", "nodes")

			if opts.IsJSON() {
				return output.PrintJSON(map[string]any{
					"issue":     jsonpath.String(issue, "", "identifier"),
					"relations": rows,
					"children":  children,
				}, opts)
			}

			fmt.Printf("%s %s\n",
				cliui.IDStyle.Render(jsonpath.String(issue, "", "identifier")),
				cliui.NameStyle.Render(jsonpath.String(issue, "", "title")))
			fmt.Println()

			if err := output.PrintRecords(rows, relationColumns(), opts); err != nil {
				return err
			}
			if len(children) > 0 {
				fmt.Printf("\n%s\n", cliui.HeaderStyle.Render("Children"))
				if err := output.PrintRecords(children, childColumns(), opts); err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags.RegisterList(cmd.Flags())

	return cmd
}

func relationRow(rel, related any, inverse bool) map[string]any {
	return map[string]any{
		"id":         jsonpath.String(rel, "", "id"),
		"type":       formatRelationType(jsonpath.String(rel, "", "type"), inverse),
		"identifier": jsonpath.String(related, "", "identifier"),
		"title":      jsonpath.String(related, "", "title"),
		"state":      jsonpath.String(related, "-", "state", "name"),
	}
}

func newAddCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:   "add <issue> <relation> <target>",
		Short: "Add a relation between two issues",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			kind, err := parseRelationKind(args[1])
			if err != nil {
				return err
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

			issueID, err := sess.ResolveIssueID(ctx, client, args[0], true)
			if err != nil {
				return err
			}
			targetID, err := sess.ResolveIssueID(ctx, client, args[2], true)
			if err != nil {
				return err
			}

			// Inverse forms store the relation from the other side.
			if kind.inverse {
				issueID, targetID = targetID, issueID
			}

			input := map[string]any{
				"issueId":        issueID,
				"relatedIssueId": targetID,
				"type":           kind.kind,
			}

			if opts.DryRun {
				return output.PrintJSON(map[string]any{"input": input}, opts)
			}

			result, err := client.Mutate(ctx, `
				mutation($input: IssueRelationCreateInput!) {
					issueRelationCreate(input: $input) {
						success
						issueRelation { id type }
					}
				}
			`, map[string]any{"input": input})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(result, "data", "issueRelationCreate", "success") {
				return fmt.Errorf("failed to create relation")
			}

			relation, _ := jsonpath.Get(result, "data", "issueRelationCreate", "issueRelation")
			if opts.IDOnly {
				fmt.Println(jsonpath.String(relation, "", "id"))
				return nil
			}
			if opts.IsJSON() {
				return output.PrintJSON(relation, opts)
			}

			fmt.Printf("%s %s %s %s\n", cliui.SuccessMark,
				cliui.IDStyle.Render(args[0]), args[1], cliui.IDStyle.Render(args[2]))
			return nil
		},
	}

	flags.RegisterFormat(cmd.Flags())
	flags.RegisterMutation(cmd.Flags())

	return cmd
}

const removeLookupQuery = `
	query($id: String!) {
		issue(id: $id) {
			relations(first: 50) {
				nodes {
					id
					type
					relatedIssue { id }
				}
			}
			inverseRelations(first: 50) {
				nodes {
					id
					type
					issue { id }
				}
			}
		}
	}
`

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <issue> <relation> <target>",
		Short: "Remove a relation between two issues",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			kind, err := parseRelationKind(args[1])
			if err != nil {
				return err
			}

			sess, err := session.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			client, err := sess.Client()
			if err != nil {
				return err
			}

			issueID, err := sess.ResolveIssueID(ctx, client, args[0], true)
			if err != nil {
				return err
			}
			targetID, err := sess.ResolveIssueID(ctx, client, args[2], true)
			if err != nil {
				return err
			}

			result, err := client.Query(ctx, removeLookupQuery, map[string]any{"id": issueID})
			if err != nil {
				return err
			}
			issue, ok := jsonpath.Get(result, "data", "issue")
			if !ok || issue == nil {
				return clierr.New(clierr.CodeNotFound, "Issue not found: %s", args[0])
			}

			relationID := findRelationID(issue, kind, targetID)
			if relationID == "" {
				return clierr.New(clierr.CodeNotFound,
					"No matching relation found between %s and %s", args[0], args[2])
			}

			deleted, err := client.Mutate(ctx, `
				mutation($id: String!) {
					issueRelationDelete(id: $id) { success }
				}
			`, map[string]any{"id": relationID})
			if err != nil {
				return err
			}
			if !jsonpath.Bool(deleted, "data", "issueRelationDelete", "success") {
				return fmt.Errorf("failed to remove relation")
			}

			fmt.Printf("%s Relation removed\n", cliui.SuccessMark)
			return nil
		},
	}

	return cmd
}

// findRelationID locates the stored relation matching a direction and
// target. Forward kinds search relations; inverse kinds search
// inverseRelations; related matches either direction.
func findRelationID(issue any, kind relationKind, targetID string) string {
	if !kind.inverse {
		for _, rel := range jsonpath.Array(issue, "relations", "nodes") {
			if jsonpath.String(rel, "", "type") == kind.kind &&
				jsonpath.String(rel, "", "relatedIssue", "id") == targetID {
				return jsonpath.String(rel, "", "id")
			}
		}
		if kind.kind != "related" {
			return ""
		}
	}
	for _, rel := range jsonpath.Array(issue, "inverseRelations", "nodes") {
		if jsonpath.String(rel, "", "type") == kind.kind &&
			jsonpath.String(rel, "", "issue", "id") == targetID {
			return jsonpath.String(rel, "", "id")
		}
	}
	return ""
}

const childrenQuery = `
	query($id: String!) {
		issue(id: $id) {
			id
			identifier
			title
			children(first: 50) {
				nodes { id identifier title state { name } }
			}
		}
	}
`

func newChildrenCmd() *cobra.Command {
	var flags output.Flags

	cmd := &cobra.Command{
		Use:   "children <issue>",
		Short: "List sub-issues of an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

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

			issueID, err := sess.ResolveIssueID(ctx, client, args[0], true)
			if err != nil {
				return err
			}

			result, err := client.Query(ctx, childrenQuery, map[string]any{"id": issueID})
			if err != nil {
				return err
			}
			issue, ok := jsonpath.Get(result, "data", "issue")
			if !ok || issue == nil {
				return clierr.New(clierr.CodeNotFound, "Issue not found: %s", args[0])
			}

			children := jsonpath.Array(issue, "children", "nodes")
			if opts.IsJSON() {
				return output.PrintJSON(children, opts)
			}

			fmt.Printf("%s %s\n\n",
				cliui.IDStyle.Render(jsonpath.String(issue, "", "identifier")),
				cliui.NameStyle.Render(jsonpath.String(issue, "", "title")))
			return output.PrintRecords(children, childColumns(), opts)
		},
	}

	flags.RegisterList(cmd.Flags())

	return cmd
}

func relationColumns() []output.Column {
	return []output.Column{
		{Header: "TYPE", Path: "type"},
		{Header: "ISSUE", Path: "identifier", Render: func(r any) string {
			return cliui.IDStyle.Render(jsonpath.String(r, "", "identifier"))
		}},
		{Header: "TITLE", Path: "title", MaxWidth: 50},
		{Header: "STATE", Path: "state"},
	}
}

func childColumns() []output.Column {
	return []output.Column{
		{Header: "ISSUE", Path: "identifier", Render: func(r any) string {
			return cliui.IDStyle.Render(jsonpath.String(r, "", "identifier"))
		}},
		{Header: "TITLE", Path: "title", MaxWidth: 50},
		{Header: "STATE", Path: "state.name", Render: func(r any) string {
			return jsonpath.String(r, "-", "state", "name")
		}},
	}
}
