package linear

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/linctl/linctl/pkg/clierr"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/text"
)

// ResolveTeamID resolves a team key (like "ENG") or name to a team
// UUID. UUIDs pass through unchanged. Key matches win over name
// matches, both case-insensitive.
func (c *Client) ResolveTeamID(ctx context.Context, team string) (string, error) {
	if text.IsUUID(team) {
		return team, nil
	}

	const query = `
		query {
			teams(first: 100) {
				nodes {
					id
					key
					name
				}
			}
		}
	`

	result, err := c.Query(ctx, query, nil)
	if err != nil {
		return "", err
	}

	nodes := jsonpath.Array(result, "data", "teams", "nodes")
	for _, field := range []string{"key", "name"} {
		for _, node := range nodes {
			if strings.EqualFold(jsonpath.String(node, "", field), team) {
				if id := jsonpath.String(node, "", "id"); id != "" {
					return id, nil
				}
			}
		}
	}

	return "", clierr.New(clierr.CodeNotFound,
		"Team not found: '%s'. Use 'linctl t list' to see available teams", team)
}

// ResolveIssueID resolves an issue identifier (e.g. "ENG-123") or UUID
// to a UUID. Identifiers go through searchIssues; when the first scan
// misses, a second pass includes archived issues.
func (c *Client) ResolveIssueID(ctx context.Context, issue string, includeArchived bool) (string, error) {
	if text.IsUUID(issue) {
		return issue, nil
	}

	if !text.IsIssueIdentifier(issue) {
		return "", clierr.New(clierr.CodeGeneral,
			"Invalid issue identifier '%s'. Use an identifier like ENG-123 or a UUID", issue)
	}

	const query = `
		query($term: String!, $includeArchived: Boolean, $first: Int, $after: String) {
			searchIssues(term: $term, includeArchived: $includeArchived, first: $first, after: $after) {
				nodes { id identifier }
				pageInfo {
					hasNextPage
					endCursor
				}
			}
		}
	`

	const maxPages = 20

	include := includeArchived
	for pass := 0; pass < 2; pass++ {
		var after any
		pages := 0
		for pages < maxPages {
			pages++
			result, err := c.Query(ctx, query, map[string]any{
				"term":            issue,
				"includeArchived": include,
				"first":           50,
				"after":           after,
			})
			if err != nil {
				return "", err
			}

			for _, node := range jsonpath.Array(result, "data", "searchIssues", "nodes") {
				if strings.EqualFold(jsonpath.String(node, "", "identifier"), issue) {
					if id := jsonpath.String(node, "", "id"); id != "" {
						return id, nil
					}
				}
			}

			pageInfo, _ := jsonpath.Get(result, "data", "searchIssues", "pageInfo")
			if !jsonpath.Bool(pageInfo, "hasNextPage") {
				break
			}
			cursor := jsonpath.String(pageInfo, "", "endCursor")
			if cursor == "" {
				break
			}
			after = cursor
		}

		if pages >= maxPages {
			return "", clierr.New(clierr.CodeNotFound,
				"Issue not found after scanning %d results. Provide an issue ID or UUID", maxPages*50)
		}

		if include {
			break
		}
		include = true
	}

	return "", clierr.New(clierr.CodeNotFound, "Issue not found: %s", issue)
}

// ResolveProjectID resolves a project name or UUID to a UUID. When the
// first lookup misses, a second pass includes archived projects.
func (c *Client) ResolveProjectID(ctx context.Context, project string, includeArchived bool) (string, error) {
	if text.IsUUID(project) {
		return project, nil
	}

	const query = `
		query($name: String!, $includeArchived: Boolean) {
			projects(
				first: 1,
				includeArchived: $includeArchived,
				filter: { name: { eqIgnoreCase: $name } }
			) {
				nodes { id name }
			}
		}
	`

	include := includeArchived
	for pass := 0; pass < 2; pass++ {
		result, err := c.Query(ctx, query, map[string]any{
			"name":            project,
			"includeArchived": include,
		})
		if err != nil {
			return "", err
		}

		nodes := jsonpath.Array(result, "data", "projects", "nodes")
		if len(nodes) > 0 {
			if id := jsonpath.String(nodes[0], "", "id"); id != "" {
				return id, nil
			}
		}

		if include {
			break
		}
		include = true
	}

	return "", clierr.New(clierr.CodeNotFound, "Project not found: %s", project)
}

// ResolveInitiativeID resolves an initiative name or UUID to a UUID.
func (c *Client) ResolveInitiativeID(ctx context.Context, initiative string, includeArchived bool) (string, error) {
	if text.IsUUID(initiative) {
		return initiative, nil
	}

	const query = `
		query($name: String!, $includeArchived: Boolean) {
			initiatives(
				first: 1,
				includeArchived: $includeArchived,
				filter: { name: { eqIgnoreCase: $name } }
			) {
				nodes { id name }
			}
		}
	`

	result, err := c.Query(ctx, query, map[string]any{
		"name":            initiative,
		"includeArchived": includeArchived,
	})
	if err != nil {
		return "", err
	}

	nodes := jsonpath.Array(result, "data", "initiatives", "nodes")
	if len(nodes) > 0 {
		if id := jsonpath.String(nodes[0], "", "id"); id != "" {
			return id, nil
		}
	}

	return "", clierr.New(clierr.CodeNotFound, "Initiative not found: %s", initiative)
}

// ResolveStateID resolves a workflow state name or UUID to a UUID
// within the given team.
func (c *Client) ResolveStateID(ctx context.Context, teamID, state string) (string, error) {
	if text.IsUUID(state) {
		return state, nil
	}

	const query = `
		query($teamId: String!) {
			team(id: $teamId) {
				states(first: 250) {
					nodes { id name }
				}
			}
		}
	`

	result, err := c.Query(ctx, query, map[string]any{"teamId": teamID})
	if err != nil {
		return "", err
	}

	for _, node := range jsonpath.Array(result, "data", "team", "states", "nodes") {
		if strings.EqualFold(jsonpath.String(node, "", "name"), state) {
			if id := jsonpath.String(node, "", "id"); id != "" {
				return id, nil
			}
		}
	}

	return "", clierr.New(clierr.CodeNotFound, "State not found: %s", state)
}

// ResolveCycleID resolves a cycle name or number to a UUID within the
// given team. Numeric references match the cycle number; anything else
// matches the name case-insensitively.
func (c *Client) ResolveCycleID(ctx context.Context, teamID, cycle string) (string, error) {
	if text.IsUUID(cycle) {
		return cycle, nil
	}

	const query = `
		query($teamId: String!) {
			team(id: $teamId) {
				cycles(first: 50) {
					nodes { id name number }
				}
			}
		}
	`

	result, err := c.Query(ctx, query, map[string]any{"teamId": teamID})
	if err != nil {
		return "", err
	}

	nodes := jsonpath.Array(result, "data", "team", "cycles", "nodes")
	for _, node := range nodes {
		if strings.EqualFold(jsonpath.String(node, "", "name"), cycle) {
			if id := jsonpath.String(node, "", "id"); id != "" {
				return id, nil
			}
		}
	}
	if number, err := strconv.Atoi(cycle); err == nil {
		for _, node := range nodes {
			if n, ok := jsonpath.Number(node, "number"); ok && int(n) == number {
				if id := jsonpath.String(node, "", "id"); id != "" {
					return id, nil
				}
			}
		}
	}

	return "", clierr.New(clierr.CodeNotFound, "Cycle not found: %s", cycle)
}

// ResolveLabelIDs resolves label names or UUIDs to UUIDs within the
// given team. Every label must resolve or the whole call fails.
func (c *Client) ResolveLabelIDs(ctx context.Context, teamID string, labels []string) ([]string, error) {
	if len(labels) == 0 {
		return nil, nil
	}

	const query = `
		query($teamId: String!) {
			team(id: $teamId) {
				labels(first: 250) {
					nodes { id name }
				}
			}
		}
	`

	result, err := c.Query(ctx, query, map[string]any{"teamId": teamID})
	if err != nil {
		return nil, err
	}

	available := jsonpath.Array(result, "data", "team", "labels", "nodes")

	resolved := make([]string, 0, len(labels))
	for _, label := range labels {
		if text.IsUUID(label) {
			resolved = append(resolved, label)
			continue
		}

		id := ""
		for _, node := range available {
			if strings.EqualFold(jsonpath.String(node, "", "name"), label) {
				id = jsonpath.String(node, "", "id")
				break
			}
		}
		if id == "" {
			return nil, clierr.New(clierr.CodeNotFound, "Label not found: %s", label)
		}
		resolved = append(resolved, id)
	}

	return resolved, nil
}

// ResolveGlobalLabelID resolves an issue label name to a UUID across
// the whole workspace, unscoped to any team.
func (c *Client) ResolveGlobalLabelID(ctx context.Context, label string) (string, error) {
	if text.IsUUID(label) {
		return label, nil
	}

	const query = `
		query {
			issueLabels(first: 250) {
				nodes { id name }
			}
		}
	`

	result, err := c.Query(ctx, query, nil)
	if err != nil {
		return "", err
	}

	for _, node := range jsonpath.Array(result, "data", "issueLabels", "nodes") {
		if strings.EqualFold(jsonpath.String(node, "", "name"), label) {
			if id := jsonpath.String(node, "", "id"); id != "" {
				return id, nil
			}
		}
	}

	return "", clierr.New(clierr.CodeNotFound, "Label not found: %s", label)
}

// ResolveUserID resolves a user name, email, or UUID to a UUID. The
// special value "me" resolves to the authenticated viewer.
func (c *Client) ResolveUserID(ctx context.Context, user string) (string, error) {
	if strings.EqualFold(user, "me") {
		result, err := c.Query(ctx, `query { viewer { id } }`, nil)
		if err != nil {
			return "", err
		}
		id := jsonpath.String(result, "", "data", "viewer", "id")
		if id == "" {
			return "", fmt.Errorf("could not fetch current user ID")
		}
		return id, nil
	}

	if text.IsUUID(user) {
		return user, nil
	}

	const query = `
		query {
			users(first: 250) {
				nodes { id name email }
			}
		}
	`

	result, err := c.Query(ctx, query, nil)
	if err != nil {
		return "", err
	}

	for _, node := range jsonpath.Array(result, "data", "users", "nodes") {
		name := jsonpath.String(node, "", "name")
		email := jsonpath.String(node, "", "email")
		if strings.EqualFold(name, user) || strings.EqualFold(email, user) {
			if id := jsonpath.String(node, "", "id"); id != "" {
				return id, nil
			}
		}
	}

	return "", clierr.New(clierr.CodeNotFound, "User not found: %s", user)
}

// ResolveProjectStatusID resolves a project status name or type (like
// "started") to a UUID. Type matches win over name matches.
func (c *Client) ResolveProjectStatusID(ctx context.Context, status string) (string, error) {
	if text.IsUUID(status) {
		return status, nil
	}

	const query = `
		query {
			projectStatuses(first: 100) {
				nodes { id name type }
			}
		}
	`

	result, err := c.Query(ctx, query, nil)
	if err != nil {
		return "", err
	}

	nodes := jsonpath.Array(result, "data", "projectStatuses", "nodes")
	for _, field := range []string{"type", "name"} {
		for _, node := range nodes {
			if strings.EqualFold(jsonpath.String(node, "", field), status) {
				if id := jsonpath.String(node, "", "id"); id != "" {
					return id, nil
				}
			}
		}
	}

	return "", clierr.New(clierr.CodeNotFound, "Project status not found: %s", status)
}
