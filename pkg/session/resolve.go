package session

import (
	"context"
	"strings"

	"github.com/linctl/linctl/pkg/cache"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/text"
)

// Cached resolver wrappers. Each consults the resolution cache before
// the API and stores fresh resolutions on the way out. UUIDs bypass
// both.

func (s *Session) resolve(ctx context.Context, kind, key string, lookup func() (string, error)) (string, error) {
	if text.IsUUID(key) {
		return key, nil
	}

	if c := s.Cache(); c != nil {
		if id, ok := c.Get(ctx, kind, key); ok {
			return id, nil
		}
	}

	id, err := lookup()
	if err != nil {
		return "", err
	}

	if c := s.Cache(); c != nil {
		if err := c.Put(ctx, kind, key, id); err != nil {
			s.Log.Warn("caching resolution failed", "kind", kind, "error", err)
		}
	}
	return id, nil
}

// ResolveTeamID resolves a team key or name, consulting the cache.
func (s *Session) ResolveTeamID(ctx context.Context, client *linear.Client, team string) (string, error) {
	return s.resolve(ctx, cache.KindTeam, team, func() (string, error) {
		return client.ResolveTeamID(ctx, team)
	})
}

// ResolveIssueID resolves an issue identifier, consulting the cache.
func (s *Session) ResolveIssueID(ctx context.Context, client *linear.Client, issue string, includeArchived bool) (string, error) {
	return s.resolve(ctx, "issue", issue, func() (string, error) {
		return client.ResolveIssueID(ctx, issue, includeArchived)
	})
}

// ResolveProjectID resolves a project name, consulting the cache.
func (s *Session) ResolveProjectID(ctx context.Context, client *linear.Client, project string, includeArchived bool) (string, error) {
	return s.resolve(ctx, cache.KindProject, project, func() (string, error) {
		return client.ResolveProjectID(ctx, project, includeArchived)
	})
}

// ResolveUserID resolves a user reference. "me" is never cached: the
// env key can switch accounts between runs.
func (s *Session) ResolveUserID(ctx context.Context, client *linear.Client, user string) (string, error) {
	if strings.EqualFold(user, "me") {
		return client.ResolveUserID(ctx, user)
	}
	return s.resolve(ctx, cache.KindUser, user, func() (string, error) {
		return client.ResolveUserID(ctx, user)
	})
}

// ResolveStateID resolves a workflow state name within a team,
// consulting the cache with a team-scoped key.
func (s *Session) ResolveStateID(ctx context.Context, client *linear.Client, teamID, state string) (string, error) {
	return s.resolve(ctx, cache.KindState, teamID+"/"+state, func() (string, error) {
		return client.ResolveStateID(ctx, teamID, state)
	})
}

// ResolveLabelIDs resolves label names within a team, consulting the
// cache per label.
func (s *Session) ResolveLabelIDs(ctx context.Context, client *linear.Client, teamID string, labels []string) ([]string, error) {
	resolved := make([]string, 0, len(labels))
	var missing []string

	for _, label := range labels {
		if text.IsUUID(label) {
			resolved = append(resolved, label)
			continue
		}
		if c := s.Cache(); c != nil {
			if id, ok := c.Get(ctx, cache.KindLabel, teamID+"/"+label); ok {
				resolved = append(resolved, id)
				continue
			}
		}
		missing = append(missing, label)
		resolved = append(resolved, "")
	}

	if len(missing) == 0 {
		return resolved, nil
	}

	ids, err := client.ResolveLabelIDs(ctx, teamID, missing)
	if err != nil {
		return nil, err
	}

	next := 0
	for i, id := range resolved {
		if id != "" {
			continue
		}
		resolved[i] = ids[next]
		if c := s.Cache(); c != nil {
			if err := c.Put(ctx, cache.KindLabel, teamID+"/"+missing[next], ids[next]); err != nil {
				s.Log.Warn("caching resolution failed", "kind", cache.KindLabel, "error", err)
			}
		}
		next++
	}
	return resolved, nil
}

// ResolveInitiativeID resolves an initiative name, consulting the cache.
func (s *Session) ResolveInitiativeID(ctx context.Context, client *linear.Client, initiative string, includeArchived bool) (string, error) {
	return s.resolve(ctx, "initiative", initiative, func() (string, error) {
		return client.ResolveInitiativeID(ctx, initiative, includeArchived)
	})
}

// ResolveCycleID resolves a cycle name or number within a team,
// consulting the cache with a team-scoped key.
func (s *Session) ResolveCycleID(ctx context.Context, client *linear.Client, teamID, cycle string) (string, error) {
	return s.resolve(ctx, "cycle", teamID+"/"+cycle, func() (string, error) {
		return client.ResolveCycleID(ctx, teamID, cycle)
	})
}

// ResolveGlobalLabelID resolves an issue label across the workspace,
// consulting the cache.
func (s *Session) ResolveGlobalLabelID(ctx context.Context, client *linear.Client, label string) (string, error) {
	return s.resolve(ctx, cache.KindLabel, label, func() (string, error) {
		return client.ResolveGlobalLabelID(ctx, label)
	})
}

// ResolveProjectStatusID resolves a project status name or type,
// consulting the cache.
func (s *Session) ResolveProjectStatusID(ctx context.Context, client *linear.Client, status string) (string, error) {
	return s.resolve(ctx, cache.KindProjectStatus, status, func() (string, error) {
		return client.ResolveProjectStatusID(ctx, status)
	})
}
