package linear

import (
	"encoding/json"
	"fmt"
)

// Typed views of the GraphQL nodes commands work with. Raw nodes travel
// as map[string]any; Decode converts one when a command needs struct
// access.

// PageInfo is the cursor block on every connection.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// Team is a Linear team.
type Team struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
}

// WorkflowState is an issue state within a team.
type WorkflowState struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Color    string  `json:"color"`
	Position float64 `json:"position"`
}

// User is a workspace member.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Active      bool   `json:"active"`
	Admin       bool   `json:"admin"`
}

// Label is an issue label.
type Label struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// Issue is a Linear issue. Nested objects stay partial: only the
// fields the commands select.
type Issue struct {
	ID         string         `json:"id"`
	Identifier string         `json:"identifier"`
	Title      string         `json:"title"`
	Priority   float64        `json:"priority"`
	Estimate   float64        `json:"estimate"`
	BranchName string         `json:"branchName"`
	URL        string         `json:"url"`
	DueDate    string         `json:"dueDate"`
	State      *WorkflowState `json:"state"`
	Assignee   *User          `json:"assignee"`
	Team       *Team          `json:"team"`
}

// Project is a Linear project.
type Project struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	State       string  `json:"state"`
	Progress    float64 `json:"progress"`
	TargetDate  string  `json:"targetDate"`
	URL         string  `json:"url"`
}

// Comment is an issue comment.
type Comment struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
	User      *User  `json:"user"`
}

// Document is a Linear doc.
type Document struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	URL       string `json:"url"`
	UpdatedAt string `json:"updatedAt"`
}

// Cycle is a team iteration.
type Cycle struct {
	ID       string  `json:"id"`
	Number   float64 `json:"number"`
	Name     string  `json:"name"`
	StartsAt string  `json:"startsAt"`
	EndsAt   string  `json:"endsAt"`
	Progress float64 `json:"progress"`
}

// Initiative groups projects.
type Initiative struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	TargetDate  string `json:"targetDate"`
}

// CustomView is a saved filter view.
type CustomView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ModelName   string `json:"modelName"`
	Shared      bool   `json:"shared"`
}

// Attachment links external content to an issue.
type Attachment struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Organization is the workspace itself.
type Organization struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	URLKey     string  `json:"urlKey"`
	UserCount  float64 `json:"userCount"`
	CreatedAt  string  `json:"createdAt"`
	SAMLEnable bool    `json:"samlEnabled"`
}

// Decode converts a raw GraphQL node into a typed record.
func Decode[T any](node any) (T, error) {
	var out T

	raw, err := json.Marshal(node)
	if err != nil {
		return out, fmt.Errorf("encoding node: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decoding node: %w", err)
	}
	return out, nil
}
