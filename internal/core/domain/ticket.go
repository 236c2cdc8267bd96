package domain

import (
	"sort"
	"strings"
	"time"
)

// Unassigned is the sentinel assignee for tickets that have no assignee in
// the tracker. It is selectable like any real team member.
const Unassigned = "Unassigned"

// completionStatuses is the fixed set of workflow status names that count as
// completed work. Matching is case-insensitive.
var completionStatuses = map[string]bool{
	"closed":   true,
	"done":     true,
	"resolved": true,
}

// Ticket is one normalized row from the tracker. IsClosed is derived from
// Status once, at normalization time, and never recomputed.
type Ticket struct {
	Key      string `json:"key"`
	Type     string `json:"type"`
	Assignee string `json:"assignee"`
	Status   string `json:"status"`
	IsClosed bool   `json:"isClosed"`
}

// NewTicket normalizes one raw tracker record into a Ticket. An empty
// assignee maps to the Unassigned sentinel.
func NewTicket(key, issueType, assignee, status string) Ticket {
	if assignee == "" {
		assignee = Unassigned
	}
	return Ticket{
		Key:      key,
		Type:     issueType,
		Assignee: assignee,
		Status:   status,
		IsClosed: IsCompletedStatus(status),
	}
}

// IsCompletedStatus reports whether a workflow status name counts as
// completed work.
func IsCompletedStatus(status string) bool {
	return completionStatuses[strings.ToLower(status)]
}

// MatchesCategory reports whether the ticket belongs to the given category.
// Membership is a case-insensitive substring test against the issue type, so
// "ANZ - Display" and "UK - Display" both match "Display". Categories
// intentionally overlap; they are not a partition.
func (t Ticket) MatchesCategory(category string) bool {
	return strings.Contains(strings.ToLower(t.Type), strings.ToLower(category))
}

// Snapshot is the immutable result of one fetch from the tracker. It is
// replaced wholesale on refresh; nothing updates it in place.
type Snapshot struct {
	Tickets   []Ticket
	FetchedAt time.Time
}

// IsEmpty reports whether the snapshot holds no tickets.
func (s Snapshot) IsEmpty() bool {
	return len(s.Tickets) == 0
}

// Assignees returns the sorted distinct assignee values in the snapshot,
// including the Unassigned sentinel when present.
func (s Snapshot) Assignees() []string {
	seen := make(map[string]bool, len(s.Tickets))
	names := make([]string, 0, len(s.Tickets))
	for _, t := range s.Tickets {
		if !seen[t.Assignee] {
			seen[t.Assignee] = true
			names = append(names, t.Assignee)
		}
	}
	sort.Strings(names)
	return names
}

// HasAssignee reports whether the given assignee appears in the snapshot.
func (s Snapshot) HasAssignee(assignee string) bool {
	for _, t := range s.Tickets {
		if t.Assignee == assignee {
			return true
		}
	}
	return false
}
