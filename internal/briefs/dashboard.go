package briefs

import (
	"slices"
	"time"

	"brief_responses/internal/models/brief"
)

// DraftWindow is how long drafts stay on the dashboard after their brief
// closed.
const DraftWindow = 14 * 24 * time.Hour

type Row struct {
	Response brief.Response
	Label    string
}

type Dashboard struct {
	Drafts    []Row
	Completed []Row
}

// BuildDashboard splits responses into drafts and completed applications.
// Drafts for briefs that closed more than DraftWindow before now are dropped.
// Both lists are sorted by closing date, latest first.
func BuildDashboard(responses []brief.Response, now time.Time) Dashboard {
	var d Dashboard
	cutoff := now.Add(-DraftWindow)

	for _, r := range responses {
		if r.Status == brief.ResponseDraft {
			if r.Brief.Status == brief.StatusLive || r.Brief.ApplicationsClosedAt.After(cutoff) {
				d.Drafts = append(d.Drafts, Row{Response: r})
			}
			continue
		}
		d.Completed = append(d.Completed, Row{Response: r, Label: StatusLabel(r.Brief.Status, r.Status)})
	}

	byClosingDate := func(a, b Row) int {
		return b.Response.Brief.ApplicationsClosedAt.Compare(a.Response.Brief.ApplicationsClosedAt.Time)
	}
	slices.SortStableFunc(d.Drafts, byClosingDate)
	slices.SortStableFunc(d.Completed, byClosingDate)

	return d
}

// StatusLabel describes a completed application.
func StatusLabel(briefStatus brief.Status, responseStatus brief.ResponseStatus) string {
	switch briefStatus {
	case brief.StatusCancelled:
		return "Opportunity cancelled"
	case brief.StatusUnsuccessful:
		return "Not won"
	case brief.StatusWithdrawn:
		return "Opportunity withdrawn"
	case brief.StatusAwarded:
		if responseStatus == brief.ResponseAwarded {
			return "Won"
		}
		return "Not won"
	default:
		return "Submitted"
	}
}
