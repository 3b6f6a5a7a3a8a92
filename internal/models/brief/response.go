package brief

import (
	"encoding/json"
	"fmt"
)

type ResponseStatus string

const (
	ResponseDraft          ResponseStatus = "draft"
	ResponseSubmitted      ResponseStatus = "submitted"
	ResponsePendingAwarded ResponseStatus = "pending-awarded"
	ResponseAwarded        ResponseStatus = "awarded"
)

// DashboardResponseStatuses are the response statuses listed on the dashboard.
var DashboardResponseStatuses = []ResponseStatus{
	ResponseDraft, ResponseSubmitted, ResponsePendingAwarded, ResponseAwarded,
}

// Shape distinguishes responses created before the API started computing
// essentialRequirementsMet from current ones.
type Shape int

const (
	ShapeCurrent Shape = iota
	ShapeLegacy
)

func (s Shape) String() string {
	if s == ShapeLegacy {
		return "legacy"
	}
	return "current"
}

// DisplayManifest is the content manifest used to show a response of this shape.
func (s Shape) DisplayManifest() string {
	if s == ShapeLegacy {
		return "legacy_display_brief_response"
	}
	return "display_brief_response"
}

// BriefSummary is the cut-down brief embedded in response listings.
type BriefSummary struct {
	ID                   int       `json:"id"`
	Title                string    `json:"title"`
	Status               Status    `json:"status"`
	FrameworkSlug        string    `json:"frameworkSlug"`
	ApplicationsClosedAt Timestamp `json:"applicationsClosedAt"`
}

type Response struct {
	ID                       int            `json:"id"`
	BriefID                  int            `json:"briefId"`
	SupplierID               int            `json:"supplierId"`
	SupplierName             string         `json:"supplierName,omitempty"`
	Status                   ResponseStatus `json:"status"`
	EssentialRequirementsMet *bool          `json:"essentialRequirementsMet,omitempty"`
	SubmittedAt              Timestamp      `json:"submittedAt"`
	Brief                    BriefSummary   `json:"brief"`

	// Data holds the whole document, answers included, keyed by question id.
	Data map[string]any `json:"-"`
}

func (r *Response) UnmarshalJSON(raw []byte) error {
	type plain Response
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("brief.Response: %w", err)
	}
	if err := json.Unmarshal(raw, &p.Data); err != nil {
		return fmt.Errorf("brief.Response: %w", err)
	}
	*r = Response(p)
	return nil
}

func (r Response) Shape() Shape {
	if _, ok := r.Data["essentialRequirementsMet"]; ok {
		return ShapeCurrent
	}
	return ShapeLegacy
}

// Answers returns the response document, or an empty map for a fresh draft.
func (r Response) Answers() map[string]any {
	if r.Data == nil {
		return map[string]any{}
	}
	return r.Data
}
