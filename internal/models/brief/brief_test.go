package brief

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBriefUnmarshalKeepsRawData(t *testing.T) {
	raw := `{
		"id": 1234,
		"title": "I need a thing",
		"status": "live",
		"frameworkSlug": "digital-outcomes-and-specialists-5",
		"framework": {"slug": "digital-outcomes-and-specialists-5", "family": "digital-outcomes-and-specialists"},
		"lotSlug": "digital-specialists",
		"essentialRequirements": ["Good nose"],
		"niceToHaveRequirements": [],
		"applicationsClosedAt": "2017-06-08T10:26:21.538917Z",
		"users": [{"emailAddress": "buyer@example.gov.uk", "active": true}, {"emailAddress": "old@example.gov.uk", "active": false}]
	}`
	var b Brief
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b.ID != 1234 || b.Status != StatusLive {
		t.Fatalf("unexpected brief %+v", b)
	}
	if !b.IsBlank("niceToHaveRequirements") {
		t.Fatalf("expected empty nice-to-have requirements to be a blank key")
	}
	if b.IsBlank("essentialRequirements") {
		t.Fatalf("essential requirements are answered")
	}
	if b.IsBlank("respondToEmailAddress") {
		t.Fatalf("missing keys are not blank")
	}
	want := time.Date(2017, 6, 8, 10, 26, 21, 538917000, time.UTC)
	if !b.ApplicationsClosedAt.Equal(want) {
		t.Fatalf("applicationsClosedAt = %s, want %s", b.ApplicationsClosedAt, want)
	}
	if got := b.ApplicationsClosedAt.DateFormat(); got != "Thursday 8 June 2017" {
		t.Fatalf("DateFormat() = %q", got)
	}
	emails := b.ActiveUserEmails()
	if len(emails) != 1 || emails[0] != "buyer@example.gov.uk" {
		t.Fatalf("ActiveUserEmails() = %v", emails)
	}
}

func TestResponseShape(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Shape
		display string
	}{
		{"current", `{"id": 5, "essentialRequirementsMet": true}`, ShapeCurrent, "display_brief_response"},
		{"current with null", `{"id": 5, "essentialRequirementsMet": null}`, ShapeCurrent, "display_brief_response"},
		{"legacy", `{"id": 5, "essentialRequirements": [true]}`, ShapeLegacy, "legacy_display_brief_response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Response
			if err := json.Unmarshal([]byte(tt.raw), &r); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if r.Shape() != tt.want {
				t.Fatalf("Shape() = %s, want %s", r.Shape(), tt.want)
			}
			if r.Shape().DisplayManifest() != tt.display {
				t.Fatalf("DisplayManifest() = %s", r.Shape().DisplayManifest())
			}
		})
	}
}

func TestFalsy(t *testing.T) {
	for _, v := range []any{nil, false, 0.0, "", []any{}, map[string]any{}} {
		if !Falsy(v) {
			t.Fatalf("expected %#v to be falsy", v)
		}
	}
	for _, v := range []any{true, 1.0, "x", []any{"a"}, map[string]any{"a": 1}} {
		if Falsy(v) {
			t.Fatalf("expected %#v to be truthy", v)
		}
	}
}

func TestServiceMaxDayRate(t *testing.T) {
	s := Service{"developerPriceMax": "700"}
	if got := s.MaxDayRate("developer"); got != "700" {
		t.Fatalf("MaxDayRate = %v", got)
	}
	if got := s.MaxDayRate(""); got != nil {
		t.Fatalf("expected nil without a role, got %v", got)
	}
}
