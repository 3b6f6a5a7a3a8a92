package brief

import (
	"encoding/json"
	"fmt"
	"slices"
)

type Status string

const (
	StatusDraft        Status = "draft"
	StatusLive         Status = "live"
	StatusClosed       Status = "closed"
	StatusAwarded      Status = "awarded"
	StatusCancelled    Status = "cancelled"
	StatusUnsuccessful Status = "unsuccessful"
	StatusWithdrawn    Status = "withdrawn"
)

// PublishedStatuses are every status a brief can have once it has been
// published to suppliers.
var PublishedStatuses = []Status{
	StatusLive, StatusClosed, StatusAwarded, StatusCancelled, StatusUnsuccessful, StatusWithdrawn,
}

func StatusIn(s Status, allowed []Status) bool {
	return slices.Contains(allowed, s)
}

type FrameworkRef struct {
	Slug   string `json:"slug"`
	Family string `json:"family"`
	Name   string `json:"name"`
}

type BriefUser struct {
	ID           int    `json:"id"`
	EmailAddress string `json:"emailAddress"`
	Active       bool   `json:"active"`
}

type Brief struct {
	ID                                int          `json:"id"`
	Title                             string       `json:"title"`
	Status                            Status       `json:"status"`
	FrameworkSlug                     string       `json:"frameworkSlug"`
	FrameworkName                     string       `json:"frameworkName"`
	Framework                         FrameworkRef `json:"framework"`
	LotSlug                           string       `json:"lotSlug"`
	LotName                           string       `json:"lotName"`
	SpecialistRole                    string       `json:"specialistRole,omitempty"`
	EssentialRequirements             []string     `json:"essentialRequirements,omitempty"`
	NiceToHaveRequirements            []string     `json:"niceToHaveRequirements,omitempty"`
	ClarificationQuestionsAreClosed   bool         `json:"clarificationQuestionsAreClosed"`
	ClarificationQuestionsClosedAt    Timestamp    `json:"clarificationQuestionsClosedAt"`
	ClarificationQuestionsPublishedBy Timestamp    `json:"clarificationQuestionsPublishedBy"`
	ApplicationsClosedAt              Timestamp    `json:"applicationsClosedAt"`
	Users                             []BriefUser  `json:"users,omitempty"`

	// Data is the whole document as returned by the API. Question content is
	// keyed by question id and varies by lot.
	Data map[string]any `json:"-"`
}

func (b *Brief) UnmarshalJSON(raw []byte) error {
	type plain Brief
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("brief.Brief: %w", err)
	}
	if err := json.Unmarshal(raw, &p.Data); err != nil {
		return fmt.Errorf("brief.Brief: %w", err)
	}
	*b = Brief(p)
	return nil
}

// IsBlank reports whether key is present on the brief but holds no answer.
// Buyers can leave optional questions (nice-to-have requirements) empty.
func (b Brief) IsBlank(key string) bool {
	v, ok := b.Data[key]
	return ok && Falsy(v)
}

// ActiveUserEmails lists the addresses of the brief's active owners.
func (b Brief) ActiveUserEmails() []string {
	var emails []string
	for _, u := range b.Users {
		if u.Active {
			emails = append(emails, u.EmailAddress)
		}
	}
	return emails
}

// Falsy follows JSON truthiness: null, false, 0, "" and empty collections are
// falsy.
func Falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
