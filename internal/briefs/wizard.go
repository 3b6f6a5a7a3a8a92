package briefs

import (
	"slices"

	"brief_responses/internal/content"
	"brief_responses/internal/models/brief"
)

// Statuses a brief can be in for each page of an application.
var (
	EditStatuses   = []brief.Status{brief.StatusLive}
	ReviewStatuses = []brief.Status{
		brief.StatusLive, brief.StatusClosed, brief.StatusAwarded, brief.StatusCancelled, brief.StatusUnsuccessful,
	}
	ResultStatuses = brief.PublishedStatuses
)

// Skipped reports whether a question is left out of the flow because the
// buyer did not fill in the brief field it responds to. Briefs and responses
// share question ids for this, e.g. niceToHaveRequirements.
func Skipped(b brief.Brief, questionID string) bool {
	return questionID != "" && b.IsBlank(questionID)
}

// NextQuestionID steps over at most one skipped question.
func NextQuestionID(section *content.Section, b brief.Brief, questionID string) string {
	next := section.NextQuestionID(questionID)
	if Skipped(b, next) {
		next = section.NextQuestionID(next)
	}
	return next
}

// PreviousQuestionID steps back over at most one skipped question.
func PreviousQuestionID(section *content.Section, b brief.Brief, questionID string) string {
	previous := section.PreviousQuestionID(questionID)
	if Skipped(b, previous) {
		previous = section.PreviousQuestionID(previous)
	}
	return previous
}

// WithoutSkipped drops the questions the buyer left out of the brief from a
// summary of answers.
func WithoutSkipped(b brief.Brief, sections []content.SummarySection) []content.SummarySection {
	result := make([]content.SummarySection, 0, len(sections))
	for _, s := range sections {
		s.Questions = slices.DeleteFunc(slices.Clone(s.Questions), func(q content.SummaryQuestion) bool {
			return Skipped(b, q.ID)
		})
		result = append(result, s)
	}
	return result
}

// FrameworkEditable reports whether answers can be changed on a framework and
// returns the brief's lot on it.
func FrameworkEditable(f brief.Framework, lotSlug string) (brief.Lot, bool) {
	if !slices.Contains(brief.EditableFrameworkStatuses, f.Status) {
		return brief.Lot{}, false
	}
	return f.Lot(lotSlug)
}

