package briefs

import (
	"errors"
	"net/http"

	"brief_responses/internal/models/brief"
	"brief_responses/internal/storage/dataapi"
)

const (
	MsgApplicationSubmitted = "Your application has been submitted."
	MsgApplicationUpdated   = "Your application has been updated."
	MsgSubmissionProblem    = "There was a problem submitting your application."
	MsgSectionsIncomplete   = "You need to complete all the sections before you can submit your application."
	MsgOpportunityClosed    = "This opportunity has already closed for applications."
)

// ShowEditLinks reports whether answers on the review page can still be
// changed.
func ShowEditLinks(responseStatus brief.ResponseStatus, briefStatus brief.Status) bool {
	if briefStatus != brief.StatusLive {
		return false
	}
	return responseStatus == brief.ResponseDraft || responseStatus == brief.ResponseSubmitted
}

// SubmitMessage turns the outcome of a submission into the message shown to
// the supplier, or "" for success. Errors other than validation failures are
// returned as they are. logged is true when the failure should be logged.
func SubmitMessage(resp brief.Response, err error) (message string, logged bool, fatal error) {
	if err == nil {
		if resp.Status == brief.ResponseDraft {
			return MsgSubmissionProblem, false, nil
		}
		return "", false, nil
	}

	var httpErr *dataapi.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusBadRequest {
		return "", false, err
	}

	for _, code := range httpErr.FieldErrors() {
		if code == "answer_required" {
			return MsgSectionsIncomplete, false, nil
		}
	}

	return MsgSubmissionProblem, true, nil
}
