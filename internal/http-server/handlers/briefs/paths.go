package briefs

import (
	"fmt"
	"net/url"
)

// Paths builds the URLs of the pages served under Prefix.
type Paths struct {
	Prefix string
}

func (p Paths) brief(briefID int) string {
	return fmt.Sprintf("%s/%d", p.Prefix, briefID)
}

func (p Paths) QuestionAndAnswerSession(briefID int) string {
	return p.brief(briefID) + "/question-and-answer-session"
}

func (p Paths) AskQuestion(briefID int) string {
	return p.brief(briefID) + "/ask-a-question"
}

func (p Paths) Start(briefID int) string {
	return p.brief(briefID) + "/responses/start"
}

func (p Paths) Result(briefID int) string {
	return p.brief(briefID) + "/responses/result"
}

func (p Paths) Response(briefID, responseID int) string {
	return fmt.Sprintf("%s/responses/%d", p.brief(briefID), responseID)
}

// Question is the wizard page for questionID, or the start of the wizard when
// it is empty.
func (p Paths) Question(briefID, responseID int, questionID string) string {
	if questionID == "" {
		return p.Response(briefID, responseID)
	}
	return p.Response(briefID, responseID) + "/" + url.PathEscape(questionID)
}

func (p Paths) Review(briefID, responseID int) string {
	return p.Response(briefID, responseID) + "/application"
}
