package briefs

import (
	"context"
	serrors "errors"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"brief_responses/internal/lib/errors"
	"brief_responses/internal/lib/logger/sl"
	"brief_responses/internal/models/brief"
	"brief_responses/internal/models/user"
	"brief_responses/internal/notify"
	"brief_responses/internal/storage/dataapi"
)

const (
	MaxQuestionLength = 5000
	MaxQuestionWords  = 100

	MsgQuestionRequired = "Enter your question"
	MsgQuestionTooLong  = "Your question must be 5000 characters or fewer"
	MsgQuestionTooWordy = "Your question must be 100 words or fewer"
)

type ClarificationForm struct {
	Question string `validate:"required,max=5000,maxwords=100"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("maxwords", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(strings.Fields(fl.Field().String())) <= limit
	})
	return v
}

var questionMessages = map[string]string{
	"required": MsgQuestionRequired,
	"max":      MsgQuestionTooLong,
	"maxwords": MsgQuestionTooWordy,
}

// ValidateClarificationQuestion trims the question and returns it with the
// message for the first rule it breaks, or "" when it is acceptable.
func ValidateClarificationQuestion(question string) (string, string) {
	form := ClarificationForm{Question: strings.TrimSpace(question)}

	err := validate.Struct(form)
	if err == nil {
		return form.Question, ""
	}

	var fieldErrs validator.ValidationErrors
	if serrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if msg, ok := questionMessages[fieldErrs[0].Tag()]; ok {
			return form.Question, msg
		}
	}
	return form.Question, MsgQuestionRequired
}

// ClarificationSentMessage is flashed once a question has been passed on.
func ClarificationSentMessage(b brief.Brief) string {
	return fmt.Sprintf("Your question has been sent. The buyer will post your question and their answer on the ‘%s’ page.", b.Title)
}

type EmailSender interface {
	SendEmail(ctx context.Context, email notify.Email) (string, error)
}

type AuditRecorder interface {
	CreateAuditEvent(ctx context.Context, event dataapi.AuditEvent) error
}

type ClarificationSender struct {
	log                  *slog.Logger
	emails               EmailSender
	audit                AuditRecorder
	questionTemplate     string
	confirmationTemplate string
	webURL               string
}

func NewClarificationSender(
	log *slog.Logger,
	emails EmailSender,
	audit AuditRecorder,
	questionTemplate, confirmationTemplate, webURL string,
) *ClarificationSender {
	return &ClarificationSender{
		log:                  log,
		emails:               emails,
		audit:                audit,
		questionTemplate:     questionTemplate,
		confirmationTemplate: confirmationTemplate,
		webURL:               strings.TrimRight(webURL, "/"),
	}
}

// Send emails the question to the brief's owners, records it and sends the
// supplier a copy. Failing to reach any owner aborts with
// ErrUpstreamUnavailable before anything is recorded. A failed copy to the
// supplier is only logged.
func (s *ClarificationSender) Send(ctx context.Context, b brief.Brief, u user.User, question string) error {
	const op = "briefs.ClarificationSender.Send"

	log := s.log.With(
		slog.String("op", op),
		slog.Int("brief_id", b.ID),
		slog.Int("supplier_id", u.SupplierID()),
	)

	message := html.EscapeString(question)

	for _, address := range b.ActiveUserEmails() {
		_, err := s.emails.SendEmail(ctx, notify.Email{
			To:         address,
			TemplateID: s.questionTemplate,
			Personalisation: map[string]string{
				"brief_title":     b.Title,
				"brief_name":      b.Title,
				"message":         message,
				"publish_by_date": b.ClarificationQuestionsPublishedBy.DateFormat(),
				"questions_url":   s.QuestionsURL(b),
			},
			Reference: "clarification-question-" + notify.HashString(address),
		})
		if err != nil {
			log.Error("brief question email failed to send", sl.Err(err))
			return fmt.Errorf("%s: %w: %w", op, errors.ErrUpstreamUnavailable, err)
		}
	}

	err := s.audit.CreateAuditEvent(ctx, dataapi.AuditEvent{
		Type:       dataapi.AuditSendClarificationQuestion,
		User:       u.EmailAddress,
		ObjectType: "briefs",
		ObjectID:   b.ID,
		Data: map[string]any{
			"question":   question,
			"briefId":    b.ID,
			"supplierId": u.SupplierID(),
		},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.emails.SendEmail(ctx, notify.Email{
		To:         u.EmailAddress,
		TemplateID: s.confirmationTemplate,
		Personalisation: map[string]string{
			"brief_name": b.Title,
			"message":    message,
			"brief_url":  s.BriefURL(b),
		},
		Reference: "clarification-question-confirmation-" + notify.HashString(u.EmailAddress),
	})
	if err != nil {
		log.Error("brief question supplier email failed to send", sl.Err(err))
	}

	return nil
}

// QuestionsURL is the buyer's page for answering supplier questions.
func (s *ClarificationSender) QuestionsURL(b brief.Brief) string {
	return fmt.Sprintf("%s/buyers/frameworks/%s/requirements/%s/%d/supplier-questions",
		s.webURL, b.Framework.Slug, b.LotSlug, b.ID)
}

// BriefURL is the public page of the opportunity.
func (s *ClarificationSender) BriefURL(b brief.Brief) string {
	return s.webURL + PublicBriefPath(b)
}

// PublicBriefPath is the path of the public opportunity page, relative to the
// marketplace root.
func PublicBriefPath(b brief.Brief) string {
	return fmt.Sprintf("/%s/opportunities/%d", b.Framework.Family, b.ID)
}
