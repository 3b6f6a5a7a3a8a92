package content

import (
	"net/url"
	"strings"
	"text/template"
)

const defaultErrorMessage = "There was a problem with the answer to this question."

// Question turns submitted form fields into API data and back, and explains
// API validation errors. Form values are keyed by input name.
type Question interface {
	ID() string
	Type() string
	Label() string
	Hint() string
	Optional() bool
	// GetData reads the question's inputs from a submitted form.
	GetData(form url.Values) map[string]any
	// UnformatData turns stored data into the values shown in the form inputs.
	UnformatData(data map[string]any) map[string]any
	// ErrorMessages explains the API's validation payload for this question.
	ErrorMessages(payload map[string]any) Errors
	Answer(data map[string]any) Answer
}

type FieldError struct {
	Input    string
	Question string
	Message  string
}

type Errors []FieldError

// For returns the message for a form input, if it has one.
func (e Errors) For(input string) string {
	for _, fe := range e {
		if fe.Input == input {
			return fe.Message
		}
	}
	return ""
}

// Answer is a display form of stored data.
type Answer struct {
	Value  string
	Values []string
	Items  []AnswerItem
}

type AnswerItem struct {
	Label string
	Value string
}

func (a Answer) Empty() bool {
	return a.Value == "" && len(a.Values) == 0 && len(a.Items) == 0
}

// Context is what a manifest is filtered against.
type Context struct {
	Lot        string
	Brief      map[string]any
	MaxDayRate any
}

type factory func(def *questionDef, ctx Context) Question

var registry = map[string]factory{}

func register(kinds []string, f factory) {
	for _, k := range kinds {
		registry[k] = f
	}
}

func newQuestion(def *questionDef, ctx Context) Question {
	return registry[def.Type](def, ctx)
}

type base struct {
	id       string
	kind     string
	label    string
	hint     string
	optional bool
	messages map[string]string
}

func newBase(def *questionDef, ctx Context) base {
	messages := make(map[string]string, len(def.messages))
	for code, t := range def.messages {
		messages[code] = execute(t, ctx)
	}
	return base{
		id:       def.ID,
		kind:     def.Type,
		label:    execute(def.label, ctx),
		hint:     execute(def.hint, ctx),
		optional: def.Optional,
		messages: messages,
	}
}

func execute(t *template.Template, ctx Context) string {
	var b strings.Builder
	if err := t.Execute(&b, ctx); err != nil {
		return ""
	}
	return b.String()
}

func (b *base) ID() string     { return b.id }
func (b *base) Type() string   { return b.kind }
func (b *base) Label() string  { return b.label }
func (b *base) Hint() string   { return b.hint }
func (b *base) Optional() bool { return b.optional }

func (b *base) message(code string) string {
	if m, ok := b.messages[code]; ok {
		return m
	}
	return defaultErrorMessage
}

func (b *base) ErrorMessages(payload map[string]any) Errors {
	code, ok := payload[b.id].(string)
	if !ok {
		return nil
	}
	return Errors{{Input: b.id, Question: b.label, Message: b.message(code)}}
}
