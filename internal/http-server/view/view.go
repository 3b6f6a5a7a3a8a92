// Package view renders the HTML pages of the service.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/gorilla/csrf"

	"brief_responses/internal/http-server/middleware/auth"
	"brief_responses/internal/lib/logger/sl"
	"brief_responses/internal/models/brief"
	"brief_responses/internal/models/user"
)

//go:embed templates
var templates embed.FS

const (
	PageQuestionAndAnswer = "question_and_answer_session"
	PageClarification     = "clarification_question"
	PageStart             = "start_brief_response"
	PageEditQuestion      = "edit_brief_response_question"
	PageCheckAnswers      = "check_your_answers"
	PageSubmitted         = "application_submitted"
	PageNotEligible       = "not_eligible_for_brief"
	PageDashboard         = "opportunities_dashboard"
	pageError             = "error"
)

type Flasher interface {
	Flashes(w http.ResponseWriter, r *http.Request) map[string][]string
}

// Page is what every template is executed with. Data holds the page's own
// values.
type Page struct {
	Title     string
	Prefix    string
	CSRFField template.HTML
	Flashes   map[string][]string
	User      user.User
	Data      any
}

type Renderer struct {
	log     *slog.Logger
	flashes Flasher
	prefix  string
	pages   map[string]*template.Template
}

func New(log *slog.Logger, flashes Flasher, prefix string) (*Renderer, error) {
	const op = "view.New"

	names, err := fs.Glob(templates, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templates,
			"templates/layout.html", "templates/partials/*.html", name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		pages[strings.TrimSuffix(path.Base(name), ".html")] = t
	}

	return &Renderer{log: log, flashes: flashes, prefix: prefix, pages: pages}, nil
}

// Render writes a page with the given status. Pending flash messages are
// shown and cleared.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	const op = "view.Render"

	t, ok := v.pages[name]
	if !ok {
		v.log.Error("unknown page", slog.String("op", op), slog.String("page", name))
		v.Error(w, r, http.StatusInternalServerError)
		return
	}

	page := Page{
		Title:     title,
		Prefix:    v.prefix,
		CSRFField: csrf.TemplateField(r),
		Flashes:   v.flashes.Flashes(w, r),
		Data:      data,
	}
	if u, ok := auth.User(r); ok {
		page.User = u
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, page); err != nil {
		v.log.Error("failed to render page", slog.String("op", op), slog.String("page", name), sl.Err(err))
		if name != pageError {
			v.Error(w, r, http.StatusInternalServerError)
		}
		return
	}

	render.Status(r, status)
	render.HTML(w, r, buf.String())
}

type errorPage struct {
	Status  int
	Heading string
	Message string
}

var errorPages = map[int]errorPage{
	http.StatusBadRequest: {
		Heading: "There was a problem with your request",
		Message: "Please try again.",
	},
	http.StatusForbidden: {
		Heading: "You don’t have permission to see this page",
		Message: "Check you are logged in with the right account.",
	},
	http.StatusNotFound: {
		Heading: "Page not found",
		Message: "If you typed the web address, check it is correct. If you pasted the web address, check you copied the entire address.",
	},
	http.StatusGone: {
		Heading: "Page no longer available",
		Message: "The page you are looking for is no longer available.",
	},
	http.StatusInternalServerError: {
		Heading: "Sorry, we’re experiencing technical difficulties",
		Message: "Please try again later.",
	},
	http.StatusServiceUnavailable: {
		Heading: "Sorry, we’re experiencing technical difficulties",
		Message: "Please try again later.",
	},
}

// Error renders the fixed page for status. Statuses without a page of their
// own keep their code but show the internal error page.
func (v *Renderer) Error(w http.ResponseWriter, r *http.Request, status int) {
	if status < http.StatusBadRequest || status > 599 {
		status = http.StatusInternalServerError
	}
	p, ok := errorPages[status]
	if !ok {
		p = errorPages[http.StatusInternalServerError]
	}
	p.Status = status
	v.Render(w, r, status, pageError, p.Heading, p)
}

var funcs = template.FuncMap{
	"dateformat": func(t brief.Timestamp) string { return t.DateFormat() },
	// value is the form value of an input as text.
	"value": func(values map[string]any, input string) string {
		switch v := values[input].(type) {
		case string:
			return v
		case bool:
			return strconv.FormatBool(v)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
		return ""
	},
	// checked reports whether input holds want, or contains it for lists.
	"checked": func(values map[string]any, input, want string) bool {
		switch v := values[input].(type) {
		case string:
			return v == want
		case bool:
			return strconv.FormatBool(v) == want
		case []string:
			for _, s := range v {
				if s == want {
					return true
				}
			}
		}
		return false
	},
	"list": func(values map[string]any, input string) []string {
		v, _ := values[input].([]string)
		return v
	},
	"dict": func(pairs ...any) (map[string]any, error) {
		if len(pairs)%2 != 0 {
			return nil, fmt.Errorf("dict: odd number of arguments")
		}
		m := make(map[string]any, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			key, ok := pairs[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
			}
			m[key] = pairs[i+1]
		}
		return m, nil
	},
}
