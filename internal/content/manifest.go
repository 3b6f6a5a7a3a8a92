package content

import (
	"regexp"
	"strings"
)

// Manifest is the parsed, unfiltered definition of a set of sections. It is
// shared between requests and never changed after loading.
type Manifest struct {
	framework string
	name      string
	sections  []*sectionDef
}

// Filter builds fresh per-request sections holding only the questions that
// apply to ctx. Sections left without questions are dropped.
func (m *Manifest) Filter(ctx Context) *Content {
	c := &Content{}
	for _, def := range m.sections {
		s := &Section{
			ID:            sectionSlug(def),
			Name:          def.Name,
			Description:   def.Description,
			Editable:      def.Editable,
			EditQuestions: def.EditQuestions,
		}
		for _, q := range def.questions {
			if q.applies(ctx) {
				s.Questions = append(s.Questions, newQuestion(q, ctx))
			}
		}
		if len(s.Questions) > 0 {
			c.Sections = append(c.Sections, s)
		}
	}
	return c
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func sectionSlug(def *sectionDef) string {
	if def.Slug != "" {
		return def.Slug
	}
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(def.Name), "-"), "-")
}

// Content is a manifest filtered for one request.
type Content struct {
	Sections []*Section
}

func (c *Content) Section(id string) *Section {
	for _, s := range c.Sections {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// NextEditableSectionID is the id of the first editable section, or "" when
// there is none.
func (c *Content) NextEditableSectionID() string {
	for _, s := range c.Sections {
		if s.Editable {
			return s.ID
		}
	}
	return ""
}

// InjectBriefQuestions gives every boolean list question the statements it
// asks about, taken from the brief.
func (c *Content) InjectBriefQuestions(brief map[string]any) {
	for _, s := range c.Sections {
		s.InjectBriefQuestions(brief)
	}
}

type SummarySection struct {
	ID        string
	Name      string
	Editable  bool
	Questions []SummaryQuestion
}

type SummaryQuestion struct {
	ID       string
	Type     string
	Label    string
	Answer   Answer
	Optional bool
}

// Summary pairs every question with its answer in data.
func (c *Content) Summary(data map[string]any) []SummarySection {
	summary := make([]SummarySection, 0, len(c.Sections))
	for _, s := range c.Sections {
		ss := SummarySection{ID: s.ID, Name: s.Name, Editable: s.Editable}
		for _, q := range s.Questions {
			ss.Questions = append(ss.Questions, SummaryQuestion{
				ID:       q.ID(),
				Type:     q.Type(),
				Label:    q.Label(),
				Answer:   q.Answer(data),
				Optional: q.Optional(),
			})
		}
		summary = append(summary, ss)
	}
	return summary
}

type Section struct {
	ID            string
	Name          string
	Description   string
	Editable      bool
	EditQuestions bool
	Questions     []Question
}

// Question finds a question by id, looking inside grouped questions too.
func (s *Section) Question(id string) Question {
	for _, q := range s.Questions {
		if q.ID() == id {
			return q
		}
		if m, ok := q.(*Multi); ok {
			for _, nested := range m.Questions {
				if nested.ID() == id {
					return nested
				}
			}
		}
	}
	return nil
}

func (s *Section) index(id string) int {
	for i, q := range s.Questions {
		if q.ID() == id {
			return i
		}
	}
	return -1
}

// NextQuestionID returns the id following id, the first id when id is empty,
// or "" at the end of the section.
func (s *Section) NextQuestionID(id string) string {
	if id == "" {
		if len(s.Questions) == 0 {
			return ""
		}
		return s.Questions[0].ID()
	}
	i := s.index(id)
	if i < 0 || i+1 >= len(s.Questions) {
		return ""
	}
	return s.Questions[i+1].ID()
}

// PreviousQuestionID returns the id before id, or "" for the first question.
func (s *Section) PreviousQuestionID(id string) string {
	i := s.index(id)
	if i <= 0 {
		return ""
	}
	return s.Questions[i-1].ID()
}

func (s *Section) InjectBriefQuestions(brief map[string]any) {
	for _, q := range s.Questions {
		if bl, ok := q.(*BooleanList); ok {
			bl.SetStatements(stringList(brief[bl.ID()]))
		}
	}
}
