package content

import (
	"errors"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
)

func specialistBrief() map[string]any {
	return map[string]any{
		"id":                     1234.0,
		"specialistRole":         "developer",
		"startDate":              "next week",
		"essentialRequirements":  []any{"Good nose", "Good eyes"},
		"niceToHaveRequirements": []any{},
	}
}

func TestDefaultManifestsLoad(t *testing.T) {
	l := NewLoader(DefaultSpecs())
	if err := l.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, spec := range DefaultSpecs() {
		if _, err := l.Manifest(spec.Framework, spec.Name); err != nil {
			t.Errorf("Manifest(%s, %s): %v", spec.Framework, spec.Name, err)
		}
	}
}

func TestManifestNotFound(t *testing.T) {
	l := NewLoader(DefaultSpecs())
	_, err := l.Manifest("g-cloud-12", EditBriefResponse)
	if !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}

	// Legacy responses are only ever displayed.
	_, err = l.Manifest("digital-outcomes-and-specialists", "legacy_edit_brief_response")
	if !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("legacy edit manifest: expected ErrManifestNotFound, got %v", err)
	}
}

func TestFilterByLot(t *testing.T) {
	l := NewLoader(DefaultSpecs())
	m, err := l.Manifest("digital-outcomes-and-specialists-5", EditBriefResponse)
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}

	specialists := m.Filter(Context{Lot: "digital-specialists", Brief: specialistBrief(), MaxDayRate: "700"})
	section := specialists.Section(specialists.NextEditableSectionID())
	if section == nil || !section.Editable {
		t.Fatalf("expected an editable section, got %+v", specialists.Sections)
	}
	if got := section.NextQuestionID(""); got != "dayRate" {
		t.Fatalf("first question = %q, want dayRate", got)
	}
	if hint := section.Question("dayRate").Hint(); !strings.Contains(hint, "£700") {
		t.Fatalf("dayRate hint = %q", hint)
	}
	if label := section.Question("availability").Label(); label != "When can the specialist start work?" {
		t.Fatalf("availability label = %q", label)
	}

	outcomes := m.Filter(Context{Lot: "digital-outcomes", Brief: specialistBrief()})
	section = outcomes.Section(outcomes.NextEditableSectionID())
	if section.Question("dayRate") != nil {
		t.Fatalf("dayRate should only be asked on the specialists lot")
	}
	if got := section.NextQuestionID(""); got != "essentialRequirementsMet" {
		t.Fatalf("first question = %q, want essentialRequirementsMet", got)
	}
}

func TestSectionNavigation(t *testing.T) {
	l := NewLoader(DefaultSpecs())
	m, _ := l.Manifest("digital-outcomes-and-specialists-5", EditBriefResponse)
	c := m.Filter(Context{Lot: "digital-specialists", Brief: specialistBrief()})
	s := c.Section("apply")

	tests := []struct {
		id, next, previous string
	}{
		{"dayRate", "essentialRequirementsMet", ""},
		{"essentialRequirements", "niceToHaveRequirements", "essentialRequirementsMet"},
		{"respondToEmailAddress", "", "availability"},
		{"notAQuestion", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := s.NextQuestionID(tt.id); got != tt.next {
				t.Errorf("NextQuestionID(%s) = %q, want %q", tt.id, got, tt.next)
			}
			if got := s.PreviousQuestionID(tt.id); got != tt.previous {
				t.Errorf("PreviousQuestionID(%s) = %q, want %q", tt.id, got, tt.previous)
			}
		})
	}
}

const testManifest = `
- name: Everything
  editable: true
  questions:
    - name
    - colours
    - shape
    - notes
    - happy
    - requirements
    - evidence
    - contact
`

var testQuestions = map[string]string{
	"name":    "question: Name\ntype: text\n",
	"colours": "question: Colours\ntype: checkboxes\noptions:\n  - label: Red\n    value: red\n  - label: Blue\n    value: blue\n",
	"shape":   "question: Shape\ntype: radios\noptions:\n  - label: Round\n    value: round\n",
	"notes":   "question: Notes\ntype: list\n",
	"happy":   "question: Happy\ntype: boolean\n",
	"requirements": "question: Requirements\ntype: boolean_list\n" +
		"validations:\n  - name: answer_required\n    message: Answer every requirement.\n",
	"evidence": "question: Evidence\ntype: dynamic_list\ndynamic_field: brief.requirements\n" +
		"fields:\n  - id: yesNo\n    type: boolean\n  - id: evidence\n    type: textbox_large\n" +
		"    validations:\n      - name: under_100_words\n        message: Too long.\n",
	"contact": "question: Contact\ntype: multiquestion\nquestions:\n  - contactName\n  - contactEmail\n",
	"contactName":  "question: Contact name\ntype: text\n",
	"contactEmail": "question: Contact email\ntype: text\nvalidations:\n  - name: invalid_format\n    message: Enter a real email address.\n",
}

func testLoader(t *testing.T) *Content {
	t.Helper()
	fsys := fstest.MapFS{
		"files/frameworks/test/manifests/everything.yml": {Data: []byte(testManifest)},
	}
	for id, q := range testQuestions {
		fsys["files/frameworks/test/questions/things/"+id+".yml"] = &fstest.MapFile{Data: []byte(q)}
	}
	l := NewLoaderFS(fsys, []ManifestSpec{{Framework: "test", Dir: "test", QuestionSet: "things", Name: "everything"}})
	m, err := l.Manifest("test", "everything")
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	return m.Filter(Context{Brief: map[string]any{"requirements": []any{"Tall", "Fast"}}})
}

// Values replayed into the form must be what was typed, so unformatting the
// data read from a form gives back the form.
func TestGetDataRoundTrip(t *testing.T) {
	s := testLoader(t).Section("everything")

	tests := []struct {
		question string
		form     url.Values
		want     map[string]any
	}{
		{"name", url.Values{"name": {"Ada"}}, map[string]any{"name": "Ada"}},
		{"colours", url.Values{"colours": {"red", "blue"}}, map[string]any{"colours": []string{"red", "blue"}}},
		{"shape", url.Values{"shape": {"round"}}, map[string]any{"shape": "round"}},
		{"notes", url.Values{"notes": {"one", "", "two"}}, map[string]any{"notes": []string{"one", "two"}}},
		{"happy", url.Values{"happy": {"false"}}, map[string]any{"happy": false}},
		{
			"requirements",
			url.Values{"requirements-0": {"true"}, "requirements-1": {"false"}},
			map[string]any{"requirements-0": true, "requirements-1": false},
		},
		{
			"evidence",
			url.Values{"yesNo-0": {"true"}, "evidence-0": {"I am tall"}, "yesNo-1": {"false"}},
			map[string]any{"yesNo-0": true, "evidence-0": "I am tall", "yesNo-1": false},
		},
		{
			"contact",
			url.Values{"contactName": {"Ada"}, "contactEmail": {"ada@example.com"}},
			map[string]any{"contactName": "Ada", "contactEmail": "ada@example.com"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			q := s.Question(tt.question)
			if q == nil {
				t.Fatalf("no question %s", tt.question)
			}
			got := q.UnformatData(q.GetData(tt.form))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("UnformatData(GetData(form)) = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestEmptyAnswersAreCleared(t *testing.T) {
	s := testLoader(t).Section("everything")
	data := s.Question("name").GetData(url.Values{"name": {"  "}})
	if v, ok := data["name"]; !ok || v != nil {
		t.Fatalf("expected name to be sent as null, got %#v", data)
	}
	if got := s.Question("name").UnformatData(data); len(got) != 0 {
		t.Fatalf("expected nothing to display, got %#v", got)
	}
}

func TestErrorMessages(t *testing.T) {
	s := testLoader(t).Section("everything")

	errs := s.Question("requirements").ErrorMessages(map[string]any{"requirements": "answer_required"})
	if errs.For("requirements") != "Answer every requirement." {
		t.Fatalf("unexpected errors %+v", errs)
	}

	errs = s.Question("name").ErrorMessages(map[string]any{"name": "something_new"})
	if errs.For("name") != defaultErrorMessage {
		t.Fatalf("expected the default message, got %+v", errs)
	}

	errs = s.Question("evidence").ErrorMessages(map[string]any{"evidence": []any{
		map[string]any{"field": "evidence", "index": 1.0, "error": "under_100_words"},
	}})
	if len(errs) != 1 || errs.For("evidence-1") != "Too long." || errs[0].Question != "Fast" {
		t.Fatalf("unexpected errors %+v", errs)
	}

	for _, index := range []float64{-1, 7} {
		errs = s.Question("evidence").ErrorMessages(map[string]any{"evidence": []any{
			map[string]any{"field": "evidence", "index": index, "error": "under_100_words"},
		}})
		if len(errs) != 1 || errs[0].Question != s.Question("evidence").Label() {
			t.Fatalf("index %v: unexpected errors %+v", index, errs)
		}
	}

	errs = s.Question("contact").ErrorMessages(map[string]any{"contactEmail": "invalid_format"})
	if errs.For("contactEmail") != "Enter a real email address." {
		t.Fatalf("unexpected errors %+v", errs)
	}
}

func TestInjectBriefQuestionsUsesFreshQuestions(t *testing.T) {
	first, second := testLoader(t), testLoader(t)
	first.InjectBriefQuestions(map[string]any{"requirements": []any{"One", "Two", "Three"}})

	a := first.Section("everything").Question("requirements").(*BooleanList)
	b := second.Section("everything").Question("requirements").(*BooleanList)
	if len(a.Statements) != 3 || len(b.Statements) != 2 {
		t.Fatalf("statements leaked between requests: %v / %v", a.Statements, b.Statements)
	}
}

func TestSummary(t *testing.T) {
	c := testLoader(t)
	summary := c.Summary(map[string]any{
		"name":         "Ada",
		"colours":      []any{"blue"},
		"requirements": []any{true, false},
	})
	if len(summary) != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	answers := map[string]Answer{}
	for _, q := range summary[0].Questions {
		answers[q.ID] = q.Answer
	}
	if answers["name"].Value != "Ada" {
		t.Errorf("name = %+v", answers["name"])
	}
	if !reflect.DeepEqual(answers["colours"].Values, []string{"Blue"}) {
		t.Errorf("colours = %+v", answers["colours"])
	}
	want := []AnswerItem{{Label: "Tall", Value: "Yes"}, {Label: "Fast", Value: "No"}}
	if !reflect.DeepEqual(answers["requirements"].Items, want) {
		t.Errorf("requirements = %+v", answers["requirements"])
	}
	if !answers["shape"].Empty() {
		t.Errorf("shape should be unanswered, got %+v", answers["shape"])
	}
}
