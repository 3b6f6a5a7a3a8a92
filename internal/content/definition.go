package content

import (
	"fmt"
	"strings"
	"text/template"
)

type sectionDef struct {
	Name          string   `yaml:"name"`
	Slug          string   `yaml:"slug"`
	Editable      bool     `yaml:"editable"`
	EditQuestions bool     `yaml:"edit_questions"`
	Description   string   `yaml:"description"`
	Questions     []string `yaml:"questions"`

	questions []*questionDef
}

type dependDef struct {
	On    string   `yaml:"on"`
	Being []string `yaml:"being"`
}

type optionDef struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

type validationDef struct {
	Name    string `yaml:"name"`
	Message string `yaml:"message"`
}

// fieldDef is one column of a dynamic list.
type fieldDef struct {
	ID          string          `yaml:"id"`
	Type        string          `yaml:"type"`
	Question    string          `yaml:"question"`
	Validations []validationDef `yaml:"validations"`
}

type questionDef struct {
	ID           string          `yaml:"id"`
	Question     string          `yaml:"question"`
	Name         string          `yaml:"name"`
	Hint         string          `yaml:"hint"`
	Type         string          `yaml:"type"`
	Optional     bool            `yaml:"optional"`
	Prefix       string          `yaml:"prefix"`
	Depends      []dependDef     `yaml:"depends"`
	Options      []optionDef     `yaml:"options"`
	Validations  []validationDef `yaml:"validations"`
	Questions    []string        `yaml:"questions"`
	Fields       []fieldDef      `yaml:"fields"`
	DynamicField string          `yaml:"dynamic_field"`

	label       *template.Template
	hint        *template.Template
	fieldLabels map[string]*template.Template
	messages    map[string]*template.Template
	nested      []*questionDef
}

// compile parses the templated text of the question once, at load time.
// Templates are only ever executed afterwards, which is safe to share.
func (d *questionDef) compile() error {
	const op = "content.questionDef.compile"

	if _, ok := registry[d.Type]; !ok {
		return fmt.Errorf("%s: %s: unknown question type %q", op, d.ID, d.Type)
	}

	var err error
	if d.label, err = parseTemplate(d.ID+".question", d.Question); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if d.hint, err = parseTemplate(d.ID+".hint", d.Hint); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	d.fieldLabels = make(map[string]*template.Template, len(d.Fields))
	for _, f := range d.Fields {
		if d.fieldLabels[f.ID], err = parseTemplate(d.ID+"."+f.ID, f.Question); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	d.messages = make(map[string]*template.Template)
	add := func(prefix string, validations []validationDef) error {
		for _, v := range validations {
			t, err := parseTemplate(d.ID+"."+prefix+v.Name, v.Message)
			if err != nil {
				return err
			}
			d.messages[prefix+v.Name] = t
		}
		return nil
	}
	if err := add("", d.Validations); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, f := range d.Fields {
		if err := add(f.ID+".", f.Validations); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func parseTemplate(name, text string) (*template.Template, error) {
	return template.New(name).Option("missingkey=zero").Parse(strings.TrimSpace(text))
}

// applies reports whether the question is shown for the given context.
// Only lot dependencies are supported.
func (d *questionDef) applies(ctx Context) bool {
	for _, dep := range d.Depends {
		if dep.On != "lot" {
			continue
		}
		found := false
		for _, lot := range dep.Being {
			if lot == ctx.Lot {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
