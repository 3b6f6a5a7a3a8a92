// Package content loads the question manifests that define the brief and
// brief response pages of each framework.
package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed files
var files embed.FS

var ErrManifestNotFound = errors.New("manifest not found")

// ManifestSpec names one manifest to load. Dir is the framework directory the
// files live in, which later iterations of a framework may share.
type ManifestSpec struct {
	Framework   string
	Dir         string
	QuestionSet string
	Name        string
}

const (
	EditBrief                  = "edit_brief"
	EditBriefResponse          = "edit_brief_response"
	DisplayBriefResponse       = "display_brief_response"
	LegacyDisplayBriefResponse = "legacy_display_brief_response"
)

const (
	briefsQuestionSet          = "briefs"
	responsesQuestionSet       = "brief-responses"
	legacyResponsesQuestionSet = "legacy-brief-responses"

	dos  = "digital-outcomes-and-specialists"
	dos5 = "digital-outcomes-and-specialists-5"
)

func DefaultSpecs() []ManifestSpec {
	specs := []ManifestSpec{
		{dos, dos, legacyResponsesQuestionSet, LegacyDisplayBriefResponse},
	}
	for _, fw := range []string{dos, dos + "-2", dos + "-3", dos + "-4", dos5} {
		specs = append(specs,
			ManifestSpec{fw, dos5, briefsQuestionSet, EditBrief},
			ManifestSpec{fw, dos5, responsesQuestionSet, EditBriefResponse},
			ManifestSpec{fw, dos5, responsesQuestionSet, DisplayBriefResponse},
		)
	}
	return specs
}

// Loader parses its manifests once, on first use, and keeps them for the life
// of the process.
type Loader struct {
	fsys  fs.FS
	specs []ManifestSpec

	once      sync.Once
	err       error
	manifests map[string]*Manifest
}

func NewLoader(specs []ManifestSpec) *Loader {
	return NewLoaderFS(files, specs)
}

func NewLoaderFS(fsys fs.FS, specs []ManifestSpec) *Loader {
	return &Loader{fsys: fsys, specs: specs}
}

func (l *Loader) Manifest(framework, name string) (*Manifest, error) {
	const op = "content.Loader.Manifest"

	if err := l.Load(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m, ok := l.manifests[framework+"/"+name]
	if !ok {
		return nil, fmt.Errorf("%s: %s/%s: %w", op, framework, name, ErrManifestNotFound)
	}
	return m, nil
}

// Load parses every manifest. Only the first call does any work.
func (l *Loader) Load() error {
	l.once.Do(func() { l.err = l.load() })
	return l.err
}

func (l *Loader) load() error {
	const op = "content.Loader.load"

	l.manifests = make(map[string]*Manifest, len(l.specs))
	questions := make(map[string]*questionDef)

	for _, spec := range l.specs {
		root := path.Join("files", "frameworks", spec.Dir)

		var sections []*sectionDef
		if err := l.readYAML(path.Join(root, "manifests", spec.Name+".yml"), &sections); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		for _, s := range sections {
			for _, id := range s.Questions {
				q, err := l.question(questions, path.Join(root, "questions", spec.QuestionSet), id)
				if err != nil {
					return fmt.Errorf("%s: %s: %w", op, spec.Name, err)
				}
				s.questions = append(s.questions, q)
			}
		}

		l.manifests[spec.Framework+"/"+spec.Name] = &Manifest{
			framework: spec.Framework,
			name:      spec.Name,
			sections:  sections,
		}
	}

	return nil
}

func (l *Loader) question(cache map[string]*questionDef, dir, id string) (*questionDef, error) {
	file := path.Join(dir, id+".yml")
	if q, ok := cache[file]; ok {
		return q, nil
	}

	q := &questionDef{}
	if err := l.readYAML(file, q); err != nil {
		return nil, err
	}
	q.ID = id
	if err := q.compile(); err != nil {
		return nil, err
	}

	for _, nestedID := range q.Questions {
		nested, err := l.question(cache, dir, nestedID)
		if err != nil {
			return nil, err
		}
		q.nested = append(q.nested, nested)
	}

	cache[file] = q
	return q, nil
}

func (l *Loader) readYAML(name string, out any) error {
	raw, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
