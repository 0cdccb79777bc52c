package student

import (
	"context"
	"sort"

	"github.com/trezcool/feeledger/core"
)

// Student is the directory's view of a learner. Code is the join key with fee records.
type Student struct {
	Code  string `json:"code" yaml:"code"`
	Name  string `json:"name" yaml:"name"`
	Grade string `json:"grade" yaml:"grade"`
}

// Directory is the external Student Directory.
type Directory interface {
	List(ctx context.Context) ([]Student, error)
}

// Lookup indexes students by code. The zero value is an empty, usable Lookup.
type Lookup struct {
	byCode map[string]Student
}

func NewLookup(students []Student) Lookup {
	byCode := make(map[string]Student, len(students))
	for _, s := range students {
		if _, ok := byCode[s.Code]; !ok { // first one wins
			byCode[s.Code] = s
		}
	}
	return Lookup{byCode: byCode}
}

// Load fetches the directory into a Lookup.
// On failure it returns an empty Lookup along with a *core.ExternalLookupError; callers may log and proceed.
func Load(ctx context.Context, dir Directory) (Lookup, error) {
	if dir == nil {
		return Lookup{}, nil
	}
	students, err := dir.List(ctx)
	if err != nil {
		return Lookup{}, core.NewExternalLookupError("student directory", err)
	}
	return NewLookup(students), nil
}

func (l Lookup) Get(code string) (Student, bool) {
	s, ok := l.byCode[code]
	return s, ok
}

// Name returns the student's name or "" when unknown.
func (l Lookup) Name(code string) string {
	return l.byCode[code].Name
}

// Grade returns the student's grade or "" when unknown.
func (l Lookup) Grade(code string) string {
	return l.byCode[code].Grade
}

func (l Lookup) Len() int { return len(l.byCode) }

// Grades returns the sorted set of non-empty grades.
func (l Lookup) Grades() []string {
	seen := make(map[string]struct{})
	grades := make([]string, 0)
	for _, s := range l.byCode {
		if s.Grade == "" {
			continue
		}
		if _, ok := seen[s.Grade]; !ok {
			seen[s.Grade] = struct{}{}
			grades = append(grades, s.Grade)
		}
	}
	sort.Strings(grades)
	return grades
}
