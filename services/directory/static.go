package directorysvc

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/feeledger/core/student"
)

// staticDirectory serves a fixed list; used when no directory API is configured and in tests.
type staticDirectory struct {
	students []student.Student
	err      error
}

var _ student.Directory = (*staticDirectory)(nil)

func NewStaticDirectory(students ...student.Student) student.Directory {
	return &staticDirectory{students: students}
}

// NewFailingDirectory always fails with err.
func NewFailingDirectory(err error) student.Directory {
	return &staticDirectory{err: err}
}

// LoadYAMLDirectory reads a YAML list of students ({code, name, grade}) from path.
func LoadYAMLDirectory(path string) (student.Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var students []student.Student
	if err = yaml.Unmarshal(data, &students); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return NewStaticDirectory(students...), nil
}

func (dir *staticDirectory) List(context.Context) ([]student.Student, error) {
	if dir.err != nil {
		return nil, dir.err
	}
	students := make([]student.Student, len(dir.students))
	copy(students, dir.students)
	return students, nil
}
