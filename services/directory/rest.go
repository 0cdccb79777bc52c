package directorysvc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/feeledger/core/student"
)

// restDirectory reads students from the school's REST API: GET {baseURL}/students/.
type restDirectory struct {
	baseURL string
	client  *http.Client
}

var _ student.Directory = (*restDirectory)(nil)

func NewRESTDirectory(baseURL string, timeout time.Duration) student.Directory {
	return &restDirectory{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// apiStudent is the wire format of the directory.
type apiStudent struct {
	StudentCode string `json:"student_code"`
	Name        string `json:"name"`
	Grade       string `json:"grade"`
}

func (dir *restDirectory) List(ctx context.Context) ([]student.Student, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dir.baseURL+"/students/", nil)
	if err != nil {
		return nil, errors.Wrap(err, "building directory request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := dir.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "requesting students")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("directory responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload []apiStudent
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decoding students")
	}
	students := make([]student.Student, 0, len(payload))
	for _, s := range payload {
		students = append(students, student.Student{Code: s.StudentCode, Name: s.Name, Grade: s.Grade})
	}
	return students, nil
}
