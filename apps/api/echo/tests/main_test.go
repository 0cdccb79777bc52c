package tests

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	. "github.com/trezcool/feeledger/apps/api/echo"
	"github.com/trezcool/feeledger/core"
	"github.com/trezcool/feeledger/core/academic"
	"github.com/trezcool/feeledger/core/fee"
	"github.com/trezcool/feeledger/core/feehead"
	"github.com/trezcool/feeledger/core/report"
	"github.com/trezcool/feeledger/core/student"
	directorysvc "github.com/trezcool/feeledger/services/directory"
	gatewaysvc "github.com/trezcool/feeledger/services/gateway"
	inmemdb "github.com/trezcool/feeledger/storage/database/inmem"
	"github.com/trezcool/feeledger/tests"
)

var (
	app         Server
	academicSvc *academic.Service
	feeSvc      *fee.Service
	feeRepo     fee.Repository

	issuedAt = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	students = []student.Student{
		{Code: "S001", Name: "Jane Doe", Grade: "Grade 1"},
		{Code: "S002", Name: "John Smith", Grade: "Grade 2"},
	}
)

func TestMain(m *testing.M) {
	resetApp()
	os.Exit(m.Run())
}

// resetApp serves a fresh, empty ledger.
func resetApp() {
	validate, translator := testutil.NewValidator()
	db := inmemdb.Open()
	logger := new(testutil.Logger)
	dir := directorysvc.NewStaticDirectory(students...)

	academicSvc = academic.NewService(inmemdb.NewAcademicRepository(db), validate)
	feeRepo = inmemdb.NewFeeRepository(db)
	feeSvc = fee.NewService(fee.Deps{
		Repo:      feeRepo,
		Periods:   academicSvc,
		Directory: dir,
		IDs:       &testutil.IDs{At: issuedAt},
		Syncer:    gatewaysvc.NewConsoleSyncerMock(logger),
		Validate:  validate,
		Logger:    logger,
	})

	app = NewServer(ServerDeps{
		Conf:        &core.Config{AppName: "Fee Ledger", TestMode: true},
		Logger:      logger,
		Validate:    validate,
		Translator:  translator,
		AcademicSvc: academicSvc,
		FeeHeadSvc:  feehead.NewService(inmemdb.NewFeeHeadRepository(db), validate),
		FeeSvc:      feeSvc,
		ReportSvc: report.NewService(report.Deps{
			Fees:           feeSvc,
			Periods:        academicSvc,
			Directory:      dir,
			Validate:       validate,
			Logger:         logger,
			DefaulterLimit: 5,
		}),
		DisableReqLogs: true,
	})
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte // nil: only the status code is checked
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

// newUploadRequest posts a multipart form holding `file` (skipped when filename is empty) and `period_ids`.
func newUploadRequest(t *testing.T, path, filename, content string, periodIDs ...string) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("newUploadRequest(): %v", err)
		}
		if _, err = part.Write([]byte(content)); err != nil {
			t.Fatalf("newUploadRequest(): %v", err)
		}
	}
	for _, id := range periodIDs {
		if err := w.WriteField("period_ids", id); err != nil {
			t.Fatalf("newUploadRequest(): %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("newUploadRequest(): %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, httptest.NewRecorder()
}

func serve(tt httpTest) *httptest.ResponseRecorder {
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newRequest(method, tt.path, tt.body)
	app.ServeHTTP(rec, req)
	return rec
}

func runTests(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, serve(tt))
		})
	}
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func unmarshall(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshall(%s): %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func Test_home(t *testing.T) {
	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
	}
	if got, want := rec.Body.String(), "Welcome to Fee Ledger API!"; got != want {
		t.Errorf("failed! data = %q; wantData %q", got, want)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("failed! missing X-Request-ID")
	}
}
