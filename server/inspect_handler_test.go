package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"mediascope/config"
	"mediascope/core/inspect"
	"mediascope/model"
	"mediascope/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService replays a canned outcome and mirrors the real service's output
// writer contract.
type fakeService struct {
	out        io.Writer
	resp       *model.InfoResponse
	err        error
	inline     []byte
	diagnostic []byte
	gotReq     *model.InfoRequest
}

func (f *fakeService) GetInfo(req *model.InfoRequest) (*model.InfoResponse, error) {
	f.gotReq = req
	if f.err != nil {
		if len(f.diagnostic) > 0 {
			f.out.Write(f.diagnostic)
		}
		return nil, f.err
	}
	if len(f.inline) > 0 {
		f.out.Write(f.inline)
	}
	return f.resp, nil
}

func newTestHandler(svc *fakeService) *server.APIHandler {
	factory := func(out io.Writer) inspect.Service {
		svc.out = out
		return svc
	}
	cfg := &config.Config{Engine: "mediainfo", CacheDisabled: true}
	return server.NewAPIHandler(factory, nil, cfg)
}

func postInspect(t *testing.T, h *server.APIHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/inspect", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.InspectHandler(rec, req)
	return rec
}

func TestInspectInline(t *testing.T) {
	svc := &fakeService{
		resp:   &model.InfoResponse{},
		inline: []byte(`{"media":{}}`),
	}
	h := newTestHandler(svc)

	rec := postInspect(t, h, `{"input":"clip.mp4"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"media":{}}`, rec.Body.String())

	require.NotNil(t, svc.gotReq)
	assert.Equal(t, model.FormatJSON, svc.gotReq.Format)
	assert.Nil(t, svc.gotReq.OutputFile)
}

func TestInspectToFile(t *testing.T) {
	path := "report.xml"
	svc := &fakeService{
		resp: &model.InfoResponse{Output: model.InfoOutput{File: &path}},
	}
	h := newTestHandler(svc)

	rec := postInspect(t, h, `{"input":"clip.mp4","format":"xml","output_file":"report"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp model.InfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Output.File)
	assert.Equal(t, "report.xml", *resp.Output.File)

	require.NotNil(t, svc.gotReq)
	assert.Equal(t, model.FormatXML, svc.gotReq.Format)
	require.NotNil(t, svc.gotReq.OutputFile)
	assert.Equal(t, "report", *svc.gotReq.OutputFile)
}

func TestInspectCommandErrorSurfacesDiagnostic(t *testing.T) {
	svc := &fakeService{
		err:        &inspect.CommandError{Message: "command execution returned error status"},
		diagnostic: []byte("Error: unknown file format"),
	}
	h := newTestHandler(svc)

	rec := postInspect(t, h, `{"input":"broken.mp4"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp struct {
		Error      string `json:"error"`
		Diagnostic string `json:"diagnostic"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "command error")
	assert.Equal(t, "Error: unknown file format", resp.Diagnostic)
}

func TestInspectToFileCommandErrorSurfacesDiagnostic(t *testing.T) {
	svc := &fakeService{
		err:        &inspect.CommandError{Message: "command execution returned error status"},
		diagnostic: []byte("Error: unknown file format"),
	}
	h := newTestHandler(svc)

	rec := postInspect(t, h, `{"input":"broken.mp4","output_file":"report"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp struct {
		Error      string `json:"error"`
		Diagnostic string `json:"diagnostic"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "command error")
	assert.Equal(t, "Error: unknown file format", resp.Diagnostic)
}

func TestInspectIOError(t *testing.T) {
	svc := &fakeService{
		err: &inspect.IOError{Message: "could not write report to report.json"},
	}
	h := newTestHandler(svc)

	rec := postInspect(t, h, `{"input":"clip.mp4","output_file":"report"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestInspectValidation(t *testing.T) {
	h := newTestHandler(&fakeService{resp: &model.InfoResponse{}})

	rec := postInspect(t, h, `{"format":"json"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing input")

	rec = postInspect(t, h, `{"input":"clip.mp4","format":"yaml"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unsupported format")

	rec = postInspect(t, h, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "malformed body")
}

func TestHistoryEndpointsWithoutRepository(t *testing.T) {
	h := newTestHandler(&fakeService{resp: &model.InfoResponse{}})

	req := httptest.NewRequest(http.MethodGet, "/api/inspections", nil)
	rec := httptest.NewRecorder()
	h.ListInspectionsHandler(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	h := newTestHandler(&fakeService{resp: &model.InfoResponse{}})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.HealthHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var status map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "mediainfo", status["engine"])
	assert.Equal(t, "disabled", status["history"])
}

// stubRepo satisfies the repository interface for handler tests.
type stubRepo struct{}

func (stubRepo) Create(*model.InspectionRecord) error { return nil }

func (stubRepo) GetByID(int64) (*model.InspectionRecord, error) { return nil, nil }

func (stubRepo) ListRecent(int) ([]*model.InspectionRecord, error) { return nil, nil }

func TestHealthHandlerWithHistory(t *testing.T) {
	svc := &fakeService{resp: &model.InfoResponse{}}
	factory := func(out io.Writer) inspect.Service {
		svc.out = out
		return svc
	}
	cfg := &config.Config{Engine: "mediainfo", CacheDisabled: true}
	h := server.NewAPIHandler(factory, stubRepo{}, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.HealthHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var status map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status["history"])
}
