package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"mediascope/cache"
	"mediascope/config"
	"mediascope/core/inspect"
	"mediascope/db"
	"mediascope/logger"
	"mediascope/model"
	"mediascope/repository"
	"mediascope/storage"

	"github.com/gorilla/mux"
)

// ServiceFactory builds an extraction service bound to a per-request output
// writer. The underlying command manager is verified once at startup.
type ServiceFactory func(out io.Writer) inspect.Service

// APIHandler handles all API requests.
type APIHandler struct {
	newService ServiceFactory
	repo       repository.InspectionRepository // nil when history is disabled
	cfg        *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(factory ServiceFactory, repo repository.InspectionRepository, cfg *config.Config) *APIHandler {
	return &APIHandler{
		newService: factory,
		repo:       repo,
		cfg:        cfg,
	}
}

type errorResponse struct {
	Error      string `json:"error"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

// InspectHandler runs one extraction. Inline requests answer with the raw
// tool report; file requests answer with the written report path.
func (h *APIHandler) InspectHandler(w http.ResponseWriter, r *http.Request) {
	var req model.InfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Input == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "input is required"})
		return
	}
	format, err := model.ParseInfoFormat(string(req.Format))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	req.Format = format

	full := true
	if req.Full != nil {
		full = *req.Full
	}

	if req.OutputFile == nil {
		h.inspectInline(w, r, &req, full)
		return
	}
	h.inspectToFile(w, r, &req, full)
}

func (h *APIHandler) inspectInline(w http.ResponseWriter, r *http.Request, req *model.InfoRequest, full bool) {
	if cached := cache.GetReport(r.Context(), req.Input, req.Format, full); cached != nil {
		w.Header().Set("Content-Type", req.Format.ContentType())
		w.Header().Set("X-Cache", "HIT")
		w.Write(cached)
		return
	}

	var report bytes.Buffer
	svc := h.newService(&report)

	start := time.Now()
	_, err := svc.GetInfo(req)
	h.record(req, full, "", "", time.Since(start), err)
	if err != nil {
		// On a failed run the buffer holds the tool's own diagnostic text.
		h.writeInspectError(w, err, report.String())
		return
	}

	ttl := time.Duration(h.cfg.CacheTTLSecs) * time.Second
	cache.SetReport(r.Context(), req.Input, req.Format, full, report.Bytes(), ttl)

	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Write(report.Bytes())
}

func (h *APIHandler) inspectToFile(w http.ResponseWriter, r *http.Request, req *model.InfoRequest, full bool) {
	// The writer stays empty on success, but a failed run dumps the tool's
	// stdout diagnostic into it, same as the inline path.
	var report bytes.Buffer
	svc := h.newService(&report)

	start := time.Now()
	resp, err := svc.GetInfo(req)
	if err != nil {
		h.record(req, full, "", "", time.Since(start), err)
		h.writeInspectError(w, err, report.String())
		return
	}

	reportPath := ""
	if resp.Output.File != nil {
		reportPath = *resp.Output.File
	}

	archiveURL := ""
	if h.cfg.ArchiveReports && reportPath != "" {
		object, err := storage.UploadReport(r.Context(), h.cfg.MinioBucket, reportPath, req.Format)
		if err != nil {
			logger.Warn("report archive failed", logger.String("path", reportPath), logger.ErrorField(err))
		} else {
			archiveURL = object
		}
	}

	h.record(req, full, reportPath, archiveURL, time.Since(start), nil)
	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) writeInspectError(w http.ResponseWriter, err error, diagnostic string) {
	var cmdErr *inspect.CommandError
	if errors.As(err, &cmdErr) {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: cmdErr.Error(), Diagnostic: diagnostic})
		return
	}
	var ioErr *inspect.IOError
	if errors.As(err, &ioErr) {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: ioErr.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// record logs the run to the inspection history when a repository is
// configured.
func (h *APIHandler) record(req *model.InfoRequest, full bool, reportPath, archiveURL string, dur time.Duration, runErr error) {
	if h.repo == nil {
		return
	}

	record := &model.InspectionRecord{
		Input:      req.Input,
		Engine:     h.cfg.Engine,
		Format:     req.Format,
		Full:       full,
		ReportPath: reportPath,
		ArchiveURL: archiveURL,
		Status:     model.InspectionCompleted,
		DurationMs: dur.Milliseconds(),
	}
	if runErr != nil {
		record.Status = model.InspectionFailed
		record.Error = runErr.Error()
	}

	if err := h.repo.Create(record); err != nil {
		logger.Warn("failed to record inspection", logger.ErrorField(err))
	}
}

// ListInspectionsHandler returns recent extraction runs.
func (h *APIHandler) ListInspectionsHandler(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "inspection history is not enabled"})
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := h.repo.ListRecent(limit)
	if err != nil {
		logger.Error("failed to list inspections", logger.ErrorField(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list inspections"})
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// GetInspectionHandler returns one extraction run by id.
func (h *APIHandler) GetInspectionHandler(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "inspection history is not enabled"})
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid inspection id"})
		return
	}

	record, err := h.repo.GetByID(id)
	if err != nil {
		logger.Error("failed to load inspection", logger.Int64("id", id), logger.ErrorField(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load inspection"})
		return
	}
	if record == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "inspection not found"})
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// HealthHandler reports service liveness and collaborator status.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status": "ok",
		"engine": h.cfg.Engine,
	}

	if cache.RedisClient != nil {
		if _, err := cache.RedisClient.Ping(r.Context()).Result(); err != nil {
			status["cache"] = "unreachable"
		} else {
			status["cache"] = "ok"
		}
	} else {
		status["cache"] = "disabled"
	}

	if h.repo == nil {
		status["history"] = "disabled"
	} else {
		status["history"] = "ok"
		if db.GormDB != nil {
			sqlDB, err := db.GormDB.DB()
			if err != nil || sqlDB.PingContext(r.Context()) != nil {
				status["history"] = "unreachable"
			}
		}
	}

	writeJSON(w, http.StatusOK, status)
}
