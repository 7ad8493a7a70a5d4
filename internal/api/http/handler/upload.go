package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/imagerelay/internal/logger"
	"github.com/dtroode/imagerelay/internal/metrics"
	"github.com/dtroode/imagerelay/internal/model"
)

// Messages returned in the "error" field of JSON responses.
const (
	MsgMethodNotAllowed = "Method not allowed"
	MsgFileRequired     = "File is required."
	MsgParseError       = "Error parsing form data"
	MsgNotConfigured    = "Storage is not configured"
	MsgAccessDenied     = "Storage access denied"
	MsgUnavailable      = "Storage unavailable"
	MsgUploadFailed     = "Error uploading file"
	MsgNotFound         = "File not found"
)

// UploadService relays uploaded files to object storage.
type UploadService interface {
	Upload(ctx context.Context, params model.UploadParams) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

// Upload handles the upload endpoint.
type Upload struct {
	uploadService UploadService
	tempDir       string
	metrics       *metrics.Recorder
	logger        *logger.Logger
}

// NewUpload creates a new Upload handler. Temporary files go to tempDir,
// or to the system default when it is empty.
func NewUpload(uploadService UploadService, tempDir string, metrics *metrics.Recorder, logger *logger.Logger) *Upload {
	return &Upload{
		uploadService: uploadService,
		tempDir:       tempDir,
		metrics:       metrics,
		logger:        logger,
	}
}

// Upload accepts a single multipart file field named "file" and stores it.
func (h *Upload) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		return
	}

	file, err := receiveFile(r, h.tempDir)
	if errors.Is(err, errNoFile) {
		h.metrics.Upload(metrics.ResultBadRequest)
		writeError(w, http.StatusBadRequest, MsgFileRequired)
		return
	}
	if err != nil {
		h.logger.Warn("failed to parse upload form", "error", err)
		h.metrics.Upload(metrics.ResultParseError)
		writeError(w, http.StatusInternalServerError, MsgParseError)
		return
	}
	defer func() {
		if err := file.remove(); err != nil {
			h.logger.Error("failed to clean up upload", "path", file.path, "error", err)
		}
	}()

	data, err := os.ReadFile(file.path)
	if err != nil {
		h.logger.Error("failed to read spooled upload", "path", file.path, "error", err)
		h.metrics.Upload(metrics.ResultParseError)
		writeError(w, http.StatusInternalServerError, MsgParseError)
		return
	}

	key, err := h.uploadService.Upload(r.Context(), model.UploadParams{FileName: file.name, Data: data})
	if err != nil {
		status, msg := storageErrorResponse(err)
		h.logger.Error("failed to store upload",
			"file_name", file.name,
			"kind", model.StorageErrorKindOf(err).String(),
			"status", status,
			"error", err)
		if status == http.StatusBadRequest {
			h.metrics.Upload(metrics.ResultBadRequest)
		} else {
			h.metrics.Upload(metrics.ResultStorageError)
		}
		writeError(w, status, msg)
		return
	}

	h.metrics.Upload(metrics.ResultSuccess)
	h.metrics.UploadSize(len(data))
	writeJSON(w, http.StatusOK, model.UploadResponse{Success: true, FileName: key})
}

// Download streams the object stored under the {key} URL parameter.
func (h *Upload) Download(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	// chi matches on RawPath when it is set, leaving the parameter escaped.
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(key); err == nil {
			key = unescaped
		}
	}

	rc, err := h.uploadService.Download(r.Context(), key)
	if errors.Is(err, model.ErrNotFound) {
		writeError(w, http.StatusNotFound, MsgNotFound)
		return
	}
	if err != nil {
		status, msg := storageErrorResponse(err)
		h.logger.Error("failed to download object", "key", key, "error", err)
		writeError(w, status, msg)
		return
	}
	defer rc.Close()

	br := bufio.NewReader(rc)
	head, _ := br.Peek(512)
	w.Header().Set("Content-Type", http.DetectContentType(head))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, br); err != nil {
		h.logger.Warn("failed to stream object", "key", key, "error", err)
	}
}

// storageErrorResponse maps a failure of the storage step to a status and message.
func storageErrorResponse(err error) (int, string) {
	if errors.Is(err, model.ErrFileRequired) {
		return http.StatusBadRequest, MsgFileRequired
	}

	switch model.StorageErrorKindOf(err) {
	case model.StorageErrorConfiguration:
		return http.StatusInternalServerError, MsgNotConfigured
	case model.StorageErrorPermission:
		return http.StatusBadGateway, MsgAccessDenied
	case model.StorageErrorNetwork:
		return http.StatusServiceUnavailable, MsgUnavailable
	default:
		return http.StatusBadGateway, MsgUploadFailed
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}
