// Package http provides the HTTP surface of the portfolio API.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/tanzim/portfolio-api/adapters/metrics"
	"github.com/tanzim/portfolio-api/app"
	"github.com/tanzim/portfolio-api/domain/document"
	"github.com/tanzim/portfolio-api/domain/resource"
	"github.com/tanzim/portfolio-api/ports"
)

const maxBodyBytes = 10 << 20 // 10MB

// VersionResponse represents the version endpoint response.
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
	Service string `json:"service" example:"portfolio-api"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// ResourceHandler serves the CRUD routes of every registered resource.
type ResourceHandler struct {
	service *app.ResourceService
	logger  zerolog.Logger
	metrics *metrics.Collector
	errs    errorWriter
}

// NewResourceHandler creates a resource handler. ids generates the
// correlation ids attached to internal errors; m may be nil.
func NewResourceHandler(service *app.ResourceService, logger zerolog.Logger, ids ports.IDGenerator, m *metrics.Collector) *ResourceHandler {
	return &ResourceHandler{
		service: service,
		logger:  logger,
		metrics: m,
		errs:    errorWriter{logger: logger, ids: ids},
	}
}

// Create inserts the request body as a new document.
//
//	@Summary		Create a document
//	@Description	Inserts the JSON object body into the resource collection. Server-set fields are stamped.
//	@Tags			Resources
//	@Accept			json
//	@Produce		json
//	@Param			resource	path		string				true	"Resource path, e.g. certificates"
//	@Success		200			{object}	ports.InsertResult	"Insert acknowledgment"
//	@Failure		400			{object}	ErrorResponseBody	"Body is not a JSON object"
//	@Failure		500			{object}	ErrorResponseBody	"Store failure"
//	@Router			/{resource} [post]
func (h *ResourceHandler) Create(def resource.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := decodeBody(r, def)
		if err != nil {
			h.fail(w, r, def, resource.OpCreate, err)
			return
		}

		res, err := h.service.Create(r.Context(), def, body)
		if err != nil {
			h.fail(w, r, def, resource.OpCreate, err)
			return
		}
		h.succeed(w, def, resource.OpCreate, res)
	}
}

// List returns every document of the resource, newest first.
//
//	@Summary		List documents
//	@Description	Returns the whole collection, newest first
//	@Tags			Resources
//	@Produce		json
//	@Param			resource	path		string					true	"Resource path"
//	@Success		200			{array}		map[string]interface{}	"Documents"
//	@Failure		500			{object}	ErrorResponseBody		"Store failure"
//	@Router			/{resource} [get]
func (h *ResourceHandler) List(def resource.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := h.service.List(r.Context(), def)
		if err != nil {
			h.fail(w, r, def, resource.OpList, err)
			return
		}
		h.succeed(w, def, resource.OpList, docs)
	}
}

// Update merges the request body into the document named by {id}.
//
//	@Summary		Update a document
//	@Description	Shallow merge of top-level fields. Soft-delete resources ignore the body and mark the document disabled.
//	@Tags			Resources
//	@Accept			json
//	@Produce		json
//	@Param			resource	path		string				true	"Resource path"
//	@Param			id			path		string				true	"Document ObjectID"
//	@Success		200			{object}	ports.UpdateResult	"Update acknowledgment"
//	@Failure		400			{object}	ErrorResponseBody	"Malformed id or body"
//	@Failure		404			{object}	ErrorResponseBody	"Document not found"
//	@Failure		500			{object}	ErrorResponseBody	"Store failure"
//	@Router			/{resource}/{id} [patch]
func (h *ResourceHandler) Update(def resource.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// A malformed id is reported before the body is read.
		id, err := h.service.ParseID(def, chi.URLParam(r, "id"))
		if err != nil {
			h.fail(w, r, def, resource.OpUpdate, err)
			return
		}

		var body document.Document
		if !def.SoftDelete {
			if body, err = decodeBody(r, def); err != nil {
				h.fail(w, r, def, resource.OpUpdate, err)
				return
			}
		}

		res, err := h.service.Update(r.Context(), def, id, body)
		if err != nil {
			h.fail(w, r, def, resource.OpUpdate, err)
			return
		}
		h.succeed(w, def, resource.OpUpdate, res)
	}
}

// Delete removes the document named by {id}.
//
//	@Summary		Delete a document
//	@Tags			Resources
//	@Produce		json
//	@Param			resource	path		string				true	"Resource path"
//	@Param			id			path		string				true	"Document ObjectID"
//	@Success		200			{object}	ports.DeleteResult	"Delete acknowledgment"
//	@Failure		400			{object}	ErrorResponseBody	"Malformed id"
//	@Failure		404			{object}	ErrorResponseBody	"Document not found"
//	@Failure		500			{object}	ErrorResponseBody	"Store failure"
//	@Router			/{resource}/{id} [delete]
func (h *ResourceHandler) Delete(def resource.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.service.Delete(r.Context(), def, chi.URLParam(r, "id"))
		if err != nil {
			h.fail(w, r, def, resource.OpDelete, err)
			return
		}
		h.succeed(w, def, resource.OpDelete, res)
	}
}

func (h *ResourceHandler) succeed(w http.ResponseWriter, def resource.Definition, op resource.Operation, v any) {
	h.count(def, op, "ok")
	writeJSON(w, http.StatusOK, v)
}

func (h *ResourceHandler) fail(w http.ResponseWriter, r *http.Request, def resource.Definition, op resource.Operation, err error) {
	_, detail := classify(err)
	h.count(def, op, detail.Code)
	h.errs.write(w, r, op.String(), err)
}

func (h *ResourceHandler) count(def resource.Definition, op resource.Operation, outcome string) {
	if h.metrics == nil {
		return
	}
	h.metrics.OperationsTotal.WithLabelValues(def.Name, op.String(), outcome).Inc()
}

// decodeBody reads a JSON object body. An empty body decodes to an empty
// document.
func decodeBody(r *http.Request, def resource.Definition) (document.Document, error) {
	if r.Body == nil {
		return document.Document{}, nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, invalidBody(def, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return document.Document{}, nil
	}

	var body document.Document
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, invalidBody(def, err)
	}
	if body == nil {
		// literal null
		return nil, invalidBody(def, errors.New("body is null"))
	}
	return body, nil
}

func invalidBody(def resource.Definition, cause error) error {
	return &app.Error{
		Kind:     app.ErrInvalidBody,
		Resource: def.Name,
		Message:  "Request body must be a JSON object",
		Err:      cause,
	}
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Liveness returns a simple liveness check.
//
//	@Summary		Liveness check
//	@Description	Returns OK if the service is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"status: ok"
//	@Router			/health [get]
//	@Router			/health/live [get]
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readiness checks the document store is reachable.
//
//	@Summary		Readiness check
//	@Description	Pings the document store
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse			"status: ok"
//	@Failure		503	{object}	map[string]interface{}	"status: unhealthy, error: message"
//	@Router			/health/ready [get]
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Version returns a handler reporting the service version.
//
//	@Summary		Get service version
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	VersionResponse	"Version information"
//	@Router			/version [get]
func Version(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, VersionResponse{
			Version: version,
			Service: "portfolio-api",
		})
	}
}

// Banner is the plain-text body of GET /.
const Banner = "The portfolio server is running"

func banner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, Banner)
}
