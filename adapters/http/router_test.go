package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/tanzim/portfolio-api/adapters/clock"
	apihttp "github.com/tanzim/portfolio-api/adapters/http"
	"github.com/tanzim/portfolio-api/adapters/idgen"
	"github.com/tanzim/portfolio-api/adapters/memory"
	"github.com/tanzim/portfolio-api/adapters/metrics"
	"github.com/tanzim/portfolio-api/app"
	"github.com/tanzim/portfolio-api/domain/document"
	"github.com/tanzim/portfolio-api/domain/resource"
	"github.com/tanzim/portfolio-api/ports"
)

var baseTime = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

// brokenStore fails every call.
type brokenStore struct{}

var errBroken = errors.New("server selection timeout")

func (brokenStore) Insert(context.Context, string, document.Document) (ports.InsertResult, error) {
	return ports.InsertResult{}, errBroken
}
func (brokenStore) List(context.Context, string) ([]document.Document, error) { return nil, errBroken }
func (brokenStore) Update(context.Context, string, string, document.Document) (ports.UpdateResult, error) {
	return ports.UpdateResult{}, errBroken
}
func (brokenStore) Delete(context.Context, string, string) (ports.DeleteResult, error) {
	return ports.DeleteResult{}, errBroken
}
func (brokenStore) Ping(context.Context) error  { return errBroken }
func (brokenStore) Close(context.Context) error { return nil }

func setupRouter(t *testing.T, store ports.DocumentStore, cfg apihttp.RouterConfig) chi.Router {
	t.Helper()
	if store == nil {
		store = memory.NewDocumentStore(nil)
	}
	svc := app.NewResourceService(store, clock.NewFake(baseTime), zerolog.Nop())
	return apihttp.NewRouter(svc, resource.DefaultRegistry(), zerolog.Nop(), cfg)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) apihttp.ErrorDetail {
	t.Helper()
	var body apihttp.ErrorResponseBody
	decode(t, rec, &body)
	return body.Error
}

func TestCertificates_CreateThenList(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{})

	rec := do(t, r, "POST", "/certificates", `{"title":"AWS SA"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body)
	}
	var ins map[string]any
	decode(t, rec, &ins)
	if ins["acknowledged"] != true {
		t.Errorf("acknowledged = %v, want true", ins["acknowledged"])
	}
	id, _ := ins["insertedId"].(string)
	if !document.IsValidID(id) {
		t.Fatalf("insertedId = %q, want ObjectID hex", id)
	}

	rec = do(t, r, "GET", "/certificates", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var docs []map[string]any
	decode(t, rec, &docs)
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1", len(docs))
	}
	if docs[0]["_id"] != id {
		t.Errorf("_id = %v, want %s", docs[0]["_id"], id)
	}
	if docs[0]["title"] != "AWS SA" {
		t.Errorf("title = %v, want AWS SA", docs[0]["title"])
	}
	if docs[0]["createdAt"] != "2024-01-15T12:00:00Z" {
		t.Errorf("createdAt = %v, want 2024-01-15T12:00:00Z", docs[0]["createdAt"])
	}
}

func TestList_EmptyIsArray(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{})

	rec := do(t, r, "GET", "/skills", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("body = %q, want []", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestTraining_InvalidID(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{})

	for _, method := range []string{"PATCH", "DELETE"} {
		rec := do(t, r, method, "/trainings/xyz", `{"title":"x"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", method, rec.Code)
		}
		detail := errorCode(t, rec)
		if detail.Code != "invalid_id" || detail.Message != "Invalid training ID" {
			t.Errorf("%s error = %+v", method, detail)
		}
	}
}

func TestTraining_InvalidIDBeforeBody(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{})

	rec := do(t, r, "PATCH", "/trainings/xyz", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	detail := errorCode(t, rec)
	if detail.Code != "invalid_id" || detail.Message != "Invalid training ID" {
		t.Errorf("error = %+v, want invalid_id Invalid training ID", detail)
	}
}

func TestTraining_UpperCaseID(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{})

	rec := do(t, r, "POST", "/trainings", `{"title":"Go"}`)
	var ins map[string]any
	decode(t, rec, &ins)
	upper := strings.ToUpper(ins["insertedId"].(string))

	rec = do(t, r, "PATCH", "/trainings/"+upper, `{"title":"Go 2"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("PATCH status = %d, want 200, body: %s", rec.Code, rec.Body)
	}
	rec = do(t, r, "DELETE", "/trainings/"+upper, "")
	if rec.Code != http.StatusOK {
		t.Errorf("DELETE status = %d, want 200, body: %s", rec.Code, rec.Body)
	}
}

func TestTraining_NotFound(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{})

	rec := do(t, r, "DELETE", "/trainings/"+document.NewID(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if d := errorCode(t, rec); d.Code != "not_found" || d.Message != "Training not found" {
		t.Errorf("error = %+v", d)
	}
}

func TestAppointment_DeleteTwice(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{})

	rec := do(t, r, "POST", "/appointments", `{"name":"Visitor","date":"2024-02-01"}`)
	var ins ports.InsertResult
	decode(t, rec, &ins)

	for i, want := range []int64{1, 0} {
		rec = do(t, r, "DELETE", "/appointments/"+ins.InsertedID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("delete %d status = %d, want 200", i, rec.Code)
		}
		var res ports.DeleteResult
		decode(t, rec, &res)
		if res.DeletedCount != want {
			t.Errorf("delete %d deletedCount = %d, want %d", i, res.DeletedCount, want)
		}
	}
}

func TestAppointment_PatchDisables(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{})

	rec := do(t, r, "POST", "/appointments", `{"name":"Visitor"}`)
	var ins ports.InsertResult
	decode(t, rec, &ins)

	// Body is ignored, even when it is not JSON.
	rec = do(t, r, "PATCH", "/appointments/"+ins.InsertedID, `not json`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body)
	}

	rec = do(t, r, "GET", "/appointments", "")
	var docs []map[string]any
	decode(t, rec, &docs)
	if docs[0]["disabled"] != true {
		t.Errorf("disabled = %v, want true", docs[0]["disabled"])
	}
}

func TestUpdate_ResponseShape(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{})

	rec := do(t, r, "POST", "/gallery", `{"src":"a.png"}`)
	var ins ports.InsertResult
	decode(t, rec, &ins)

	rec = do(t, r, "PATCH", "/gallery/"+ins.InsertedID, `{"src":"b.png"}`)
	want := `{"acknowledged":true,"matchedCount":1,"modifiedCount":1,"upsertedId":null,"upsertedCount":0}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestUpdate_MissingRelaxed(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{})

	rec := do(t, r, "PATCH", "/gallery/"+document.NewID(), `{"src":"b.png"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res ports.UpdateResult
	decode(t, rec, &res)
	if res.MatchedCount != 0 {
		t.Errorf("matchedCount = %d, want 0", res.MatchedCount)
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{})

	tests := []string{`[1,2]`, `"text"`, `42`, `null`, `{"a":`}
	for _, body := range tests {
		rec := do(t, r, "POST", "/gallery", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
			continue
		}
		if d := errorCode(t, rec); d.Code != "invalid_body" {
			t.Errorf("body %s: code = %s, want invalid_body", body, d.Code)
		}
	}
}

func TestCreate_EmptyBody(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{})

	rec := do(t, r, "POST", "/gallery", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestSettings_NoDeleteRoute(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{})

	rec := do(t, r, "DELETE", "/settings/"+document.NewID(), "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if d := errorCode(t, rec); d.Code != "method_not_allowed" {
		t.Errorf("code = %s, want method_not_allowed", d.Code)
	}
}

func TestUnknownPath(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{})

	rec := do(t, r, "GET", "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if d := errorCode(t, rec); d.Code != "not_found" {
		t.Errorf("code = %s, want not_found", d.Code)
	}
}

func TestInternalError(t *testing.T) {
	r := setupRouter(t, brokenStore{}, apihttp.RouterConfig{})

	rec := do(t, r, "GET", "/certificates", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	d := errorCode(t, rec)
	if d.Code != "internal_error" || d.Message != "Internal server error" {
		t.Errorf("error = %+v", d)
	}
	if d.ID == "" {
		t.Error("missing correlation id")
	}
	if strings.Contains(rec.Body.String(), errBroken.Error()) {
		t.Error("store error leaked to client")
	}
}

func TestLegacyRoutes(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{LegacyRoutes: true})

	rec := do(t, r, "POST", "/add_appointment", `{"name":"Visitor"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d, want 200", rec.Code)
	}
	var ins ports.InsertResult
	decode(t, rec, &ins)

	rec = do(t, r, "GET", "/all_appointments", "")
	var docs []map[string]any
	decode(t, rec, &docs)
	if len(docs) != 1 || docs[0]["_id"] != ins.InsertedID {
		t.Errorf("all_appointments = %v", docs)
	}

	rec = do(t, r, "POST", "/add_settings", `{"theme":"dark"}`)
	decode(t, rec, &ins)
	rec = do(t, r, "PATCH", "/update_settings/"+ins.InsertedID, `{"theme":"light"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("update_settings status = %d, want 200", rec.Code)
	}

	rec = do(t, r, "DELETE", "/delete_training/xyz", "")
	if d := errorCode(t, rec); d.Message != "Invalid training ID" {
		t.Errorf("delete_training message = %q", d.Message)
	}
}

func TestLegacyRoutes_Disabled(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{LegacyRoutes: false})

	rec := do(t, r, "GET", "/all_appointments", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestBanner(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{})

	rec := do(t, r, "GET", "/", "")
	if rec.Code != http.StatusOK || rec.Body.String() != apihttp.Banner {
		t.Errorf("GET / = %d %q", rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{})

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec := do(t, r, "GET", path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestHealth_ReadyUnavailable(t *testing.T) {
	r := setupRouter(t, brokenStore{}, apihttp.RouterConfig{})

	rec := do(t, r, "GET", "/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if rec := do(t, r, "GET", "/health/live", ""); rec.Code != http.StatusOK {
		t.Errorf("liveness status = %d, want 200", rec.Code)
	}
}

func TestVersion(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{Version: "1.2.3"})

	rec := do(t, r, "GET", "/version", "")
	var v apihttp.VersionResponse
	decode(t, rec, &v)
	if v.Version != "1.2.3" || v.Service != "portfolio-api" {
		t.Errorf("version = %+v", v)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	r := setupRouter(t, nil, apihttp.RouterConfig{
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	do(t, r, "POST", "/certificates", `{"title":"x"}`)
	do(t, r, "PATCH", "/certificates/xyz", `{}`)

	rec := do(t, r, "GET", "/metrics", "")
	body := rec.Body.String()
	for _, want := range []string{
		`portfolio_resource_operations_total{op="create",outcome="ok",resource="certificates"} 1`,
		`portfolio_resource_operations_total{op="update",outcome="invalid_id",resource="certificates"} 1`,
		`portfolio_requests_total{method="PATCH",route="/certificates/{id}",status="4xx"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
	if strings.Contains(body, `route="/metrics"`) {
		t.Error("metrics endpoint should not record itself")
	}
}

func TestCORS(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{AllowedOrigins: []string{"https://example.com"}})

	req := httptest.NewRequest("GET", "/certificates", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	req = httptest.NewRequest("GET", "/certificates", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
	}
}

func TestSwagger(t *testing.T) {
	r := setupRouter(t, nil, apihttp.RouterConfig{EnableOpenAPI: true})

	rec := do(t, r, "GET", "/swagger/doc.json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/{resource}/{id}") {
		t.Error("swagger document missing resource routes")
	}
}

func TestErrorIDs_Injected(t *testing.T) {
	ids := idgen.NewSequential()
	r := setupRouter(t, brokenStore{}, apihttp.RouterConfig{ErrorIDs: ids})

	rec := do(t, r, "GET", "/gallery", "")
	if d := errorCode(t, rec); d.ID != "000000000000000000000001" {
		t.Errorf("id = %q, want first sequential id", d.ID)
	}
}
