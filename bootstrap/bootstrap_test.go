package bootstrap_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/tanzim/portfolio-api/bootstrap"
	"github.com/tanzim/portfolio-api/config"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	t.Setenv("PORT", "")
	t.Setenv("PORTFOLIO_STORE_DRIVER", driver)
	t.Setenv("PORTFOLIO_STORE_DSN", filepath.Join(t.TempDir(), "test.db"))
	t.Setenv("PORTFOLIO_METRICS_ENABLED", "true")
	t.Setenv("PORTFOLIO_LOG_LEVEL", "debug")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv error: %v", err)
	}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 2 * time.Second
	return cfg
}

func TestBootstrap_Memory(t *testing.T) {
	var logs bytes.Buffer
	a, err := bootstrap.NewWithOptions(testConfig(t, config.DriverMemory), bootstrap.Options{Output: &logs})
	if err != nil {
		t.Fatalf("create app: %v", err)
	}
	defer a.Shutdown()

	if a.Store == nil {
		t.Error("Store should not be nil")
	}
	if a.HTTPServer == nil {
		t.Fatal("HTTPServer should not be nil")
	}
	if a.Metrics == nil {
		t.Error("Metrics should not be nil when enabled")
	}
	if a.Registry.Len() != 14 {
		t.Errorf("Registry.Len = %d, want 14", a.Registry.Len())
	}
	if !strings.Contains(logs.String(), "initializing portfolio-api") {
		t.Error("startup not logged")
	}
}

func TestBootstrap_SQLiteRoundTrip(t *testing.T) {
	a, err := bootstrap.NewWithOptions(testConfig(t, config.DriverSQLite), bootstrap.Options{Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("create app: %v", err)
	}
	defer a.Shutdown()

	h := a.HTTPServer.Handler

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/add_certificate", strings.NewReader(`{"title":"CKA"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body: %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/certificates", nil))
	if !strings.Contains(rec.Body.String(), `"title":"CKA"`) {
		t.Errorf("list body = %s", rec.Body)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "portfolio_store_duration_seconds") {
		t.Error("store metrics not exported")
	}
}

func TestBootstrap_MongoUnreachable(t *testing.T) {
	cfg := testConfig(t, config.DriverMemory)
	cfg.Store.Driver = config.DriverMongo
	cfg.Store.URI = "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200"
	cfg.Store.ConnectTimeout = 500 * time.Millisecond

	if _, err := bootstrap.NewWithOptions(cfg, bootstrap.Options{Output: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error when the store is unreachable")
	}
}

func TestBootstrap_RunContext(t *testing.T) {
	a, err := bootstrap.NewWithOptions(testConfig(t, config.DriverMemory), bootstrap.Options{Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("create app: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.RunContext(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("RunContext error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("RunContext did not return after cancel")
	}
	if a.Store != nil {
		t.Error("store should be closed after shutdown")
	}
}

func TestBootstrap_ConfigReload(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PORTFOLIO_LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "store:\n  driver: memory\nmetrics:\n  enabled: true\nlogging:\n  level: info\n")

	holder, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}

	a, err := bootstrap.NewWithOptions(holder.Get(), bootstrap.Options{Output: &bytes.Buffer{}, Holder: holder})
	if err != nil {
		t.Fatalf("create app: %v", err)
	}
	defer a.Shutdown()

	writeFile(t, path, "store:\n  driver: memory\nmetrics:\n  enabled: true\nlogging:\n  level: debug\n")
	if err := holder.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}

	rec := httptest.NewRecorder()
	a.HTTPServer.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "portfolio_config_reloads_total 1") {
		t.Error("config reload counter not exported")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
