package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupSiteDir(t *testing.T, indexHTML string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(indexHTML), 0644); err != nil {
		t.Fatalf("failed to write index.html: %v", err)
	}
	return dir
}

func TestHandler_CORSHeadersOnEveryResponse(t *testing.T) {
	root := setupSiteDir(t, "<html><body>dashboard</body></html>")
	handler := Handler(root, testLogger())

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"existing file", http.MethodGet, "/index.html", http.StatusOK},
		{"missing file", http.MethodGet, "/nope.json", http.StatusNotFound},
		{"options request", http.MethodOptions, "/index.html", http.StatusOK},
		{"options on missing path", http.MethodOptions, "/nope", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			headers := map[string]string{
				"Access-Control-Allow-Origin":  "*",
				"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
				"Access-Control-Allow-Headers": "Content-Type",
			}
			for key, want := range headers {
				if got := rec.Header().Get(key); got != want {
					t.Errorf("%s = %q, want %q", key, got, want)
				}
			}
		})
	}
}

func TestServer_GracefulShutdown(t *testing.T) {
	srv := New(0, false, testLogger())
	srv.RootDir = setupSiteDir(t, "<html></html>")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	// Let the accept loop spin up, then interrupt it
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() after cancel = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after cancel")
	}

	// The listener must be released: the assigned port is bindable again
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", srv.Port))
	if err != nil {
		t.Fatalf("port %d still held after shutdown: %v", srv.Port, err)
	}
	_ = ln.Close()
}

func TestServer_ListenFailureOnOccupiedPort(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to occupy a port: %v", err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	srv := New(port, false, testLogger())
	if err := srv.Listen(); err == nil {
		t.Fatal("Listen() succeeded on an occupied port")
	}
}

func TestServer_ListenAssignsEphemeralPort(t *testing.T) {
	srv := New(0, false, testLogger())
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer srv.ln.Close()

	if srv.Port == 0 {
		t.Error("Listen() left Port at 0")
	}
}

func TestHandler_ServesFileContent(t *testing.T) {
	root := setupSiteDir(t, "<html><title>Trials</title></html>")
	handler := Handler(root, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "<html><title>Trials</title></html>" {
		t.Errorf("unexpected body: %q", body)
	}
}
