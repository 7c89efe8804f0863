package middleware

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
}

// ============================================================================
// Chain Tests
// ============================================================================

func TestChain_Order(t *testing.T) {
	t.Parallel()

	tag := func(s string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(s))
				next.ServeHTTP(w, r)
			})
		}
	}

	tests := []struct {
		name        string
		middlewares []Middleware
		want        string
	}{
		{"none", nil, "H"},
		{"one", []Middleware{tag("a")}, "aH"},
		{"outermost first", []Middleware{tag("1"), tag("2"), tag("3")}, "123H"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			Chain(okHandler("H"), tt.middlewares...).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			if rr.Body.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, rr.Body.String())
			}
		})
	}
}

// ============================================================================
// RequestID Tests
// ============================================================================

func TestRequestID_GeneratesUUID(t *testing.T) {
	t.Parallel()

	next := &captureHandler{}
	rr := httptest.NewRecorder()
	RequestID(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	id := rr.Header().Get(RequestIDHeader)
	if len(id) != 36 || strings.Count(id, "-") != 4 {
		t.Errorf("expected a UUID, got %q", id)
	}
	if GetRequestID(next.ctx) != id {
		t.Errorf("expected context id %q, got %q", id, GetRequestID(next.ctx))
	}
}

func TestRequestID_PreservesIncoming(t *testing.T) {
	t.Parallel()

	next := &captureHandler{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "trace-42")
	rr := httptest.NewRecorder()
	RequestID(next).ServeHTTP(rr, req)

	if rr.Header().Get(RequestIDHeader) != "trace-42" || GetRequestID(next.ctx) != "trace-42" {
		t.Errorf("expected trace-42 to be propagated")
	}
}

// ============================================================================
// Logger Tests
// ============================================================================

// Not parallel: swaps the default logger.
func TestLogger_RecordsStatusAndSize(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}), RequestID, Logger)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/ideas", nil))

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON log line, got %q", buf.String())
	}
	if line["msg"] != "request" || line["path"] != "/api/ideas" || line["method"] != "POST" {
		t.Errorf("unexpected log line %v", line)
	}
	if line["status"] != float64(http.StatusCreated) || line["bytes"] != float64(7) {
		t.Errorf("expected status 201 and 7 bytes, got %v / %v", line["status"], line["bytes"])
	}
	if line["request_id"] == "" {
		t.Error("expected request id in log line")
	}
}

func TestStatusRecorder_FirstStatusWins(t *testing.T) {
	t.Parallel()

	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	_, _ = rec.Write([]byte("x"))
	rec.WriteHeader(http.StatusTeapot)

	if rec.status != http.StatusOK {
		t.Errorf("expected implicit 200 to stick, got %d", rec.status)
	}
}

// ============================================================================
// Recovery Tests
// ============================================================================

func TestRecovery_PassThrough(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Recovery(okHandler("fine")).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK || rr.Body.String() != "fine" {
		t.Errorf("unexpected response %d %q", rr.Code, rr.Body.String())
	}
}

func TestRecovery_PanicWritesRouteEnvelope(t *testing.T) {
	t.Parallel()

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	rr := httptest.NewRecorder()
	Recovery(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON, got %q", ct)
	}

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Error != "Internal Server Error" || body.Message == "" {
		t.Errorf("unexpected body %+v", body)
	}
}

// ============================================================================
// CORS Tests
// ============================================================================

func TestCORS_Origins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"listed origin", []string{"https://a.dev", "https://b.dev"}, "https://b.dev", "https://b.dev"},
		{"unlisted origin", []string{"https://a.dev"}, "https://evil.dev", ""},
		{"wildcard", []string{"*"}, "https://any.dev", "https://any.dev"},
		{"no origin header", []string{"*"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			CORS(tt.allowed)(okHandler("ok")).ServeHTTP(rr, req)

			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("expected Allow-Origin %q, got %q", tt.want, got)
			}
			if rr.Body.String() != "ok" {
				t.Error("expected request to reach the handler")
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodOptions, "/api/ideas", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	CORS([]string{"http://localhost:3000"})(okHandler("unreachable")).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent || rr.Body.Len() != 0 {
		t.Errorf("expected empty 204, got %d %q", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), "PATCH") {
		t.Error("expected PATCH to be allowed")
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
		t.Error("expected Authorization header to be allowed")
	}
}

// ============================================================================
// Compress Tests
// ============================================================================

func TestCompress_Gzip(t *testing.T) {
	t.Parallel()

	const payload = `{"success":true,"data":[]}`
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "br;q=1.0, GZIP;q=0.8")
	rr := httptest.NewRecorder()
	Compress(okHandler(payload)).ServeHTTP(rr, req)

	if rr.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", rr.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(rr.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	defer func() { _ = zr.Close() }()
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != payload {
		t.Errorf("expected %q, got %q", payload, got)
	}
}

func TestCompress_Skipped(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		method   string
		encoding string
	}{
		{http.MethodGet, ""},
		{http.MethodGet, "deflate"},
		{http.MethodHead, "gzip"},
	} {
		req := httptest.NewRequest(tc.method, "/", nil)
		if tc.encoding != "" {
			req.Header.Set("Accept-Encoding", tc.encoding)
		}
		rr := httptest.NewRecorder()
		Compress(okHandler("plain")).ServeHTTP(rr, req)

		if rr.Header().Get("Content-Encoding") != "" {
			t.Errorf("%s %q: expected no compression", tc.method, tc.encoding)
		}
	}
}

func TestCompress_FlushReachesClient(t *testing.T) {
	t.Parallel()

	const first = "event: connected\n\n"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()

	h := Logger(Compress(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("wrapped writer must implement http.Flusher")
		}
		_, _ = w.Write([]byte(first))
		f.Flush()

		if !rr.Flushed {
			t.Error("flush did not reach the underlying writer")
		}
		zr, err := gzip.NewReader(bytes.NewReader(rr.Body.Bytes()))
		if err != nil {
			t.Fatalf("gzip reader: %v", err)
		}
		buf := make([]byte, len(first))
		if _, err := io.ReadFull(zr, buf); err != nil || string(buf) != first {
			t.Errorf("expected flushed %q before the handler returns, got %q (%v)", first, buf, err)
		}
	})))
	h.ServeHTTP(rr, req)
}
