package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kknight78/ffmpeg-banner-api/apperrors"
	"github.com/kknight78/ffmpeg-banner-api/config"
	"github.com/kknight78/ffmpeg-banner-api/types"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeOverlayRunner struct {
	calls    int
	runErr   error
	batchErr error
}

func (f *fakeOverlayRunner) Run(ctx context.Context, req types.OverlayRequest) (types.OverlayResult, error) {
	f.calls++
	if f.runErr != nil {
		return types.OverlayResult{}, f.runErr
	}
	tag := strings.ToUpper(req.PlatformTag)
	return types.OverlayResult{
		PlatformTag: tag,
		URL:         "https://cdn.example.com/" + strings.ToLower(tag) + ".mp4",
	}, nil
}

func (f *fakeOverlayRunner) RunBatch(ctx context.Context, req types.BatchOverlayRequest) ([]types.OverlayResult, error) {
	f.calls++
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	results := make([]types.OverlayResult, 0, len(req.PlatformTags))
	for _, rawTag := range req.PlatformTags {
		tag := strings.ToUpper(rawTag)
		results = append(results, types.OverlayResult{
			PlatformTag: tag,
			URL:         "https://cdn.example.com/" + strings.ToLower(tag) + ".mp4",
		})
	}
	return results, nil
}

func newTestRouter(runner OverlayRunner) *gin.Engine {
	return NewRouter(runner, config.RateLimitConfig{}, nil)
}

func postJSON(t *testing.T, router *gin.Engine, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&fakeOverlayRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want %q", body["status"], "ok")
	}
}

func TestOverlayEndpointSuccess(t *testing.T) {
	runner := &fakeOverlayRunner{}
	router := newTestRouter(runner)

	payload := []byte(`{
		"source_url": "https://videos.example.com/raw/clip.mp4",
		"label_name": "Acme Cola",
		"platform_tag": "tiktok"
	}`)
	w := postJSON(t, router, "/api/overlay", payload)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp OverlayResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(resp.Results))
	}
	if resp.Results[0].PlatformTag != "TIKTOK" || resp.Results[0].URL == "" {
		t.Errorf("unexpected result %+v", resp.Results[0])
	}
	if runner.calls != 1 {
		t.Errorf("runner called %d times, want 1", runner.calls)
	}
}

func TestOverlayEndpointRejectsMalformedJSON(t *testing.T) {
	runner := &fakeOverlayRunner{}
	router := newTestRouter(runner)

	w := postJSON(t, router, "/api/overlay", []byte("{not json"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if runner.calls != 0 {
		t.Errorf("runner ran %d times on malformed input", runner.calls)
	}
}

func TestOverlayEndpointFailureStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", apperrors.Validation("t", nil, "source_url is required"), http.StatusBadRequest},
		{"geometry", apperrors.Geometry("t", nil, "font size must be positive"), http.StatusBadRequest},
		{"probe", apperrors.Probe("t", nil, "no video stream"), http.StatusUnprocessableEntity},
		{"fetch", apperrors.Fetch("t", nil, "download failed"), http.StatusBadGateway},
		{"render", apperrors.Render("t", nil, "ffmpeg failed"), http.StatusInternalServerError},
		{"publish", apperrors.Publish("t", nil, "upload failed"), http.StatusBadGateway},
	}
	payload := []byte(`{
		"source_url": "https://videos.example.com/raw/clip.mp4",
		"label_name": "Acme Cola",
		"platform_tag": "tiktok"
	}`)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeOverlayRunner{runErr: tt.err})

			w := postJSON(t, router, "/api/overlay", payload)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body.Error == "" {
				t.Error("error body is empty")
			}
		})
	}
}

func TestBatchEndpointSuccess(t *testing.T) {
	router := newTestRouter(&fakeOverlayRunner{})

	payload := []byte(`{
		"source_url": "https://videos.example.com/raw/clip.mp4",
		"label_name": "Acme Cola",
		"platform_tags": ["tiktok", "instagram", "youtube"]
	}`)
	w := postJSON(t, router, "/api/overlay/batch", payload)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp OverlayResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	wantTags := []string{"TIKTOK", "INSTAGRAM", "YOUTUBE"}
	if len(resp.Results) != len(wantTags) {
		t.Fatalf("got %d results, want %d", len(resp.Results), len(wantTags))
	}
	for i, res := range resp.Results {
		if res.PlatformTag != wantTags[i] {
			t.Errorf("result %d tag = %q, want %q in request order", i, res.PlatformTag, wantTags[i])
		}
	}
}

func TestBatchEndpointFailureHasNoPartialResults(t *testing.T) {
	router := newTestRouter(&fakeOverlayRunner{
		batchErr: apperrors.Render("t", nil, "ffmpeg failed"),
	})

	payload := []byte(`{
		"source_url": "https://videos.example.com/raw/clip.mp4",
		"label_name": "Acme Cola",
		"platform_tags": ["tiktok", "instagram"]
	}`)
	w := postJSON(t, router, "/api/overlay/batch", payload)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "results") {
		t.Errorf("failed batch leaked partial results: %s", w.Body.String())
	}
}

func TestRateLimitReturns429(t *testing.T) {
	router := NewRouter(&fakeOverlayRunner{}, config.RateLimitConfig{
		Enabled:   true,
		PerMinute: 1,
		Burst:     1,
	}, nil)

	payload := []byte(`{
		"source_url": "https://videos.example.com/raw/clip.mp4",
		"label_name": "Acme Cola",
		"platform_tag": "tiktok"
	}`)

	first := postJSON(t, router, "/api/overlay", payload)
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", first.Code)
	}
	second := postJSON(t, router, "/api/overlay", payload)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", second.Code)
	}

	// Health stays reachable while job submissions are throttled.
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d while rate limited, want 200", w.Code)
	}
}
