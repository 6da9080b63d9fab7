package featured

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleFeatured_NotConfigured(t *testing.T) {
	t.Setenv("FEATURED_URL", "")
	Init()

	w := httptest.NewRecorder()
	HandleFeatured()(w, httptest.NewRequest(http.MethodGet, "/api/featured", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when FEATURED_URL is unset", w.Code)
	}
}

func TestHandleFeatured_ProxiesUpstreamJSON(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"title":"Featured course"}]`))
	}))
	defer upstream.Close()

	t.Setenv("FEATURED_URL", upstream.URL)
	Init()

	w := httptest.NewRecorder()
	HandleFeatured()(w, httptest.NewRequest(http.MethodGet, "/api/featured", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var items []map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if len(items) != 1 || items[0]["title"] != "Featured course" {
		t.Errorf("body = %+v, want the upstream listing", items)
	}
}

func TestHandleFeatured_UpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	t.Setenv("FEATURED_URL", upstream.URL)
	Init()

	w := httptest.NewRecorder()
	HandleFeatured()(w, httptest.NewRequest(http.MethodGet, "/api/featured", nil))

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502 on upstream failure", w.Code)
	}
}
