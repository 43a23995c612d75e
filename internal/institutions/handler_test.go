package institutions_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"unishare-backend/internal/bootstrap"
	"unishare-backend/internal/shared/config"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
	Count   *int              `json:"count"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(config.Config{
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		JWTSecret:       "test-secret",
		JWTTTL:          time.Hour,
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCreateAndListInstitutions(t *testing.T) {
	router := newTestRouter(t)

	for _, in := range []map[string]string{
		{"name": "Zul College", "domain": "zul.edu"},
		{"name": "Acme Institute", "domain": "acme.ac.in"},
	} {
		resp := postJSON(t, router, "/api/v1/institutions", in)
		if resp.Code != http.StatusCreated {
			t.Fatalf("create %v: expected 201, got %d: %s", in, resp.Code, resp.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/institutions", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.Code)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Count == nil || *env.Count != 2 {
		t.Fatalf("expected count 2, got %v", env.Count)
	}

	var items []map[string]string
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if items[0]["name"] != "Acme Institute" || items[1]["name"] != "Zul College" {
		t.Fatalf("expected name-sorted listing, got %v", items)
	}
	if _, leaked := items[0]["domain"]; leaked {
		t.Fatalf("listing must not include domains, got %v", items[0])
	}
}

func TestCreateInstitutionInvalidDomain(t *testing.T) {
	router := newTestRouter(t)

	for _, domain := range []string{"edu", "no spaces.edu", "bad..dots.edu", "tld.e1"} {
		resp := postJSON(t, router, "/api/v1/institutions", map[string]string{
			"name":   "Some College",
			"domain": domain,
		})
		if resp.Code != http.StatusBadRequest {
			t.Errorf("domain %q: expected 400, got %d", domain, resp.Code)
			continue
		}
		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if env.Success {
			t.Errorf("domain %q: expected success=false", domain)
		}
		if _, ok := env.Errors["domain"]; !ok {
			t.Errorf("domain %q: expected itemized domain error, got %v", domain, env.Errors)
		}
	}
}

func TestCreateInstitutionDuplicates(t *testing.T) {
	router := newTestRouter(t)

	resp := postJSON(t, router, "/api/v1/institutions", map[string]string{"name": "First", "domain": "first.edu"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("seed: expected 201, got %d", resp.Code)
	}

	resp = postJSON(t, router, "/api/v1/institutions", map[string]string{"name": "First", "domain": "other.edu"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("dup name: expected 400, got %d", resp.Code)
	}

	resp = postJSON(t, router, "/api/v1/institutions", map[string]string{"name": "Second", "domain": "first.edu"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("dup domain: expected 400, got %d", resp.Code)
	}
}

func TestCreateInstitutionLowercasesDomain(t *testing.T) {
	router := newTestRouter(t)

	resp := postJSON(t, router, "/api/v1/institutions", map[string]string{"name": "Mixed", "domain": "Mixed.EDU"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var created map[string]any
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if created["domain"] != "mixed.edu" {
		t.Fatalf("expected lowercased domain, got %v", created["domain"])
	}
}
