package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"bank-branches-backend/internal/catalog"
	"bank-branches-backend/internal/config"
	"bank-branches-backend/internal/database"
	"bank-branches-backend/internal/database/databasetest"
	"bank-branches-backend/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newApp(t *testing.T, cfg *config.Config, store catalog.Store) *fiber.App {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if store == nil {
		store = database.NewStore(databasetest.OpenSeeded(t))
	}
	app, err := server.New(cfg, catalog.NewService(store))
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request, out any) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", req.URL, err)
		}
	}
	return resp
}

func get(t *testing.T, app *fiber.App, target string, out any) *http.Response {
	t.Helper()
	return do(t, app, httptest.NewRequest(http.MethodGet, target, nil), out)
}

func TestHealthAndRoot(t *testing.T) {
	app := newApp(t, nil, nil)

	var health map[string]string
	resp := get(t, app, "/health", &health)
	if resp.StatusCode != fiber.StatusOK || health["status"] != "healthy" {
		t.Errorf("unexpected health response %d %v", resp.StatusCode, health)
	}
	if resp.Header.Get(fiber.HeaderXRequestID) == "" {
		t.Error("expected X-Request-ID header")
	}

	var root map[string]string
	get(t, app, "/", &root)
	if root["graphql_endpoint"] != "/gql" {
		t.Errorf("unexpected root response %v", root)
	}
}

func TestPanicIsLoggedWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	app := newApp(t, nil, nil)
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	var body map[string]string
	resp := get(t, app, "/boom", &body)
	if resp.StatusCode != fiber.StatusInternalServerError || body["error"] == "" {
		t.Fatalf("expected 500 with an error body, got %d %v", resp.StatusCode, body)
	}
	id := resp.Header.Get(fiber.HeaderXRequestID)
	if id == "" {
		t.Fatal("expected X-Request-ID header")
	}

	logged := buf.String()
	if !strings.Contains(logged, `"status":500`) || !strings.Contains(logged, `"request_id":"`+id+`"`) {
		t.Errorf("expected an access log line with status 500 and request id %s, got %q", id, logged)
	}
}

func TestHealthDoesNotTouchBackend(t *testing.T) {
	app := newApp(t, nil, failingStore{})

	resp := get(t, app, "/health", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 with a broken backend, got %d", resp.StatusCode)
	}
}

func TestBankRoutes(t *testing.T) {
	app := newApp(t, nil, nil)

	var banks []catalog.Bank
	resp := get(t, app, "/api/banks", &banks)
	if resp.StatusCode != fiber.StatusOK || len(banks) != 3 {
		t.Fatalf("unexpected banks %d %v", resp.StatusCode, banks)
	}

	var bank catalog.Bank
	get(t, app, "/api/banks/1", &bank)
	if bank.Name != "State Bank of India" {
		t.Errorf("unexpected bank %+v", bank)
	}

	tests := []struct {
		target string
		status int
	}{
		{"/api/banks/999", fiber.StatusNotFound},
		{"/api/banks/abc", fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		var body map[string]string
		resp := get(t, app, tt.target, &body)
		if resp.StatusCode != tt.status || body["error"] == "" {
			t.Errorf("%s: expected %d with an error body, got %d %v", tt.target, tt.status, resp.StatusCode, body)
		}
	}
}

func TestBranchRoutes(t *testing.T) {
	app := newApp(t, nil, nil)

	var conn catalog.BranchConnection
	resp := get(t, app, "/api/branches?bank_name=hdfc&first=1", &conn)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if conn.TotalCount != 2 || len(conn.Edges) != 1 || conn.Edges[0].Node.IFSC != "HDFC0000002" {
		t.Errorf("unexpected connection %+v", conn)
	}

	var branch catalog.Branch
	get(t, app, "/api/branches/HDFC0000001", &branch)
	if branch.Bank == nil || branch.Bank.Name != "HDFC Bank" {
		t.Errorf("unexpected branch %+v", branch)
	}

	tests := []struct {
		target string
		status int
	}{
		{"/api/branches/NOPE0000000", fiber.StatusNotFound},
		{"/api/branches?first=-1", fiber.StatusBadRequest},
		{"/api/branches?first=ten", fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		resp := get(t, app, tt.target, nil)
		if resp.StatusCode != tt.status {
			t.Errorf("%s: expected %d, got %d", tt.target, tt.status, resp.StatusCode)
		}
	}
}

type failingStore struct{}

func (failingStore) ExecuteAll(context.Context, string, map[string]any) ([]catalog.Row, error) {
	return nil, errors.New("connection reset by peer")
}

func (failingStore) ExecuteOne(context.Context, string, map[string]any) (catalog.Row, error) {
	return nil, errors.New("connection reset by peer")
}

func TestBackendUnavailable(t *testing.T) {
	app := newApp(t, nil, failingStore{})

	for _, target := range []string{"/api/banks", "/api/banks/1", "/api/branches", "/api/branches/SBIN0000001"} {
		var body map[string]string
		resp := get(t, app, target, &body)
		if resp.StatusCode != fiber.StatusServiceUnavailable {
			t.Errorf("%s: expected 503, got %d", target, resp.StatusCode)
		}
		if strings.Contains(body["error"], "connection reset") {
			t.Errorf("%s: backend details leaked: %q", target, body["error"])
		}
	}
}

func TestGraphQLEndpoint(t *testing.T) {
	app := newApp(t, nil, nil)

	payload := `{"query":"query($ifsc: String!) { branchByIfsc(ifsc: $ifsc) { ifsc bank { name } } }","variables":{"ifsc":"SBIN0000001"}}`
	req := httptest.NewRequest(http.MethodPost, "/gql", strings.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	var result struct {
		Data struct {
			BranchByIfsc struct {
				IFSC string `json:"ifsc"`
				Bank struct {
					Name string `json:"name"`
				} `json:"bank"`
			} `json:"branchByIfsc"`
		} `json:"data"`
	}
	resp := do(t, app, req, &result)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if result.Data.BranchByIfsc.Bank.Name != "State Bank of India" {
		t.Errorf("unexpected result %+v", result.Data)
	}

	var viaGet struct {
		Data struct {
			Branches struct {
				TotalCount int `json:"totalCount"`
			} `json:"branches"`
		} `json:"data"`
	}
	get(t, app, "/gql?query="+url.QueryEscape(`{ branches(state: "maharashtra") { totalCount } }`), &viaGet)
	if viaGet.Data.Branches.TotalCount != 3 {
		t.Errorf("expected totalCount 3, got %d", viaGet.Data.Branches.TotalCount)
	}
}

func TestGraphQLPlayground(t *testing.T) {
	app := newApp(t, nil, nil)

	resp := get(t, app, "/gql", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); !strings.HasPrefix(ct, fiber.MIMETextHTML) {
		t.Errorf("expected html, got %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "graphiql") {
		t.Error("expected the GraphiQL page")
	}
}

func TestGraphQLBadRequest(t *testing.T) {
	app := newApp(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/gql", strings.NewReader(`{"variables":{}}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if resp := do(t, app, req, nil); resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 without a query, got %d", resp.StatusCode)
	}

	resp := get(t, app, "/gql?query=%7B%20banks%20%7B%20id%20%7D%20%7D&variables=nope", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for malformed variables, got %d", resp.StatusCode)
	}
}

func authConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Auth.JWTSecret = testSecret
	cfg.Auth.AdminPasswordHash = string(hash)
	return cfg
}

func requestToken(t *testing.T, app *fiber.App, username, password string) (*http.Response, map[string]any) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(string(body)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	var out map[string]any
	resp := do(t, app, req, &out)
	return resp, out
}

func TestAuthRequired(t *testing.T) {
	app := newApp(t, authConfig(t), nil)

	if resp := get(t, app, "/api/banks", nil); resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", resp.StatusCode)
	}
	if resp := get(t, app, "/health", nil); resp.StatusCode != fiber.StatusOK {
		t.Errorf("health must stay public, got %d", resp.StatusCode)
	}

	resp, out := requestToken(t, app, "admin", "wrong")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 for a bad password, got %d %v", resp.StatusCode, out)
	}

	resp, out = requestToken(t, app, "admin", "s3cret")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected a token, got %d %v", resp.StatusCode, out)
	}
	token, _ := out["token"].(string)
	if token == "" || out["token_type"] != "Bearer" {
		t.Fatalf("unexpected token response %v", out)
	}

	for _, target := range []string{"/api/banks", "/api/branches/SBIN0000001", "/gql?query=%7B%20banks%20%7B%20id%20%7D%20%7D"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		if resp := do(t, app, req, nil); resp.StatusCode != fiber.StatusOK {
			t.Errorf("%s: expected 200 with a token, got %d", target, resp.StatusCode)
		}
	}
}

func TestTokenIssuanceDisabled(t *testing.T) {
	app := newApp(t, nil, nil)

	resp, _ := requestToken(t, app, "admin", "s3cret")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404 without auth configured, got %d", resp.StatusCode)
	}
	if resp := get(t, app, "/api/banks", nil); resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected a public API without auth configured, got %d", resp.StatusCode)
	}
}
