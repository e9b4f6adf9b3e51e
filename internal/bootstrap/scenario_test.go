package bootstrap

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/job-portal/internal/config"
)

// portal drives a fully wired in-memory server over real HTTP.
type portal struct {
	t   *testing.T
	srv *httptest.Server
}

func newPortal(t *testing.T, mutate func(*Deps)) *portal {
	t.Helper()

	deps := memoryDeps(testConfig())
	if mutate != nil {
		mutate(&deps)
	}
	srv, cleanup, err := NewServerWithDeps(deps)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return &portal{t: t, srv: ts}
}

func (p *portal) do(method, path, token, contentType string, body io.Reader) (int, map[string]any, []byte) {
	p.t.Helper()

	req, err := http.NewRequest(method, p.srv.URL+path, body)
	require.NoError(p.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := p.srv.Client().Do(req)
	require.NoError(p.t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(p.t, err)

	var obj map[string]any
	_ = json.Unmarshal(raw, &obj)
	return res.StatusCode, obj, raw
}

func (p *portal) postJSON(path string, v any) (int, map[string]any) {
	p.t.Helper()
	b, err := json.Marshal(v)
	require.NoError(p.t, err)
	code, obj, _ := p.do(http.MethodPost, path, "", "application/json", bytes.NewReader(b))
	return code, obj
}

func (p *portal) register(name, email, password, role string) string {
	p.t.Helper()
	body := map[string]string{"name": name, "email": email, "password": password}
	if role != "" {
		body["role"] = role
	}
	code, obj := p.postJSON("/user/register", body)
	require.Equal(p.t, http.StatusOK, code, obj)
	tok, _ := obj["token"].(string)
	require.NotEmpty(p.t, tok)
	return tok
}

func (p *portal) apply(token, company string, withResume bool) (int, map[string]any) {
	p.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"fullName":    "Ada Lovelace",
		"PhoneNo":     "0123456789",
		"email":       "ada@example.com",
		"description": "I like engines",
		"role":        "Full Stack Developer",
		"jobTitle":    "Engineer",
		"company":     company,
		"location":    "Remote",
	} {
		require.NoError(p.t, mw.WriteField(k, v))
	}
	if withResume {
		fw, err := mw.CreateFormFile("resume", "cv.pdf")
		require.NoError(p.t, err)
		_, err = fw.Write([]byte("%PDF-1.4\nresume"))
		require.NoError(p.t, err)
	}
	require.NoError(p.t, mw.Close())

	code, obj, _ := p.do(http.MethodPost, "/user/apply_job", token, mw.FormDataContentType(), &buf)
	return code, obj
}

func (p *portal) applicants(token string) []map[string]any {
	p.t.Helper()
	code, _, raw := p.do(http.MethodGet, "/user/getApplicants", token, "", nil)
	require.Equal(p.t, http.StatusOK, code, string(raw))

	var out []map[string]any
	require.NoError(p.t, json.Unmarshal(raw, &out))
	return out
}

func TestScenario_RegisterLoginProfile(t *testing.T) {
	p := newPortal(t, nil)
	p.register("Ada", "ada@example.com", "s3cret", "")

	code, obj := p.postJSON("/user/login", map[string]string{"email": "ada@example.com", "password": "s3cret"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Login successful", obj["msg"])
	tok := obj["token"].(string)

	code, prof, raw := p.do(http.MethodGet, "/user/profile", tok, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(raw), "password")
	user := prof["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.Equal(t, []any{}, prof["applications"])
}

func TestScenario_DuplicateRegistration(t *testing.T) {
	p := newPortal(t, nil)
	p.register("Ada", "ada@example.com", "first", "")

	code, obj := p.postJSON("/user/register", map[string]string{"name": "Eve", "email": "ada@example.com", "password": "second"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "User already exists", obj["msg"])

	// first record intact: the original password still logs in
	code, _ = p.postJSON("/user/login", map[string]string{"email": "ada@example.com", "password": "first"})
	assert.Equal(t, http.StatusOK, code)
}

func TestScenario_AuthGate(t *testing.T) {
	p := newPortal(t, nil)

	code, obj, _ := p.do(http.MethodGet, "/user/profile", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "No token provided", obj["msg"])

	code, obj, _ = p.do(http.MethodGet, "/user/profile", "garbage", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid token", obj["msg"])
}

func TestScenario_RoleGateSymmetry(t *testing.T) {
	p := newPortal(t, nil)
	userTok := p.register("U", "u@example.com", "pw", "user")
	adminTok := p.register("A", "a@example.com", "pw", "admin")

	code, _, _ := p.do(http.MethodGet, "/user/getApplicants", userTok, "", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = p.apply(adminTok, "Acme", true)
	assert.Equal(t, http.StatusForbidden, code)

	code, _, _ = p.do(http.MethodGet, "/user/getUsers", userTok, "", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _, _ = p.do(http.MethodGet, "/user/getUsers", adminTok, "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestScenario_ApplyWithoutResume(t *testing.T) {
	p := newPortal(t, nil)
	userTok := p.register("U", "u@example.com", "pw", "")
	adminTok := p.register("A", "a@example.com", "pw", "admin")

	code, obj := p.apply(userTok, "Acme", false)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "All fields are required", obj["msg"])
	assert.Empty(t, p.applicants(adminTok))
}

func TestScenario_ApplyReviewDecide(t *testing.T) {
	p := newPortal(t, nil)
	userTok := p.register("U", "u@example.com", "pw", "")
	adminTok := p.register("A", "a@example.com", "pw", "admin")

	code, obj := p.apply(userTok, "First", true)
	require.Equal(t, http.StatusOK, code, obj)
	assert.Equal(t, "Job application submitted successfully", obj["msg"])
	code, _ = p.apply(userTok, "Second", true)
	require.Equal(t, http.StatusOK, code)

	list := p.applicants(adminTok)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0]["company"])
	assert.Equal(t, "First", list[1]["company"])
	assert.Equal(t, "pending", list[0]["status"])
	owner := list[0]["userId"].(map[string]any)
	assert.Equal(t, "u@example.com", owner["email"])
	assert.Contains(t, list[0]["resume"], "data:application/pdf;base64,")

	id := list[1]["_id"].(string)

	code, acc, _ := p.do(http.MethodPatch, "/user/accepted/"+id, adminTok, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "accepted", acc["application"].(map[string]any)["status"])

	code, rej, _ := p.do(http.MethodPatch, "/user/rejected/"+id, adminTok, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "rejected", rej["application"].(map[string]any)["status"])

	_, prof, _ := p.do(http.MethodGet, "/user/profile", userTok, "", nil)
	apps := prof["applications"].([]any)
	require.Len(t, apps, 2)
	statuses := map[string]string{}
	for _, a := range apps {
		m := a.(map[string]any)
		statuses[m["company"].(string)] = m["status"].(string)
	}
	assert.Equal(t, map[string]string{"First": "rejected", "Second": "pending"}, statuses)

	code, nf, _ := p.do(http.MethodPatch, "/user/accepted/6f1c3b8e-0000-4000-8000-000000000000", adminTok, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Application not found", nf["msg"])
}

func TestScenario_LoginRateLimited(t *testing.T) {
	p := newPortal(t, func(d *Deps) {
		cfg := testConfig()
		cfg.RLLimit = 2
		d.LoadConfig = func() (*config.Config, error) { return cfg, nil }
	})

	body := map[string]string{"email": "nobody@example.com", "password": "x"}
	for i := 0; i < 2; i++ {
		code, _ := p.postJSON("/user/login", body)
		require.Equal(t, http.StatusUnauthorized, code)
	}
	code, obj := p.postJSON("/user/login", body)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "rate_limited", obj["code"])
}

func TestScenario_OpsRoutes(t *testing.T) {
	p := newPortal(t, nil)

	for _, path := range []string{"/", "/healthz", "/readyz", "/metrics"} {
		code, _, _ := p.do(http.MethodGet, path, "", "", nil)
		assert.Equal(t, http.StatusOK, code, path)
	}
}
