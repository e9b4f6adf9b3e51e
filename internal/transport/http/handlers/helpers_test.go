package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/job-portal/internal/application/auth"
	"github.com/baechuer/job-portal/internal/application/jobs"
	"github.com/baechuer/job-portal/internal/infrastructure/memory"
	"github.com/baechuer/job-portal/internal/infrastructure/security"
	"github.com/baechuer/job-portal/internal/transport/http/middleware"
)

// testEnv wires real services over the in-memory stores.
type testEnv struct {
	users  *memory.UserRepo
	apps   *memory.ApplicationRepo
	signer *security.JWTSigner
	auth   *AuthHandler
	jobs   *JobsHandler
}

func newTestEnv(t *testing.T, maxResume int64) *testEnv {
	t.Helper()

	users := memory.NewUserRepo()
	apps := memory.NewApplicationRepo(users)
	signer := security.NewJWTSigner("test-secret", "job-portal-test")

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	authSvc := auth.NewService(users, apps, security.NewBcryptHasher(4), signer).WithClock(clock)
	jobsSvc := jobs.NewService(apps, nil, memory.NewNoopPublisher(), jobs.Config{MaxResumeBytes: maxResume}).WithClock(clock)

	return &testEnv{
		users:  users,
		apps:   apps,
		signer: signer,
		auth:   NewAuthHandler(authSvc),
		jobs:   NewJobsHandler(jobsSvc, maxResume),
	}
}

func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed; body=%s err=%v", string(raw), err)
	}
}

// withUserCtx injects the claims the Auth middleware would.
func withUserCtx(req *http.Request, userID, role string) *http.Request {
	ctx := middleware.WithUser(req.Context(), userID, userID+"@example.com", role)
	return req.WithContext(ctx)
}

// withURLParam injects chi URL param (e.g. /accepted/{id}) into request context.
func withURLParam(req *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

type resumePart struct {
	filename    string
	contentType string // empty: no Content-Type header on the part
	data        []byte
}

// multipartBody builds an apply_job body. A nil resume omits the file part.
func multipartBody(t *testing.T, fields map[string]string, resume *resumePart) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if resume != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="resume"; filename="`+resume.filename+`"`)
		if resume.contentType != "" {
			h.Set("Content-Type", resume.contentType)
		}
		pw, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := pw.Write(resume.data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func validApplyFields() map[string]string {
	return map[string]string{
		"fullName":    "Ada Lovelace",
		"PhoneNo":     "+44 20 0000 0000",
		"email":       "ada@example.com",
		"description": "Analytical engines",
		"role":        "Backend Developer",
		"jobTitle":    "Senior Backend Engineer",
		"company":     "Acme",
		"location":    "London",
	}
}
