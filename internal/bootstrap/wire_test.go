package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/job-portal/internal/application/jobs"
	"github.com/baechuer/job-portal/internal/config"
	"github.com/baechuer/job-portal/internal/infrastructure/redis"
	"github.com/baechuer/job-portal/internal/transport/http/router"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:              "test",
		HTTPAddr:         ":0",
		APIPrefix:        "/user",
		CORSOrigins:      []string{"*"},
		JWTSecret:        "test-secret",
		JWTIssuer:        "job-portal-test",
		BcryptCost:       4,
		RLEnabled:        true,
		RLLimit:          100,
		RLWindow:         time.Minute,
		MaxResumeBytes:   1 << 20,
		ResumeStorage:    config.ResumeStorageInline,
		HTTPReadTimeout:  time.Second,
		HTTPWriteTimeout: time.Second,
		HTTPIdleTimeout:  time.Second,
	}
}

func memoryDeps(cfg *config.Config) Deps {
	return Deps{
		LoadConfig: func() (*config.Config, error) { return cfg, nil },
		NewRouter:  router.New,
	}
}

type fakeRedis struct {
	pingErr error
	closed  int
}

func (f *fakeRedis) Ping(context.Context) error { return f.pingErr }
func (f *fakeRedis) Close() error              { f.closed++; return nil }

type closingPublisher struct {
	closed int
}

func (p *closingPublisher) PublishApplicationSubmitted(context.Context, jobs.ApplicationSubmittedEvent) error {
	return nil
}
func (p *closingPublisher) PublishApplicationDecided(context.Context, jobs.ApplicationDecidedEvent) error {
	return nil
}
func (p *closingPublisher) Close() error { p.closed++; return nil }

func TestNewServer_ConfigLoadFails(t *testing.T) {
	deps := memoryDeps(nil)
	deps.LoadConfig = func() (*config.Config, error) { return nil, errors.New("missing JWT_SECRET") }

	srv, cleanup, err := NewServerWithDeps(deps)
	require.Error(t, err)
	assert.Nil(t, srv)
	assert.Nil(t, cleanup)
}

func TestNewServer_DBFails_ReturnsError(t *testing.T) {
	deps := memoryDeps(testConfig())
	deps.NewDB = func(string, bool) (*sql.DB, error) { return nil, errors.New("connection refused") }

	_, _, err := NewServerWithDeps(deps)
	require.Error(t, err)
}

func TestNewServer_InMemory_BuildsServer(t *testing.T) {
	cfg := testConfig()
	srv, cleanup, err := NewServerWithDeps(memoryDeps(cfg))
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, cfg.HTTPAddr, srv.Addr)
	assert.Equal(t, cfg.HTTPReadTimeout, srv.ReadTimeout)
	assert.NotNil(t, srv.Handler)
}

func TestNewServer_RedisPingFails_ClosesClientAndContinues(t *testing.T) {
	cfg := testConfig()
	cfg.RedisAddr = "127.0.0.1:1"
	fr := &fakeRedis{pingErr: errors.New("down")}

	deps := memoryDeps(cfg)
	deps.NewRedis = func(string, string, int) RedisClient { return fr }

	_, cleanup, err := NewServerWithDeps(deps)
	require.NoError(t, err)
	cleanup()

	assert.Equal(t, 1, fr.closed)
}

func TestNewServer_RedisHealthy_ClosedOnCleanup(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisAddr = mr.Addr()

	var cli *redis.Client
	deps := memoryDeps(cfg)
	deps.NewRedis = func(addr, pw string, db int) RedisClient {
		cli = redis.New(addr, pw, db)
		return cli
	}

	_, cleanup, err := NewServerWithDeps(deps)
	require.NoError(t, err)
	require.NotNil(t, cli)
	cleanup()

	assert.Error(t, cli.Ping(context.Background()))
}

func TestNewServer_PublisherFails_ProdErrors_DevFallsBack(t *testing.T) {
	failing := func(string, string) (Publisher, error) { return nil, errors.New("amqp dial") }

	prod := testConfig()
	prod.Env = "prod"
	prod.RabbitURL = "amqp://nowhere"
	deps := memoryDeps(prod)
	deps.NewPublisher = failing
	_, _, err := NewServerWithDeps(deps)
	require.Error(t, err)

	dev := testConfig()
	dev.Env = "dev"
	dev.RabbitURL = "amqp://nowhere"
	deps = memoryDeps(dev)
	deps.NewPublisher = failing
	_, cleanup, err := NewServerWithDeps(deps)
	require.NoError(t, err)
	cleanup()
}

func TestNewServer_RouterFails_RunsCleanup(t *testing.T) {
	cfg := testConfig()
	cfg.RabbitURL = "amqp://x"
	pub := &closingPublisher{}

	deps := memoryDeps(cfg)
	deps.NewPublisher = func(string, string) (Publisher, error) { return pub, nil }
	deps.NewRouter = func(router.Deps) (http.Handler, error) { return nil, errors.New("bad routes") }

	_, _, err := NewServerWithDeps(deps)
	require.Error(t, err)
	assert.Equal(t, 1, pub.closed)
}

func TestNewServer_ResumeStoreFails_ReturnsError(t *testing.T) {
	cfg := testConfig()
	cfg.ResumeStorage = config.ResumeStorageS3
	cfg.S3 = config.S3Config{Bucket: "resumes"}

	deps := memoryDeps(cfg)
	deps.NewResumeStore = func(context.Context, config.S3Config) (ResumeStore, error) {
		return nil, errors.New("no credentials")
	}

	_, _, err := NewServerWithDeps(deps)
	require.Error(t, err)
}

// envConfigDeps builds from the real environment loader with only the
// required variables set, the way a bare deployment would.
func envConfigDeps(t *testing.T, extra map[string]string) Deps {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_CONNECT", "postgres://u:p@localhost:5432/jobs")
	for _, k := range []string{
		"ENV", "DB_ADDR", "HTTP_ADDR", "PORT", "API_PREFIX", "REDIS_ADDR", "RABBIT_URL",
		"RESUME_STORAGE", "MAX_RESUME_BYTES", "RL_ENABLED", "SEED_DEV_USERS",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("BCRYPT_COST", "4")
	for k, v := range extra {
		t.Setenv(k, v)
	}
	return Deps{LoadConfig: config.Load, NewRouter: router.New}
}

func loginSeededAdmin(t *testing.T, srv *http.Server) int {
	t.Helper()
	body := strings.NewReader(`{"email":"admin@example.com","password":"AdminPassword123!"}`)
	req := httptest.NewRequest(http.MethodPost, "/user/login", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr.Code
}

func TestNewServer_DefaultEnv_DoesNotSeedDemoAccounts(t *testing.T) {
	srv, cleanup, err := NewServerWithDeps(envConfigDeps(t, nil))
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, http.StatusUnauthorized, loginSeededAdmin(t, srv))
}

func TestNewServer_SeedOptIn_CreatesDemoAccounts(t *testing.T) {
	srv, cleanup, err := NewServerWithDeps(envConfigDeps(t, map[string]string{"SEED_DEV_USERS": "true"}))
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, http.StatusOK, loginSeededAdmin(t, srv))
}
