package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/medplat-be/internal/archive"
	"github.com/hongminglow/medplat-be/internal/auth"
	"github.com/hongminglow/medplat-be/internal/metrics"
	"github.com/hongminglow/medplat-be/internal/middleware"
	"github.com/hongminglow/medplat-be/internal/models"
	"github.com/hongminglow/medplat-be/internal/storage/memory"
)

const testCollection = "chatdata"

type fakeGenerator struct {
	mu         sync.Mutex
	configured bool
	reply      string
	err        error
	prompts    []string
}

func (f *fakeGenerator) Configured() bool { return f.configured }

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeArchiver struct {
	err  error
	keys []string
}

func (f *fakeArchiver) Archive(_ context.Context, filename string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	key := "uploads/test/" + filename
	f.keys = append(f.keys, key)
	return key, nil
}

type testEnv struct {
	store    *memory.Store
	tokens   *auth.TokenManager
	hasher   *auth.Hasher
	gen      *fakeGenerator
	archiver *fakeArchiver
	metrics  *metrics.Metrics
	router   *mux.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	env := &testEnv{
		store:    memory.NewStore(),
		tokens:   auth.NewTokenManager("test-secret", "medplat-test"),
		hasher:   auth.NewHasher(bcrypt.MinCost),
		gen:      &fakeGenerator{configured: true},
		archiver: &fakeArchiver{},
		metrics:  metrics.New(prometheus.NewRegistry()),
		router:   mux.NewRouter(),
	}
	protect := Protect(middleware.RequireAuth(auth.NewGuard(env.tokens, env.store), logger))

	NewHealthHandler(time.Now()).Register(env.router)
	NewAuthHandler(env.store, env.hasher, env.tokens, logger).Register(env.router, protect)
	NewUsersHandler(env.store, logger).Register(env.router, protect)
	NewAnalyticsHandler(env.store, testCollection, logger).Register(env.router, protect)
	NewDataHandler(env.store, env.archiver, testCollection, 1<<20, env.metrics, logger).Register(env.router)
	NewAIHandler(env.gen, env.store, testCollection, time.Minute, env.metrics, logger).Register(env.router, protect)
	NewDashboardsHandler(env.store, logger).Register(env.router, protect)
	return env
}

var _ archive.Archiver = (*fakeArchiver)(nil)

// seedUser stores a user directly and returns a bearer token for it.
func (e *testEnv) seedUser(t *testing.T, username string, role models.Role) string {
	t.Helper()
	hash, err := e.hasher.Hash("password")
	require.NoError(t, err)
	_, err = e.store.CreateUser(context.Background(), models.User{Username: username, Role: role, PasswordHash: hash})
	require.NoError(t, err)
	token, err := e.tokens.Issue(username, 0)
	require.NoError(t, err)
	return token
}

func (e *testEnv) seedRecords(t *testing.T, records ...models.Record) {
	t.Helper()
	_, err := e.store.InsertRecords(context.Background(), testCollection, records)
	require.NoError(t, err)
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, path, token string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func rec(kv ...any) models.Record {
	var r models.Record
	for i := 0; i < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1])
	}
	return r
}
