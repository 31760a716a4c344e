package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"party-hub/internal/auth"
	"party-hub/internal/config"
	"party-hub/internal/db"
	"party-hub/internal/game"
)

type testEnv struct {
	srv   *Server
	ts    *httptest.Server
	conn  *gorm.DB
	auth  *auth.Service
	store *game.MemStore
}

// newTestEnv spins up the full HTTP surface against an in-memory sqlite
// database. The game engine runs on a MemStore so score mutations skip the
// Postgres-only row locking.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := config.Default()
	cfg.AuthSecret = "test-secret"
	authService := auth.NewService(cfg.AuthSecret, time.Hour)
	store := game.NewMemStore()
	srv := New(conn, cfg, authService, game.New(store, cfg.BadgeUpcomingWindow))

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: srv.Handler()},
	}
	ts.Start()
	t.Cleanup(ts.Close)

	return &testEnv{srv: srv, ts: ts, conn: conn, auth: authService, store: store}
}

func (env *testEnv) token(t *testing.T, uid, name string, admin bool) string {
	t.Helper()
	token, err := env.auth.GenerateToken(uid, uid+"@example.com", name, admin, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

// login mints a token and forces provisioning so the local user row exists.
func (env *testEnv) login(t *testing.T, uid, name string, admin bool) (string, *db.User) {
	t.Helper()
	token := env.token(t, uid, name, admin)
	resp := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login for %s: expected status %d, got %d", uid, http.StatusOK, resp.StatusCode)
	}
	var user db.User
	if err := env.conn.Where("uid = ?", uid).First(&user).Error; err != nil {
		t.Fatalf("load provisioned user %s: %v", uid, err)
	}
	return token, &user
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, env.ts.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// doJSON performs a request, asserts the status, and decodes the body.
func (env *testEnv) doJSON(t *testing.T, method, path, token string, body any, wantStatus int, out any) {
	t.Helper()
	resp := env.do(t, method, path, token, body)
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		var msg map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		t.Fatalf("%s %s: expected status %d, got %d (%v)", method, path, wantStatus, resp.StatusCode, msg)
	}
	if out == nil {
		return
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (env *testEnv) createParty(t *testing.T, token, name string) *db.Party {
	t.Helper()
	var party db.Party
	env.doJSON(t, http.MethodPost, "/api/parties", token, gin.H{
		"name":     name,
		"date":     time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"location": "123 Celebration Ave",
	}, http.StatusCreated, &party)
	return &party
}
