package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spainrp/awards/internal/auth"
	"github.com/spainrp/awards/internal/envelope"
	"github.com/spainrp/awards/internal/handlers"
	"github.com/spainrp/awards/internal/logger"
	"github.com/spainrp/awards/internal/models"
	"github.com/spainrp/awards/internal/repository/mock"
	"github.com/spainrp/awards/internal/services"
	"github.com/spainrp/awards/internal/testutil"
)

const (
	clientKey = "client-key"
	apiSecret = "api-secret"
)

var (
	adminUser   = models.User{ID: "1", Username: "boss", AvatarURL: "https://cdn.discordapp.com/avatars/1/b.png"}
	regularUser = models.User{ID: "2", Username: "pleb"}
)

type fakeOAuth map[string]*models.User

func (f fakeOAuth) Exchange(_ context.Context, code string) (*models.User, error) {
	if u, ok := f[code]; ok {
		return u, nil
	}
	return nil, stderrors.New("invalid_grant")
}

type testServer struct {
	router http.Handler
	repo   *mock.Repository
	config *services.ConfigService
	tokens *auth.Auth
	sealer *envelope.Sealer
}

func testConfig() *models.AwardConfig {
	return &models.AwardConfig{
		AdminIDs: []string{adminUser.ID},
		Awards: []models.Category{
			{ID: "mejor_dao", Title: "Mejor DAO", Candidates: []models.Candidate{{Label: "A", Value: "a"}, {Label: "B", Value: "b"}}},
			{ID: "mejor_gc", Title: "Mejor GC", Candidates: []models.Candidate{{Label: "C", Value: "c"}, {Label: "D", Value: "d:1"}}},
			{ID: "mejor_pj", Title: "Mejor PJ", Candidates: []models.Candidate{{Label: "E", Value: "e"}, {Label: "F", Value: "f"}}},
		},
		Colors: models.Colors{Primary: "#FF0055", Secondary: "#00F0FF", Success: "#00FF99", Error: "#FF0000", Background: "#2B2D31"},
	}
}

func newTestServer(t *testing.T, mutate ...func(*handlers.Options)) *testServer {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()

	repo := mock.NewRepository(testutil.NewTestRepository(t))
	require.NoError(t, repo.SaveConfig(ctx, testConfig()))
	cfg := services.NewConfigService(log, repo, nil)
	_, err := cfg.Load(ctx)
	require.NoError(t, err)

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	t.Cleanup(gateway.Close)

	opts := handlers.Options{
		EventName:          "Test Awards",
		FrontendURL:        "https://dash.example",
		ClientKey:          clientKey,
		EditableCategories: []string{"mejor_dao", "mejor_gc"},
	}
	for _, m := range mutate {
		m(&opts)
	}

	tokens := auth.New("jwt-secret", cfg.IsAdmin)
	sealer := envelope.New(apiSecret)
	h := handlers.New(
		cfg,
		services.NewVoteService(log, repo),
		services.NewResultsService(log, repo, cfg),
		services.NewHealthService(log, repo, "SQLite", nil).WithGatewayURL(gateway.URL),
		tokens,
		fakeOAuth{"admin-code": &adminUser, "user-code": &regularUser},
		sealer,
		log,
		opts,
	)
	return &testServer{router: h.Router(), repo: repo, config: cfg, tokens: tokens, sealer: sealer}
}

type reqOpt func(*http.Request)

func withoutClientKey() reqOpt { return func(r *http.Request) { r.Header.Del(handlers.ClientKeyHeader) } }

func as(s *testServer, t *testing.T, u models.User) reqOpt {
	token, err := s.tokens.Issue(u, s.config.IsAdmin(u.ID))
	require.NoError(t, err)
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token}) }
}

func (s *testServer) do(t *testing.T, method, path string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(handlers.ClientKeyHeader, clientKey)
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// open decrypts an enveloped response into v
func (s *testServer) open(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	var env struct {
		Payload string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.NotEmpty(t, env.Payload, "response is not enveloped: %s", rec.Body.String())
	require.NoError(t, s.sealer.Open(env.Payload, v))
}

func (s *testServer) seedVote(t *testing.T, userID string, selections map[string]string) {
	t.Helper()
	require.NoError(t, s.repo.CreateVote(context.Background(), &models.Vote{
		UserID: userID, Username: "u" + userID, RobloxUser: "rbx" + userID, Selections: selections,
	}))
}

func TestRoot(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/", nil, withoutClientKey())
	require.Equal(t, http.StatusOK, rec.Code)

	var body handlers.RootResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "🏆 Test Awards API", body.Message)
	assert.Equal(t, "Online", body.Status)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestClientKeyRequired(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/config", "/api/health", "/api/auth/login"} {
		rec := s.do(t, http.MethodGet, path, nil, withoutClientKey())
		assert.Equal(t, http.StatusBadGateway, rec.Code, path)
		assert.Equal(t, "Error 502: Bad Gateway - Protocol Mismatch.", rec.Body.String())
	}

	rec := s.do(t, http.MethodGet, "/api/config", nil, func(r *http.Request) { r.Header.Set(handlers.ClientKeyHeader, "wrong") })
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	t.Run("missing code", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/login", handlers.LoginRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Falta el código")
	})

	t.Run("exchange failure", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/login", handlers.LoginRequest{Code: "bogus"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Error de autenticación")
	})

	t.Run("admin", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/login", handlers.LoginRequest{Code: "admin-code"})
		require.Equal(t, http.StatusOK, rec.Code)

		var body handlers.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "login is not enveloped")
		assert.True(t, body.Success)
		assert.True(t, body.User.IsAdmin)
		assert.Equal(t, "boss", body.User.Username)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, body.Token, cookies[0].Value)

		claims, err := s.tokens.Parse(body.Token)
		require.NoError(t, err)
		assert.True(t, claims.IsAdmin)
	})

	t.Run("regular user", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/auth/login", handlers.LoginRequest{Code: "user-code"})
		require.Equal(t, http.StatusOK, rec.Code)
		var body handlers.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.User.IsAdmin)
	})
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	s.open(t, rec, &body)
	assert.Equal(t, true, body["success"])
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestGetConfig_PublicAndEnveloped(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg models.AwardConfig
	s.open(t, rec, &cfg)
	require.Len(t, cfg.Awards, 3)
	assert.Equal(t, "mejor_dao", cfg.Awards[0].ID)
	assert.Equal(t, []string{adminUser.ID}, cfg.AdminIDs)
}

func TestUpdateConfig(t *testing.T) {
	s := newTestServer(t)
	colors := testConfig().Colors
	colors.Primary = "#ABCDEF"

	t.Run("anonymous", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/config", handlers.ConfigUpdateRequest{Colors: &colors})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var body handlers.APIError
		s.open(t, rec, &body)
		assert.Equal(t, "Acceso Denegado", body.Message)
	})

	t.Run("not admin", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/config", handlers.ConfigUpdateRequest{Colors: &colors}, as(s, t, regularUser))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "#FF0055", s.config.Current().Colors.Primary)
	})

	t.Run("empty update", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/config", map[string]any{}, as(s, t, adminUser))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid awards", func(t *testing.T) {
		awards := testConfig().Awards
		awards[1].ID = "mejor_dao"
		rec := s.do(t, http.MethodPost, "/api/config", handlers.ConfigUpdateRequest{Awards: awards}, as(s, t, adminUser))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body handlers.APIError
		s.open(t, rec, &body)
		assert.Equal(t, handlers.ErrCodeValidation, body.Code)
	})

	t.Run("colors only", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/config", handlers.ConfigUpdateRequest{Colors: &colors}, as(s, t, adminUser))
		require.Equal(t, http.StatusOK, rec.Code)

		var body handlers.ConfigResponse
		s.open(t, rec, &body)
		assert.Equal(t, "#ABCDEF", body.Colors.Primary)
		assert.Len(t, body.Awards, 3)

		stored, err := s.repo.GetConfig(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "#ABCDEF", stored.Colors.Primary)
	})

	t.Run("save failure", func(t *testing.T) {
		s.repo.SaveConfigError = stderrors.New("disk full")
		defer func() { s.repo.SaveConfigError = nil }()
		rec := s.do(t, http.MethodPost, "/api/config", handlers.ConfigUpdateRequest{Colors: &colors}, as(s, t, adminUser))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestStats(t *testing.T) {
	s := newTestServer(t)
	s.seedVote(t, "10", map[string]string{"mejor_dao": "a", "mejor_gc": "c"})
	s.seedVote(t, "11", map[string]string{"mejor_dao": "a"})

	rec := s.do(t, http.MethodGet, "/api/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/stats", nil, as(s, t, regularUser))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats services.Stats
	s.open(t, rec, &stats)
	assert.Equal(t, 2, stats.TotalVotes)
	assert.Equal(t, 2, stats.Detail["mejor_dao:a"])
	assert.Equal(t, 1, stats.Detail["mejor_gc"])
	assert.Len(t, stats.Raw, 2)
	require.Len(t, stats.Results, 3)
	assert.InDelta(t, 1.0, stats.Results[0].Candidates[0].Percent, 1e-9)
}

func TestStats_StoreError(t *testing.T) {
	s := newTestServer(t)
	s.repo.ListVotesError = stderrors.New("cursor killed")

	rec := s.do(t, http.MethodGet, "/api/stats", nil, as(s, t, regularUser))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMyVote(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/votes/me", nil, as(s, t, regularUser))
	require.Equal(t, http.StatusOK, rec.Code)
	var none handlers.MyVoteResponse
	s.open(t, rec, &none)
	assert.False(t, none.Found)
	assert.Nil(t, none.Vote)

	s.seedVote(t, regularUser.ID, map[string]string{"mejor_dao": "a"})
	rec = s.do(t, http.MethodGet, "/api/votes/me", nil, as(s, t, regularUser))
	var mine handlers.MyVoteResponse
	s.open(t, rec, &mine)
	assert.True(t, mine.Found)
	require.NotNil(t, mine.Vote)
	assert.Equal(t, "a", mine.Vote.Selections["mejor_dao"])
}

func TestUpdateMyVote(t *testing.T) {
	s := newTestServer(t)
	user := as(s, t, regularUser)

	t.Run("no prior vote", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/api/votes/me", handlers.VoteUpdateRequest{Votes: map[string]string{"mejor_dao": "b"}}, user)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	s.seedVote(t, regularUser.ID, map[string]string{"mejor_dao": "a", "mejor_gc": "c", "mejor_pj": "e"})

	tests := []struct {
		name  string
		votes map[string]string
	}{
		{"empty", map[string]string{}},
		{"outside policy", map[string]string{"mejor_pj": "f"}},
		{"mixed with outside policy", map[string]string{"mejor_dao": "b", "mejor_pj": "f"}},
		{"unknown candidate", map[string]string{"mejor_dao": "zzz"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPut, "/api/votes/me", handlers.VoteUpdateRequest{Votes: tt.votes}, user)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	t.Run("merge", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/api/votes/me", handlers.VoteUpdateRequest{Votes: map[string]string{"mejor_gc": "d:1"}}, user)
		require.Equal(t, http.StatusOK, rec.Code)

		var body handlers.VoteUpdateResponse
		s.open(t, rec, &body)
		assert.True(t, body.Success)
		assert.Equal(t, map[string]string{"mejor_dao": "a", "mejor_gc": "d:1", "mejor_pj": "e"}, body.Vote.Selections)
	})
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report services.HealthReport
	s.open(t, rec, &report)
	assert.Equal(t, services.StatusOperational, report.Status)
	require.Len(t, report.Services, 4)
	assert.Equal(t, "Database (SQLite)", report.Services[0].Name)

	s.repo.PingError = stderrors.New("gone")
	rec = s.do(t, http.MethodGet, "/api/health", nil)
	s.open(t, rec, &report)
	assert.Equal(t, services.StatusMajorOutage, report.Status)
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t)
	big := `{"code":"` + string(bytes.Repeat([]byte("x"), 11<<10)) + `"}`

	rec := s.do(t, http.MethodPost, "/api/auth/login", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMalformedJSON(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPut, "/api/votes/me", `{"votes":`, as(s, t, regularUser))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/config", nil)
	req.Header.Set("Origin", "https://dash.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Client-Key")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, "https://dash.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/api/config", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(o *handlers.Options) { o.RateLimit = 2 })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/config", nil).Code)
	}
	rec := s.do(t, http.MethodGet, "/api/config", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Demasiadas peticiones.")

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/", nil).Code, "root is not limited")
}
