package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwarnimont/filmdb2/internal/config"
	"github.com/pwarnimont/filmdb2/internal/logging"
	"github.com/pwarnimont/filmdb2/internal/model"
	"github.com/pwarnimont/filmdb2/internal/utils"
)

const secret = "test-secret"

func newCtx(t *testing.T, method, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestJWTAuth(t *testing.T) {
	tok, err := utils.NewAccessToken(secret, "u1", "ADMIN", 5)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + tok.Token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newCtx(t, http.MethodGet, "/v1/backup/export")
			if tt.header != "" {
				c.Request().Header.Set(echo.HeaderAuthorization, tt.header)
			}
			require.NoError(t, JWTAuth(secret)(okHandler)(c))
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "u1", UserID(c))
				assert.Equal(t, "ADMIN", Role(c))
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	c, rec := newCtx(t, http.MethodGet, "/")
	c.Set(ContextRole, "USER")
	require.NoError(t, RequireRole(model.RoleAdmin)(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newCtx(t, http.MethodGet, "/")
	c.Set(ContextRole, "ADMIN")
	require.NoError(t, RequireRole(model.RoleAdmin)(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserID_DefaultsToAnon(t *testing.T) {
	c, _ := newCtx(t, http.MethodGet, "/")
	assert.Equal(t, "anon", UserID(c))
	c.Set(ContextUserID, "u9")
	assert.Equal(t, "u9", UserID(c))
}

func TestCacheKeyFrom_ScopesByUser(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "filmdb:cache", KeyStrategy: "user_route_query"}

	a, _ := newCtx(t, http.MethodGet, "/v1/backup/export?x=1")
	a.SetPath("/v1/backup/export")
	a.Set(ContextUserID, "u1")
	b, _ := newCtx(t, http.MethodGet, "/v1/backup/export?x=1")
	b.SetPath("/v1/backup/export")
	b.Set(ContextUserID, "u2")

	ka, kb := cacheKeyFrom(cfg, a), cacheKeyFrom(cfg, b)
	assert.NotEqual(t, ka, kb)
	assert.Regexp(t, `^filmdb:cache:[0-9a-f]{40}$`, ka)

	cfg.KeyStrategy = "route"
	assert.Equal(t, cacheKeyFrom(cfg, a), cacheKeyFrom(cfg, b))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestCaptureWriter_Truncates(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("def"))

	assert.Equal(t, "abcd", cw.buf.String())
	assert.True(t, cw.truncated())
	assert.Equal(t, "abcdef", rec.Body.String(), "client still receives the full body")
}

func TestBuildRateKey(t *testing.T) {
	c, _ := newCtx(t, http.MethodPost, "/v1/backup/import")
	c.SetPath("/v1/backup/import")
	c.Set(ContextUserID, "u1")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user_route"}
	assert.Equal(t, "rl:user:u1:route:POST /v1/backup/import", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:u1", buildRateKey(cfg, c))
}

func TestDisabledMiddlewarePassThrough(t *testing.T) {
	log := logging.NewNop()
	for name, mw := range map[string]echo.MiddlewareFunc{
		"cache":     NewRedisCache(config.CacheConfig{Enabled: true}, nil, log),
		"ratelimit": NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, log),
	} {
		c, rec := newCtx(t, http.MethodGet, "/")
		require.NoError(t, mw(okHandler)(c), name)
		assert.Equal(t, http.StatusOK, rec.Code, name)
		assert.Empty(t, rec.Header().Get("X-Cache"), name)
	}
}
