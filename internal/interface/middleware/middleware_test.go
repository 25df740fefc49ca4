package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oksasatya/dog-registry/internal/infrastructure/sqlite"
	"github.com/oksasatya/dog-registry/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.sqlite"), 2, "silent", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })
	return db
}

func inUse(t *testing.T, db *gorm.DB) int {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	return sqlDB.Stats().InUse
}

func TestDBConn_ScopedToRequest(t *testing.T) {
	db := openDB(t)
	r := gin.New()
	r.Use(DBConn(db, nil))
	r.GET("/ok", func(c *gin.Context) {
		tx, ok := DB(c)
		require.True(t, ok)
		assert.Equal(t, 1, inUse(t, db))
		var one int
		require.NoError(t, tx.Raw("SELECT 1").Scan(&one).Error)
		c.String(http.StatusOK, "%d", one)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Body.String())
	assert.Equal(t, 0, inUse(t, db))
}

func TestDBConn_ReleasedOnPanic(t *testing.T) {
	db := openDB(t)
	r := gin.New()
	r.Use(gin.Recovery(), DBConn(db, nil))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	}
	assert.Equal(t, 0, inUse(t, db))
}

func TestDBConn_Unavailable(t *testing.T) {
	db := openDB(t)
	require.NoError(t, sqlite.Close(db))

	r := gin.New()
	r.Use(DBConn(db, nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":503`)
}

type stubIdentity string

func (s stubIdentity) SessionID() string { return string(s) }

func sessionEngine(load IdentityLoader) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("session", cookie.NewStore([]byte("test-secret"))))
	r.Use(CurrentUser(load, nil))
	r.GET("/login/:id", func(c *gin.Context) {
		_ = helpers.LoginSession(c, stubIdentity(c.Param("id")))
		c.Status(http.StatusNoContent)
	})
	r.GET("/whoami", func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, id.SessionID())
	})
	return r
}

func loginCookie(t *testing.T, r *gin.Engine, id string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login/"+id, nil))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func whoami(r *gin.Engine, ck *http.Cookie) string {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if ck != nil {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Body.String()
}

func TestCurrentUser(t *testing.T) {
	known := map[string]bool{"7": true}
	r := sessionEngine(func(c *gin.Context, sid string) (helpers.Identity, error) {
		switch {
		case sid == "err":
			return nil, errors.New("db down")
		case known[sid]:
			return stubIdentity(sid), nil
		}
		return nil, nil
	})

	assert.Equal(t, "anonymous", whoami(r, nil))
	assert.Equal(t, "7", whoami(r, loginCookie(t, r, "7")))
	assert.Equal(t, "anonymous", whoami(r, loginCookie(t, r, "8")), "unknown id resolves to no identity")
	assert.Equal(t, "anonymous", whoami(r, loginCookie(t, r, "err")))
}

func newLimiterRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// limitedEngine trusts no proxy unless trusted is given, like the server engine.
func limitedEngine(t *testing.T, mw gin.HandlerFunc, trusted ...string) *gin.Engine {
	t.Helper()
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(trusted))
	r.POST("/user/register", mw, func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func post(r *gin.Engine, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/user/register", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit(t *testing.T) {
	mr, rdb := newLimiterRedis(t)
	r := limitedEngine(t, RateLimit(rdb, 2, time.Minute, KeyByRoute(), nil))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := post(r, "203.0.113.9:1234", "")
		codes = append(codes, rec.Code)
		if i == 2 {
			assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
			assert.Equal(t, "60", rec.Header().Get("Retry-After"))
			assert.Contains(t, rec.Body.String(), `"code":429`)
		}
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	mr.FastForward(time.Minute)
	assert.Equal(t, http.StatusOK, post(r, "203.0.113.9:1234", "").Code, "window resets")
}

func TestRateLimit_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	_, rdb := newLimiterRedis(t)
	r := limitedEngine(t, RateLimit(rdb, 2, time.Minute, KeyByRoute(), nil))

	codes := make([]int, 0, 6)
	for i := 1; i <= 6; i++ {
		codes = append(codes, post(r, "198.51.100.4:1234", fmt.Sprintf("203.0.113.%d", i)).Code)
	}
	assert.Equal(t, []int{200, 200, 429, 429, 429, 429}, codes)
}

func TestRateLimit_TrustedProxyForwardsClientIP(t *testing.T) {
	_, rdb := newLimiterRedis(t)
	r := limitedEngine(t, RateLimit(rdb, 1, time.Minute, KeyByRoute(), nil), "10.0.0.0/8")

	assert.Equal(t, http.StatusOK, post(r, "10.0.0.5:80", "203.0.113.1").Code)
	assert.Equal(t, http.StatusOK, post(r, "10.0.0.5:80", "203.0.113.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(r, "10.0.0.5:80", "203.0.113.1").Code)
}

func TestRateLimit_PrivateBypass(t *testing.T) {
	_, rdb := newLimiterRedis(t)
	r := limitedEngine(t, RateLimit(rdb, 1, time.Minute, KeyByRoute(), AllowPrivateIP()))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post(r, "10.1.2.3:5555", "").Code)
	}

	// a public peer cannot claim a private address through the header
	assert.Equal(t, http.StatusOK, post(r, "198.51.100.9:5555", "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(r, "198.51.100.9:5555", "10.0.0.1").Code)
}

func TestRateLimit_PassThrough(t *testing.T) {
	mr, rdb := newLimiterRedis(t)

	r := limitedEngine(t, RateLimit(nil, 1, time.Minute, KeyByRoute(), nil))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post(r, "198.51.100.1:5555", "").Code)
	}

	down := limitedEngine(t, RateLimit(rdb, 1, time.Minute, KeyByRoute(), nil))
	mr.Close()
	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, post(down, "198.51.100.1:5555", "").Code, "fails open when redis is down")
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, rec.Body.String())
	assert.Equal(t, rec.Body.String(), rec.Header().Get(RequestIDHeader))
}
