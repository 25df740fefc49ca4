package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/dog-registry/pkg/response"
)

// KeyFunc names the counter a request is charged to.
type KeyFunc func(c *gin.Context) string

// AllowFunc reports whether a request skips the limiter.
type AllowFunc func(c *gin.Context) bool

// KeyByRoute charges the client per matched route. The client IP comes from
// gin, which only reads forwarding headers sent by trusted proxies.
func KeyByRoute() KeyFunc {
	return func(c *gin.Context) string {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		return "rl:" + route + ":" + c.ClientIP()
	}
}

// fixedWindow counts a hit and returns {count, pttl_ms}; the window starts at
// the first hit.
var fixedWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// RateLimit allows perWindow requests per key and window. A nil client turns
// it into a pass-through and Redis errors let the request through.
func RateLimit(rdb *redis.Client, perWindow int, window time.Duration, key KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || perWindow <= 0 || window <= 0 || key == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limit := strconv.Itoa(perWindow)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		res, err := fixedWindow.Run(c.Request.Context(), rdb, []string{key(c)}, window.Milliseconds()).Int64Slice()
		if err != nil || len(res) != 2 {
			c.Next()
			return
		}
		count := int(res[0])
		resetSec := 0
		if res[1] > 0 {
			resetSec = int((res[1] + 999) / 1000)
		}
		reset := strconv.Itoa(resetSec)

		// https://datatracker.ietf.org/doc/html/rfc6585#section-4
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, perWindow-count)))
		c.Header("X-RateLimit-Reset", reset)

		if count > perWindow {
			c.Header("Retry-After", reset)
			response.Abort(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}
