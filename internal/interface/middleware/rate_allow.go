package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP lets loopback and RFC 1918 peers bypass the limiter. The
// address is gin's ClientIP, so a spoofed X-Forwarded-For from an untrusted
// peer cannot claim a private address.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := net.ParseIP(c.ClientIP())
		return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
	}
}
