package middleware

import (
	"platter/services/wizard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LocatorKey holds the caller's IP-based wizard.Locator.
const LocatorKey = "locator"

// GeolocationMiddleware attaches a Locator for the client IP. It does not
// query anything until a handler asks for a position.
func GeolocationMiddleware(lookup *wizard.IPLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ClientIP(c)
		zap.L().Debug("GeolocationMiddleware: client IP", zap.String("ip", ip))
		c.Set(LocatorKey, lookup.For(ip))
		c.Next()
	}
}

// Locator returns the locator set by GeolocationMiddleware, if any.
func Locator(c *gin.Context) (wizard.Locator, bool) {
	v, ok := c.Get(LocatorKey)
	if !ok {
		return nil, false
	}
	loc, ok := v.(wizard.Locator)
	return loc, ok
}
