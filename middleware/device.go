package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys set by DeviceDetailsMiddleware.
const (
	DeviceIDKey = "deviceID"
	DeviceIPKey = "deviceIP"
)

// DeviceDetailsMiddleware requires the X-Device-ID header. The device id owns
// the caller's signup drafts and login-form drafts.
func DeviceDetailsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.GetHeader("X-Device-ID")
		if deviceID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "Missing required device details: X-Device-ID",
			})
			return
		}
		c.Set(DeviceIDKey, deviceID)
		c.Set(DeviceIPKey, ClientIP(c))
		c.Next()
	}
}

// DeviceID returns the device id set by DeviceDetailsMiddleware.
func DeviceID(c *gin.Context) string {
	return c.GetString(DeviceIDKey)
}
