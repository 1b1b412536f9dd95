package middleware

import (
	"platter/services/backend"

	"github.com/gin-gonic/gin"
)

// BackendCredentialsMiddleware carries the caller's cookies into every backend
// call made while serving the request.
func BackendCredentialsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := &backend.Credentials{Cookie: c.GetHeader("Cookie")}
		c.Request = c.Request.WithContext(backend.WithCredentials(c.Request.Context(), creds))
		c.Next()
	}
}

// RelayBackendCookies copies Set-Cookie headers the backend sent during this
// request onto the response. Call it before writing the body.
func RelayBackendCookies(c *gin.Context) {
	creds := backend.CredentialsFrom(c.Request.Context())
	if creds == nil {
		return
	}
	for _, cookie := range creds.SetCookies() {
		c.Writer.Header().Add("Set-Cookie", cookie)
	}
}
