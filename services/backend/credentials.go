package backend

import (
	"context"
	"sync"
)

type credentialsKey struct{}

// Credentials carry the browser's backend cookies into a call and collect the
// Set-Cookie headers the backend answers with, so they can be relayed back.
type Credentials struct {
	Cookie string

	mu         sync.Mutex
	setCookies []string
}

// WithCredentials attaches creds to ctx.
func WithCredentials(ctx context.Context, creds *Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

// CredentialsFrom returns the credentials attached to ctx, or nil.
func CredentialsFrom(ctx context.Context) *Credentials {
	creds, _ := ctx.Value(credentialsKey{}).(*Credentials)
	return creds
}

func (c *Credentials) addSetCookies(values []string) {
	if len(values) == 0 {
		return
	}
	c.mu.Lock()
	c.setCookies = append(c.setCookies, values...)
	c.mu.Unlock()
}

// SetCookies returns and clears the collected Set-Cookie values.
func (c *Credentials) SetCookies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.setCookies
	c.setCookies = nil
	return out
}
