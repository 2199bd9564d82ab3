package redis

import "strings"

const keyNamespace = "barbachli"

const (
	idempotencySpace = "idempotency"
	rateLimitSpace   = "rate_limit"
	lockSpace        = "lock"
)

// IdempotencyKey namespaces a stored response under scope and the client key.
func (c *Client) IdempotencyKey(scope, id string) string {
	return joinKey(idempotencySpace, scope, id)
}

// RateLimitKey namespaces a fixed-window counter.
func (c *Client) RateLimitKey(scope string) string {
	return joinKey(rateLimitSpace, scope)
}

// LockKey namespaces a distributed job lock.
func (c *Client) LockKey(name string) string {
	return joinKey(lockSpace, name)
}

// joinKey trims the parts, drops the empty ones and prefixes the namespace.
func joinKey(parts ...string) string {
	var b strings.Builder
	b.WriteString(keyNamespace)
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			b.WriteByte(':')
			b.WriteString(part)
		}
	}
	return b.String()
}
