package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
)

type countingLimiter struct {
	counts map[string]int64
	err    error
}

func (c *countingLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if c.err != nil {
		return false, 0, c.err
	}
	c.counts[scope]++
	return c.counts[scope] <= limit, c.counts[scope], nil
}

func authed(userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	return req.WithContext(WithActor(req.Context(), userID, enums.UserRoleCustomer))
}

func TestUserRateLimitBlocksPastLimit(t *testing.T) {
	limiter := &countingLimiter{counts: map[string]int64{}}
	policy := RateLimitPolicy{Name: "checkout", Window: time.Minute, Limit: 2}
	handler := UserRateLimit(policy, limiter, nil)(okHandler())
	userID := uuid.New()

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, authed(userID))
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, resp.Code)
		}
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authed(userID))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected Retry-After 60, got %q", resp.Header().Get("Retry-After"))
	}

	other := httptest.NewRecorder()
	handler.ServeHTTP(other, authed(uuid.New()))
	if other.Code != http.StatusOK {
		t.Fatalf("other user should not be limited, got %d", other.Code)
	}
}

func TestUserRateLimitFailsOpen(t *testing.T) {
	limiter := &countingLimiter{err: errors.New("redis down")}
	policy := RateLimitPolicy{Name: "checkout", Window: time.Minute, Limit: 1}
	resp := httptest.NewRecorder()
	UserRateLimit(policy, limiter, nil)(okHandler()).ServeHTTP(resp, authed(uuid.New()))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected fail-open 200 got %d", resp.Code)
	}
}

func TestUserRateLimitDisabled(t *testing.T) {
	handler := UserRateLimit(RateLimitPolicy{Name: "checkout"}, &countingLimiter{counts: map[string]int64{}}, nil)(okHandler())
	for i := 0; i < 5; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, authed(uuid.New()))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", resp.Code)
		}
	}
}
