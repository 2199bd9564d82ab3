package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDReusesInboundHeader(t *testing.T) {
	handler := RequestID(nil)(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "  trace-42 ")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if got := resp.Header().Get(requestIDHeader); got != "trace-42" {
		t.Fatalf("expected trace-42 got %q", got)
	}
}

func TestRequestIDReplacesUnusableHeader(t *testing.T) {
	cases := map[string]string{
		"empty":    "",
		"too long": strings.Repeat("a", maxRequestIDLength+1),
		"control":  "abc\x01def",
		"spaces":   "abc def",
	}
	for name, inbound := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(requestIDHeader, inbound)
			resp := httptest.NewRecorder()
			RequestID(nil)(okHandler()).ServeHTTP(resp, req)
			if _, err := uuid.Parse(resp.Header().Get(requestIDHeader)); err != nil {
				t.Fatalf("expected minted uuid, got %q", resp.Header().Get(requestIDHeader))
			}
		})
	}
}
