package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(ErrorTypeAuth, "invalid token", 401)
	expected := "auth error (code 401): invalid token"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestIsAuth(t *testing.T) {
	if !IsAuth(New(ErrorTypeAuth, "forbidden", 403)) {
		t.Error("expected auth error to be detected")
	}
	if IsAuth(New(ErrorTypeTransient, "gave up", 503)) {
		t.Error("transient error should not be auth")
	}
	// Wrapped errors must still be detected
	wrapped := fmt.Errorf("listing failed: %w", New(ErrorTypeAuth, "forbidden", 403))
	if !IsAuth(wrapped) {
		t.Error("expected wrapped auth error to be detected")
	}
	if IsAuth(stderrors.New("plain error")) {
		t.Error("plain error should not be auth")
	}
}

func TestIsTransient(t *testing.T) {
	if !IsTransient(New(ErrorTypeTransient, "retries exhausted", 500)) {
		t.Error("expected transient error to be detected")
	}
	if IsTransient(New(ErrorTypeAuth, "forbidden", 403)) {
		t.Error("auth error should not be transient")
	}
}

func TestIsRetryable(t *testing.T) {
	retryable := []ErrorType{ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError}
	for _, et := range retryable {
		if !IsRetryable(et) {
			t.Errorf("expected %s to be retryable", et)
		}
	}

	notRetryable := []ErrorType{ErrorTypeAuth, ErrorTypeNotFound, ErrorTypeParsing, ErrorTypeTransient, ErrorTypeUnknown}
	for _, et := range notRetryable {
		if IsRetryable(et) {
			t.Errorf("expected %s to not be retryable", et)
		}
	}
}

func TestIsRetryableStatusCode(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{0, true},
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{504, true},
		{599, true},
		{401, false},
		{403, false},
		{404, false},
		{200, false},
	}

	for _, tt := range tests {
		if got := IsRetryableStatusCode(tt.code); got != tt.want {
			t.Errorf("IsRetryableStatusCode(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestTypeForStatusCode(t *testing.T) {
	tests := []struct {
		code int
		want ErrorType
	}{
		{401, ErrorTypeAuth},
		{403, ErrorTypeAuth},
		{404, ErrorTypeNotFound},
		{429, ErrorTypeRateLimit},
		{500, ErrorTypeServerError},
		{503, ErrorTypeServerError},
		{418, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		if got := TypeForStatusCode(tt.code); got != tt.want {
			t.Errorf("TypeForStatusCode(%d) = %s, want %s", tt.code, got, tt.want)
		}
	}
}
