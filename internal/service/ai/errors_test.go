package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyConfigurationError(t *testing.T) {
	err := classify("gemini", errors.New("Error 404, Message: models/gemini-9 is not found for API version v1beta"))
	if !IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestClassifyTransientError(t *testing.T) {
	err := classify("ark", errors.New("connection reset by peer"))
	if IsConfiguration(err) {
		t.Fatal("expected transient error")
	}
	var aiErr *Error
	if !errors.As(err, &aiErr) || aiErr.Provider != "ark" {
		t.Fatalf("expected *Error from ark, got %v", err)
	}
}

func TestClassifyContextErrorsAreTransient(t *testing.T) {
	err := classify("gemini", fmt.Errorf("call models/x: %w", context.DeadlineExceeded))
	if IsConfiguration(err) {
		t.Fatal("deadline errors must be transient")
	}
}

func TestClassifyKeepsExistingKind(t *testing.T) {
	orig := &Error{Kind: KindConfiguration, Provider: "ark", Err: errors.New("boom")}
	if got := classify("gemini", orig); got != orig {
		t.Fatalf("expected original error to pass through, got %v", got)
	}
}
