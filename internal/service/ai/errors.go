package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind 区分模型调用失败的类别。
type ErrorKind int

const (
	// KindTransient 表示网络、配额等可稍后重试的失败。
	KindTransient ErrorKind = iota
	// KindConfiguration 表示模型名、凭证等配置问题。
	KindConfiguration
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	default:
		return "transient"
	}
}

// Error 是 Generator 返回的结构化错误。
type Error struct {
	Kind     ErrorKind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfiguration reports whether err carries a configuration failure.
func IsConfiguration(err error) bool {
	var aiErr *Error
	return errors.As(err, &aiErr) && aiErr.Kind == KindConfiguration
}

// configurationMarkers 是各供应商错误信息中表示配置问题的片段。
var configurationMarkers = map[string][]string{
	"gemini": {"models/", "NOT_FOUND", "API key not valid", "API_KEY_INVALID", "PERMISSION_DENIED"},
	"ark":    {"models/", "InvalidEndpointOrModel", "ModelNotOpen", "AuthenticationError", "InvalidAccountStatus"},
}

// classify 将供应商 SDK 的原始错误归类为 *Error。
func classify(provider string, err error) error {
	if err == nil {
		return nil
	}
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return err
	}

	kind := KindTransient
	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		msg := err.Error()
		for _, marker := range configurationMarkers[provider] {
			if strings.Contains(msg, marker) {
				kind = KindConfiguration
				break
			}
		}
	}
	return &Error{Kind: kind, Provider: provider, Err: err}
}
