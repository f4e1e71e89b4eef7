package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/zhouzirui/hair-care-chat/backend/internal/analysis/format"
	"github.com/zhouzirui/hair-care-chat/backend/internal/model/persona"
)

var (
	// ErrModelConfiguration 表示模型配置错误（模型名或凭证无效）。
	ErrModelConfiguration = errors.New("ai model configuration error, check the model name")
	// ErrTryAgainLater 表示站外问题的回复生成失败。
	ErrTryAgainLater = errors.New("failed to generate response, try again later")
	// ErrModelUnavailable 表示没有可用的模型客户端。
	ErrModelUnavailable = errors.New("ai model is not initialized")
)

var greetingPattern = regexp.MustCompile(`^(hi|hello|hey|greetings|good (morning|afternoon|evening))`)

// IsGreeting reports whether the case-folded message starts with a greeting.
func IsGreeting(message string) bool {
	return greetingPattern.MatchString(strings.ToLower(message))
}

// Replier 组合提示词、模型调用与格式化，生成三类回复。
type Replier struct {
	generator Generator
	prompts   *PromptBuilder
	logger    *zap.Logger
}

// NewReplier creates a reply generator. A nil generator makes every call fail with ErrModelUnavailable.
func NewReplier(generator Generator, p persona.Persona, logger *zap.Logger) *Replier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Replier{
		generator: generator,
		prompts:   NewPromptBuilder(p),
		logger:    logger.Named("replier"),
	}
}

// Welcome generates the self-introduction for greetings.
func (r *Replier) Welcome(ctx context.Context) (string, error) {
	text, err := r.generate(ctx, r.prompts.Welcome())
	if err != nil {
		r.logger.Error("generate welcome message failed", zap.Error(err))
		return "", r.mapError(err, fmt.Errorf("generate welcome message: %w", err))
	}
	return text, nil
}

// InDomain answers a question inside the assistant's specialty.
func (r *Replier) InDomain(ctx context.Context, message string) (string, error) {
	text, err := r.generate(ctx, r.prompts.InDomain(message))
	if err != nil {
		r.logger.Error("generate in-domain response failed", zap.Error(err))
		return "", r.mapError(err, fmt.Errorf("generate in-domain response: %w", err))
	}
	return text, nil
}

// OutOfDomain politely redirects the user back to the specialty.
func (r *Replier) OutOfDomain(ctx context.Context, message string) (string, error) {
	text, err := r.generate(ctx, r.prompts.OutOfDomain(message))
	if err != nil {
		r.logger.Error("generate out-of-domain response failed", zap.Error(err))
		return "", r.mapError(err, ErrTryAgainLater)
	}
	return text, nil
}

// Available reports whether a model client is configured.
func (r *Replier) Available() bool {
	return r != nil && r.generator != nil
}

func (r *Replier) generate(ctx context.Context, p Prompt) (string, error) {
	if r.generator == nil {
		return "", ErrModelUnavailable
	}
	raw, err := r.generator.Generate(ctx, p)
	if err != nil {
		return "", err
	}
	return format.Response(raw), nil
}

func (r *Replier) mapError(err, otherwise error) error {
	if IsConfiguration(err) {
		return fmt.Errorf("%w: %v", ErrModelConfiguration, err)
	}
	return otherwise
}
