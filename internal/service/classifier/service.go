package classifier

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zhouzirui/hair-care-chat/backend/internal/analysis/topic"
	"github.com/zhouzirui/hair-care-chat/backend/internal/model/persona"
	"github.com/zhouzirui/hair-care-chat/backend/internal/service/ai"
)

// Source 标识分类结果的来源。
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Verdict 是一次话题分类的结果，仅在请求内使用，不做持久化。
type Verdict struct {
	InDomain bool
	Source   Source
}

// Service 使用大模型判断消息是否属于助手的专长领域，并在失败时回退到关键词匹配。
type Service struct {
	generator ai.Generator
	persona   persona.Persona
	fallback  func(message string, keywords []string) bool
	logger    *zap.Logger
}

// NewService creates the topic classifier. A nil generator always uses the keyword fallback.
func NewService(generator ai.Generator, p persona.Persona, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		generator: generator,
		persona:   p,
		fallback:  topic.Match,
		logger:    logger.Named("classifier"),
	}
}

// Classify 返回消息是否属于专长领域。该方法从不返回错误。
func (s *Service) Classify(ctx context.Context, message string) Verdict {
	if s.generator == nil {
		return s.fallbackVerdict(message)
	}

	out, err := s.generator.Generate(ctx, s.buildPrompt(message))
	if err != nil {
		s.logger.Warn("classifier invoke failed, use fallback", zap.Error(err))
		return s.fallbackVerdict(message)
	}

	verdict := strings.ToLower(strings.TrimSpace(out))
	if verdict == "" {
		s.logger.Warn("classifier returned empty output, use fallback")
		return s.fallbackVerdict(message)
	}

	return Verdict{InDomain: verdict == "true", Source: SourceModel}
}

func (s *Service) fallbackVerdict(message string) Verdict {
	return Verdict{
		InDomain: s.fallback(message, s.persona.Keywords),
		Source:   SourceFallback,
	}
}

func (s *Service) buildPrompt(message string) ai.Prompt {
	specialty := s.persona.Specialty
	return ai.Prompt{
		System: fmt.Sprintf(classifierSystemPrompt, specialty, specialty, specialty),
		User:   fmt.Sprintf(classifierUserPrompt, message),
	}
}

const classifierSystemPrompt = `Analyze the following user message and determine if it is related to %s.
Consider topics such as hair health, hair loss, hair growth, hair care products, scalp care, and hair treatments.
Respond with true if the message is related to %s and false otherwise. Do not provide explanations, only return true or false.
Examples:
Input: "How can I make my hair grow faster?"
Output: true

Input: "What's the weather like today?"
Output: false

Only messages about %s count as true.`

const classifierUserPrompt = `Message to check: "%s"

Respond with ONLY "true" or "false".`
