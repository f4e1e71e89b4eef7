package ai

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/hair-care-chat/backend/internal/model/persona"
)

// PromptBuilder 根据助手设定生成三类回复的提示词。
type PromptBuilder struct {
	persona persona.Persona
}

// NewPromptBuilder creates a builder bound to the given persona.
func NewPromptBuilder(p persona.Persona) *PromptBuilder {
	return &PromptBuilder{persona: p}
}

// Welcome builds the greeting prompt. It does not depend on the user message.
func (b *PromptBuilder) Welcome() Prompt {
	system := fmt.Sprintf(`You are a friendly %s expert chatbot. Generate a very brief welcome message that:
1. Introduces yourself in one sentence
2. Lists 2-3 simple things you can help with
3. Keep it under 3 sentences total
4. Use bullet points
5. Add friendly emojis

Things you can help with:
- %s

Example:
"%s"`,
		b.persona.Specialty,
		strings.Join(b.persona.Capabilities, "\n- "),
		b.persona.WelcomeExample,
	)

	return Prompt{
		System: system,
		User:   "Generate a very brief, friendly welcome message following the example format.",
	}
}

// InDomain builds the prompt for questions within the assistant's specialty.
func (b *PromptBuilder) InDomain(message string) Prompt {
	system := fmt.Sprintf(`You are a friendly %s expert. Generate a very brief and simple response to the user's question.
Follow these rules:
1. Keep responses under 3-4 sentences
2. Use simple, everyday language
3. Focus on 1-2 key points only
4. Use bullet points for tips
5. Add one relevant emoji at the end
6. Avoid technical terms
7. Be direct and to the point

Example format:
• Key tip 1
• Key tip 2
Follow-up question? 😊`, b.persona.Specialty)

	return Prompt{
		System: system,
		User:   fmt.Sprintf("User's question: %s\n\nProvide a very brief, simple response following the example format.", message),
	}
}

// OutOfDomain builds the polite redirection prompt.
func (b *PromptBuilder) OutOfDomain(message string) Prompt {
	specialty := b.persona.Specialty
	system := fmt.Sprintf(`You are a friendly %s expert chatbot. The user has asked something not about %s.
Generate a very brief, simple response that:
1. Politely explains you only help with %s
2. Suggests a %s topic they could ask about
3. Keep it under 2 sentences
4. Add a friendly emoji

Example:
"%s"`, specialty, specialty, specialty, specialty, b.persona.RedirectExample)

	return Prompt{
		System: system,
		User:   fmt.Sprintf("User's question: %s\n\nGenerate a very brief, friendly response following the example format.", message),
	}
}
