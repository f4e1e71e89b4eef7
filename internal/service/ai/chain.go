package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/hair-care-chat/backend/internal/config"
)

// ChainGenerator 通过 eino chain（提示模板 + 聊天模型）生成文本。
type ChainGenerator struct {
	provider string
	chain    compose.Runnable[map[string]any, *schema.Message]
}

// NewArkGenerator creates a Generator backed by a Volcengine Ark chat model.
func NewArkGenerator(ctx context.Context, cfg config.AIConfig) (*ChainGenerator, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, &Error{Kind: KindConfiguration, Provider: "ark", Err: fmt.Errorf("failed to create chat model: %w", err)}
	}
	return NewChainGenerator(ctx, "ark", chatModel)
}

// NewChainGenerator compiles the prompt chain around an arbitrary eino chat model.
func NewChainGenerator(ctx context.Context, provider string, chatModel model.ChatModel) (*ChainGenerator, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ChainGenerator{provider: provider, chain: runnable}, nil
}

// Generate implements Generator.
func (g *ChainGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	input := map[string]any{
		"system": p.System,
		"query":  p.User,
	}

	response, err := g.chain.Invoke(ctx, input)
	if err != nil {
		return "", classify(g.provider, fmt.Errorf("failed to run AI chain: %w", err))
	}
	if response == nil {
		return "", nil
	}
	return response.Content, nil
}
