package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeChatModel struct {
	reply string
	err   error
	input []*schema.Message
}

func (m *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.input = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (m *fakeChatModel) BindTools(_ []*schema.ToolInfo) error {
	return nil
}

func TestChainGeneratorPassesPrompt(t *testing.T) {
	ctx := context.Background()
	fake := &fakeChatModel{reply: "true"}
	gen, err := NewChainGenerator(ctx, "ark", fake)
	if err != nil {
		t.Fatalf("NewChainGenerator err: %v", err)
	}

	got, err := gen.Generate(ctx, Prompt{System: "classify", User: "my scalp itches"})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if got != "true" {
		t.Fatalf("unexpected output %q", got)
	}
	if len(fake.input) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(fake.input))
	}
	if fake.input[0].Role != schema.System || fake.input[0].Content != "classify" {
		t.Fatalf("unexpected system message %+v", fake.input[0])
	}
	if fake.input[1].Role != schema.User || fake.input[1].Content != "my scalp itches" {
		t.Fatalf("unexpected user message %+v", fake.input[1])
	}
}

func TestChainGeneratorClassifiesErrors(t *testing.T) {
	ctx := context.Background()
	fake := &fakeChatModel{err: errors.New("InvalidEndpointOrModel.NotFound: the model does not exist")}
	gen, err := NewChainGenerator(ctx, "ark", fake)
	if err != nil {
		t.Fatalf("NewChainGenerator err: %v", err)
	}

	_, err = gen.Generate(ctx, Prompt{System: "s", User: "u"})
	if !IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
