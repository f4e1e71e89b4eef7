package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/zhouzirui/hair-care-chat/backend/internal/model/persona"
	"github.com/zhouzirui/hair-care-chat/backend/internal/service/ai"
)

type stubGenerator struct {
	out    string
	err    error
	prompt ai.Prompt
}

func (g *stubGenerator) Generate(_ context.Context, p ai.Prompt) (string, error) {
	g.prompt = p
	return g.out, g.err
}

func newService(t *testing.T, gen ai.Generator) *Service {
	t.Helper()
	return NewService(gen, persona.Seed()[0], zaptest.NewLogger(t))
}

func TestClassifyUsesModelVerdict(t *testing.T) {
	gen := &stubGenerator{out: "  TRUE\n"}
	svc := newService(t, gen)

	got := svc.Classify(context.Background(), "Does minoxidil help regrowth?")
	if !got.InDomain || got.Source != SourceModel {
		t.Fatalf("unexpected verdict %+v", got)
	}
	if !strings.Contains(gen.prompt.User, `"Does minoxidil help regrowth?"`) {
		t.Fatalf("expected message embedded verbatim, got %q", gen.prompt.User)
	}
}

func TestClassifyModelSaysFalse(t *testing.T) {
	svc := newService(t, &stubGenerator{out: "false"})
	if svc.Classify(context.Background(), "my shampoo question").InDomain {
		t.Fatal("model verdict must win over keywords when the call succeeds")
	}
}

func TestClassifyNonBooleanOutputIsFalse(t *testing.T) {
	svc := newService(t, &stubGenerator{out: "true, it is about hair"})
	if got := svc.Classify(context.Background(), "hair"); got.InDomain || got.Source != SourceModel {
		t.Fatalf("unexpected verdict %+v", got)
	}
}

func TestClassifyFallbackOnError(t *testing.T) {
	svc := newService(t, &stubGenerator{err: errors.New("quota exceeded")})
	ctx := context.Background()

	got := svc.Classify(ctx, "Which shampoo is best for curls?")
	if !got.InDomain || got.Source != SourceFallback {
		t.Fatalf("expected fallback true, got %+v", got)
	}
	if svc.Classify(ctx, "What's the weather like today?").InDomain {
		t.Fatal("expected fallback false for weather question")
	}
}

func TestClassifyFallbackOnEmptyOutput(t *testing.T) {
	svc := newService(t, &stubGenerator{out: "   "})
	got := svc.Classify(context.Background(), "I have dandruff")
	if !got.InDomain || got.Source != SourceFallback {
		t.Fatalf("expected fallback true, got %+v", got)
	}
}

func TestClassifyWithoutGenerator(t *testing.T) {
	svc := newService(t, nil)
	if got := svc.Classify(context.Background(), "SCALP care"); !got.InDomain || got.Source != SourceFallback {
		t.Fatalf("unexpected verdict %+v", got)
	}
}
