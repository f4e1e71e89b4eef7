package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/zhouzirui/hair-care-chat/backend/internal/model/persona"
)

type stubGenerator struct {
	reply   string
	err     error
	prompts []Prompt
}

func (g *stubGenerator) Generate(_ context.Context, p Prompt) (string, error) {
	g.prompts = append(g.prompts, p)
	return g.reply, g.err
}

func newTestReplier(t *testing.T, gen Generator) *Replier {
	t.Helper()
	return NewReplier(gen, persona.Seed()[0], zaptest.NewLogger(t))
}

func TestIsGreeting(t *testing.T) {
	for _, msg := range []string{"Hello there", "good morning", "HEY!", "Greetings, friend", "Good Evening"} {
		if !IsGreeting(msg) {
			t.Fatalf("expected %q to be a greeting", msg)
		}
	}
	for _, msg := range []string{"What's the weather?", "good night", " hello", "oh hi"} {
		if IsGreeting(msg) {
			t.Fatalf("expected %q not to be a greeting", msg)
		}
	}
}

func TestInDomainFormatsOutput(t *testing.T) {
	gen := &stubGenerator{reply: "**Tips:**\n- Use mild shampoo\n* Rinse well 😊"}
	r := newTestReplier(t, gen)

	got, err := r.InDomain(context.Background(), "How do I wash oily hair?")
	if err != nil {
		t.Fatalf("InDomain err: %v", err)
	}
	if got != "Tips:\n• Use mild shampoo\n• Rinse well 😊" {
		t.Fatalf("unexpected reply %q", got)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0].User, "How do I wash oily hair?") {
		t.Fatalf("expected user message in prompt, got %+v", gen.prompts)
	}
}

func TestWelcomePromptListsCapabilities(t *testing.T) {
	gen := &stubGenerator{reply: "Hi!"}
	r := newTestReplier(t, gen)

	if _, err := r.Welcome(context.Background()); err != nil {
		t.Fatalf("Welcome err: %v", err)
	}
	if !strings.Contains(gen.prompts[0].System, "Styling advice") {
		t.Fatalf("expected capabilities in welcome prompt: %s", gen.prompts[0].System)
	}
}

func TestConfigurationErrorIsMapped(t *testing.T) {
	cfgErr := &Error{Kind: KindConfiguration, Provider: "gemini", Err: errors.New("models/x not found")}
	r := newTestReplier(t, &stubGenerator{err: cfgErr})

	ctx := context.Background()
	if _, err := r.Welcome(ctx); !errors.Is(err, ErrModelConfiguration) {
		t.Fatalf("welcome: expected ErrModelConfiguration, got %v", err)
	}
	if _, err := r.InDomain(ctx, "hair"); !errors.Is(err, ErrModelConfiguration) {
		t.Fatalf("in-domain: expected ErrModelConfiguration, got %v", err)
	}
	if _, err := r.OutOfDomain(ctx, "weather"); !errors.Is(err, ErrModelConfiguration) {
		t.Fatalf("out-of-domain: expected ErrModelConfiguration, got %v", err)
	}
}

func TestTransientErrorPolicy(t *testing.T) {
	transient := &Error{Kind: KindTransient, Provider: "gemini", Err: errors.New("quota exceeded")}
	r := newTestReplier(t, &stubGenerator{err: transient})

	ctx := context.Background()
	if _, err := r.InDomain(ctx, "hair"); !errors.Is(err, transient) {
		t.Fatalf("in-domain: expected original error, got %v", err)
	}
	if _, err := r.Welcome(ctx); !errors.Is(err, transient) {
		t.Fatalf("welcome: expected original error, got %v", err)
	}
	_, err := r.OutOfDomain(ctx, "weather")
	if !errors.Is(err, ErrTryAgainLater) {
		t.Fatalf("out-of-domain: expected ErrTryAgainLater, got %v", err)
	}
	if errors.Is(err, transient) {
		t.Fatal("out-of-domain error must not expose the provider error")
	}
}

func TestNilGenerator(t *testing.T) {
	r := newTestReplier(t, nil)
	if r.Available() {
		t.Fatal("expected replier without generator to be unavailable")
	}
	if _, err := r.InDomain(context.Background(), "hair"); !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}
