package embedding

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/townstage/searchcore/internal/domain"
)

// fakeEmbedder records inputs and returns a vector whose first element
// encodes the input length, so order can be asserted downstream.
type fakeEmbedder struct {
	mu     sync.Mutex
	calls  []string
	failOn string
	delay  time.Duration
	err    error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return domain.EmbeddingResult{}, f.err
	}
	if f.failOn != "" && text == f.failOn {
		return domain.EmbeddingResult{}, errors.New("provider exploded")
	}

	vec := make([]float32, domain.Dimensions)
	vec[0] = float32(len(text))
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: len(text)}, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestService_Generate(t *testing.T) {
	fake := &fakeEmbedder{}
	svc := NewService(fake, ProviderLocal, zap.NewNop())

	vec := svc.Generate(context.Background(), "comedy show")
	if vec == nil {
		t.Fatal("expected a vector, got nil")
	}
	if len(vec) != domain.Dimensions {
		t.Fatalf("expected %d dims, got %d", domain.Dimensions, len(vec))
	}
}

func TestService_Generate_Disabled(t *testing.T) {
	tests := []struct {
		name string
		svc  *Service
	}{
		{"provider none", NewService(&fakeEmbedder{}, ProviderNone, zap.NewNop())},
		{"nil embedder", NewService(nil, ProviderLocal, zap.NewNop())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.svc.Enabled() {
				t.Error("service should be disabled")
			}
			if vec := tt.svc.Generate(context.Background(), "anything"); vec != nil {
				t.Errorf("expected nil vector, got len %d", len(vec))
			}
		})
	}
}

func TestService_Generate_EmptyText(t *testing.T) {
	fake := &fakeEmbedder{}
	svc := NewService(fake, ProviderLocal, zap.NewNop())

	for _, text := range []string{"", "   ", "\t\n"} {
		if vec := svc.Generate(context.Background(), text); vec != nil {
			t.Errorf("Generate(%q) = non-nil vector", text)
		}
	}
	if fake.callCount() != 0 {
		t.Errorf("provider should not be called for empty text, got %d calls", fake.callCount())
	}
}

func TestService_Generate_DegradesOnError(t *testing.T) {
	fake := &fakeEmbedder{err: errors.New("gateway down")}
	svc := NewService(fake, ProviderRemote, zap.NewNop())

	if vec := svc.Generate(context.Background(), "comedy show"); vec != nil {
		t.Fatal("expected nil vector on provider failure")
	}
}

func TestService_Generate_TruncatesInput(t *testing.T) {
	fake := &fakeEmbedder{}
	svc := NewService(fake, ProviderLocal, zap.NewNop())

	long := strings.Repeat("x", domain.MaxEmbeddingInputLen*2)
	svc.Generate(context.Background(), long)

	if got := len([]rune(fake.calls[0])); got != domain.MaxEmbeddingInputLen {
		t.Errorf("provider received %d runes, want %d", got, domain.MaxEmbeddingInputLen)
	}
}

func TestService_GenerateBatch_PreservesOrder(t *testing.T) {
	fake := &fakeEmbedder{delay: time.Millisecond}
	svc := NewService(fake, ProviderLocal, zap.NewNop())

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee", "ffffff"}
	vectors := svc.GenerateBatch(context.Background(), texts)

	if len(vectors) != len(texts) {
		t.Fatalf("expected %d vectors, got %d", len(texts), len(vectors))
	}
	for i, vec := range vectors {
		if vec == nil {
			t.Fatalf("vectors[%d] is nil", i)
		}
		if vec[0] != float32(len(texts[i])) {
			t.Errorf("vectors[%d][0] = %f, want %d (order not preserved)", i, vec[0], len(texts[i]))
		}
	}
}

func TestService_GenerateBatch_PartialFailure(t *testing.T) {
	fake := &fakeEmbedder{failOn: "bad"}
	svc := NewService(fake, ProviderLocal, zap.NewNop())

	vectors := svc.GenerateBatch(context.Background(), []string{"good", "bad", "fine"})

	if vectors[0] == nil || vectors[2] == nil {
		t.Error("healthy elements should still produce vectors")
	}
	if vectors[1] != nil {
		t.Error("failing element should degrade to nil")
	}
}

func TestService_GenerateBatch_Disabled(t *testing.T) {
	svc := NewService(nil, ProviderNone, zap.NewNop())

	vectors := svc.GenerateBatch(context.Background(), []string{"a", "b"})
	if len(vectors) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(vectors))
	}
	for i, vec := range vectors {
		if vec != nil {
			t.Errorf("vectors[%d] should be nil when disabled", i)
		}
	}
}

func TestEventText(t *testing.T) {
	tests := []struct {
		name     string
		fields   EventFields
		expected string
	}{
		{
			name: "all fields",
			fields: EventFields{
				Title:       "Open Mic Night",
				Description: "Weekly comedy open mic",
				Venue:       "The Basement",
				Category:    "comedy",
				Tags:        []string{"standup", "open-mic"},
			},
			expected: "Open Mic Night Weekly comedy open mic The Basement comedy standup open-mic",
		},
		{
			name: "skips empty fields without doubled spaces",
			fields: EventFields{
				Title: "Jazz Evening",
				Venue: "Blue Note",
			},
			expected: "Jazz Evening Blue Note",
		},
		{
			name: "trims whitespace-only fields",
			fields: EventFields{
				Title:       "Quiz",
				Description: "   ",
				Category:    "quiz",
				Tags:        []string{"", "trivia"},
			},
			expected: "Quiz quiz trivia",
		},
		{
			name:     "empty input",
			fields:   EventFields{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EventText(tt.fields)
			if got != tt.expected {
				t.Errorf("EventText() = %q, want %q", got, tt.expected)
			}
			if strings.Contains(got, "  ") {
				t.Errorf("EventText() contains doubled space: %q", got)
			}
		})
	}
}

func TestEventText_Truncates(t *testing.T) {
	fields := EventFields{
		Title:       strings.Repeat("a", 400),
		Description: strings.Repeat("b", 400),
	}
	got := EventText(fields)
	if n := len([]rune(got)); n != domain.MaxEmbeddingInputLen {
		t.Errorf("expected %d runes, got %d", domain.MaxEmbeddingInputLen, n)
	}
}

func TestEventText_Deterministic(t *testing.T) {
	fields := EventFields{Title: "Show", Category: "music", Tags: []string{"live"}}
	first := EventText(fields)
	for i := 0; i < 5; i++ {
		if got := EventText(fields); got != first {
			t.Fatalf("EventText not deterministic: %q vs %q", got, first)
		}
	}
}

func TestProvider_Valid(t *testing.T) {
	for _, p := range []Provider{ProviderNone, ProviderLocal, ProviderRemote} {
		if !p.Valid() {
			t.Errorf("%q should be valid", p)
		}
	}
	if Provider("gpu-cluster").Valid() {
		t.Error("unknown provider should be invalid")
	}
}
