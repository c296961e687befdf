package search

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/townstage/searchcore/internal/domain/search/filters"
	"github.com/townstage/searchcore/internal/domain/search/result"
	"github.com/townstage/searchcore/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterSearchMetrics()
	os.Exit(m.Run())
}

var testNow = time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

type fakeRepo struct {
	gotFilters filters.Filters
	candidates []result.Candidate
	err        error
}

func (f *fakeRepo) Candidates(
	_ context.Context, flt filters.Filters, _ time.Time, _ int,
) ([]result.Candidate, error) {
	f.gotFilters = flt
	return f.candidates, f.err
}

type fakeEmbeddings struct {
	vec     []float32
	enabled bool
}

func (f *fakeEmbeddings) Generate(_ context.Context, _ string) []float32 { return f.vec }
func (f *fakeEmbeddings) Enabled() bool                                  { return f.enabled }

func newTestService(repo *fakeRepo, emb *fakeEmbeddings) *Service {
	return New(repo, emb, zap.NewNop()).WithClock(func() time.Time { return testNow })
}

func makeCandidates(n int) []result.Candidate {
	out := make([]result.Candidate, n)
	for i := range out {
		out[i] = result.Candidate{
			ID:        string(rune('a' + i%26)) + string(rune('0'+i/26)),
			FTSRank:   float64(n-i) / float64(n),
			StartDate: testNow.AddDate(0, 0, i),
		}
	}
	return out
}

func TestSearch_ExplicitFiltersWin(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeEmbeddings{})

	_, err := svc.Search(context.Background(), Request{
		Query:   "comedy under 600",
		Filters: filters.Filters{MaxPrice: filters.Int(500)},
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	got := repo.gotFilters
	if got.Category == nil || *got.Category != "comedy" {
		t.Errorf("parsed category lost: %+v", got.Category)
	}
	if got.MaxPrice == nil || *got.MaxPrice != 500 {
		t.Errorf("explicit maxPrice should override parsed 600, got %+v", got.MaxPrice)
	}
}

func TestSearch_AppliedFiltersNormalized(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeEmbeddings{})

	resp, err := svc.Search(context.Background(), Request{
		Query:   "anything",
		Filters: filters.Filters{Category: filters.String("COMEDY"), MinPrice: filters.Int(-5)},
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if resp.AppliedFilters.Category == nil || *resp.AppliedFilters.Category != "comedy" {
		t.Errorf("category not lowercased: %+v", resp.AppliedFilters.Category)
	}
	if resp.AppliedFilters.MinPrice != nil {
		t.Errorf("negative minPrice should be dropped, got %d", *resp.AppliedFilters.MinPrice)
	}
}

func TestSearch_LimitDefaultsAndClamps(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantCount int
	}{
		{"zero uses default", 0, DefaultLimit},
		{"explicit limit", 5, 5},
		{"over max clamps", 1000, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{candidates: makeCandidates(150)}
			svc := newTestService(repo, &fakeEmbeddings{})

			resp, err := svc.Search(context.Background(), Request{Query: "music", Limit: tt.limit})
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if len(resp.Results) != tt.wantCount {
				t.Errorf("got %d results, want %d", len(resp.Results), tt.wantCount)
			}
		})
	}
}

func TestSearch_EmbeddingsUsed(t *testing.T) {
	repo := &fakeRepo{candidates: []result.Candidate{
		{ID: "e1", StartDate: testNow, Embedding: []float32{1, 0}},
	}}
	svc := newTestService(repo, &fakeEmbeddings{vec: []float32{1, 0}, enabled: true})

	resp, err := svc.Search(context.Background(), Request{Query: "jazz", Debug: true})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if !resp.EmbeddingsUsed {
		t.Error("EmbeddingsUsed should be true when a query vector was produced")
	}
	if resp.Results[0].Components == nil || resp.Results[0].Components.EmbeddingSimilarity == nil {
		t.Error("debug components should carry embedding similarity")
	}
}

func TestSearch_DegradesWhenProviderFails(t *testing.T) {
	repo := &fakeRepo{candidates: makeCandidates(3)}
	// Enabled provider that degrades to nil, as the embedding service
	// does on provider failure.
	svc := newTestService(repo, &fakeEmbeddings{vec: nil, enabled: true})

	resp, err := svc.Search(context.Background(), Request{Query: "jazz"})
	if err != nil {
		t.Fatalf("search must not fail on embedding unavailability: %v", err)
	}
	if resp.EmbeddingsUsed {
		t.Error("EmbeddingsUsed should be false when generation degraded to nil")
	}
	if len(resp.Results) != 3 {
		t.Errorf("lexical results should still flow, got %d", len(resp.Results))
	}
}

func TestSearch_DisabledProviderSkipsGeneration(t *testing.T) {
	repo := &fakeRepo{candidates: makeCandidates(1)}
	svc := newTestService(repo, &fakeEmbeddings{vec: []float32{1}, enabled: false})

	resp, err := svc.Search(context.Background(), Request{Query: "jazz"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if resp.EmbeddingsUsed {
		t.Error("disabled provider must not be consulted")
	}
}

func TestSearch_RepoError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("substrate down")}
	svc := newTestService(repo, &fakeEmbeddings{})

	if _, err := svc.Search(context.Background(), Request{Query: "jazz"}); err == nil {
		t.Fatal("expected substrate error to propagate")
	}
}

func TestSearch_DebugOffOmitsComponents(t *testing.T) {
	repo := &fakeRepo{candidates: makeCandidates(1)}
	svc := newTestService(repo, &fakeEmbeddings{})

	resp, err := svc.Search(context.Background(), Request{Query: "jazz"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if resp.Results[0].Components != nil {
		t.Error("components should be omitted outside debug mode")
	}
}
