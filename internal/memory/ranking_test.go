package memory

import (
	"testing"
	"time"
)

func TestRankOrdersBySimilarityThenConfidenceTiebreak(t *testing.T) {
	now := time.Now()
	query := []float32{1, 0}
	items := []Item{
		{ID: "a", Embedding: []float32{1, 0}, Confidence: 0.5, CreatedAt: now.Add(-time.Hour)},
		{ID: "b", Embedding: []float32{0, 1}, Confidence: 0.9, CreatedAt: now},
		{ID: "c", Embedding: []float32{1, 0}, Confidence: 0.9, CreatedAt: now.Add(-2 * time.Hour)},
	}

	ranked := Rank(DefaultRankWeights, items, query, now)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked items, got %d", len(ranked))
	}
	if ranked[0].Item.ID != "c" {
		t.Fatalf("expected item c (same similarity, higher confidence) ranked first, got %s", ranked[0].Item.ID)
	}
	if ranked[1].Item.ID != "a" {
		t.Fatalf("expected item a ranked second, got %s", ranked[1].Item.ID)
	}
}

func TestRankExcludesTombstoned(t *testing.T) {
	now := time.Now()
	items := []Item{
		{ID: "live", TTLDays: 30, CreatedAt: now},
		{ID: "dead", TTLDays: 0, CreatedAt: now},
	}
	ranked := Rank(DefaultRankWeights, items, nil, now)
	if len(ranked) != 1 || ranked[0].Item.ID != "live" {
		t.Fatalf("expected only the live item, got %+v", ranked)
	}
}

func TestApplyBudgetIncludesFirstOversizedItemAlone(t *testing.T) {
	huge := Ranked{Item: Item{ID: "huge", Content: stringOfLen(8000)}}
	small := Ranked{Item: Item{ID: "small", Content: "ok"}}

	out := ApplyBudget(DefaultBudget, []Ranked{huge, small})
	if len(out) != 1 || out[0].Item.ID != "huge" {
		t.Fatalf("expected only the oversized top item, got %+v", out)
	}
}

func TestApplyBudgetDropsItemsPastHardBudget(t *testing.T) {
	tooHuge := Ranked{Item: Item{ID: "too-huge", Content: stringOfLen(20000)}}
	out := ApplyBudget(DefaultBudget, []Ranked{tooHuge})
	if len(out) != 0 {
		t.Fatalf("expected item past hard budget to be dropped, got %+v", out)
	}
}

func TestApplyBudgetGreedyFillUnderSoft(t *testing.T) {
	items := []Ranked{
		{Item: Item{ID: "1", Content: stringOfLen(400)}},
		{Item: Item{ID: "2", Content: stringOfLen(400)}},
		{Item: Item{ID: "3", Content: stringOfLen(400)}},
	}
	out := ApplyBudget(DefaultBudget, items)
	if len(out) != 3 {
		t.Fatalf("expected all 3 small items to fit under the soft budget, got %d", len(out))
	}
}

func TestFingerprintStableAcrossWhitespaceAndCase(t *testing.T) {
	a := Fingerprint(LayerSemantic, "PROJECT_FACT", "  The API   uses OAuth2  ")
	b := Fingerprint(LayerSemantic, "PROJECT_FACT", "the api uses oauth2")
	if a != b {
		t.Fatalf("expected normalized fingerprints to match: %s != %s", a, b)
	}
}

func TestFingerprintDiffersByLayer(t *testing.T) {
	a := Fingerprint(LayerSemantic, "PROJECT_FACT", "same content")
	b := Fingerprint(LayerEpisodic, "PROJECT_FACT", "same content")
	if a == b {
		t.Fatalf("expected different layers to produce different fingerprints")
	}
}

func stringOfLen(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
