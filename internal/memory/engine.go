package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Engine is the Memory Engine (C4) service: the orchestration the
// memory_* tool executors call into. It owns a Store and an
// EmbeddingProvider and applies the fingerprint/ranking/budget rules
// the package's other files implement.
//
// Embeddings may be nil: items are then stored without an embedding,
// every similarity term is 0, and ranking rests on confidence, recency
// and salience alone.
type Engine struct {
	Store      *Store
	Embeddings EmbeddingProvider
	Weights    RankWeights
	Budget     Budget
}

// New builds an Engine with the package defaults for ranking weights
// and token budget.
func New(store *Store, embeddings EmbeddingProvider) *Engine {
	return &Engine{Store: store, Embeddings: embeddings, Weights: DefaultRankWeights, Budget: DefaultBudget}
}

// AddInput is the normalized memory_add request.
type AddInput struct {
	Layer      Layer
	Type       string
	Title      string
	Content    string
	Tags       []string
	References []string
	Confidence float64
	Salience   float64
	TTLDays    int
}

// Add upserts an item by its content fingerprint and returns the
// stored item's ID (§4.4 memory_add).
func (e *Engine) Add(ctx context.Context, in AddInput) (string, error) {
	if in.Content == "" {
		return "", fmt.Errorf("memory: content is required")
	}
	itemType := in.Type
	if itemType == "" {
		itemType = DefaultType
	}
	layer := in.Layer
	if layer == "" {
		layer = LayerSemantic
	}
	ttl := in.TTLDays
	if ttl == 0 {
		ttl = 365
	}

	var embedding []float32
	if e.Embeddings != nil {
		emb, err := e.Embeddings.Embed(ctx, in.Content)
		if err != nil {
			return "", fmt.Errorf("memory: embed content: %w", err)
		}
		embedding = emb
	}

	now := time.Now()
	item := Item{
		ID:          uuid.NewString(),
		Fingerprint: Fingerprint(layer, itemType, in.Content),
		Layer:       layer,
		Type:        itemType,
		Title:       in.Title,
		Content:     in.Content,
		Tags:        NormalizeTags(in.Tags),
		References:  in.References,
		Confidence:  Clamp01(in.Confidence),
		Salience:    Clamp01(in.Salience),
		TTLDays:     ClampMinZero(ttl),
		Embedding:   embedding,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return e.Store.Upsert(ctx, item)
}

// Search ranks the candidate set in query.Layer (or every layer)
// against query.Text and returns the budget-applied top results,
// capped additionally at query.TopK when positive (§4.4 memory_search).
func (e *Engine) Search(ctx context.Context, query Query) ([]Ranked, error) {
	candidates, err := e.Store.Candidates(ctx, query.Layer, query.FreshnessDays)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	var queryEmbedding []float32
	if e.Embeddings != nil {
		qe, err := e.Embeddings.Embed(ctx, query.Text)
		if err != nil {
			return nil, fmt.Errorf("memory: embed query: %w", err)
		}
		queryEmbedding = qe
	}

	ranked := Rank(e.Weights, candidates, queryEmbedding, time.Now())
	ranked = ApplyBudget(e.Budget, ranked)
	if query.TopK > 0 && len(ranked) > query.TopK {
		ranked = ranked[:query.TopK]
	}
	return ranked, nil
}

// Promote raises an item's confidence to at least minConfidence
// (never lowering it), per memory_promote (§4.4): "raise confidence
// to at least the configured promotion threshold."
func (e *Engine) Promote(ctx context.Context, id string, minConfidence float64) error {
	item, ok, err := e.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("memory: item %s not found", id)
	}
	confidence := item.Confidence
	if minConfidence > confidence {
		confidence = minConfidence
	}
	return e.Store.UpdateConfidence(ctx, id, confidence, item.Salience)
}

// Forget tombstones an item (the memory_forget operation).
func (e *Engine) Forget(ctx context.Context, id string) error {
	return e.Store.Tombstone(ctx, id)
}
