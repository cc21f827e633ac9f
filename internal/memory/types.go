// Package memory implements the Memory Engine (C4): a three-layer
// item store (semantic/episodic/procedural), fingerprint-based
// upsert/dedup, cosine-similarity ranking blended with confidence,
// recency, and salience, and prompt token budgeting.
//
// Grounded on the teacher's internal/memory package's layered-store
// idiom (manager.go, hierarchy.go), rebuilt against this spec's
// MemoryItem shape and ranking formula rather than the teacher's own
// item types and lancedb/pgvector backends.
package memory

import "time"

// Layer is one of the three storage layers.
type Layer string

const (
	LayerSemantic   Layer = "SEMANTIC"
	LayerEpisodic   Layer = "EPISODIC"
	LayerProcedural Layer = "PROCEDURAL"
)

// Item is one memory entry (spec.md §3 MemoryItem).
type Item struct {
	ID          string    `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	Layer       Layer     `json:"layer"`
	Type        string    `json:"type"` // PROJECT_FACT, DECISION, FIX, RUNBOOK, ...
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Tags        []string  `json:"tags"`
	References  []string  `json:"references"`
	Confidence  float64   `json:"confidence"` // [0,1]
	Salience    float64   `json:"salience"`   // [0,1]
	TTLDays     int       `json:"ttl_days"`   // 0 = tombstone
	Embedding   []float32 `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Tombstoned reports whether the item has been soft-deleted.
func (i Item) Tombstoned() bool { return i.TTLDays == 0 }

// Query describes a memory_search request.
type Query struct {
	Text          string
	Layer         Layer // "" means all layers
	TopK          int
	FreshnessDays int // 0 = no freshness filter
}

// Ranked pairs a scored Item with its rank score.
type Ranked struct {
	Item  Item
	Score float64
}

// DefaultType is the default item type when none is supplied (§4.4
// memory_add).
const DefaultType = "PROJECT_FACT"

// RankWeights are the α/β/γ/δ coefficients in
// score = α·similarity + β·confidence + γ·recency + δ·salience.
type RankWeights struct {
	Similarity float64
	Confidence float64
	Recency    float64
	Salience   float64
}

// DefaultRankWeights matches the relative emphasis spec.md §4.4
// implies: similarity dominates, confidence and salience are
// meaningful secondary signals, recency is a mild tiebreak nudge.
var DefaultRankWeights = RankWeights{
	Similarity: 0.55,
	Confidence: 0.2,
	Recency:    0.1,
	Salience:   0.15,
}
