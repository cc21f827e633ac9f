package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists Items in SQLite and serves ranked search by loading
// the (small, single-agent-scale) candidate set into memory for
// scoring. Grounded on the teacher's internal/memory/backend/sqlitevec
// package (table layout, float32 BLOB embedding encoding, pure-Go
// driver), rebuilt against this spec's layered Item model and upsert-
// by-fingerprint semantics rather than the teacher's session/channel/
// agent scoping.
type Store struct {
	db *sql.DB
}

// Open creates or attaches to a SQLite-backed Store at path (":memory:"
// for an ephemeral store).
func Open(path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("memory: open sqlite: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS memory_items (
			id TEXT PRIMARY KEY,
			fingerprint TEXT NOT NULL,
			layer TEXT NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			tags TEXT NOT NULL,
			refs TEXT NOT NULL,
			confidence REAL NOT NULL,
			salience REAL NOT NULL,
			ttl_days INTEGER NOT NULL,
			embedding BLOB,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_memory_items_fingerprint ON memory_items(fingerprint);
		CREATE INDEX IF NOT EXISTS idx_memory_items_layer ON memory_items(layer);
	`)
	if err != nil {
		return fmt.Errorf("memory: init schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Upsert inserts item, or replaces the existing item sharing its
// fingerprint (spec.md §4.4 dedup-by-fingerprint). Returns the final
// stored ID: a fresh ID on insert, the existing row's ID on replace.
func (s *Store) Upsert(ctx context.Context, item Item) (string, error) {
	var existingID string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM memory_items WHERE fingerprint = ?`, item.Fingerprint).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		// fresh insert, keep item.ID as supplied by the caller
	case err != nil:
		return "", fmt.Errorf("memory: lookup fingerprint: %w", err)
	default:
		item.ID = existingID
	}

	tags, _ := json.Marshal(item.Tags)
	refs, _ := json.Marshal(item.References)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO memory_items (id, fingerprint, layer, type, title, content, tags, refs, confidence, salience, ttl_days, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fingerprint=excluded.fingerprint, layer=excluded.layer, type=excluded.type,
			title=excluded.title, content=excluded.content, tags=excluded.tags, refs=excluded.refs,
			confidence=excluded.confidence, salience=excluded.salience, ttl_days=excluded.ttl_days,
			embedding=excluded.embedding, updated_at=excluded.updated_at
	`, item.ID, item.Fingerprint, string(item.Layer), item.Type, item.Title, item.Content,
		string(tags), string(refs), item.Confidence, item.Salience, item.TTLDays,
		encodeEmbedding(item.Embedding), item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("memory: upsert: %w", err)
	}
	return item.ID, nil
}

// Get fetches one item by ID.
func (s *Store) Get(ctx context.Context, id string) (Item, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, fingerprint, layer, type, title, content, tags, refs, confidence, salience, ttl_days, embedding, created_at, updated_at
		FROM memory_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return Item{}, false, nil
	}
	if err != nil {
		return Item{}, false, err
	}
	return item, true, nil
}

// Tombstone sets TTLDays to 0, soft-deleting the item (forget).
func (s *Store) Tombstone(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE memory_items SET ttl_days = 0, updated_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("memory: tombstone: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("memory: item %s not found", id)
	}
	return nil
}

// UpdateConfidence rewrites an item's confidence/salience (memory_update,
// e.g. promote raises confidence).
func (s *Store) UpdateConfidence(ctx context.Context, id string, confidence, salience float64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE memory_items SET confidence = ?, salience = ?, updated_at = ? WHERE id = ?`,
		Clamp01(confidence), Clamp01(salience), time.Now(), id)
	if err != nil {
		return fmt.Errorf("memory: update confidence: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("memory: item %s not found", id)
	}
	return nil
}

// Candidates returns every non-tombstoned item in layer (or every
// layer if layer is ""), optionally filtered to items created within
// freshnessDays (0 disables the filter). This is the candidate set
// Rank scores; it is loaded wholesale on the assumption of a single
// agent's memory store, not a multi-tenant corpus.
func (s *Store) Candidates(ctx context.Context, layer Layer, freshnessDays int) ([]Item, error) {
	query := `
		SELECT id, fingerprint, layer, type, title, content, tags, refs, confidence, salience, ttl_days, embedding, created_at, updated_at
		FROM memory_items WHERE ttl_days != 0`
	args := []any{}
	if layer != "" {
		query += ` AND layer = ?`
		args = append(args, string(layer))
	}
	if freshnessDays > 0 {
		query += ` AND created_at >= ?`
		args = append(args, time.Now().AddDate(0, 0, -freshnessDays))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("memory: candidates query: %w", err)
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("memory: scan candidate: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var item Item
	var layer, tags, refs string
	var embedding []byte
	err := row.Scan(&item.ID, &item.Fingerprint, &layer, &item.Type, &item.Title, &item.Content,
		&tags, &refs, &item.Confidence, &item.Salience, &item.TTLDays, &embedding,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return Item{}, err
	}
	item.Layer = Layer(layer)
	_ = json.Unmarshal([]byte(tags), &item.Tags)
	_ = json.Unmarshal([]byte(refs), &item.References)
	item.Embedding = decodeEmbedding(embedding)
	return item, nil
}

func encodeEmbedding(embedding []float32) []byte {
	if len(embedding) == 0 {
		return nil
	}
	data := make([]byte, len(embedding)*4)
	for i, f := range embedding {
		bits := math.Float32bits(f)
		data[i*4] = byte(bits)
		data[i*4+1] = byte(bits >> 8)
		data[i*4+2] = byte(bits >> 16)
		data[i*4+3] = byte(bits >> 24)
	}
	return data
}

func decodeEmbedding(data []byte) []float32 {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil
	}
	out := make([]float32, len(data)/4)
	for i := range out {
		bits := uint32(data[i*4]) | uint32(data[i*4+1])<<8 | uint32(data[i*4+2])<<16 | uint32(data[i*4+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out
}

// ParseLayer normalizes a free-form layer string from a tool call
// into a Layer, defaulting to "" (all layers) on no match.
func ParseLayer(s string) Layer {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(LayerSemantic):
		return LayerSemantic
	case string(LayerEpisodic):
		return LayerEpisodic
	case string(LayerProcedural):
		return LayerProcedural
	default:
		return ""
	}
}
