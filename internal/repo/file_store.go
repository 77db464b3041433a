// Package repo implements persistence for the sentiment backend. This file
// provides FileStore, an append-only JSON array file of analysis records.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-sentiment-backend/internal/domain"
)

// TimestampLayout is the fixed-width UTC layout written to every record, so
// lexical and chronological order agree.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// ErrCorruptStore is returned when the store file exists but does not hold a
// JSON array of records.
var ErrCorruptStore = errors.New("analysis store is corrupt")

// FileStore persists analysis records to a single JSON array file. Every Save
// reads the whole file, appends one record, and rewrites it through a temp
// file and rename. A process-wide mutex serializes access.
type FileStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewFileStore returns a store backed by path. The file is created on the
// first Save; its parent directory must exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Save appends a record for text and analysis with id = count + 1 and the
// current UTC timestamp.
func (s *FileStore) Save(ctx context.Context, text string, analysis json.RawMessage) (*domain.AnalysisRecord, error) {
	_, span := otel.Tracer("repo/FileStore").Start(ctx, "Save",
		trace.WithAttributes(attribute.Int("text.len", len(text))),
	)
	defer span.End()

	if !json.Valid(analysis) {
		return nil, fmt.Errorf("save analysis: invalid JSON payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	rec := domain.AnalysisRecord{
		ID:        len(records) + 1,
		Text:      text,
		Analysis:  analysis,
		Timestamp: s.now().UTC().Format(TimestampLayout),
	}
	records = append(records, rec)

	if err := s.write(records); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("record.id", rec.ID))
	return &rec, nil
}

// All returns every record in file order. A missing file yields no records.
func (s *FileStore) All(ctx context.Context) ([]domain.AnalysisRecord, error) {
	_, span := otel.Tracer("repo/FileStore").Start(ctx, "All")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Recent returns up to limit records ordered by timestamp, newest first.
// Equal timestamps fall back to the higher id first. limit <= 0 returns all.
func (s *FileStore) Recent(ctx context.Context, limit int) ([]domain.AnalysisRecord, error) {
	ctx, span := otel.Tracer("repo/FileStore").Start(ctx, "Recent",
		trace.WithAttributes(attribute.Int("limit", limit)),
	)
	defer span.End()

	records, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Timestamp != records[j].Timestamp {
			return records[i].Timestamp > records[j].Timestamp
		}
		return records[i].ID > records[j].ID
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *FileStore) load() ([]domain.AnalysisRecord, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.AnalysisRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	records := []domain.AnalysisRecord{}
	if len(b) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	return records, nil
}

func (s *FileStore) write(records []domain.AnalysisRecord) error {
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}
