// Package ledger persists run-to-run state: which postings have been seen
// and which have been applied to. Both stores are small JSON documents read
// wholesale at startup and flushed wholesale once per run.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/job"
)

// SeenEntry records a posting the pipeline has already surfaced.
type SeenEntry struct {
	Title    string       `json:"title"`
	Company  string       `json:"company"`
	SeenAt   time.Time    `json:"seen_at"`
	Category job.Category `json:"category"`
}

type seenDocument struct {
	Jobs        map[string]*SeenEntry `json:"jobs"`
	LastUpdated time.Time             `json:"last_updated"`
}

// SeenStore is the dedup ledger. Suppression uses a drifting window: an
// entry's seen_at is refreshed only when the posting passes through again
// AFTER the window expired, so a posting reposted every few days stays
// suppressed only while its last recorded sighting is recent.
type SeenStore struct {
	path   string
	doc    seenDocument
	dirty  bool
	logger *zap.Logger

	now func() time.Time
}

func NewSeenStore(path string, log *zap.Logger) (*SeenStore, error) {
	s := &SeenStore{
		path:   path,
		doc:    seenDocument{Jobs: make(map[string]*SeenEntry)},
		logger: log,
		now:    time.Now,
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("loading seen ledger: %w", err)
	}
	return s, nil
}

func (s *SeenStore) load() error {
	file, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return err
	}
	if stat.Size() == 0 {
		return nil
	}

	if err := json.NewDecoder(file).Decode(&s.doc); err != nil {
		return err
	}
	if s.doc.Jobs == nil {
		s.doc.Jobs = make(map[string]*SeenEntry)
	}
	return nil
}

// Len returns the number of ledger entries.
func (s *SeenStore) Len() int { return len(s.doc.Jobs) }

// FilterNew keeps postings not seen within the last windowDays and records
// them. Postings without any identifier are kept unconditionally and never
// recorded. Suppressed postings keep their old seen_at untouched.
func (s *SeenStore) FilterNew(postings []*job.Posting, windowDays int) []*job.Posting {
	now := s.now().UTC()
	cutoff := now.AddDate(0, 0, -windowDays)

	kept := make([]*job.Posting, 0, len(postings))
	suppressed := 0
	for _, p := range postings {
		id := p.Identity()
		if id == "" {
			kept = append(kept, p)
			continue
		}

		if entry, ok := s.doc.Jobs[id]; ok && entry.SeenAt.After(cutoff) {
			suppressed++
			continue
		}

		s.doc.Jobs[id] = &SeenEntry{
			Title:    p.Title,
			Company:  p.Company,
			SeenAt:   now,
			Category: p.Category,
		}
		s.dirty = true
		kept = append(kept, p)
	}

	if suppressed > 0 {
		s.logger.Info("suppressed previously seen postings",
			zap.Int("suppressed", suppressed),
			zap.Int("new", len(kept)),
			zap.Int("window_days", windowDays),
		)
	}
	return kept
}

// Flush writes the ledger atomically. A no-op when nothing changed.
func (s *SeenStore) Flush() error {
	if !s.dirty {
		return nil
	}
	s.doc.LastUpdated = s.now().UTC()
	if err := writeJSONAtomic(s.path, &s.doc); err != nil {
		return fmt.Errorf("flushing seen ledger: %w", err)
	}
	s.dirty = false
	return nil
}

// writeJSONAtomic encodes v to a temp file in the target directory and
// renames it over path, so readers never observe a half-written document.
func writeJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	file, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := file.Name()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
