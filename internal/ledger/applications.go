package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/job"
)

// ApplicationEntry records one application attempt, successful or not.
type ApplicationEntry struct {
	Title      string    `json:"title"`
	Company    string    `json:"company"`
	URL        string    `json:"url"`
	AppliedAt  time.Time `json:"applied_at"`
	Status     string    `json:"status"`
	MatchScore int       `json:"match_score"`
}

// ApplicationStore is the application ledger, keyed by posting identity.
// Re-recording an identity overwrites the previous attempt.
type ApplicationStore struct {
	path   string
	jobs   map[string]*ApplicationEntry
	dirty  bool
	logger *zap.Logger

	now func() time.Time
}

func NewApplicationStore(path string, log *zap.Logger) (*ApplicationStore, error) {
	s := &ApplicationStore{
		path:   path,
		jobs:   make(map[string]*ApplicationEntry),
		logger: log,
		now:    time.Now,
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("loading application ledger: %w", err)
	}
	return s, nil
}

func (s *ApplicationStore) load() error {
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

	if err := json.NewDecoder(file).Decode(&s.jobs); err != nil {
		return err
	}
	if s.jobs == nil {
		s.jobs = make(map[string]*ApplicationEntry)
	}
	return nil
}

func (s *ApplicationStore) Len() int { return len(s.jobs) }

// Contains reports whether an application attempt was ever recorded for the
// posting identity.
func (s *ApplicationStore) Contains(id string) bool {
	_, ok := s.jobs[id]
	return ok
}

// Record stores the outcome of an application attempt. Last write wins.
func (s *ApplicationStore) Record(p *job.Posting, status string) {
	id := p.Identity()
	if id == "" {
		s.logger.Warn("posting without identity not recorded",
			zap.String("title", p.Title),
		)
		return
	}

	s.jobs[id] = &ApplicationEntry{
		Title:      p.Title,
		Company:    p.Company,
		URL:        p.URL,
		AppliedAt:  s.now().UTC(),
		Status:     status,
		MatchScore: p.Score(),
	}
	s.dirty = true
}

// Flush writes the ledger atomically. A no-op when nothing changed.
func (s *ApplicationStore) Flush() error {
	if !s.dirty {
		return nil
	}
	if err := writeJSONAtomic(s.path, s.jobs); err != nil {
		return fmt.Errorf("flushing application ledger: %w", err)
	}
	s.dirty = false
	return nil
}
