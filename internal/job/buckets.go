package job

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Buckets groups postings by category, the shape the pipeline passes between
// stages and hands to the external reporter.
type Buckets map[Category][]*Posting

func NewBuckets() Buckets {
	b := make(Buckets, len(Categories()))
	for _, c := range Categories() {
		b[c] = nil
	}
	return b
}

// Total counts postings across all categories.
func (b Buckets) Total() int {
	n := 0
	for _, postings := range b {
		n += len(postings)
	}
	return n
}

// Flatten returns all postings in category order, preserving in-category
// order.
func (b Buckets) Flatten() []*Posting {
	flat := make([]*Posting, 0, b.Total())
	for _, c := range Categories() {
		flat = append(flat, b[c]...)
	}
	return flat
}

// DumpToFile writes the buckets as an indented JSON document, creating parent
// directories as needed. Used to snapshot raw scraped postings for debugging.
func (b Buckets) DumpToFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}
