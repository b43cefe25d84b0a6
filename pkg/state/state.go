package state

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// SearchLogName is the base name of the search mode log
	SearchLogName = "search_matches.json"

	// FixLogName is the base name of the fix mode log
	FixLogName = "matches.json"

	timestampLayout = "20060102-150405"
)

// ChangedText is the substring a match replaced. New is only set in fix mode.
type ChangedText struct {
	Old string `json:"old"`
	New string `json:"new,omitempty"`
}

// MatchEntry is one match recorded in the log
type MatchEntry struct {
	Filename    string      `json:"filename"` // repository-relative path
	Line        int         `json:"line"`     // 1-based
	Before      string      `json:"before"`
	After       string      `json:"after,omitempty"` // fix mode only
	ChangedText ChangedText `json:"changed_text"`
}

// LogRecord holds every distinct match for one (repository, branch)
type LogRecord struct {
	Repository string       `json:"repository"`
	Branch     string       `json:"branch"`
	Changes    []MatchEntry `json:"changes"`
}

// 📚 Store is a JSON match log on disk: an array of LogRecords
type Store struct {
	path string
}

// New returns a store backed by path; nothing is read until Load or Upsert
func New(path string) *Store {
	return &Store{path: path}
}

// Path is where the store lives
func (s *Store) Path() string {
	return s.path
}

// TimestampedName inserts a YYYYMMDD-HHMMSS stamp before the extension:
// "matches.json" -> "matches-20250102-150405.json"
func TimestampedName(base string, t time.Time) string {
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)] + "-" + t.Format(timestampLayout) + ext
}

// Load reads every record. A missing or unreadable store is treated as empty.
func (s *Store) Load(ctx context.Context) ([]LogRecord, error) {
	logger := zerolog.Ctx(ctx)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", s.path).Msg("match log does not exist yet")
			return []LogRecord{}, nil
		}
		return nil, errors.Errorf("reading match log: %w", err)
	}

	var records []LogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Warn().Err(err).Str("path", s.path).Msg("match log is not valid json, starting over")
		return []LogRecord{}, nil
	}
	if records == nil {
		records = []LogRecord{}
	}
	return records, nil
}

// save writes the whole store atomically
func (s *Store) save(ctx context.Context, records []LogRecord) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return errors.Errorf("marshaling match log: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Errorf("creating match log directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0644); err != nil {
		return errors.Errorf("writing temp match log: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp match log: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", s.path).Int("records", len(records)).Msg("saved match log")
	return nil
}
