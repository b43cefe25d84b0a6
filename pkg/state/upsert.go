package state

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔄 Upsert merges entries into the record for (repository, branch), skipping
// any entry structurally equal to one already present, then rewrites the store
func (s *Store) Upsert(ctx context.Context, entries []MatchEntry, repository, branch string) error {
	records, err := s.Load(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i := range records {
		if records[i].Repository == repository && records[i].Branch == branch {
			idx = i
			break
		}
	}
	if idx < 0 {
		records = append(records, LogRecord{Repository: repository, Branch: branch, Changes: []MatchEntry{}})
		idx = len(records) - 1
	}
	rec := &records[idx]
	if rec.Changes == nil {
		rec.Changes = []MatchEntry{}
	}

	seen := make(map[string]struct{}, len(rec.Changes)+len(entries))
	for _, e := range rec.Changes {
		key, err := canonical(e)
		if err != nil {
			return err
		}
		seen[key] = struct{}{}
	}

	added := 0
	for _, e := range entries {
		key, err := canonical(e)
		if err != nil {
			return err
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rec.Changes = append(rec.Changes, e)
		added++
	}

	zerolog.Ctx(ctx).Debug().
		Str("repository", repository).
		Str("branch", branch).
		Int("offered", len(entries)).
		Int("added", added).
		Msg("upserting matches")

	return s.save(ctx, records)
}

func canonical(e MatchEntry) (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", errors.Errorf("serializing match entry: %w", err)
	}
	return string(b), nil
}
