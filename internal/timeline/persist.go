package timeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/marlowe/fabula/internal/apperr"
	"github.com/marlowe/fabula/internal/store"
)

// LoadSnapshot reads every collection blob from the store. An absent or
// unparseable blob falls back to that collection's default value; parse
// failures are logged, never fatal.
func LoadSnapshot(st store.Store, logger *slog.Logger, now time.Time) Snapshot {
	defaults := DefaultSnapshot(now)
	snap := Snapshot{
		Cards:     loadCollection(st, logger, store.KeyCards, defaults.Cards),
		Groups:    loadCollection(st, logger, store.KeyGroups, defaults.Groups),
		Templates: loadCollection(st, logger, store.KeyTemplates, defaults.Templates),
		Searches:  loadCollection(st, logger, store.KeySearches, defaults.Searches),
		Notes:     loadCollection(st, logger, store.KeyNotes, defaults.Notes),
	}
	return snap
}

func loadCollection[T any](st store.Store, logger *slog.Logger, key string, fallback []T) []T {
	data, err := st.Get(key)
	if errors.Is(err, apperr.ErrNotFound) {
		return fallback
	}
	if err != nil {
		logger.Warn("load: read failed, using default",
			slog.String("key", key), slog.String("error", err.Error()))
		return fallback
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		logger.Warn("load: parse failed, using default",
			slog.String("key", key), slog.String("error", err.Error()))
		return fallback
	}
	if out == nil {
		out = []T{}
	}
	return out
}

// SaveSnapshot writes every collection as one JSON blob per key. Failures
// are collected so a refused write for one key does not block the rest;
// the in-memory state stays authoritative either way.
func SaveSnapshot(st store.Store, snap Snapshot) error {
	var errs []error
	put := func(key string, v any) {
		data, err := json.Marshal(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("marshal %s: %w", key, err))
			return
		}
		if err := st.Put(key, data); err != nil {
			errs = append(errs, err)
		}
	}
	put(store.KeyCards, snap.Cards)
	put(store.KeyGroups, snap.Groups)
	put(store.KeyTemplates, snap.Templates)
	put(store.KeySearches, snap.Searches)
	put(store.KeyNotes, snap.Notes)
	return errors.Join(errs...)
}

// ReloadCollection re-reads one collection blob and swaps it into the live
// state, used when the blob file changed on disk behind our back. The
// surrounding snapshot normalization (resequencing, owner rebuild) runs as
// for any Replace.
func (s *Service) ReloadCollection(st store.Store, logger *slog.Logger, key string) error {
	snap := s.Snapshot()
	switch key {
	case store.KeyCards:
		snap.Cards = loadCollection(st, logger, key, snap.Cards)
	case store.KeyGroups:
		snap.Groups = loadCollection(st, logger, key, snap.Groups)
	case store.KeyTemplates:
		snap.Templates = loadCollection(st, logger, key, snap.Templates)
	case store.KeySearches:
		snap.Searches = loadCollection(st, logger, key, snap.Searches)
	case store.KeyNotes:
		snap.Notes = loadCollection(st, logger, key, snap.Notes)
	default:
		return fmt.Errorf("reload: unknown collection %q", key)
	}
	s.Replace(snap)
	return nil
}
