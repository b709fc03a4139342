// internal/history/history.go
//
// Finished-game records.
//
// The whole list lives as one JSON array under a fixed key in the kv store,
// newest first, matching what earlier clients wrote. A corrupt value is
// logged and treated as an empty history rather than failing the request.

package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/picklescore/internal/game"
	"github.com/robalobadob/picklescore/internal/kv"
)

// Key is where the record list is stored.
const Key = "pickleScoreHistory"

// Item is one finished game.
type Item struct {
	ID         string        `json:"id"`
	Date       string        `json:"date"` // RFC3339, UTC
	Settings   game.Settings `json:"settings"`
	FinalScore game.Score    `json:"finalScore"` // team 1, team 2
	Winner     game.Team     `json:"winner"`
}

// TeamLabels names both teams the way the history list shows them:
// "A & B" in doubles, just the player in singles.
func (it Item) TeamLabels() (team1, team2 string) {
	p := it.Settings.Players
	if it.Settings.Mode == game.Doubles {
		return strings.Join([]string{p.BottomRight, p.BottomLeft}, " & "),
			strings.Join([]string{p.TopLeft, p.TopRight}, " & ")
	}
	return p.BottomRight, p.TopLeft
}

// Store reads and writes the record list.
type Store struct {
	mu  sync.Mutex // serialises read-modify-write of the list
	kv  kv.Store
	now func() time.Time
}

// NewStore wraps a kv.Store.
func NewStore(s kv.Store) *Store { return &Store{kv: s, now: time.Now} }

// List returns every record, newest first.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	raw, err := s.kv.Get(ctx, Key)
	if errors.Is(err, kv.ErrNotFound) {
		return []Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn().Err(err).Msg("stored history is corrupt; starting empty")
		return []Item{}, nil
	}
	return items, nil
}

// Append records a finished game and returns the stored item.
func (s *Store) Append(ctx context.Context, fg game.FinishedGame) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.List(ctx)
	if err != nil {
		return Item{}, err
	}
	it := Item{
		ID:         uuid.NewString(),
		Date:       s.now().UTC().Format(time.RFC3339),
		Settings:   fg.Settings,
		FinalScore: fg.FinalScore,
		Winner:     fg.Winner,
	}
	items = append([]Item{it}, items...)
	raw, err := json.Marshal(items)
	if err != nil {
		return Item{}, fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Put(ctx, Key, raw); err != nil {
		return Item{}, fmt.Errorf("save history: %w", err)
	}
	return it, nil
}

// Clear deletes every record.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
