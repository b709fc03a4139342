// internal/theme/theme.go
//
// Court colour settings, stored under a fixed kv key.

package theme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/picklescore/internal/kv"
)

// Key is where the theme is stored.
const Key = "pickleScoreSettings"

// ErrInvalidColor is returned by Save for anything but #RGB or #RRGGBB.
var ErrInvalidColor = errors.New("invalid color")

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Theme holds the two colours a court renderer needs.
type Theme struct {
	CourtColor   string `json:"courtColor"`
	KitchenColor string `json:"kitchenColor"`
}

// Preset is a named theme offered to the user.
type Preset struct {
	Name string `json:"name"`
	Theme
}

// Default is used until the user picks something else.
var Default = Theme{CourtColor: "#3B82F6", KitchenColor: "#F472B6"}

// Presets lists the built-in themes.
var Presets = []Preset{
	{"Classic Blue", Theme{"#3B82F6", "#F472B6"}},
	{"Forest Green", Theme{"#166534", "#FBBF24"}},
	{"Dusk Purple", Theme{"#581C87", "#F97316"}},
	{"Ruby Red", Theme{"#991B1B", "#67E8F9"}},
	{"Ocean Teal", Theme{"#0d9488", "#f0abfc"}},
	{"Graphite Gray", Theme{"#4b5563", "#f59e0b"}},
	{"Sunset Orange", Theme{"#f97316", "#4338ca"}},
	{"High Contrast", Theme{"#1f2937", "#d1d5db"}},
}

// Validate checks both colours.
func (t Theme) Validate() error {
	if !hexColor.MatchString(t.CourtColor) {
		return fmt.Errorf("court color %q: %w", t.CourtColor, ErrInvalidColor)
	}
	if !hexColor.MatchString(t.KitchenColor) {
		return fmt.Errorf("kitchen color %q: %w", t.KitchenColor, ErrInvalidColor)
	}
	return nil
}

// Store loads and saves the theme.
type Store struct{ kv kv.Store }

// NewStore wraps a kv.Store.
func NewStore(s kv.Store) *Store { return &Store{kv: s} }

// Load returns the saved theme, or Default when nothing usable is stored.
func (s *Store) Load(ctx context.Context) (Theme, error) {
	raw, err := s.kv.Get(ctx, Key)
	if errors.Is(err, kv.ErrNotFound) {
		return Default, nil
	}
	if err != nil {
		return Default, fmt.Errorf("load theme: %w", err)
	}
	var t Theme
	if err := json.Unmarshal(raw, &t); err != nil || t.Validate() != nil {
		log.Warn().Err(err).Msg("stored theme is unusable; using default")
		return Default, nil
	}
	return t, nil
}

// Save validates and stores t.
func (s *Store) Save(ctx context.Context, t Theme) error {
	if err := t.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}
	if err := s.kv.Put(ctx, Key, raw); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
