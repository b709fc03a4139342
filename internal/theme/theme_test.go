package theme

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/picklescore/internal/kv"
)

func TestLoadDefaults(t *testing.T) {
	got, err := NewStore(kv.NewMemory()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Default, got)
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory())
	want := Theme{CourtColor: "#166534", KitchenColor: "#fb2"}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveRejectsBadColor(t *testing.T) {
	s := NewStore(kv.NewMemory())
	for _, bad := range []string{"", "blue", "#12", "#1234567", "3B82F6"} {
		err := s.Save(context.Background(), Theme{CourtColor: bad, KitchenColor: "#fff"})
		assert.ErrorIs(t, err, ErrInvalidColor, bad)
	}
}

func TestLoadFallsBackOnCorruptValue(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Put(ctx, Key, []byte(`{"courtColor":"red","kitchenColor":"#fff"}`)))

	got, err := NewStore(store).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Default, got)
}

func TestPresetsAreValid(t *testing.T) {
	require.NotEmpty(t, Presets)
	assert.Equal(t, Default, Presets[0].Theme)
	for _, p := range Presets {
		assert.NoError(t, p.Validate(), p.Name)
	}
}
