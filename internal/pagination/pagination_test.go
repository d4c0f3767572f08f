package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("defaults for zero values", func(t *testing.T) {
		p := Normalize(0, 0)
		require.Equal(t, 1, p.Page)
		require.Equal(t, 20, p.Limit)
	})

	t.Run("negative page clamps to first", func(t *testing.T) {
		p := Normalize(-3, 10)
		require.Equal(t, 1, p.Page)
		require.Equal(t, 10, p.Limit)
	})

	t.Run("limit clamps to maximum", func(t *testing.T) {
		p := Normalize(2, 500)
		require.Equal(t, 2, p.Page)
		require.Equal(t, 100, p.Limit)
	})
}

func TestOffset(t *testing.T) {
	require.Equal(t, 0, Normalize(1, 20).Offset())
	require.Equal(t, 40, Normalize(3, 20).Offset())
}

func TestNewMeta(t *testing.T) {
	t.Run("total pages rounds up", func(t *testing.T) {
		meta := NewMeta(45, Normalize(1, 20))
		require.Equal(t, 45, meta.Total)
		require.Equal(t, 3, meta.TotalPages)
	})

	t.Run("exact multiple", func(t *testing.T) {
		meta := NewMeta(40, Normalize(2, 20))
		require.Equal(t, 2, meta.TotalPages)
	})

	t.Run("empty result set", func(t *testing.T) {
		meta := NewMeta(0, Normalize(1, 20))
		require.Equal(t, 0, meta.Total)
		require.Equal(t, 0, meta.TotalPages)
	})
}
