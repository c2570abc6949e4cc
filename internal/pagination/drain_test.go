package pagination

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrain(t *testing.T) {
	t.Run("reads pages until one reports no successor", func(t *testing.T) {
		pages := map[int][]int{1: {1, 2}, 2: {3, 4}, 3: {5}}

		got, err := Drain(context.Background(), 0, func(_ context.Context, page int) ([]int, bool, error) {
			items := pages[page]
			return items, FullPage(len(items), 2), nil
		})

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
	})

	t.Run("stops at the page cap", func(t *testing.T) {
		calls := 0
		got, err := Drain(context.Background(), 3, func(_ context.Context, page int) ([]int, bool, error) {
			calls++
			return []int{page}, true, nil
		})

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, got)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns fetch errors", func(t *testing.T) {
		_, err := Drain(context.Background(), 0, func(_ context.Context, page int) ([]int, bool, error) {
			if page == 2 {
				return nil, false, errors.New("boom")
			}
			return []int{page}, true, nil
		})

		assert.EqualError(t, err, "fetch page 2: boom")
	})
}

func TestFullPage(t *testing.T) {
	assert.True(t, FullPage(500, 500))
	assert.False(t, FullPage(499, 500))
	assert.False(t, FullPage(0, 500))
}
