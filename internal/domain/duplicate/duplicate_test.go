package duplicate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInventory struct {
	addedAt map[string]time.Time
	err     error
}

func (f *fakeInventory) AcceptedBookAddedAt(_ context.Context, isbn string) (time.Time, bool, error) {
	if f.err != nil {
		return time.Time{}, false, f.err
	}
	at, ok := f.addedAt[isbn]
	return at, ok, nil
}

func TestDetector_Check(t *testing.T) {
	added := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	detector := NewDetector(&fakeInventory{addedAt: map[string]time.Time{
		"9780306406157": added,
	}})

	t.Run("known isbn", func(t *testing.T) {
		res, err := detector.Check(context.Background(), "9780306406157")
		require.NoError(t, err)
		assert.True(t, res.IsDuplicate)
		require.NotNil(t, res.PreviouslyAddedAt)
		assert.Equal(t, added, *res.PreviouslyAddedAt)
	})

	t.Run("unknown isbn", func(t *testing.T) {
		res, err := detector.Check(context.Background(), "9780399593543")
		require.NoError(t, err)
		assert.False(t, res.IsDuplicate)
		assert.Nil(t, res.PreviouslyAddedAt)
	})

	t.Run("lookup error", func(t *testing.T) {
		broken := NewDetector(&fakeInventory{err: errors.New("db locked")})
		_, err := broken.Check(context.Background(), "9780306406157")
		assert.Error(t, err)
	})
}
