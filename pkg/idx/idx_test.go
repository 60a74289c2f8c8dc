package idx_test

import (
	"testing"
	"time"

	"github.com/silveracademy/familyportal/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewIsParseable(t *testing.T) {
	id := idx.New()
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestNewIsMonotonic(t *testing.T) {
	prev := idx.New()
	for range 100 {
		next := idx.New()
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "   ", "not-a-ulid", "0000000000000000000000000!"} {
		_, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid, "input %q", s)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id := idx.NewAt(at)
	require.WithinDuration(t, at, id.Time(), time.Millisecond)
}
