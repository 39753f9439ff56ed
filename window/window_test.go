package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPushLossyEvictsOldest(t *testing.T) {
	b := NewBuffer(2)
	b.PushLossy(1 * time.Second)
	b.PushLossy(2 * time.Second)
	b.PushLossy(3 * time.Second)
	require.Equal(t, 2, b.Len())
	require.Equal(t, []time.Duration{2 * time.Second, 3 * time.Second}, b.Samples())
}

func TestPushLossyBounded(t *testing.T) {
	b := NewBuffer(5)
	for i := 1; i <= 100; i++ {
		b.PushLossy(time.Duration(i))
		require.LessOrEqual(t, b.Len(), 5)
	}
	// last 5 pushes, oldest first
	require.Equal(t, []time.Duration{96, 97, 98, 99, 100}, b.Samples())
}

func TestPushLossyPartialFill(t *testing.T) {
	b := NewBuffer(4)
	b.PushLossy(10 * time.Millisecond)
	b.PushLossy(20 * time.Millisecond)
	require.Equal(t, 2, b.Len())
	require.Equal(t, 4, b.Cap())
	require.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, b.Samples())
}

func TestZeroCapacityDiscardsEverything(t *testing.T) {
	b := NewBuffer(0)
	b.PushLossy(time.Second)
	b.PushLossy(time.Second)
	require.Equal(t, 0, b.Len())
	require.Nil(t, b.Samples())
}

func TestSamplesIsACopy(t *testing.T) {
	b := NewBuffer(3)
	b.PushLossy(1)
	b.PushLossy(2)
	s := b.Samples()
	s[0] = 99
	require.Equal(t, []time.Duration{1, 2}, b.Samples())
}
