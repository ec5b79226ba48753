package location

import (
	"context"
	"testing"
	"time"

	"food-ordering-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatest(t *testing.T) {
	tr := NewMemoryTracker(time.Minute)
	ctx := context.Background()

	_, err := tr.Latest(ctx, "s1")
	assert.ErrorIs(t, err, ErrNoPosition)

	now := time.Now()
	require.NoError(t, tr.Publish(ctx, models.StaffLocation{StaffID: "s1", Lat: 16.8, Lng: 96.1, UpdatedAt: now}))
	loc, err := tr.Latest(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 16.8, loc.Lat)

	tr.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = tr.Latest(ctx, "s1")
	assert.ErrorIs(t, err, ErrNoPosition)
}

func TestSubscribe(t *testing.T) {
	tr := NewMemoryTracker(time.Minute)
	ctx := context.Background()

	ch, cancel := tr.Subscribe(ctx, "s1")
	require.NoError(t, tr.Publish(ctx, models.StaffLocation{StaffID: "s2", Lat: 1}))
	require.NoError(t, tr.Publish(ctx, models.StaffLocation{StaffID: "s1", Lat: 2}))

	select {
	case loc := <-ch:
		assert.Equal(t, "s1", loc.StaffID)
		assert.Equal(t, 2.0, loc.Lat)
	case <-time.After(time.Second):
		t.Fatal("no location delivered")
	}

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	require.NoError(t, tr.Publish(ctx, models.StaffLocation{StaffID: "s1", Lat: 3}))
}

func TestSubscribeEndsWithContext(t *testing.T) {
	tr := NewMemoryTracker(0)
	ctx, stop := context.WithCancel(context.Background())
	ch, _ := tr.Subscribe(ctx, "s1")
	stop()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
}
