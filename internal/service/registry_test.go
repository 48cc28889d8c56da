package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// sequence выдаёт номера по порядку, повторяя последний
func sequence(ids ...int) func() int {
	i := 0
	return func() int {
		id := ids[i]
		if i < len(ids)-1 {
			i++
		}
		return id
	}
}

func TestRegistry_RandomIDsStayInRange(t *testing.T) {
	r := NewRegistry(false, zaptest.NewLogger(t))

	for i := 0; i < 200; i++ {
		app := r.Create(int64(i), "user", "text")
		assert.GreaterOrEqual(t, app.ID, MinApplicationID)
		assert.LessOrEqual(t, app.ID, MaxApplicationID)
	}
	assert.Equal(t, 200, r.Len())
}

func TestRegistry_RedrawsTakenID(t *testing.T) {
	r := NewRegistry(false, zaptest.NewLogger(t))
	r.nextID = sequence(1234, 1234, 1234, 5678)

	first := r.Create(1, "a", "first")
	second := r.Create(2, "b", "second")

	assert.Equal(t, 1234, first.ID)
	assert.Equal(t, 5678, second.ID)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_OverwritesWhenAllowed(t *testing.T) {
	r := NewRegistry(true, zaptest.NewLogger(t))
	r.nextID = sequence(1234, 1234, 2000)

	r.Create(1, "a", "first")
	r.Create(2, "b", "second")
	r.Create(3, "c", "third")

	require.Equal(t, 2, r.Len())
	app, ok := r.Get(1234)
	require.True(t, ok)
	assert.Equal(t, int64(2), app.ApplicantID)

	open := r.ListOpen()
	require.Len(t, open, 2)
	assert.Equal(t, 1234, open[0].ID, "overwritten entry keeps its place in the queue")
	assert.Equal(t, 2000, open[1].ID)
}

func TestRegistry_RemoveMissingLeavesOthersIntact(t *testing.T) {
	r := NewRegistry(false, zaptest.NewLogger(t))
	r.nextID = sequence(1001, 1002)
	r.Create(1, "a", "first")
	r.Create(2, "b", "second")
	before := r.ListOpen()

	err := r.Remove(9999)

	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.Equal(t, before, r.ListOpen())
}

func TestRegistry_ListOpenKeepsInsertionOrder(t *testing.T) {
	r := NewRegistry(false, zaptest.NewLogger(t))
	r.nextID = sequence(5000, 1000, 9000, 3000)
	for i := 1; i <= 4; i++ {
		r.Create(int64(i), "u", "t")
	}

	require.NoError(t, r.Remove(9000))

	var ids []int
	for _, app := range r.ListOpen() {
		ids = append(ids, app.ID)
	}
	assert.Equal(t, []int{5000, 1000, 3000}, ids)
}

func TestRegistry_TakeIsSingleShot(t *testing.T) {
	r := NewRegistry(false, zaptest.NewLogger(t))
	app := r.Create(7, "u", "t")

	taken, ok := r.Take(app.ID)
	require.True(t, ok)
	assert.Equal(t, app, taken)

	_, ok = r.Take(app.ID)
	assert.False(t, ok)
	assert.ErrorIs(t, r.Remove(app.ID), ErrApplicationNotFound)
}

func TestRegistry_IDReusedAfterResolution(t *testing.T) {
	r := NewRegistry(false, zaptest.NewLogger(t))
	r.nextID = sequence(4242)

	first := r.Create(1, "a", "t")
	require.NoError(t, r.Remove(first.ID))
	second := r.Create(2, "b", "t")

	assert.Equal(t, first.ID, second.ID)
}
