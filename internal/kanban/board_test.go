package kanban

import (
	"context"
	"errors"
	"testing"

	"glowstash/internal/domain/products"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUpdater struct {
	err   error
	calls int
}

func (f *fakeUpdater) UpdateStatus(ctx context.Context, ownerID int64, id uuid.UUID, status products.UsageStatus) error {
	f.calls++
	return f.err
}

func card(name, status string) *products.BoardCard {
	return &products.BoardCard{ID: uuid.New(), Name: name, UsageStatus: status}
}

func TestMove_AppliesAndConfirms(t *testing.T) {
	lipstick := card("lipstick", "new")
	board := NewBoard(1, []*products.BoardCard{lipstick, card("toner", "finished")})
	updater := &fakeUpdater{}

	outcome, err := board.Move(context.Background(), lipstick.ID, products.StatusFinished, updater)

	require.NoError(t, err)
	assert.True(t, outcome.Moved)
	assert.Equal(t, products.StatusNew, outcome.From)
	assert.Equal(t, products.StatusFinished, outcome.To)
	assert.Equal(t, 1, updater.calls)

	cols := board.Columns()
	assert.Empty(t, cols[products.StatusNew])
	assert.Len(t, cols[products.StatusFinished], 2)
}

func TestMove_SameStatusIsNoOp(t *testing.T) {
	lipstick := card("lipstick", "new")
	board := NewBoard(1, []*products.BoardCard{lipstick})
	updater := &fakeUpdater{}

	outcome, err := board.Move(context.Background(), lipstick.ID, products.StatusNew, updater)

	require.NoError(t, err)
	assert.False(t, outcome.Moved)
	assert.Zero(t, updater.calls, "no remote call for a same-column drop")
}

func TestMove_UnknownCard(t *testing.T) {
	board := NewBoard(1, []*products.BoardCard{card("lipstick", "new")})

	_, err := board.Move(context.Background(), uuid.New(), products.StatusFinished, &fakeUpdater{})

	assert.ErrorIs(t, err, ErrUnknownCard)
}

func TestMove_InvalidTarget(t *testing.T) {
	lipstick := card("lipstick", "new")
	board := NewBoard(1, []*products.BoardCard{lipstick})
	updater := &fakeUpdater{}

	_, err := board.Move(context.Background(), lipstick.ID, products.UsageStatus("archived"), updater)

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Zero(t, updater.calls)
}

func TestMove_RemoteFailureRestoresWholeBoard(t *testing.T) {
	lipstick := card("lipstick", "new")
	toner := card("toner", "in progress")
	serum := card("serum", "want to repurchase")
	board := NewBoard(1, []*products.BoardCard{lipstick, toner, serum})

	before := board.Cards()
	remoteErr := errors.New("connection reset")

	_, err := board.Move(context.Background(), lipstick.ID, products.StatusFinished, &fakeUpdater{err: remoteErr})

	require.ErrorIs(t, err, remoteErr)

	after := board.Cards()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, *before[i], *after[i], "card %d must be untouched after rollback", i)
	}
}

func TestColumns_AlwaysHasAllFourColumns(t *testing.T) {
	board := NewBoard(1, nil)

	cols := board.Columns()

	require.Len(t, cols, 4)
	for _, s := range products.AllStatuses {
		assert.NotNil(t, cols[s])
	}
}
