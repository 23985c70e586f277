// Package kanban holds the status board: four fixed columns, one card per
// product, and a flat transition graph where any status may move directly to
// any other. Moves are applied optimistically and the whole board is
// restored from a snapshot when the remote write fails.
package kanban

import (
	"context"
	"errors"
	"sync"

	"glowstash/internal/domain/products"

	"github.com/google/uuid"
)

var (
	ErrUnknownCard   = errors.New("product not on board")
	ErrInvalidStatus = errors.New("invalid usage status")
)

// StatusUpdater is the remote confirmation for a move; in production it is
// the products store scoped to the board's owner.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, ownerID int64, id uuid.UUID, status products.UsageStatus) error
}

// MoveOutcome tells the caller what a drop gesture did.
type MoveOutcome struct {
	Moved bool                 `json:"moved"`
	From  products.UsageStatus `json:"from,omitempty"`
	To    products.UsageStatus `json:"to,omitempty"`
}

// Board is the in-memory kanban state for one owner. One move runs at a
// time; concurrent drags racing each other are out of scope.
type Board struct {
	mu      sync.Mutex
	ownerID int64
	cards   []*products.BoardCard
}

func NewBoard(ownerID int64, cards []*products.BoardCard) *Board {
	return &Board{ownerID: ownerID, cards: cards}
}

// Columns groups the cards by status in the fixed column order. Card order
// within a column follows the board's list order.
func (b *Board) Columns() map[products.UsageStatus][]*products.BoardCard {
	b.mu.Lock()
	defer b.mu.Unlock()

	cols := make(map[products.UsageStatus][]*products.BoardCard, len(products.AllStatuses))
	for _, s := range products.AllStatuses {
		cols[s] = []*products.BoardCard{}
	}
	for _, c := range b.cards {
		s := products.UsageStatus(c.UsageStatus)
		cols[s] = append(cols[s], c)
	}
	return cols
}

// Move handles a drop: no-op when the target equals the current status,
// otherwise snapshot, apply locally, confirm remotely, and restore the
// entire pre-move board on failure. The returned error is the remote one;
// after a failed move the board is byte-for-byte its old self.
func (b *Board) Move(ctx context.Context, id uuid.UUID, target products.UsageStatus, updater StatusUpdater) (MoveOutcome, error) {
	if !target.Valid() {
		return MoveOutcome{}, ErrInvalidStatus
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	card := b.find(id)
	if card == nil {
		return MoveOutcome{}, ErrUnknownCard
	}

	from := products.UsageStatus(card.UsageStatus)
	if from == target {
		return MoveOutcome{Moved: false, From: from, To: target}, nil
	}

	snapshot := b.snapshot()
	card.UsageStatus = string(target)

	if err := updater.UpdateStatus(ctx, b.ownerID, id, target); err != nil {
		b.cards = snapshot
		return MoveOutcome{}, err
	}

	return MoveOutcome{Moved: true, From: from, To: target}, nil
}

// Cards returns the board's list order, a copy.
func (b *Board) Cards() []*products.BoardCard {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

func (b *Board) find(id uuid.UUID) *products.BoardCard {
	for _, c := range b.cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// snapshot deep-copies the card list so a restore cannot alias mutated cards.
func (b *Board) snapshot() []*products.BoardCard {
	out := make([]*products.BoardCard, len(b.cards))
	for i, c := range b.cards {
		cc := *c
		out[i] = &cc
	}
	return out
}
