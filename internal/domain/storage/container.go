package storage

import (
	"glowstash/internal/domain/products"
	"glowstash/internal/domain/users"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Container bundles the domain repositories behind one handle for the
// application layer.
type Container struct {
	Users    users.Store
	Products products.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		Users:    users.NewRepository(db),
		Products: products.NewRepository(db),
	}
}
