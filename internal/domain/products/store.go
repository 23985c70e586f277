package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the data access abstraction for the products domain.
// Implemented by Repository (which uses pgxpool.Pool).
// Every operation takes the owning user's id and restricts itself to that
// user's rows; the database enforces nothing beyond these predicates.
type Store interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, ownerID int64, id uuid.UUID) (*Product, error)
	Update(ctx context.Context, p *Product) error
	UpdateStatus(ctx context.Context, ownerID int64, id uuid.UUID, status UsageStatus) error
	Delete(ctx context.Context, ownerID int64, id uuid.UUID) error

	ListFiltered(ctx context.Context, ownerID int64, f Filter) ([]*Product, int, error)
	FilterOptions(ctx context.Context, ownerID int64) (*FilterOptions, error)

	ListBoard(ctx context.Context, ownerID int64) ([]*BoardCard, error)
	ListRepurchase(ctx context.Context, ownerID int64) ([]TasteRow, error)
	ListHighRated(ctx context.Context, ownerID int64, minRating, limit int) ([]TasteRow, error)
	ListTaste(ctx context.Context, ownerID int64) ([]TasteRow, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products
			(id, user_id, name, brand, price, category, purchase_date, photo_url, usage_status, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at;
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		p.ID, p.UserID, p.Name, p.Brand, p.Price, p.Category,
		p.PurchaseDate, p.PhotoURL, p.UsageStatus, p.Rating,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, ownerID int64, id uuid.UUID) (*Product, error) {
	query := `
		SELECT id, user_id, name, brand, price, category, purchase_date,
		       photo_url, usage_status, rating, created_at
		FROM products
		WHERE id = $1 AND user_id = $2;
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	p := &Product{}
	err := r.db.QueryRow(ctx, query, id, ownerID).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Brand, &p.Price, &p.Category,
		&p.PurchaseDate, &p.PhotoURL, &p.UsageStatus, &p.Rating, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return p, nil
}

// Update writes every mutable column explicitly; callers send the full
// record, clearing a field by sending null.
func (r *Repository) Update(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET name = $1, brand = $2, price = $3, category = $4,
		    purchase_date = $5, usage_status = $6, rating = $7, photo_url = $8
		WHERE id = $9 AND user_id = $10;
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	cmd, err := r.db.Exec(ctx, query,
		p.Name, p.Brand, p.Price, p.Category,
		p.PurchaseDate, p.UsageStatus, p.Rating, p.PhotoURL,
		p.ID, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Repository) UpdateStatus(ctx context.Context, ownerID int64, id uuid.UUID, status UsageStatus) error {
	query := `UPDATE products SET usage_status = $1 WHERE id = $2 AND user_id = $3;`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	cmd, err := r.db.Exec(ctx, query, string(status), id, ownerID)
	if err != nil {
		return fmt.Errorf("update product status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, ownerID int64, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1 AND user_id = $2;`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListFiltered returns a page of products and the true total. It uses
// COUNT(*) OVER() when rows exist; if the page is beyond the end (0 rows
// returned), it falls back to a separate COUNT(*) to avoid a false total.
func (r *Repository) ListFiltered(ctx context.Context, ownerID int64, f Filter) ([]*Product, int, error) {
	query, args := buildListQuery(ownerID, f)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		list       []*Product
		totalCount int
	)

	for rows.Next() {
		var p Product
		var t int
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Name, &p.Brand, &p.Price, &p.Category,
			&p.PurchaseDate, &p.PhotoURL, &p.UsageStatus, &p.Rating, &p.CreatedAt, &t,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		if totalCount == 0 {
			totalCount = t
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}

	// Fallback: user paged past the end -> no rows, but total may be > 0.
	if len(list) == 0 && f.Offset > 0 {
		countQuery, countArgs := buildCountQuery(ownerID, f)
		if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
			return nil, 0, fmt.Errorf("count products: %w", err)
		}
	}

	return list, totalCount, nil
}

// FilterOptions is recomputed on every call; the option lists are tiny and
// change with every insert, so there is nothing worth caching.
func (r *Repository) FilterOptions(ctx context.Context, ownerID int64) (*FilterOptions, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	opts := &FilterOptions{
		Categories:    []string{},
		Brands:        []string{},
		UsageStatuses: []string{},
	}

	columns := []struct {
		query string
		dest  *[]string
	}{
		{`SELECT DISTINCT category FROM products WHERE user_id = $1 AND category IS NOT NULL ORDER BY category;`, &opts.Categories},
		{`SELECT DISTINCT brand FROM products WHERE user_id = $1 AND brand IS NOT NULL ORDER BY brand;`, &opts.Brands},
		{`SELECT DISTINCT usage_status FROM products WHERE user_id = $1 AND usage_status IS NOT NULL ORDER BY usage_status;`, &opts.UsageStatuses},
	}

	for _, c := range columns {
		rows, err := r.db.Query(ctx, c.query, ownerID)
		if err != nil {
			return nil, fmt.Errorf("filter options: %w", err)
		}
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan filter option: %w", err)
			}
			*c.dest = append(*c.dest, v)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("rows iteration: %w", err)
		}
	}

	return opts, nil
}

func (r *Repository) ListBoard(ctx context.Context, ownerID int64) ([]*BoardCard, error) {
	query := `
		SELECT id, name, brand, category, rating, price, photo_url,
		       COALESCE(usage_status, 'new'), created_at
		FROM products
		WHERE user_id = $1
		ORDER BY created_at DESC;
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list board: %w", err)
	}
	defer rows.Close()

	var cards []*BoardCard
	for rows.Next() {
		var c BoardCard
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Brand, &c.Category, &c.Rating,
			&c.Price, &c.PhotoURL, &c.UsageStatus, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan board card: %w", err)
		}
		cards = append(cards, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return cards, nil
}

func (r *Repository) ListRepurchase(ctx context.Context, ownerID int64) ([]TasteRow, error) {
	query := `
		SELECT name, brand, category, rating, price, usage_status
		FROM products
		WHERE user_id = $1 AND usage_status = $2
		ORDER BY rating DESC NULLS LAST;
	`
	return r.tasteRows(ctx, query, ownerID, string(StatusRepurchase))
}

func (r *Repository) ListHighRated(ctx context.Context, ownerID int64, minRating, limit int) ([]TasteRow, error) {
	query := `
		SELECT name, brand, category, rating, price, usage_status
		FROM products
		WHERE user_id = $1 AND rating >= $2
		ORDER BY rating DESC
		LIMIT $3;
	`
	return r.tasteRows(ctx, query, ownerID, minRating, limit)
}

func (r *Repository) ListTaste(ctx context.Context, ownerID int64) ([]TasteRow, error) {
	query := `
		SELECT name, brand, category, rating, price, usage_status
		FROM products
		WHERE user_id = $1;
	`
	return r.tasteRows(ctx, query, ownerID)
}

func (r *Repository) tasteRows(ctx context.Context, query string, args ...any) ([]TasteRow, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("taste rows: %w", err)
	}
	defer rows.Close()

	var list []TasteRow
	for rows.Next() {
		var t TasteRow
		if err := rows.Scan(&t.Name, &t.Brand, &t.Category, &t.Rating, &t.Price, &t.UsageStatus); err != nil {
			return nil, fmt.Errorf("scan taste row: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return list, nil
}
