package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/folio/internal/category"
	"github.com/MrJamesThe3rd/folio/internal/database"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListActive(ctx context.Context) ([]*category.Category, error) {
	query := `
		SELECT category_id, category_name, description, is_active, created_at
		FROM investment_category
		WHERE is_active = TRUE
		ORDER BY category_name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", database.Classify(err))
	}
	defer rows.Close()

	categories := make([]*category.Category, 0)

	for rows.Next() {
		var (
			c    category.Category
			desc sql.NullString
		)

		if err := rows.Scan(&c.ID, &c.Name, &desc, &c.Active, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		c.Description = desc.String
		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", database.Classify(err))
	}

	return categories, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO investment_category (category_name, description, is_active, created_at)
		VALUES ($1, NULLIF($2, ''), TRUE, NOW())
		RETURNING category_id, is_active, created_at
	`

	err := s.db.QueryRowContext(ctx, query, c.Name, c.Description).Scan(&c.ID, &c.Active, &c.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return category.ErrDuplicateName
		}

		return fmt.Errorf("creating category: %w", database.Classify(err))
	}

	return nil
}

func (s *Store) Deactivate(ctx context.Context, id int64) error {
	query := `
		UPDATE investment_category
		SET is_active = FALSE
		WHERE category_id = $1
	`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deactivating category: %w", database.Classify(err))
	}

	return nil
}
