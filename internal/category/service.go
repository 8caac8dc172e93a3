package category

import (
	"context"
	"fmt"
	"strings"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	ListActive(ctx context.Context) ([]*Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	Deactivate(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListActive returns active categories ordered by name. An unreachable store
// is reported as an error, never as an empty list.
func (s *Service) ListActive(ctx context.Context) ([]*Category, error) {
	return s.repo.ListActive(ctx)
}

// Add creates a new active category. A name used by a deactivated category
// still counts as taken; the old row is not reactivated.
func (s *Service) Add(ctx context.Context, name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	c := &Category{
		Name:        name,
		Description: strings.TrimSpace(description),
		Active:      true,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("adding category %q: %w", name, err)
	}

	return c, nil
}

// Deactivate hides a category from new entries. Unknown ids succeed silently
// and saved values keep referencing the row.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}

// ByName indexes categories by their exact name.
func ByName(categories []*Category) map[string]*Category {
	idx := make(map[string]*Category, len(categories))
	for _, c := range categories {
		idx[c.Name] = c
	}

	return idx
}
