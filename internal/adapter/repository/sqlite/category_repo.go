package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fincalc/finsync/internal/domain"
)

// CategoryRepository stores the last known-good category state.
type CategoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// FetchAll returns all locally stored categories.
func (r *CategoryRepository) FetchAll(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, emoji, is_income
		FROM categories
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Create inserts a category.
func (r *CategoryRepository) Create(ctx context.Context, category domain.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, emoji, is_income)
		VALUES (?, ?, ?, ?)
	`, category.ID, category.Name, category.Emoji, category.Direction.IsIncome())
	if err != nil {
		return fmt.Errorf("insert category %d: %w", category.ID, err)
	}
	return nil
}

// Update overwrites an existing category. No-op when the id is not stored.
func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, emoji = ?, is_income = ?
		WHERE id = ?
	`, category.Name, category.Emoji, category.Direction.IsIncome(), category.ID)
	if err != nil {
		return fmt.Errorf("update category %d: %w", category.ID, err)
	}
	return nil
}

// Delete removes a category. No-op when the id is not stored.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

// FindByID returns the stored category or domain.ErrCategoryNotFound.
func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, emoji, is_income
		FROM categories
		WHERE id = ?
	`, id)

	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func scanCategory(row rowScanner) (domain.Category, error) {
	var (
		category domain.Category
		isIncome bool
	)
	if err := row.Scan(&category.ID, &category.Name, &category.Emoji, &isIncome); err != nil {
		return domain.Category{}, err
	}
	category.Direction = domain.DirectionFromIncome(isIncome)
	return category, nil
}
