package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fincalc/finsync/internal/domain"
	"github.com/fincalc/finsync/internal/wire"
)

// Categories fetches the authoritative category list.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	return c.fetchCategories(ctx, "categories")
}

// CategoriesByDirection fetches categories filtered by direction server-side.
func (c *Client) CategoriesByDirection(ctx context.Context, direction domain.Direction) ([]domain.Category, error) {
	return c.fetchCategories(ctx, fmt.Sprintf("categories/type/%t", direction.IsIncome()))
}

func (c *Client) fetchCategories(ctx context.Context, endpoint string) ([]domain.Category, error) {
	var payloads []wire.CategoryPayload
	if err := c.do(ctx, http.MethodGet, endpoint, "", nil, &payloads); err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(payloads))
	for _, p := range payloads {
		categories = append(categories, p.Domain())
	}
	return categories, nil
}

// CreateCategory creates a category remotely from the snapshot's request fields
// and returns the confirmed entity with its backend-assigned id.
func (c *Client) CreateCategory(ctx context.Context, key string, category domain.Category) (domain.Category, error) {
	var payload wire.CategoryPayload
	if err := c.do(ctx, http.MethodPost, "categories", key, wire.CategoryToRequest(category), &payload); err != nil {
		return domain.Category{}, err
	}
	return payload.Domain(), nil
}

// UpdateCategory updates a category remotely and returns the confirmed entity.
func (c *Client) UpdateCategory(ctx context.Context, key string, id int64, category domain.Category) (domain.Category, error) {
	var payload wire.CategoryPayload
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("categories/%d", id), key, wire.CategoryToRequest(category), &payload); err != nil {
		return domain.Category{}, err
	}
	return payload.Domain(), nil
}

// DeleteCategory deletes a category remotely. The endpoint returns no content.
func (c *Client) DeleteCategory(ctx context.Context, key string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("categories/%d", id), key, nil, nil)
}
