package inventoryapi

import (
	"context"

	"github.com/andeanfly/flightdesk/client"
	"github.com/andeanfly/flightdesk/domain"
)

// CreateMovement records a stock movement. Mutations carry the caller's
// user ID on the X-User-Id header.
func (a *API) CreateMovement(ctx context.Context, movement domain.Movement, userID string) (*domain.Movement, error) {
	var out domain.Movement
	if err := a.c.Post(ctx, "/api/inventory/movements", movement, &out, client.WithUserID(userID)); err != nil {
		return nil, err
	}
	return &out, nil
}

// Movements lists stock movements, paginated.
func (a *API) Movements(ctx context.Context, page, size int) (*Page[domain.Movement], error) {
	var out Page[domain.Movement]
	if err := a.c.Get(ctx, "/api/inventory/movements", &out, client.WithQuery(pageQuery(page, size))); err != nil {
		return nil, err
	}
	return &out, nil
}

// MovementsByProduct lists the movements of one product, paginated.
func (a *API) MovementsByProduct(ctx context.Context, productID string, page, size int) (*Page[domain.Movement], error) {
	var out Page[domain.Movement]
	if err := a.c.Get(ctx, "/api/inventory/movements/product/"+productID, &out, client.WithQuery(pageQuery(page, size))); err != nil {
		return nil, err
	}
	return &out, nil
}
