package inventoryapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/andeanfly/flightdesk/client"
	"github.com/andeanfly/flightdesk/domain"
)

// DefaultBucket is the object-storage bucket product images land in
// unless the caller overrides it.
const DefaultBucket = "inventory-product-images"

func pageQuery(page, size int) url.Values {
	return url.Values{
		"page": []string{strconv.Itoa(page)},
		"size": []string{strconv.Itoa(size)},
	}
}

// Products lists products, paginated.
func (a *API) Products(ctx context.Context, page, size int) (*Page[domain.Product], error) {
	var out Page[domain.Product]
	if err := a.c.Get(ctx, "/api/inventory/products", &out, client.WithQuery(pageQuery(page, size))); err != nil {
		return nil, err
	}
	return &out, nil
}

// Product fetches a product by ID.
func (a *API) Product(ctx context.Context, productID string) (*domain.Product, error) {
	var out domain.Product
	if err := a.c.Get(ctx, "/api/inventory/products/"+productID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatedProduct is the creation response: the product plus a presigned
// URL the client must PUT the image binary to directly.
type CreatedProduct struct {
	domain.Product
	UploadURL string `json:"uploadUrl,omitempty"`
}

// CreateProduct creates a product. bucket may be empty for the default.
// When the response carries an upload URL the caller follows up with
// UploadImage; the image bytes never pass through the application server.
func (a *API) CreateProduct(ctx context.Context, product domain.Product, bucket, userID string) (*CreatedProduct, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	q := url.Values{"bucketName": []string{bucket}}
	var out CreatedProduct
	err := a.c.Post(ctx, "/api/inventory/products", product, &out,
		client.WithQuery(q),
		client.WithUserID(userID),
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadImage PUTs the image binary straight to object storage using the
// presigned URL. No bearer token: the URL itself is the credential.
func (a *API) UploadImage(ctx context.Context, uploadURL, contentType string, image io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, image)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("image upload failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("image upload rejected: status %d, body: %s", resp.StatusCode, body)
	}
	return nil
}

// UpdateProduct updates a product.
func (a *API) UpdateProduct(ctx context.Context, productID string, product domain.Product, userID string) (*domain.Product, error) {
	var out domain.Product
	if err := a.c.Put(ctx, "/api/inventory/products/"+productID, product, &out, client.WithUserID(userID)); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct deletes a product.
func (a *API) DeleteProduct(ctx context.Context, productID string) error {
	return a.c.Delete(ctx, "/api/inventory/products/"+productID, nil)
}

// SearchProducts searches products by keyword, paginated.
func (a *API) SearchProducts(ctx context.Context, keyword string, page, size int) (*Page[domain.Product], error) {
	q := pageQuery(page, size)
	q.Set("keyword", keyword)
	var out Page[domain.Product]
	if err := a.c.Get(ctx, "/api/inventory/products/search", &out, client.WithQuery(q)); err != nil {
		return nil, err
	}
	return &out, nil
}

// LowStockProducts lists products at or under their minimum stock.
func (a *API) LowStockProducts(ctx context.Context, page, size int) (*Page[domain.Product], error) {
	var out Page[domain.Product]
	if err := a.c.Get(ctx, "/api/inventory/products/low-stock", &out, client.WithQuery(pageQuery(page, size))); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProductsByCategory lists products in a category, paginated.
func (a *API) ProductsByCategory(ctx context.Context, category string, page, size int) (*Page[domain.Product], error) {
	var out Page[domain.Product]
	if err := a.c.Get(ctx, "/api/inventory/products/category/"+category, &out, client.WithQuery(pageQuery(page, size))); err != nil {
		return nil, err
	}
	return &out, nil
}
