package domain

import "context"

// ProductLister lists the product cards found on an arbitrary page.
type ProductLister interface {
	ListProducts(ctx context.Context, pageURL string) ([]Product, error)
}
