package repositories

import (
	"context"
	"errors"

	"labanita/internal/models"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// ProductFilter narrows a product listing. Zero values mean no filter.
type ProductFilter struct {
	CategoryID uint
	Search     string
	Offset     int
	Limit      int
}

// ProductRepository reads and writes the product catalog.
type ProductRepository interface {
	// List returns one page of products and the total matching the filter
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)

	GetByID(ctx context.Context, id uint) (*models.Product, error)

	ListCategories(ctx context.Context) ([]models.Category, error)

	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)

	CreateCategory(ctx context.Context, category *models.Category) error

	CreateProduct(ctx context.Context, product *models.Product) error
}
