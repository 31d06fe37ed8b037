// Package catalog serves products and categories from postgres with a
// redis cache in front. Concurrent misses for the same key share a single
// database query.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"labanita/internal/models"
	"labanita/internal/repositories"
	"labanita/internal/utils/cache"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache is the read-through cache in front of the repository.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteMany(ctx context.Context, pattern string) error
}

// Page is one page of a product listing.
type Page struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

type Service struct {
	repo   repositories.ProductRepository
	cache  Cache
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// NewService wires the catalog. cache may be nil, in which case every read
// goes to the repository.
func NewService(repo repositories.ProductRepository, c Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if repo == nil {
		panic("product repository is required")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, cache: c, ttl: ttl, logger: logger}
}

func (s *Service) ListProducts(ctx context.Context, filter repositories.ProductFilter) (Page, error) {
	key := cache.GenerateKey(cache.EntityProduct, cache.KeyList,
		fmt.Sprintf("c%d:q%s:o%d:l%d", filter.CategoryID, filter.Search, filter.Offset, filter.Limit))

	var page Page
	err := s.cached(ctx, key, &page, func() (interface{}, error) {
		products, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		if products == nil {
			products = []models.Product{}
		}
		return Page{Products: products, Total: total}, nil
	})
	return page, err
}

func (s *Service) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	key := cache.GenerateKey(cache.EntityProduct, cache.KeyID, id)

	var product models.Product
	err := s.cached(ctx, key, &product, func() (interface{}, error) {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return *p, nil
	})
	return product, err
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	key := cache.GenerateKey(cache.EntityCategory, cache.KeyList, "all")

	var categories []models.Category
	err := s.cached(ctx, key, &categories, func() (interface{}, error) {
		return s.repo.ListCategories(ctx)
	})
	return categories, err
}

// cached reads key into dest, or loads, caches and copies the value. A
// broken cache only costs a database query.
func (s *Service) cached(ctx context.Context, key string, dest interface{}, load func() (interface{}, error)) error {
	if s.cache != nil {
		found, err := s.cache.Get(ctx, key, dest)
		if err != nil {
			s.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		if found {
			return nil
		}
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		v, err := load()
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetWithTTL(ctx, key, v, s.ttl); err != nil {
				s.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return v, nil
	})
	if err != nil {
		return err
	}
	if shared {
		s.logger.Debug("catalog load shared", zap.String("key", key))
	}
	return assign(dest, v)
}

func assign(dest, v interface{}) error {
	switch d := dest.(type) {
	case *Page:
		*d = v.(Page)
	case *models.Product:
		*d = v.(models.Product)
	case *[]models.Category:
		*d = v.([]models.Category)
	default:
		return fmt.Errorf("catalog: unsupported destination %T", dest)
	}
	return nil
}

// Invalidate drops every cached product and category entry.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	for _, entity := range []cache.EntityType{cache.EntityProduct, cache.EntityCategory} {
		if err := s.cache.DeleteMany(ctx, string(entity)+":*"); err != nil {
			return fmt.Errorf("invalidate %s cache: %w", entity, err)
		}
	}
	return nil
}

// SeedProduct is one product of a seed file, filed under a category name.
type SeedProduct struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
}

// Seed inserts products, creating their categories on first use, and
// clears the cache afterwards.
func (s *Service) Seed(ctx context.Context, items []SeedProduct) (int, error) {
	categories := make(map[string]uint)
	created := 0
	for _, item := range items {
		id, ok := categories[item.Category]
		if !ok {
			var err error
			id, err = s.ensureCategory(ctx, item.Category)
			if err != nil {
				return created, err
			}
			categories[item.Category] = id
		}

		p := &models.Product{
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			ImageURL:    item.ImageURL,
			CategoryID:  id,
		}
		if err := s.repo.CreateProduct(ctx, p); err != nil {
			return created, err
		}
		created++
	}

	if err := s.Invalidate(ctx); err != nil {
		s.logger.Warn("catalog cache not cleared after seed", zap.Error(err))
	}
	return created, nil
}

func (s *Service) ensureCategory(ctx context.Context, name string) (uint, error) {
	c, err := s.repo.GetCategoryByName(ctx, name)
	if err == nil {
		return c.ID, nil
	}
	if !errors.Is(err, repositories.ErrCategoryNotFound) {
		return 0, err
	}
	c = &models.Category{Name: name}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return 0, err
	}
	return c.ID, nil
}
