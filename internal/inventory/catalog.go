package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sweetShop/internal/apperr"
	"sweetShop/models"
	"sweetShop/repository"
)

var (
	errCreateFields  = apperr.Validation("Name, category, price, and quantity are required")
	errBlankName     = apperr.Validation("Name cannot be empty")
	errBlankCategory = apperr.Validation("Category cannot be empty")
)

// CatalogStore persists sweets.
type CatalogStore interface {
	Create(ctx context.Context, s *models.Sweet) (*models.Sweet, error)
	GetByID(ctx context.Context, id string) (*models.Sweet, error)
	List(ctx context.Context) ([]models.Sweet, error)
	Search(ctx context.Context, f models.SweetFilter) ([]models.Sweet, error)
	Update(ctx context.Context, id string, p models.SweetPatch) (*models.Sweet, error)
	Delete(ctx context.Context, id string) error
}

// NewSweet is the input of Catalog.Create. Price and Quantity are pointers so
// that an omitted value is told apart from zero.
type NewSweet struct {
	Name        string
	Category    string
	Price       *float64
	Quantity    *int64
	Description *string
}

// Catalog is the plain create/read/update/delete surface over sweets.
type Catalog struct {
	store CatalogStore
	log   *zap.Logger
}

func NewCatalog(store CatalogStore, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{store: store, log: log}
}

func (c *Catalog) Create(ctx context.Context, in NewSweet) (*models.Sweet, error) {
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	if name == "" || category == "" || in.Price == nil || in.Quantity == nil {
		return nil, errCreateFields
	}
	if err := validPrice(*in.Price); err != nil {
		return nil, err
	}
	if *in.Quantity < 0 {
		return nil, errQuantityNegative
	}

	s, err := c.store.Create(ctx, &models.Sweet{
		Name:        name,
		Category:    category,
		Price:       *in.Price,
		Quantity:    *in.Quantity,
		Description: in.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("create sweet: %w", err)
	}
	c.log.Info("sweet created", zap.String("sweet_id", s.ID), zap.String("name", s.Name))
	return s, nil
}

func (c *Catalog) Get(ctx context.Context, id string) (*models.Sweet, error) {
	s, err := c.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get sweet: %w", err)
	}
	if s == nil {
		return nil, errSweetNotFound
	}
	return s, nil
}

// List returns every sweet, oldest first.
func (c *Catalog) List(ctx context.Context) ([]models.Sweet, error) {
	out, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}
	return out, nil
}

// Search returns the sweets matching f, oldest first.
func (c *Catalog) Search(ctx context.Context, f models.SweetFilter) ([]models.Sweet, error) {
	out, err := c.store.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("search sweets: %w", err)
	}
	return out, nil
}

// Update applies p to the sweet. The patch is validated before the store is
// touched.
func (c *Catalog) Update(ctx context.Context, id string, p models.SweetPatch) (*models.Sweet, error) {
	if p.Name != nil {
		v := strings.TrimSpace(*p.Name)
		if v == "" {
			return nil, errBlankName
		}
		p.Name = &v
	}
	if p.Category != nil {
		v := strings.TrimSpace(*p.Category)
		if v == "" {
			return nil, errBlankCategory
		}
		p.Category = &v
	}
	if p.Price != nil {
		if err := validPrice(*p.Price); err != nil {
			return nil, err
		}
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return nil, errQuantityNegative
	}

	s, err := c.store.Update(ctx, id, p)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errSweetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update sweet: %w", err)
	}
	c.log.Info("sweet updated", zap.String("sweet_id", id))
	return s, nil
}

func (c *Catalog) Delete(ctx context.Context, id string) error {
	err := c.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return errSweetNotFound
	}
	if err != nil {
		return fmt.Errorf("delete sweet: %w", err)
	}
	c.log.Info("sweet deleted", zap.String("sweet_id", id))
	return nil
}
