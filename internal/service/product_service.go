package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/inventory-service/internal/auth"
	"github.com/spec-kit/inventory-service/internal/domain"
	"github.com/spec-kit/inventory-service/internal/repository"
	apperrors "github.com/spec-kit/inventory-service/pkg/util/errorutil"
)

const skuConflictMessage = "sku already exists"

// timestampPrecision matches the resolution of the store's timestamp columns.
const timestampPrecision = time.Microsecond

// ProductService coordinates catalog workflows.
type ProductService struct {
	products repository.ProductRepository
	logger   *zap.Logger
	now      func() time.Time
}

// ProductDependencies bundles repositories for the product service.
type ProductDependencies struct {
	ProductRepo repository.ProductRepository
	Logger      *zap.Logger
	Clock       func() time.Time
}

// ProductCreateInput describes product creation payload. Field constraints are
// enforced by the transport layer.
type ProductCreateInput struct {
	Name        string
	SKU         string
	Quantity    int64
	Price       float64
	Category    string
	Description *string
}

// NewProductService constructs the service.
func NewProductService(deps ProductDependencies) *ProductService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &ProductService{
		products: deps.ProductRepo,
		logger:   logger.Named("catalog"),
		now:      clock,
	}
}

// List returns products matching filter, ordered by id.
func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return products, nil
}

// Get returns a single product.
func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}
	return product, nil
}

// Create persists a new, unarchived product stamped with the current time.
func (s *ProductService) Create(ctx context.Context, input ProductCreateInput) (*domain.Product, error) {
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = domain.DefaultCategory
	}

	now := s.timestamp()
	product := &domain.Product{
		Name:        input.Name,
		SKU:         input.SKU,
		Quantity:    input.Quantity,
		Price:       input.Price,
		Category:    category,
		Description: input.Description,
		IsArchived:  false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		if repository.IsUniqueViolation(err) {
			s.logger.Info("product sku conflict", zap.String("sku", input.SKU))
			return nil, apperrors.NewConflict(skuConflictMessage, err)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("product created", zap.Int64("product_id", product.ID), zap.String("sku", product.SKU))
	return product, nil
}

// Update applies a merge-patch. updated_at always advances, even for an empty patch.
func (s *ProductService) Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	product, err := s.products.Mutate(ctx, id, func(p *domain.Product) error {
		patch.Apply(p)
		p.UpdatedAt = s.advance(p.UpdatedAt)
		return nil
	})
	if err != nil {
		return nil, s.translate(err, id)
	}

	s.logger.Info("product updated", zap.Int64("product_id", id))
	return product, nil
}

// ToggleArchive flips the archived flag and advances updated_at.
func (s *ProductService) ToggleArchive(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.Mutate(ctx, id, func(p *domain.Product) error {
		p.IsArchived = !p.IsArchived
		p.UpdatedAt = s.advance(p.UpdatedAt)
		return nil
	})
	if err != nil {
		return nil, s.translate(err, id)
	}

	s.logger.Info("product archive toggled", zap.Int64("product_id", id), zap.Bool("archived", product.IsArchived))
	return product, nil
}

// HardDelete permanently removes a product. The admin check runs before the
// existence check so unprivileged callers learn nothing about which ids exist.
func (s *ProductService) HardDelete(ctx context.Context, id int64, requester *domain.User) error {
	if _, err := auth.Require(requester, auth.AdminOnly); err != nil {
		if requester != nil {
			s.logger.Warn("hard delete forbidden", zap.Int64("product_id", id), zap.String("username", requester.Username))
		}
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return s.translate(err, id)
	}

	s.logger.Info("product deleted", zap.Int64("product_id", id), zap.String("username", requester.Username))
	return nil
}

func (s *ProductService) translate(err error, id int64) error {
	var domainErr *apperrors.DomainError
	switch {
	case errors.As(err, &domainErr):
		return domainErr
	case repository.IsNotFound(err):
		return apperrors.NewNotFound("product", map[string]any{"id": id})
	case repository.IsUniqueViolation(err):
		return apperrors.NewConflict(skuConflictMessage, err)
	default:
		return apperrors.NewInternalError(err)
	}
}

func (s *ProductService) timestamp() time.Time {
	return s.now().UTC().Truncate(timestampPrecision)
}

// advance returns the current time, or the smallest representable instant after
// prev when the clock has not moved past it.
func (s *ProductService) advance(prev time.Time) time.Time {
	now := s.timestamp()
	if !now.After(prev) {
		return prev.Add(timestampPrecision).UTC()
	}
	return now
}
