package service

import (
	"context"

	"socioportal/internal/model"
	"socioportal/internal/repository"

	"gorm.io/gorm"
)

// CatalogService is the admin CRUD over the merch and prize catalogs.
// Stock movements tied to reservations and redemptions live in their own
// services; here stock only changes through catalog edits.
type CatalogService struct {
	db          *gorm.DB
	productRepo *repository.ProductRepository
	prizeRepo   *repository.PrizeRepository
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{
		db:          db,
		productRepo: repository.NewProductRepository(db),
		prizeRepo:   repository.NewPrizeRepository(db),
	}
}

type ProductInput struct {
	Name        string         `json:"name" binding:"required"`
	Price       string         `json:"price"`
	Description string         `json:"description"`
	Active      *bool          `json:"active"`
	Variants    []VariantInput `json:"variants" binding:"required,dive"`
}

type VariantInput struct {
	Size  string `json:"size" binding:"required"`
	Stock int64  `json:"stock" binding:"gte=0"`
}

func (in *ProductInput) variants() []model.ProductVariant {
	out := make([]model.ProductVariant, 0, len(in.Variants))
	for _, v := range in.Variants {
		out = append(out, model.ProductVariant{Size: v.Size, Stock: v.Stock})
	}
	return out
}

func (s *CatalogService) CreateProduct(ctx context.Context, in *ProductInput) (*model.Product, error) {
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	product := &model.Product{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Active:      active,
		Variants:    in.variants(),
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, in *ProductInput) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	product.Name = in.Name
	product.Price = in.Price
	product.Description = in.Description
	if in.Active != nil {
		product.Active = *in.Active
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Update(ctx, product); err != nil {
			return err
		}
		return s.productRepo.ReplaceVariants(ctx, tx, id, in.variants())
	})
	if err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, nil, id)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return s.productRepo.GetByID(ctx, nil, id)
}

func (s *CatalogService) ListProducts(ctx context.Context, activeOnly bool) ([]*model.Product, error) {
	return s.productRepo.List(ctx, activeOnly)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.productRepo.Delete(ctx, id)
}

func (s *CatalogService) CreatePrize(ctx context.Context, prize *model.Prize) error {
	return s.prizeRepo.Create(ctx, prize)
}

func (s *CatalogService) UpdatePrize(ctx context.Context, prize *model.Prize) error {
	return s.prizeRepo.Update(ctx, prize)
}

func (s *CatalogService) GetPrize(ctx context.Context, id int64) (*model.Prize, error) {
	return s.prizeRepo.GetByID(ctx, nil, id)
}

func (s *CatalogService) ListPrizes(ctx context.Context, activeOnly bool) ([]*model.Prize, error) {
	return s.prizeRepo.List(ctx, activeOnly)
}

func (s *CatalogService) DeletePrize(ctx context.Context, id int64) error {
	return s.prizeRepo.Delete(ctx, id)
}
