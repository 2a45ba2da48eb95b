package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	Deps
}

func NewProductUsecase(d Deps) *ProductUsecase {
	return &ProductUsecase{Deps: d.withDefaults()}
}

type ProductInput struct {
	Name        *string          `json:"name"`
	SKU         *string          `json:"sku"`
	Category    *string          `json:"category"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	UnitSize    *string          `json:"unit_size"`
	MinOrderQty *int64           `json:"min_order_qty"`
	IsActive    *bool            `json:"is_active"`
	ImageURL    *string          `json:"image_url"`
}

type ProductListInput struct {
	ActiveOnly bool
	Category   string
	Limit      int
}

// 名前順
func (u *ProductUsecase) List(ctx context.Context, in ProductListInput) ([]model.Product, error) {
	if in.Limit < 0 {
		return []model.Product{}, NewValidationError("invalid limit")
	}
	f := repo.ProductFilter{Limit: in.Limit}
	if in.ActiveOnly {
		active := true
		f.IsActive = &active
	}
	if s := strings.TrimSpace(in.Category); s != "" {
		c := model.ProductCategory(s)
		if !c.Valid() {
			return []model.Product{}, NewValidationError(model.ErrInvalidCategory.Error())
		}
		f.Category = &c
	}

	items, err := u.Ledger.Products().Find(ctx, f)
	if err != nil {
		return []model.Product{}, NewPersistenceError(err)
	}
	return items, nil
}

func (u *ProductUsecase) Get(ctx context.Context, id string) (model.Product, error) {
	p, err := u.Ledger.Products().FindByID(ctx, strings.TrimSpace(id))
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewNotFoundError("product not found")
	}
	if err != nil {
		return model.Product{}, NewPersistenceError(err)
	}
	return p, nil
}

func (u *ProductUsecase) skuInUse(ctx context.Context, r repo.Ledger, sku, exceptID string) (bool, error) {
	found, err := r.Products().Find(ctx, repo.ProductFilter{SKU: &sku})
	if err != nil {
		return false, err
	}
	for _, p := range found {
		if p.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (u *ProductUsecase) Create(ctx context.Context, in ProductInput) (model.Product, error) {
	now := u.Clock.Now()
	p := model.Product{
		ID:          u.IDs.NewID(),
		MinOrderQty: 1,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.SKU != nil {
		p.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Category != nil {
		p.Category = model.ProductCategory(strings.TrimSpace(*in.Category))
	}
	if in.UnitPrice != nil {
		p.UnitPrice = *in.UnitPrice
	}
	if in.UnitSize != nil {
		p.UnitSize = *in.UnitSize
	}
	if in.MinOrderQty != nil {
		p.MinOrderQty = *in.MinOrderQty
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.ImageURL = in.ImageURL
	if err := p.Validate(); err != nil {
		return model.Product{}, NewValidationError(err.Error())
	}

	var created model.Product
	err := u.within(ctx, func(r repo.Ledger) error {
		taken, err := u.skuInUse(ctx, r, p.SKU, "")
		if err != nil {
			return NewPersistenceError(err)
		}
		if taken {
			return NewConflictError("sku already exists")
		}
		c, err := r.Products().Create(ctx, p)
		if errors.Is(err, repo.ErrDuplicate) {
			return NewConflictError("sku already exists")
		}
		if err != nil {
			return NewPersistenceError(err)
		}
		created = c
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return created, nil
}

// 価格を変えても既存の注文明細は変わらない（明細は作成時の値を持つ）
func (u *ProductUsecase) Update(ctx context.Context, id string, in ProductInput) (model.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Product{}, NewValidationError("invalid id")
	}

	now := u.Clock.Now()
	p := repo.ProductPatch{UpdatedAt: &now}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return model.Product{}, NewValidationError(model.ErrProductNameRequired.Error())
		}
		p.Name = &name
	}
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku == "" {
			return model.Product{}, NewValidationError(model.ErrProductSKURequired.Error())
		}
		p.SKU = &sku
	}
	if in.Category != nil {
		c := model.ProductCategory(strings.TrimSpace(*in.Category))
		if !c.Valid() {
			return model.Product{}, NewValidationError(model.ErrInvalidCategory.Error())
		}
		p.Category = &c
	}
	if in.UnitPrice != nil {
		if !in.UnitPrice.IsPositive() {
			return model.Product{}, NewValidationError(model.ErrInvalidUnitPrice.Error())
		}
		p.UnitPrice = in.UnitPrice
	}
	if in.MinOrderQty != nil {
		if *in.MinOrderQty < 1 {
			return model.Product{}, NewValidationError(model.ErrInvalidMinOrderQty.Error())
		}
		p.MinOrderQty = in.MinOrderQty
	}
	p.UnitSize = in.UnitSize
	p.IsActive = in.IsActive
	p.ImageURL = in.ImageURL

	var updated model.Product
	err := u.within(ctx, func(r repo.Ledger) error {
		if p.SKU != nil {
			taken, err := u.skuInUse(ctx, r, *p.SKU, id)
			if err != nil {
				return NewPersistenceError(err)
			}
			if taken {
				return NewConflictError("sku already exists")
			}
		}
		err := r.Products().Update(ctx, id, p)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return NewNotFoundError("product not found")
		case errors.Is(err, repo.ErrDuplicate):
			return NewConflictError("sku already exists")
		case err != nil:
			return NewPersistenceError(err)
		}
		got, err := r.Products().FindByID(ctx, id)
		if err != nil {
			return NewPersistenceError(err)
		}
		updated = got
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return updated, nil
}

// 注文明細から参照されている商品は消さない（販売停止はis_activeで）
func (u *ProductUsecase) Delete(ctx context.Context, actorID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return NewValidationError("invalid id")
	}

	var before model.Product
	err := u.within(ctx, func(r repo.Ledger) error {
		p, err := r.Products().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("product not found")
		}
		if err != nil {
			return NewPersistenceError(err)
		}
		before = p

		refs, err := r.OrderItems().Find(ctx, repo.OrderItemFilter{ProductID: &id, Limit: 1})
		if err != nil {
			return NewPersistenceError(err)
		}
		if len(refs) > 0 {
			u.Metrics.GuardRejected(string(model.AuditResourceProduct))
			return NewConflictError("product is used by orders; deactivate it instead")
		}

		if err := r.Products().Delete(ctx, id); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError("product not found")
			}
			return NewPersistenceError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.audit(ctx, actorID, model.AuditActionDeleteProduct, model.AuditResourceProduct, id, before, nil)
	return nil
}
