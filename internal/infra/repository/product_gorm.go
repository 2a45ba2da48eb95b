package repository

import (
	"context"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) Find(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})

	if len(f.IDs) > 0 {
		q = q.Where("id IN ?", f.IDs)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.SKU != nil {
		q = q.Where("sku = ?", *f.SKU)
	}

	var products []model.Product
	if err := applyLimit(q.Order("name asc").Order("id asc"), f.Limit).Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// 商品の更新（指定された項目だけ）
func (r *ProductGormRepository) Update(ctx context.Context, id string, p repo.ProductPatch) error {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.SKU != nil {
		updates["sku"] = *p.SKU
	}
	if p.Category != nil {
		updates["category"] = *p.Category
	}
	if p.UnitPrice != nil {
		updates["unit_price"] = *p.UnitPrice
	}
	if p.UnitSize != nil {
		updates["unit_size"] = *p.UnitSize
	}
	if p.MinOrderQty != nil {
		updates["min_order_qty"] = *p.MinOrderQty
	}
	if p.IsActive != nil {
		updates["is_active"] = *p.IsActive
	}
	if p.ImageURL != nil {
		updates["image_url"] = *p.ImageURL
	}
	if p.UpdatedAt != nil {
		updates["updated_at"] = *p.UpdatedAt
	}

	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 商品削除（物理削除）
func (r *ProductGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
