package repository

import (
	"context"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) Find(ctx context.Context, f repo.OrderFilter) ([]model.Order, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})

	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if len(f.AccountIDs) > 0 {
		q = q.Where("account_id IN ?", f.AccountIDs)
	}
	//status 絞り込み
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	//期間絞り込み
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}

	var items []model.Order
	if err := applyLimit(q.Order("created_at desc").Order("id desc"), f.Limit).Find(&items).Error; err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, id string) (model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return model.Order{}, translate(err)
	}
	return o, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, o model.Order) (model.Order, error) {
	if err := r.db.WithContext(ctx).Create(&o).Error; err != nil {
		return model.Order{}, translate(err)
	}
	return o, nil
}

func (r *OrderGormRepository) Update(ctx context.Context, id string, p repo.OrderPatch) error {
	updates := map[string]interface{}{}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	if p.UpdatedAt != nil {
		updates["updated_at"] = *p.UpdatedAt
	}

	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id)
	if p.ExpectedStatus != nil {
		q = q.Where("status = ?", *p.ExpectedStatus)
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// 0件: 行がないのか、statusがずれたのか
	if p.ExpectedStatus != nil {
		var n int64
		if err := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return repo.ErrConflict
		}
	}
	return repo.ErrNotFound
}

func (r *OrderGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
