package repository

import (
	"context"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SalesRepGormRepository struct {
	db *gorm.DB
}

func NewSalesRepGormRepository(db *gorm.DB) *SalesRepGormRepository {
	return &SalesRepGormRepository{db: db}
}

func (r *SalesRepGormRepository) Find(ctx context.Context, f repo.SalesRepFilter) ([]model.SalesRep, error) {
	q := r.db.WithContext(ctx).Model(&model.SalesRep{})

	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.Region != nil {
		q = q.Where("region = ?", *f.Region)
	}

	var reps []model.SalesRep
	if err := applyLimit(q.Order("name asc").Order("id asc"), f.Limit).Find(&reps).Error; err != nil {
		return []model.SalesRep{}, err
	}
	return reps, nil
}

func (r *SalesRepGormRepository) FindByID(ctx context.Context, id string) (model.SalesRep, error) {
	var rep model.SalesRep
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rep).Error; err != nil {
		return model.SalesRep{}, translate(err)
	}
	return rep, nil
}

func (r *SalesRepGormRepository) Create(ctx context.Context, rep model.SalesRep) (model.SalesRep, error) {
	if err := r.db.WithContext(ctx).Create(&rep).Error; err != nil {
		return model.SalesRep{}, translate(err)
	}
	return rep, nil
}

func (r *SalesRepGormRepository) Update(ctx context.Context, id string, p repo.SalesRepPatch) error {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Email != nil {
		updates["email"] = *p.Email
	}
	if p.Phone != nil {
		updates["phone"] = *p.Phone
	}
	if p.Region != nil {
		updates["region"] = *p.Region
	}
	if p.IsActive != nil {
		updates["is_active"] = *p.IsActive
	}
	if p.UpdatedAt != nil {
		updates["updated_at"] = *p.UpdatedAt
	}

	res := r.db.WithContext(ctx).Model(&model.SalesRep{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SalesRepGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.SalesRep{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// SELECT ... FOR UPDATE（sqliteはロック句を無視する）
func (r *SalesRepGormRepository) LockByID(ctx context.Context, id string) error {
	var rep model.SalesRep
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&rep).Error
	return translate(err)
}
