package repository

import (
	"context"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"

	"gorm.io/gorm"
)

type AccountGormRepository struct {
	db *gorm.DB
}

func NewAccountGormRepository(db *gorm.DB) *AccountGormRepository {
	return &AccountGormRepository{db: db}
}

func (r *AccountGormRepository) Find(ctx context.Context, f repo.AccountFilter) ([]model.Account, error) {
	q := r.db.WithContext(ctx).Model(&model.Account{})

	if len(f.IDs) > 0 {
		q = q.Where("id IN ?", f.IDs)
	}
	if f.AssignedSalesRepID != nil {
		q = q.Where("assigned_sales_rep_id = ?", *f.AssignedSalesRepID)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Tier != nil {
		q = q.Where("tier = ?", *f.Tier)
	}

	var items []model.Account
	if err := applyLimit(q.Order("created_at desc").Order("id asc"), f.Limit).Find(&items).Error; err != nil {
		return []model.Account{}, err
	}
	return items, nil
}

func (r *AccountGormRepository) FindByID(ctx context.Context, id string) (model.Account, error) {
	var a model.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return model.Account{}, translate(err)
	}
	return a, nil
}

func (r *AccountGormRepository) Create(ctx context.Context, a model.Account) (model.Account, error) {
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		return model.Account{}, translate(err)
	}
	return a, nil
}

func (r *AccountGormRepository) Update(ctx context.Context, id string, p repo.AccountPatch) error {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Type != nil {
		updates["type"] = *p.Type
	}
	if p.Tier != nil {
		updates["tier"] = *p.Tier
	}
	if p.CreditLimit != nil {
		updates["credit_limit"] = *p.CreditLimit
	}
	if p.Address != nil {
		updates["address"] = *p.Address
	}
	if p.ContactPerson != nil {
		updates["contact_person"] = *p.ContactPerson
	}
	if p.Phone != nil {
		updates["phone"] = *p.Phone
	}
	if p.Email != nil {
		updates["email"] = *p.Email
	}
	if p.ClearSalesRep {
		updates["assigned_sales_rep_id"] = nil
	} else if p.AssignedSalesRepID != nil {
		updates["assigned_sales_rep_id"] = *p.AssignedSalesRepID
	}
	if p.UpdatedAt != nil {
		updates["updated_at"] = *p.UpdatedAt
	}

	res := r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *AccountGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Account{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
