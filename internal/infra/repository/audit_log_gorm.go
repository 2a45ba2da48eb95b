package repository

import (
	"context"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"

	"gorm.io/gorm"
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

// IDは自動採番（渡された値は使わない）
func (r *AuditLogGormRepository) Create(ctx context.Context, entry model.AuditLog) error {
	entry.ID = 0
	return translate(r.db.WithContext(ctx).Create(&entry).Error)
}

func (r *AuditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	limit, offset := repo.NormalizePage(f.Limit, f.Offset)

	var entries []model.AuditLog
	err := r.db.WithContext(ctx).
		Model(&model.AuditLog{}).
		Scopes(auditLogConditions(f)).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return []model.AuditLog{}, err
	}
	return entries, nil
}

// nilでない条件だけANDでつなぐ
func auditLogConditions(f repo.AuditLogFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		eq := map[string]interface{}{}
		if f.ActorID != nil {
			eq["actor_id"] = *f.ActorID
		}
		if f.Action != nil {
			eq["action"] = *f.Action
		}
		if f.ResourceType != nil {
			eq["resource_type"] = *f.ResourceType
		}
		if f.ResourceID != nil {
			eq["resource_id"] = *f.ResourceID
		}
		if len(eq) > 0 {
			q = q.Where(eq)
		}
		if f.CreatedFrom != nil {
			q = q.Where("created_at >= ?", *f.CreatedFrom)
		}
		if f.CreatedTo != nil {
			q = q.Where("created_at <= ?", *f.CreatedTo)
		}
		return q
	}
}

var _ repo.AuditLogRepository = (*AuditLogGormRepository)(nil)
