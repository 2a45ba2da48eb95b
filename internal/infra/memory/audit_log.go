package memory

import (
	"context"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"
)

type auditLogRepository struct {
	s *Store
}

func (r *auditLogRepository) Create(ctx context.Context, log model.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.auditSeq++
	log.ID = r.s.auditSeq
	r.s.auditLogs = append(r.s.auditLogs, log)
	return nil
}

// 新しい順（IDの降順）
func (r *auditLogRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []model.AuditLog{}
	for i := len(r.s.auditLogs) - 1; i >= 0; i-- {
		l := r.s.auditLogs[i]
		if f.ActorID != nil && l.ActorID != *f.ActorID {
			continue
		}
		if f.Action != nil && l.Action != *f.Action {
			continue
		}
		if f.ResourceType != nil && l.ResourceType != *f.ResourceType {
			continue
		}
		if f.ResourceID != nil && l.ResourceID != *f.ResourceID {
			continue
		}
		if f.CreatedFrom != nil && l.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && l.CreatedAt.After(*f.CreatedTo) {
			continue
		}
		matched = append(matched, l)
	}

	limit, offset := repo.NormalizePage(f.Limit, f.Offset)
	if offset >= len(matched) {
		return []model.AuditLog{}, nil
	}
	matched = matched[offset:]
	return limitSlice(matched, limit), nil
}
