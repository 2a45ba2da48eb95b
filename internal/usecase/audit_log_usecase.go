package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"
)

type AuditLogUsecase struct {
	Deps
}

func NewAuditLogUsecase(d Deps) *AuditLogUsecase {
	return &AuditLogUsecase{Deps: d.withDefaults()}
}

// 文字列のままhandlerから受け取る
type AuditLogListInput struct {
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	From         string // RFC3339
	To           string // RFC3339
	Limit        int
	Offset       int
}

func (u *AuditLogUsecase) List(ctx context.Context, in AuditLogListInput) ([]model.AuditLog, error) {
	limit, offset := repo.NormalizePage(in.Limit, in.Offset)
	f := repo.AuditLogFilter{Limit: limit, Offset: offset}

	if s := strings.TrimSpace(in.ActorID); s != "" {
		f.ActorID = &s
	}
	if s := strings.TrimSpace(in.Action); s != "" {
		a := model.AuditAction(s)
		f.Action = &a
	}
	if s := strings.TrimSpace(in.ResourceType); s != "" {
		rt := model.AuditResourceType(s)
		f.ResourceType = &rt
	}
	if s := strings.TrimSpace(in.ResourceID); s != "" {
		f.ResourceID = &s
	}
	if strings.TrimSpace(in.From) != "" {
		t, ok := parseDateTimeRFC3339(in.From)
		if !ok {
			return []model.AuditLog{}, NewValidationError("invalid from")
		}
		f.CreatedFrom = t
	}
	if strings.TrimSpace(in.To) != "" {
		t, ok := parseDateTimeRFC3339(in.To)
		if !ok {
			return []model.AuditLog{}, NewValidationError("invalid to")
		}
		f.CreatedTo = t
	}

	logs, err := u.Ledger.AuditLogs().List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, NewPersistenceError(err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}

// handlerでtime.Parseせずにここで受ける
func parseDateTimeRFC3339(s string) (*time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return nil, false
	}
	return &t, true
}
