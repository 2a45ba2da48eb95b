package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	"github.com/ModawnAI/lotte-crm/internal/metrics"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IDの採番（テストで固定したいので差し替え可能にする）
type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Deps はusecase共通の依存。Txがnilならトランザクションなし（補償で戻す）。
type Deps struct {
	Ledger  repo.Ledger
	Tx      repo.TransactionManager
	IDs     IDGenerator
	Clock   Clock
	Log     *zap.Logger
	Metrics *metrics.Metrics
}

func (d Deps) withDefaults() Deps {
	if d.IDs == nil {
		d.IDs = UUIDGenerator{}
	}
	if d.Clock == nil {
		d.Clock = SystemClock{}
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return d
}

// Txがあればその中で、なければそのままLedgerで実行する
func (d Deps) within(ctx context.Context, fn func(r repo.Ledger) error) error {
	if d.Tx != nil {
		return d.Tx.WithinTx(ctx, fn)
	}
	return fn(d.Ledger)
}

// 監査ログは本処理のTxの外で書く。失敗してもログだけ
func (d Deps) audit(ctx context.Context, actorID string, action model.AuditAction, rt model.AuditResourceType, id string, before, after any) {
	entry := model.AuditLog{
		ActorID:      actorID,
		Action:       action,
		ResourceType: rt,
		ResourceID:   id,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		CreatedAt:    d.Clock.Now(),
	}
	if err := d.Ledger.AuditLogs().Create(ctx, entry); err != nil {
		d.Log.Warn("audit log write failed",
			zap.String("action", string(action)),
			zap.String("resource_id", id),
			zap.Error(err),
		)
	}
}

func toJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
