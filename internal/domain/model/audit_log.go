package model

import "time"

// 注文作成、ステータス更新、削除など。
type AuditAction string

const (
	//注文を作成した操作。
	AuditActionCreateOrder AuditAction = "CREATE_ORDER"
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	//注文を削除した操作（キャンセルとは別）。
	AuditActionDeleteOrder AuditAction = "DELETE_ORDER"
	//営業担当を削除した操作。
	AuditActionDeleteSalesRep AuditAction = "DELETE_SALES_REP"
	//取引先を削除した操作。
	AuditActionDeleteAccount AuditAction = "DELETE_ACCOUNT"
	//商品を削除した操作。
	AuditActionDeleteProduct AuditAction = "DELETE_PRODUCT"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder    AuditResourceType = "order"
	AuditResourceSalesRep AuditResourceType = "sales_rep"
	AuditResourceAccount  AuditResourceType = "account"
	AuditResourceProduct  AuditResourceType = "product"
)

// 監査ログ。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザーのID（JWTのsub）。
	ActorID string `gorm:"type:varchar(64);not null;index" json:"actor_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID string `gorm:"type:varchar(36);not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
