package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one sale line as ingested from a merchant upload. Rows are
// immutable once written; the behavior pipeline only ever reads them.
type Transaction struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	MerchantID uuid.UUID `gorm:"column:merchant_id;type:uuid;not null;index:idx_transactions_scope"`
	UploadID   uuid.UUID `gorm:"column:upload_id;type:uuid;not null;index:idx_transactions_scope"`

	CustomerID  string          `gorm:"column:customer_id;not null;index"`
	ProductName string          `gorm:"column:product_name;not null"`
	Category    string          `gorm:"column:category;not null;default:'Uncategorized'"`
	Date        time.Time       `gorm:"column:date;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Revenue     decimal.Decimal `gorm:"column:revenue;type:numeric(14,2);not null"`
	Rating      float64         `gorm:"column:rating;not null;default:0"`

	// Optional demographic and behavioral attributes. Empty when the upload
	// did not carry them; the persona layer substitutes defaults.
	Age             int    `gorm:"column:age"`
	Gender          string `gorm:"column:gender"`
	Location        string `gorm:"column:location"`
	PaymentMethod   string `gorm:"column:payment_method"`
	ShippingType    string `gorm:"column:shipping_type"`
	DiscountApplied bool   `gorm:"column:discount_applied;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the table name used by migrations.
func (Transaction) TableName() string {
	return "transactions"
}
