package transactions

import (
	"time"

	"github.com/google/uuid"
)

// Scope bounds every pipeline read to one merchant and, optionally, to a
// single upload. A Nil UploadID means all of the merchant's history.
type Scope struct {
	MerchantID uuid.UUID
	UploadID   uuid.UUID
}

// All reports whether the scope spans every upload for the merchant.
func (s Scope) All() bool {
	return s.UploadID == uuid.Nil
}

// Transaction is the pipeline-facing view of one sale line. Monetary values
// are plain floats here; the stored rows keep the decimal representation.
type Transaction struct {
	CustomerID  string
	ProductName string
	Category    string
	Date        time.Time
	Quantity    int
	UnitPrice   float64
	Revenue     float64
	Rating      float64

	Age             int
	Gender          string
	Location        string
	PaymentMethod   string
	ShippingType    string
	DiscountApplied bool
}

// ImportRow is one parsed line from an upload, pre-validation.
type ImportRow struct {
	CustomerID  string  `json:"customer_id" validate:"required"`
	ProductName string  `json:"product_name" validate:"required"`
	Category    string  `json:"category"`
	Date        string  `json:"date" validate:"required"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`

	Age             int    `json:"age"`
	Gender          string `json:"gender"`
	Location        string `json:"location"`
	PaymentMethod   string `json:"payment_method"`
	ShippingType    string `json:"shipping_type"`
	DiscountApplied bool   `json:"discount_applied"`
}

// ImportBatchInput is the payload carried by an import event.
type ImportBatchInput struct {
	MerchantID uuid.UUID   `json:"merchant_id" validate:"required"`
	UploadID   uuid.UUID   `json:"upload_id" validate:"required"`
	Filename   string      `json:"filename"`
	Rows       []ImportRow `json:"rows" validate:"required,dive"`
}
