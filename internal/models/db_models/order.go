package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusShipped  OrderStatus = "shipped"
	OrderStatusCanceled OrderStatus = "canceled"
)

type Order struct {
	BaseModel
	AccountID        uuid.UUID   `gorm:"type:uuid;index;not null"`
	TotalCents       int64       `gorm:"not null;check:total_cents >= 0"`
	Status           OrderStatus `gorm:"size:10;index;default:'pending'"`
	PaymentSessionID string      `gorm:"index"`

	// Raw checkout session metadata, kept for support lookups.
	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Account Account     `gorm:"foreignKey:AccountID"`
	Items   []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// ItemCount sums quantities across all lines.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

func (o Order) TotalEuros() decimal.Decimal {
	return decimal.New(o.TotalCents, -2)
}

type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity  int             `gorm:"not null;default:1;check:quantity >= 1"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
