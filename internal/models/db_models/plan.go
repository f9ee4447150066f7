package db_models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PlanInterval string

const (
	IntervalMonthly PlanInterval = "monthly"
	IntervalYearly  PlanInterval = "yearly"
)

type Plan struct {
	BaseModel
	Name          string          `gorm:"size:100;not null"`
	Description   string          `gorm:"type:text"`
	Price         decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	Interval      PlanInterval    `gorm:"column:billing_interval;size:10;not null"`
	IsActive      bool            `gorm:"default:true;index"`
	StripePriceID *string         `gorm:"size:100"`
	// Optional: feature bullet points shown on the plan card.
	Features datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
}

func (p Plan) PriceCents() int64 {
	return ToCents(p.Price)
}

// Purchasable reports whether the plan is linked to a processor price.
func (p Plan) Purchasable() bool {
	return p.StripePriceID != nil && *p.StripePriceID != ""
}
