package db_models

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	Name        string          `gorm:"size:200;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0"`
	ImageKey    string

	Reviews []Review `gorm:"foreignKey:ProductID"`
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// PriceCents is the price in minor currency units, as charged by the processor.
func (p Product) PriceCents() int64 {
	return ToCents(p.Price)
}

func ToCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
