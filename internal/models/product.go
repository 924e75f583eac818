package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           uint            `gorm:"primaryKey"`
	ProductName  string          `gorm:"size:150;not null;unique"`
	PricePerPack decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	KgsPerPack   decimal.Decimal `gorm:"type:decimal(20,4);default:0"`
	PricePerKg   decimal.Decimal `gorm:"type:decimal(20,4);default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PriceHistory - Fiyat değişikliklerinin append-only izi.
// Hiçbir zaman güncellenmez veya silinmez.
type PriceHistory struct {
	ID              uint            `gorm:"primaryKey"`
	ProductID       uint            `gorm:"index;not null"`
	Product         Product         `gorm:"foreignKey:ProductID"`
	OldPricePerPack decimal.Decimal `gorm:"type:decimal(20,4)"`
	NewPricePerPack decimal.Decimal `gorm:"type:decimal(20,4)"`
	OldPricePerKg   decimal.Decimal `gorm:"type:decimal(20,4)"`
	NewPricePerKg   decimal.Decimal `gorm:"type:decimal(20,4)"`
	UpdatedBy       string          `gorm:"size:100"`
	Reason          string          `gorm:"size:255"`
	UpdateDate      time.Time       `gorm:"index;not null"`
	CreatedAt       time.Time
}
