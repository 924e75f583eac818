package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale - Bağımsız satış kaydı. Müşteri üzerine ayrıca özet (CustomerSale)
// yazılır; iki kopya arasında cascade yoktur.
type Sale struct {
	ID             uint            `gorm:"primaryKey"`
	OwnerID        uint            `gorm:"index;not null"`
	CustomerID     uint            `gorm:"index;not null"`
	Customer       Customer        `gorm:"foreignKey:CustomerID"`
	SaleType       string          `gorm:"size:30"` // "cash" veya "credit"
	TotalPrice     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	PaymentMethod  string          `gorm:"size:30"`
	AmountReceived decimal.Decimal `gorm:"type:decimal(20,4);default:0"`
	Date           time.Time       `gorm:"index;not null"`
	Items          []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type SaleItem struct {
	ID        uint            `gorm:"primaryKey"`
	SaleID    uint            `gorm:"index;not null"`
	ProductID uint            `gorm:"index;not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Price     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CreatedAt time.Time
}
