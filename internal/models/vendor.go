package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vendor - Tedarikçi. Debt bizim tedarikçiye olan borcumuz
// (müşteri tarafındaki credit alanının aynadaki karşılığı).
type Vendor struct {
	ID           uint            `gorm:"primaryKey"`
	OwnerID      uint            `gorm:"index;not null"`
	Name         string          `gorm:"size:150;not null"`
	Contact      string          `gorm:"size:100"`
	Debt         decimal.Decimal `gorm:"type:decimal(20,4);default:0"`
	LastPurchase *time.Time
	Purchases    []Purchase      `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
	Payments     []VendorPayment `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Purchase struct {
	ID            uint            `gorm:"primaryKey"`
	OwnerID       uint            `gorm:"index;not null"`
	VendorID      uint            `gorm:"index;not null"`
	Description   string          `gorm:"size:255"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	PaymentMethod string          `gorm:"size:30"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(20,4);default:0"`
	Date          time.Time       `gorm:"index;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type VendorPayment struct {
	ID            uint            `gorm:"primaryKey"`
	VendorID      uint            `gorm:"index;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	PaymentMethod string          `gorm:"size:30"`
	Description   string          `gorm:"size:255"`
	Date          time.Time       `gorm:"index;not null"`
	CreatedAt     time.Time
}
