package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID           uint            `gorm:"primaryKey"`
	OwnerID      uint            `gorm:"index;not null"`
	Name         string          `gorm:"size:150;not null"`
	Contact      string          `gorm:"size:100"`
	Credit       decimal.Decimal `gorm:"type:decimal(20,4);default:0"` // Müşterinin veresiye borcu
	JoinDate     time.Time       `gorm:"not null"`
	LastPurchase *time.Time      // Hedef: sales içindeki en büyük tarih
	Sales        []CustomerSale    `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Payments     []CustomerPayment `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CustomerSale - Satışın müşteri üzerindeki denormalize özeti.
// Kaynak Sale kaydı silinse bile bu kopya geri alınmaz.
type CustomerSale struct {
	ID             uint            `gorm:"primaryKey"`
	CustomerID     uint            `gorm:"index;not null"`
	SaleID         uint            `gorm:"index"` // Kaynak satış
	SaleType       string          `gorm:"size:30"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	PaymentMethod  string          `gorm:"size:30"`
	AmountReceived decimal.Decimal `gorm:"type:decimal(20,4);default:0"`
	Date           time.Time       `gorm:"index;not null"`
	CreatedAt      time.Time
}

type CustomerPayment struct {
	ID             uint            `gorm:"primaryKey"`
	CustomerID     uint            `gorm:"index;not null"`
	AmountReceived decimal.Decimal `gorm:"type:decimal(20,4);default:0"`
	OtherAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	PaymentMethod  string          `gorm:"size:30"`
	Description    string          `gorm:"size:255"`
	Date           time.Time       `gorm:"index;not null"`
	CreatedAt      time.Time
}
