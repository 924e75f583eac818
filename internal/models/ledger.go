package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerKind - Defter türü (birikim, gelir, borç, verilen borç)
type LedgerKind string

const (
	LedgerKindSavings LedgerKind = "savings" // Birikim
	LedgerKindIncome  LedgerKind = "income"  // Gelir
	LedgerKindPayable LedgerKind = "payable" // Ödenecekler
	LedgerKindLent    LedgerKind = "lent"    // Verilen borç
)

func ParseLedgerKind(s string) (LedgerKind, bool) {
	switch LedgerKind(s) {
	case LedgerKindSavings, LedgerKindIncome, LedgerKindPayable, LedgerKindLent:
		return LedgerKind(s), true
	}
	return "", false
}

// LedgerType - İsimli defter kovası (ör: "Acil Durum Fonu").
// TotalAmount kayıtların toplamının denormalize kopyasıdır; her kayıt
// değişikliğinden sonra yeniden hesaplanır, client tarafından asla
// doğrudan güncellenmez.
type LedgerType struct {
	ID          uint            `gorm:"primaryKey"`
	OwnerID     uint            `gorm:"index;not null;uniqueIndex:idx_ledger_types_owner_kind_name"`
	Owner       User            `gorm:"foreignKey:OwnerID"`
	Kind        LedgerKind      `gorm:"type:varchar(20);not null;index;uniqueIndex:idx_ledger_types_owner_kind_name"`
	Name        string          `gorm:"size:100;not null;uniqueIndex:idx_ledger_types_owner_kind_name"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0"`
	Entries     []LedgerEntry   `gorm:"foreignKey:TypeID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LedgerEntry - Tarihli, işaretli tutar kaydı. Tutar negatif olabilir
// (birikimden gelir aktarımında düşüm kaydı negatif yazılır).
type LedgerEntry struct {
	ID            uint            `gorm:"primaryKey"`
	TypeID        uint            `gorm:"index;not null"`
	Type          LedgerType      `gorm:"foreignKey:TypeID"`
	Kind          LedgerKind      `gorm:"type:varchar(20);not null;index"`
	OwnerID       uint            `gorm:"index;not null"`
	Date          time.Time       `gorm:"index;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Description   string          `gorm:"size:255"`
	IsFromSavings bool            `gorm:"default:false"` // Sadece gelir kayıtlarında kullanılıyor
	SavingsTypeID *uint
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
