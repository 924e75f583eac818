package models

import "time"

type Category struct {
	ID            uint          `gorm:"primaryKey"`
	Name          string        `gorm:"size:100;not null;unique"`
	Subcategories []Subcategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Subcategory - Alt kategoriler dizi indeksi yerine kendi id'leriyle
// adreslenir; eşzamanlı düzenlemede indeks kayması yaşanmaz.
type Subcategory struct {
	ID         uint   `gorm:"primaryKey"`
	CategoryID uint   `gorm:"index;not null"`
	Name       string `gorm:"size:100;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
