package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlaceholderImage is used when a product is created without an image URL.
const PlaceholderImage = "https://placehold.co/600x400?text=No+Image"

type Product struct {
	ID           string    `gorm:"size:41;primaryKey" json:"id"`
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description,omitempty"`
	Price        float64   `json:"price" validate:"gte=0"`
	Stock        uint      `gorm:"default:0" json:"stock"`
	IsFeatured   bool      `gorm:"default:false" json:"isFeatured"`
	ProductImage string    `json:"productImage"`
	CategoryID   string    `gorm:"size:40;index;not null" json:"categoryId" validate:"required"` // Foreign key to Category
	Category     *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`              // Belongs to one Category
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate assigns the server-owned identifier and image default.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = "prod_" + uuid.New().String()
	}
	if p.ProductImage == "" {
		p.ProductImage = PlaceholderImage
	}
	return nil
}
