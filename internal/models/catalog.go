// internal/models/catalog.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	ImageURL  string    `json:"imageUrl,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Gig is a seller-authored service listing. Price is in minor currency units.
type Gig struct {
	BaseModel
	SellerID     uuid.UUID `json:"sellerId" gorm:"type:uuid;not null;index"`
	Title        string    `json:"title" gorm:"size:255;not null"`
	Description  string    `json:"description" gorm:"type:text;not null"`
	Price        int64     `json:"price" gorm:"not null"`
	CategoryID   uuid.UUID `json:"categoryId" gorm:"type:uuid;not null;index"`
	CoverImage   string    `json:"coverImage" gorm:"type:text;not null"`
	DeliveryTime int       `json:"deliveryTime" gorm:"not null"`
	Clicks       int64     `json:"clicks" gorm:"not null;default:0"`
	Impressions  int64     `json:"impressions" gorm:"not null;default:0"`

	Seller   *User     `json:"-" gorm:"foreignKey:SellerID"`
	Category *Category `json:"-" gorm:"foreignKey:CategoryID"`
}

// Review is migrated with the schema; nothing reads or writes it yet.
type Review struct {
	BaseModel
	OrderID uuid.UUID `json:"orderId" gorm:"type:uuid;not null;index"`
	GigID   uuid.UUID `json:"gigId" gorm:"type:uuid;not null;index"`
	BuyerID uuid.UUID `json:"buyerId" gorm:"type:uuid;not null;index"`
	Rating  int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment string    `json:"comment,omitempty" gorm:"type:text"`

	Order *Order `json:"-" gorm:"foreignKey:OrderID"`
	Gig   *Gig   `json:"-" gorm:"foreignKey:GigID"`
	Buyer *User  `json:"-" gorm:"foreignKey:BuyerID"`
}
