package models

import "gorm.io/gorm"

type CartItem struct {
	gorm.Model
	CartID    uint    `json:"cartId"`
	ProductID uint    `json:"productId"`
	Title     string  `json:"title"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Cart is the live shopping cart. It is deleted when the order it produced
// is captured; the order keeps its own snapshot of the lines.
type Cart struct {
	gorm.Model
	UserID uint       `json:"userId"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}
