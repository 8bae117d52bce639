package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusAssigned  OrderStatus = "assigned"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusRejected  OrderStatus = "rejected"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// OrderItem is a denormalized copy of a cart line taken at checkout time.
// The live cart can change afterwards; this snapshot never does.
type OrderItem struct {
	ProductID uint    `json:"productId"`
	Title     string  `json:"title"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type AddressInfo struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

type Order struct {
	gorm.Model
	// UserID is the relational customer reference. LegacyUserID carries the
	// raw string id older mobile clients send instead; either may be empty.
	UserID       *uint  `json:"userId"`
	User         *User  `json:"user,omitempty"`
	LegacyUserID string `json:"legacyUserId,omitempty"`

	CartID *uint `json:"cartId"`

	CartItems   datatypes.JSONType[[]OrderItem] `json:"cartItems"`
	AddressInfo datatypes.JSONType[AddressInfo] `json:"addressInfo"`

	// AssignedTo is nil while the order sits in the claimable queue. It is
	// set at most once, by the first admin whose claim lands.
	AssignedTo *uint `json:"assignedTo"`

	OrderStatus   OrderStatus   `json:"orderStatus"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentMethod string        `json:"paymentMethod"`

	// OrderRef is the human-facing reference printed on receipts and used as
	// the gateway correlation key.
	OrderRef string `json:"orderRef" gorm:"uniqueIndex"`

	RazorpayOrderID string  `json:"razorpayOrderId"`
	PaymentID       string  `json:"paymentId"`
	TotalAmount     float64 `json:"totalAmount"`

	// UserName is resolved per request for admin listings, never stored.
	UserName string `json:"userName,omitempty" gorm:"-"`
}

// CustomerName resolves a display name for the ordering customer, falling
// back from the relational user to the legacy string id to an anonymous
// placeholder.
func (o *Order) CustomerName() string {
	if o.User != nil && o.User.Username != "" {
		return o.User.Username
	}
	if o.LegacyUserID != "" {
		id := o.LegacyUserID
		if len(id) > 8 {
			id = id[:8]
		}
		return "User #" + id
	}
	return "Anonymous User"
}
