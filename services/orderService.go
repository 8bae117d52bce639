package services

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/medikart/medikart-api/models"
	"github.com/medikart/medikart-api/payments"
	"github.com/medikart/medikart-api/realtime"
	"github.com/medikart/medikart-api/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderService owns every legal state transition for an order:
// pending -> confirmed (capture) -> assigned (first admin claim) ->
// delivered, with rejected reachable from any non-terminal state. All
// check-then-mutate steps are expressed as single conditional updates so two
// interleaved requests cannot both pass the check.
type OrderService struct {
	db       *gorm.DB
	payments *payments.Client
	hub      *realtime.Hub
}

func NewOrderService(db *gorm.DB, gateway *payments.Client, hub *realtime.Hub) *OrderService {
	return &OrderService{db: db, payments: gateway, hub: hub}
}

type CreateOrderInput struct {
	UserID        *uint              `json:"userId"`
	LegacyUserID  string             `json:"legacyUserId"`
	CartID        *uint              `json:"cartId"`
	CartItems     []models.OrderItem `json:"cartItems"`
	AddressInfo   models.AddressInfo `json:"addressInfo"`
	PaymentMethod string             `json:"paymentMethod"`
	TotalAmount   float64            `json:"totalAmount"`
}

// CreateOrderResult carries everything the checkout page needs to open the
// payment widget.
type CreateOrderResult struct {
	Order           *models.Order `json:"order"`
	RazorpayOrderID string        `json:"razorpayOrderId"`
	Amount          int64         `json:"amount"`
	Currency        string        `json:"currency"`
	KeyID           string        `json:"keyId"`
}

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// Create persists a pending order with a snapshot of the cart and requests a
// matching payment intent from the gateway. If the gateway call fails the
// order stays behind in pending state; it is never confirmed without capture.
func (s *OrderService) Create(input CreateOrderInput) (*CreateOrderResult, error) {
	if len(input.CartItems) == 0 {
		return nil, &ValidationError{Message: "cart items are required"}
	}
	if input.AddressInfo.Address == "" {
		return nil, &ValidationError{Message: "shipping address is required"}
	}

	var total float64
	for _, item := range input.CartItems {
		if item.Quantity <= 0 {
			return nil, &ValidationError{Message: "item quantity must be positive"}
		}
		total += item.Price * float64(item.Quantity)
	}
	if input.TotalAmount <= 0 {
		input.TotalAmount = total
	}

	order := models.Order{
		UserID:        input.UserID,
		LegacyUserID:  input.LegacyUserID,
		CartID:        input.CartID,
		CartItems:     datatypes.NewJSONType(input.CartItems),
		AddressInfo:   datatypes.NewJSONType(input.AddressInfo),
		OrderStatus:   models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: input.PaymentMethod,
		OrderRef:      generateOrderRef(),
		TotalAmount:   input.TotalAmount,
	}

	if err := s.db.Create(&order).Error; err != nil {
		return nil, err
	}

	gatewayOrder, err := s.payments.CreateOrder(order.TotalAmount, "order_"+strconv.FormatUint(uint64(order.ID), 10))
	if err != nil {
		// The pending order is kept as an audit trail of the failed checkout.
		return nil, err
	}

	if err := s.db.Model(&order).Update("razorpay_order_id", gatewayOrder.ID).Error; err != nil {
		return nil, err
	}
	order.RazorpayOrderID = gatewayOrder.ID

	return &CreateOrderResult{
		Order:           &order,
		RazorpayOrderID: gatewayOrder.ID,
		Amount:          gatewayOrder.Amount,
		Currency:        gatewayOrder.Currency,
		KeyID:           s.payments.KeyID(),
	}, nil
}

// Capture finalizes an order after the gateway reports payment: it verifies
// the signature, then in one transaction flips the payment status, decrements
// stock for every snapshot line and deletes the originating cart. Any failure
// rolls the whole capture back, so stock and order state never diverge. A
// repeated capture for an already paid order fails with ErrAlreadyPaid before
// touching stock.
func (s *OrderService) Capture(razorpayOrderID, paymentID, signature string, orderID uint) (*models.Order, error) {
	if razorpayOrderID == "" || paymentID == "" || signature == "" || orderID == 0 {
		return nil, &ValidationError{Message: "razorpayOrderId, paymentId, signature and orderId are required"}
	}

	if !s.payments.VerifySignature(razorpayOrderID, paymentID, signature) {
		return nil, ErrInvalidSignature
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		// Conditional update keyed on the pending payment status: a duplicate
		// capture (retried callback, double webhook) finds zero rows here and
		// never reaches the stock loop.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND payment_status = ?", orderID, models.PaymentStatusPending).
			Updates(map[string]any{
				"payment_status":    models.PaymentStatusPaid,
				"order_status":      models.OrderStatusConfirmed,
				"payment_id":        paymentID,
				"razorpay_order_id": razorpayOrderID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyPaid
		}

		for _, item := range order.CartItems.Data() {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND total_stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("total_stock", gorm.Expr("total_stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return &ProductNotFoundError{Title: item.Title}
				}
				return &InsufficientStockError{Title: item.Title}
			}
		}

		if order.CartID != nil {
			if err := tx.Where("cart_id = ?", *order.CartID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Delete(&models.Cart{}, *order.CartID).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	// The admin queue learns about the order only now, after capture has
	// actually succeeded.
	s.hub.Publish(realtime.TopicAdminOrders, realtime.EventAdminNewOrder, order)

	if order.User != nil && order.User.Email != "" {
		go func(email string, o models.Order) {
			if err := utils.SendOrderConfirmation(email, &o); err != nil {
				log.Println("order confirmation email failed:", err)
			}
		}(order.User.Email, *order)
	}

	return order, nil
}

// Assign claims an order for an admin. First claim wins: the update is
// conditional on assigned_to still being null, so of N concurrent claims
// exactly one sees a row change and the rest get ErrAlreadyAssigned.
func (s *OrderService) Assign(orderID, adminID uint) (*models.Order, error) {
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND assigned_to IS NULL", orderID).
		Updates(map[string]any{
			"assigned_to":  adminID,
			"order_status": models.OrderStatusAssigned,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrOrderNotFound
		}
		return nil, ErrAlreadyAssigned
	}

	order, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(realtime.TopicAdminOrders, realtime.EventOrderAccepted, orderID)
	if order.UserID != nil {
		s.hub.Publish(realtime.UserTopic(*order.UserID), realtime.EventOrderAccepted, orderID)
	}

	return order, nil
}

// MarkDelivered closes out an order. Only the claiming admin may do it.
func (s *OrderService) MarkDelivered(orderID, adminID uint) (*models.Order, error) {
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND assigned_to = ?", orderID, adminID).
		Update("order_status", models.OrderStatusDelivered)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrOrderNotFound
		}
		return nil, ErrNotAuthorized
	}

	return s.GetByID(orderID)
}

// UpdateStatus is the admin override used by the back office, including the
// rejected path. Terminal orders stay terminal.
func (s *OrderService) UpdateStatus(orderID uint, status models.OrderStatus) (*models.Order, error) {
	switch status {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusAssigned,
		models.OrderStatusDelivered, models.OrderStatusRejected:
	default:
		return nil, &ValidationError{Message: "invalid order status"}
	}

	res := s.db.Model(&models.Order{}).
		Where("id = ? AND order_status NOT IN ?", orderID,
			[]models.OrderStatus{models.OrderStatusDelivered, models.OrderStatusRejected}).
		Update("order_status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrOrderNotFound
		}
		return nil, ErrTerminalStatus
	}

	return s.GetByID(orderID)
}

// GetByID loads a single order with its customer reference resolved.
func (s *OrderService) GetByID(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("User").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	order.UserName = order.CustomerName()
	return &order, nil
}

// ListUnassigned returns the claimable queue for the admin dashboard.
func (s *OrderService) ListUnassigned() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("User").
		Where("assigned_to IS NULL").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	decorateOrders(orders)
	return orders, nil
}

// ListAssignedTo returns the orders an admin has claimed.
func (s *OrderService) ListAssignedTo(adminID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("User").
		Where("assigned_to = ?", adminID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	decorateOrders(orders)
	return orders, nil
}

// ListByCustomer returns a customer's orders. The id may be a numeric user id
// or a legacy string id from the older mobile client.
func (s *OrderService) ListByCustomer(customerID string) ([]models.Order, error) {
	query := s.db.Preload("User")
	if n, err := strconv.ParseUint(customerID, 10, 64); err == nil {
		query = query.Where("user_id = ? OR legacy_user_id = ?", n, customerID)
	} else {
		query = query.Where("legacy_user_id = ?", customerID)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	decorateOrders(orders)
	return orders, nil
}

// ListAll returns every order for the admin back office.
func (s *OrderService) ListAll() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("User").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	decorateOrders(orders)
	return orders, nil
}

func decorateOrders(orders []models.Order) {
	for i := range orders {
		orders[i].UserName = orders[i].CustomerName()
	}
}
