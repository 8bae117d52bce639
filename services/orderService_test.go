package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/medikart/medikart-api/models"
	"github.com/medikart/medikart-api/payments"
	"github.com/medikart/medikart-api/realtime"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testGatewaySecret = "test_secret"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive and serializes
	// concurrent writers the way the production pool would.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.Prescription{},
		&models.Feature{},
	))

	return db
}

func newOrderService(t *testing.T, db *gorm.DB) *OrderService {
	t.Helper()
	gateway := payments.NewClient("rzp_test_key", testGatewaySecret)
	return NewOrderService(db, gateway, realtime.NewHub())
}

func sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testGatewaySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func seedProduct(t *testing.T, db *gorm.DB, title string, stock int) *models.Product {
	t.Helper()
	product := models.Product{Title: title, Price: 250, TotalStock: stock}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func seedOrder(t *testing.T, db *gorm.DB, items []models.OrderItem, mutate func(*models.Order)) *models.Order {
	t.Helper()
	order := models.Order{
		CartItems:     datatypes.NewJSONType(items),
		AddressInfo:   datatypes.NewJSONType(models.AddressInfo{Address: "12 MG Road", City: "Pune", Pincode: "411001", Phone: "9900112233"}),
		OrderStatus:   models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		OrderRef:      generateOrderRef(),
		TotalAmount:   500,
	}
	if mutate != nil {
		mutate(&order)
	}
	require.NoError(t, db.Create(&order).Error)
	return &order
}

func TestCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	var validationErr *ValidationError

	_, err := svc.Create(CreateOrderInput{
		AddressInfo: models.AddressInfo{Address: "12 MG Road"},
	})
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.Create(CreateOrderInput{
		CartItems: []models.OrderItem{{ProductID: 1, Quantity: 1, Price: 100}},
	})
	require.ErrorAs(t, err, &validationErr)
}

func TestCreatePersistsPendingOrderAndIntent(t *testing.T) {
	db := newTestDB(t)

	gatewayServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, float64(50000), body["amount"])

		json.NewEncoder(w).Encode(map[string]any{
			"id": "order_rzp1", "amount": body["amount"], "currency": "INR", "status": "created",
		})
	}))
	defer gatewayServer.Close()

	gateway := payments.NewClient("rzp_test_key", testGatewaySecret)
	gateway.SetBaseURL(gatewayServer.URL)
	svc := NewOrderService(db, gateway, realtime.NewHub())

	userID := uint(1)
	result, err := svc.Create(CreateOrderInput{
		UserID: &userID,
		CartItems: []models.OrderItem{
			{ProductID: 1, Title: "Paracetamol 500mg", Price: 250, Quantity: 2},
		},
		AddressInfo: models.AddressInfo{Address: "12 MG Road", City: "Pune", Pincode: "411001", Phone: "9900112233"},
		TotalAmount: 500,
	})
	require.NoError(t, err)
	require.Equal(t, "order_rzp1", result.RazorpayOrderID)
	require.Equal(t, "INR", result.Currency)
	require.Equal(t, "rzp_test_key", result.KeyID)
	require.NotEmpty(t, result.Order.OrderRef)

	var stored models.Order
	require.NoError(t, db.First(&stored, result.Order.ID).Error)
	require.Equal(t, models.OrderStatusPending, stored.OrderStatus)
	require.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
	require.Equal(t, "order_rzp1", stored.RazorpayOrderID)
	require.Len(t, stored.CartItems.Data(), 1)
}

func TestCreateGatewayFailureLeavesPendingOrder(t *testing.T) {
	db := newTestDB(t)

	gatewayServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer gatewayServer.Close()

	gateway := payments.NewClient("rzp_test_key", testGatewaySecret)
	gateway.SetBaseURL(gatewayServer.URL)
	svc := NewOrderService(db, gateway, realtime.NewHub())

	_, err := svc.Create(CreateOrderInput{
		CartItems:   []models.OrderItem{{ProductID: 1, Title: "Paracetamol 500mg", Price: 100, Quantity: 1}},
		AddressInfo: models.AddressInfo{Address: "12 MG Road"},
	})

	var gatewayErr *payments.GatewayError
	require.ErrorAs(t, err, &gatewayErr)

	// The orphaned order stays behind, still pending.
	var count int64
	require.NoError(t, db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentStatusPending).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCaptureConfirmsOrderAndDecrementsStock(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	product := seedProduct(t, db, "Paracetamol 500mg", 10)

	cart := models.Cart{UserID: 3}
	require.NoError(t, db.Create(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{CartID: cart.ID, ProductID: product.ID, Title: product.Title, Price: 250, Quantity: 2}).Error)

	order := seedOrder(t, db, []models.OrderItem{
		{ProductID: product.ID, Title: product.Title, Price: 250, Quantity: 2},
	}, func(o *models.Order) { o.CartID = &cart.ID })

	captured, err := svc.Capture("order_rzp1", "pay_1", sign("order_rzp1", "pay_1"), order.ID)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusPaid, captured.PaymentStatus)
	require.Equal(t, models.OrderStatusConfirmed, captured.OrderStatus)
	require.Equal(t, "pay_1", captured.PaymentID)

	var storedProduct models.Product
	require.NoError(t, db.First(&storedProduct, product.ID).Error)
	require.Equal(t, 8, storedProduct.TotalStock)

	// The originating cart is gone.
	var storedCart models.Cart
	err = db.First(&storedCart, cart.ID).Error
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCaptureIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	product := seedProduct(t, db, "Paracetamol 500mg", 10)
	order := seedOrder(t, db, []models.OrderItem{
		{ProductID: product.ID, Title: product.Title, Price: 250, Quantity: 2},
	}, nil)

	signature := sign("order_rzp1", "pay_1")

	_, err := svc.Capture("order_rzp1", "pay_1", signature, order.ID)
	require.NoError(t, err)

	_, err = svc.Capture("order_rzp1", "pay_1", signature, order.ID)
	require.ErrorIs(t, err, ErrAlreadyPaid)

	// Stock decremented exactly once.
	var storedProduct models.Product
	require.NoError(t, db.First(&storedProduct, product.ID).Error)
	require.Equal(t, 8, storedProduct.TotalStock)
}

func TestCaptureRejectsTamperedSignature(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	product := seedProduct(t, db, "Paracetamol 500mg", 10)
	order := seedOrder(t, db, []models.OrderItem{
		{ProductID: product.ID, Title: product.Title, Price: 250, Quantity: 2},
	}, nil)

	signature := []byte(sign("order_rzp1", "pay_1"))
	if signature[10] == 'a' {
		signature[10] = 'b'
	} else {
		signature[10] = 'a'
	}

	_, err := svc.Capture("order_rzp1", "pay_1", string(signature), order.ID)
	require.ErrorIs(t, err, ErrInvalidSignature)

	// No state was touched.
	var storedOrder models.Order
	require.NoError(t, db.First(&storedOrder, order.ID).Error)
	require.Equal(t, models.PaymentStatusPending, storedOrder.PaymentStatus)

	var storedProduct models.Product
	require.NoError(t, db.First(&storedProduct, product.ID).Error)
	require.Equal(t, 10, storedProduct.TotalStock)
}

func TestCaptureValidatesCorrelationFields(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	var validationErr *ValidationError
	_, err := svc.Capture("", "pay_1", "sig", 1)
	require.ErrorAs(t, err, &validationErr)
	_, err = svc.Capture("order_rzp1", "pay_1", "", 1)
	require.ErrorAs(t, err, &validationErr)
	_, err = svc.Capture("order_rzp1", "pay_1", "sig", 0)
	require.ErrorAs(t, err, &validationErr)
}

func TestCaptureOrderNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	_, err := svc.Capture("order_rzp1", "pay_1", sign("order_rzp1", "pay_1"), 999)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCaptureInsufficientStockRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	inStock := seedProduct(t, db, "Paracetamol 500mg", 10)
	scarce := seedProduct(t, db, "Insulin Pen", 1)

	order := seedOrder(t, db, []models.OrderItem{
		{ProductID: inStock.ID, Title: inStock.Title, Price: 250, Quantity: 2},
		{ProductID: scarce.ID, Title: scarce.Title, Price: 900, Quantity: 2},
	}, nil)

	_, err := svc.Capture("order_rzp1", "pay_1", sign("order_rzp1", "pay_1"), order.ID)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, "Insulin Pen", stockErr.Title)

	// The first line's decrement was rolled back with the rest.
	var first, second models.Product
	require.NoError(t, db.First(&first, inStock.ID).Error)
	require.NoError(t, db.First(&second, scarce.ID).Error)
	require.Equal(t, 10, first.TotalStock)
	require.Equal(t, 1, second.TotalStock)

	var storedOrder models.Order
	require.NoError(t, db.First(&storedOrder, order.ID).Error)
	require.Equal(t, models.PaymentStatusPending, storedOrder.PaymentStatus)
	require.Equal(t, models.OrderStatusPending, storedOrder.OrderStatus)
}

func TestCaptureMissingProductRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	order := seedOrder(t, db, []models.OrderItem{
		{ProductID: 12345, Title: "Delisted Syrup", Price: 120, Quantity: 1},
	}, nil)

	_, err := svc.Capture("order_rzp1", "pay_1", sign("order_rzp1", "pay_1"), order.ID)

	var notFoundErr *ProductNotFoundError
	require.ErrorAs(t, err, &notFoundErr)

	var storedOrder models.Order
	require.NoError(t, db.First(&storedOrder, order.ID).Error)
	require.Equal(t, models.PaymentStatusPending, storedOrder.PaymentStatus)
}

func TestAssignFirstClaimWins(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	order := seedOrder(t, db, []models.OrderItem{
		{ProductID: 1, Title: "Paracetamol 500mg", Price: 250, Quantity: 1},
	}, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusConfirmed
		o.PaymentStatus = models.PaymentStatusPaid
	})

	const admins = 8
	var wg sync.WaitGroup
	results := make([]error, admins)

	for i := 0; i < admins; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Assign(order.ID, uint(i+1))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, ErrAlreadyAssigned)
		}
	}
	require.Equal(t, 1, wins)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	require.NotNil(t, stored.AssignedTo)
	require.Equal(t, models.OrderStatusAssigned, stored.OrderStatus)
	require.Nil(t, results[int(*stored.AssignedTo)-1])
}

func TestAssignOrderNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	_, err := svc.Assign(999, 1)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMarkDeliveredClaimantOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	order := seedOrder(t, db, []models.OrderItem{
		{ProductID: 1, Title: "Paracetamol 500mg", Price: 250, Quantity: 1},
	}, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusConfirmed
		o.PaymentStatus = models.PaymentStatusPaid
	})

	_, err := svc.Assign(order.ID, 1)
	require.NoError(t, err)

	_, err = svc.MarkDelivered(order.ID, 2)
	require.ErrorIs(t, err, ErrNotAuthorized)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	require.Equal(t, models.OrderStatusAssigned, stored.OrderStatus)

	delivered, err := svc.MarkDelivered(order.ID, 1)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusDelivered, delivered.OrderStatus)
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	order := seedOrder(t, db, []models.OrderItem{
		{ProductID: 1, Title: "Paracetamol 500mg", Price: 250, Quantity: 1},
	}, func(o *models.Order) { o.OrderStatus = models.OrderStatusConfirmed })

	var validationErr *ValidationError
	_, err := svc.UpdateStatus(order.ID, "shipped")
	require.ErrorAs(t, err, &validationErr)

	rejected, err := svc.UpdateStatus(order.ID, models.OrderStatusRejected)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusRejected, rejected.OrderStatus)

	// Terminal states never move again.
	_, err = svc.UpdateStatus(order.ID, models.OrderStatusConfirmed)
	require.ErrorIs(t, err, ErrTerminalStatus)
}

func TestListUnassignedDisplayNameFallback(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	user := models.User{Username: "dhruvil", Role: "user"}
	require.NoError(t, db.Create(&user).Error)

	seedOrder(t, db, []models.OrderItem{{ProductID: 1, Title: "A", Price: 1, Quantity: 1}},
		func(o *models.Order) { o.UserID = &user.ID })
	seedOrder(t, db, []models.OrderItem{{ProductID: 2, Title: "B", Price: 1, Quantity: 1}},
		func(o *models.Order) { o.LegacyUserID = "66f1a2b3c4d5e6f7a8b9c0d1" })
	seedOrder(t, db, []models.OrderItem{{ProductID: 3, Title: "C", Price: 1, Quantity: 1}}, nil)

	orders, err := svc.ListUnassigned()
	require.NoError(t, err)
	require.Len(t, orders, 3)

	names := make(map[string]bool, len(orders))
	for _, o := range orders {
		names[o.UserName] = true
	}
	require.True(t, names["dhruvil"])
	require.True(t, names["User #66f1a2b3"])
	require.True(t, names["Anonymous User"])
}

func TestListUnassignedExcludesClaimedOrders(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	claimed := seedOrder(t, db, []models.OrderItem{{ProductID: 1, Title: "A", Price: 1, Quantity: 1}}, nil)
	open := seedOrder(t, db, []models.OrderItem{{ProductID: 2, Title: "B", Price: 1, Quantity: 1}}, nil)

	_, err := svc.Assign(claimed.ID, 4)
	require.NoError(t, err)

	orders, err := svc.ListUnassigned()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, open.ID, orders[0].ID)

	assigned, err := svc.ListAssignedTo(4)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	require.Equal(t, claimed.ID, assigned[0].ID)
}

func TestListByCustomerMatchesLegacyIDs(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	user := models.User{Username: "asha", Role: "user"}
	require.NoError(t, db.Create(&user).Error)

	seedOrder(t, db, []models.OrderItem{{ProductID: 1, Title: "A", Price: 1, Quantity: 1}},
		func(o *models.Order) { o.UserID = &user.ID })
	seedOrder(t, db, []models.OrderItem{{ProductID: 2, Title: "B", Price: 1, Quantity: 1}},
		func(o *models.Order) { o.LegacyUserID = "legacy-abc" })

	byID, err := svc.ListByCustomer("1")
	require.NoError(t, err)
	require.Len(t, byID, 1)

	byLegacy, err := svc.ListByCustomer("legacy-abc")
	require.NoError(t, err)
	require.Len(t, byLegacy, 1)
	require.Equal(t, "legacy-abc", byLegacy[0].LegacyUserID)
}
