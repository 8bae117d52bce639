package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the MediKart API.

The following are the endpoints for this API:

SHOP
- POST "/api/shop/order/create" - Create order and payment intent
- POST "/api/shop/order/capture" - Verify payment and finalize order
- GET "/api/shop/order/list/:userId" - Orders for a customer
- GET "/api/shop/order/details/:id" - Single order details
- POST "/api/shop/prescriptions" - Submit an uploaded prescription

ADMIN
- GET "/api/admin/orders/get" - All orders
- GET "/api/admin/orders/unassigned" - Claimable order queue
- PUT "/api/admin/orders/accept/:id" - Claim an order
- GET "/api/admin/orders/accepted" - Orders claimed by you
- PUT "/api/admin/orders/delivered/:id" - Mark delivered (claimant only)
- PUT "/api/admin/orders/update/:id" - Direct status override
- GET "/api/admin/orders/details/:id" - Order details
- GET "/api/admin/prescriptions/unassigned" - Claimable prescriptions
- PUT "/api/admin/prescriptions/accept/:id" - Claim a prescription
- GET "/api/admin/prescriptions/assigned" - Prescriptions claimed by you
- PUT "/api/admin/prescriptions/complete/:id" - Mark completed

COMMON
- GET "/api/common/feature/get" - Storefront banner images
- POST "/api/common/feature/add" - Add banner image (admin)
- DELETE "/api/common/feature/delete/:id" - Remove banner image (admin)
- GET "/api/auth/check-auth" - Session introspection
- GET "/ws?token=..." - Realtime event stream`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
