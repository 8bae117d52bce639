package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/medikart/medikart-api/middlewares"
	"github.com/medikart/medikart-api/realtime"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// RealtimeHandler upgrades a session to a websocket and subscribes it to the
// topics its role allows: admins get both back-office feeds, customers only
// their own order updates. Authentication happens once, at connect time.
func RealtimeHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, err := middlewares.ParseClaims(ctx.Query("token"))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		role, _ := claims["role"].(string)
		if role == "admin" {
			hub.Subscribe(conn, realtime.TopicAdminOrders, realtime.TopicAdminPrescriptions)
		} else if id, ok := claims["user_id"].(float64); ok {
			hub.Subscribe(conn, realtime.UserTopic(uint(id)))
		}

		// Inbound messages are ignored; the read loop only notices the peer
		// going away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.Unsubscribe(conn)
				break
			}
		}
	}
}
