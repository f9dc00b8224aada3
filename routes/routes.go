package routes

import (
	"github.com/gin-gonic/gin"

	"fleettrack/internal/handlers"
	"fleettrack/pkg/websocket"
)

// SetupTrackingRoutes wires position ingestion and history reads.
func SetupTrackingRoutes(r *gin.RouterGroup, trackingHandler *handlers.TrackingHandler) {
	// The device gateway posts decoded tracker reports here.
	r.POST("/positions", trackingHandler.IngestPosition)

	devices := r.Group("/devices")
	{
		devices.GET("/:id/position", trackingHandler.GetLatestPosition)
		devices.GET("/:id/positions", trackingHandler.GetPositionHistory)
	}
}

// SetupGeofenceRoutes wires geofence management.
func SetupGeofenceRoutes(r *gin.RouterGroup, geofenceHandler *handlers.GeofenceHandler) {
	geofences := r.Group("/geofences")
	{
		geofences.POST("/", geofenceHandler.CreateGeofence)
		geofences.GET("/:id", geofenceHandler.GetGeofence)
		geofences.PUT("/:id", geofenceHandler.UpdateGeofence)
		geofences.DELETE("/:id", geofenceHandler.DeleteGeofence)
	}

	r.GET("/devices/:id/geofences", geofenceHandler.ListGeofences)
}

// SetupNotificationRoutes wires the per-customer notification feed.
func SetupNotificationRoutes(r *gin.RouterGroup, notificationHandler *handlers.NotificationHandler) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("/", notificationHandler.ListNotifications)
		notifications.GET("/unread", notificationHandler.GetUnreadNotifications)
		notifications.GET("/unread/count", notificationHandler.GetUnreadCount)
		notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
		notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
		notifications.DELETE("/:id", notificationHandler.DeleteNotification)
		notifications.DELETE("/", notificationHandler.DeleteAllNotifications)
	}
}

// SetupWebhookRoutes wires callbacks from external systems.
func SetupWebhookRoutes(r *gin.RouterGroup, webhookHandler *handlers.WebhookHandler) {
	webhooks := r.Group("/webhooks")
	{
		webhooks.POST("/subscription-paid", webhookHandler.SubscriptionPaid)
	}
}

// SetupWebSocketRoutes wires the live tracking socket.
func SetupWebSocketRoutes(r *gin.Engine, hub *websocket.Hub) {
	r.GET("/ws", websocket.HandleWebSocket(hub))
}
