package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"fleettrack/internal/models"
	"fleettrack/internal/services"
	"fleettrack/internal/utils"
)

// WebhookHandler receives callbacks from the billing system. Payments are
// processed upstream; this service only fans out the confirmation.
type WebhookHandler struct {
	alerts services.AlertDispatcher
}

func NewWebhookHandler(alerts services.AlertDispatcher) *WebhookHandler {
	return &WebhookHandler{
		alerts: alerts,
	}
}

type subscriptionPaidRequest struct {
	CustomerID string    `json:"customer_id" binding:"required"`
	DeviceID   string    `json:"device_id" binding:"required"`
	PlanName   string    `json:"plan_name" binding:"required"`
	PaidUntil  time.Time `json:"paid_until" binding:"required"`
}

func (h *WebhookHandler) SubscriptionPaid(c *gin.Context) {
	var request subscriptionPaidRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	customerID, err := primitiveObjectID(request.CustomerID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid customer_id")
		return
	}
	deviceID, err := primitiveObjectID(request.DeviceID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid device_id")
		return
	}

	h.alerts.Enqueue(&models.AlertEvent{
		Kind:       models.AlertKindSubscriptionPaid,
		OccurredAt: time.Now(),
		CustomerID: customerID,
		DeviceID:   deviceID,
		PlanName:   request.PlanName,
		PaidUntil:  request.PaidUntil,
	})

	utils.SuccessResponse(c, "Subscription confirmation queued", nil)
}
