package handlers

import (
	"github.com/gin-gonic/gin"

	"fleettrack/internal/services"
	"fleettrack/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	customerID, ok := customerIDFrom(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	notifications, total, err := h.notificationService.GetNotifications(c.Request.Context(), customerID, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Notifications retrieved", notifications, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *NotificationHandler) GetUnreadNotifications(c *gin.Context) {
	customerID, ok := customerIDFrom(c)
	if !ok {
		return
	}

	notifications, err := h.notificationService.GetUnreadNotifications(c.Request.Context(), customerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Unread notifications retrieved", notifications)
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	customerID, ok := customerIDFrom(c)
	if !ok {
		return
	}

	count, err := h.notificationService.GetUnreadCount(c.Request.Context(), customerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Unread count retrieved", gin.H{"count": count})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	customerID, ok := customerIDFrom(c)
	if !ok {
		return
	}

	notificationID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), customerID, notificationID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Notification marked as read", nil)
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	customerID, ok := customerIDFrom(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), customerID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "All notifications marked as read", nil)
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	customerID, ok := customerIDFrom(c)
	if !ok {
		return
	}

	notificationID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.DeleteNotification(c.Request.Context(), customerID, notificationID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *NotificationHandler) DeleteAllNotifications(c *gin.Context) {
	customerID, ok := customerIDFrom(c)
	if !ok {
		return
	}

	if err := h.notificationService.DeleteAllNotifications(c.Request.Context(), customerID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
