package handlers

import (
	"github.com/gin-gonic/gin"

	"fleettrack/internal/models"
	"fleettrack/internal/services"
	"fleettrack/internal/utils"
)

type GeofenceHandler struct {
	geofenceService *services.GeofenceService
}

func NewGeofenceHandler(geofenceService *services.GeofenceService) *GeofenceHandler {
	return &GeofenceHandler{
		geofenceService: geofenceService,
	}
}

type createGeofenceRequest struct {
	DeviceID     string                  `json:"device_id" binding:"required"`
	Name         string                  `json:"name" binding:"required"`
	Type         models.GeofenceType     `json:"type" binding:"required"`
	Icon         string                  `json:"icon"`
	Color        string                  `json:"color"`
	CenterLat    float64                 `json:"center_lat"`
	CenterLng    float64                 `json:"center_lng"`
	RadiusMeters float64                 `json:"radius_meters"`
	Vertices     []utils.Point           `json:"vertices"`
	AlertOnEnter bool                    `json:"alert_on_enter"`
	AlertOnExit  bool                    `json:"alert_on_exit"`
	Schedule     models.GeofenceSchedule `json:"schedule"`
}

func (h *GeofenceHandler) CreateGeofence(c *gin.Context) {
	customerID, ok := customerIDFrom(c)
	if !ok {
		return
	}

	var request createGeofenceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	deviceID, err := primitiveObjectID(request.DeviceID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid device_id")
		return
	}

	geofence := &models.Geofence{
		DeviceID:     deviceID,
		CustomerID:   customerID,
		Name:         request.Name,
		Type:         request.Type,
		Icon:         request.Icon,
		Color:        request.Color,
		CenterLat:    request.CenterLat,
		CenterLng:    request.CenterLng,
		RadiusMeters: request.RadiusMeters,
		Vertices:     request.Vertices,
		AlertOnEnter: request.AlertOnEnter,
		AlertOnExit:  request.AlertOnExit,
		Schedule:     request.Schedule,
		IsActive:     true,
	}

	if err := h.geofenceService.CreateGeofence(c.Request.Context(), geofence); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Geofence created", geofence)
}

func (h *GeofenceHandler) GetGeofence(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	geofence, err := h.geofenceService.GetGeofence(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Geofence retrieved", geofence)
}

// ListGeofences returns the device's geofences in creation order.
func (h *GeofenceHandler) ListGeofences(c *gin.Context) {
	deviceID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	geofences, err := h.geofenceService.ListGeofences(c.Request.Context(), deviceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Geofences retrieved", geofences)
}

func (h *GeofenceHandler) UpdateGeofence(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var update services.GeofenceUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	geofence, err := h.geofenceService.UpdateGeofence(c.Request.Context(), id, &update)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Geofence updated", geofence)
}

func (h *GeofenceHandler) DeleteGeofence(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.geofenceService.DeleteGeofence(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
