package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"fleettrack/internal/services"
	"fleettrack/internal/utils"
)

type TrackingHandler struct {
	trackingService *services.TrackingService
}

func NewTrackingHandler(trackingService *services.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
	}
}

// IngestPosition accepts one decoded tracker report from the device gateway.
func (h *TrackingHandler) IngestPosition(c *gin.Context) {
	var request services.IngestRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	position, err := h.trackingService.Ingest(c.Request.Context(), &request)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Position recorded", position)
}

// GetLatestPosition returns the device's most recent sample.
func (h *TrackingHandler) GetLatestPosition(c *gin.Context) {
	deviceID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	position, err := h.trackingService.GetLatestPosition(c.Request.Context(), deviceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Latest position retrieved", position)
}

// GetPositionHistory returns samples in a time range, newest first.
func (h *TrackingHandler) GetPositionHistory(c *gin.Context) {
	deviceID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	from, to, err := timeRangeFrom(c)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	params := utils.GetPaginationParams(c)
	positions, total, err := h.trackingService.GetPositionHistory(c.Request.Context(), deviceID, from, to, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Position history retrieved", positions, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func timeRangeFrom(c *gin.Context) (time.Time, time.Time, error) {
	from := time.Time{}
	to := time.Now()

	if raw := c.Query("from"); raw != "" {
		parsed, err := utils.ParseTimeISO(raw)
		if err != nil {
			return from, to, err
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := utils.ParseTimeISO(raw)
		if err != nil {
			return from, to, err
		}
		to = parsed
	}

	return from, to, nil
}
