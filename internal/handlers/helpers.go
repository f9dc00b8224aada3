package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fleettrack/internal/services"
	"fleettrack/internal/utils"
)

// customerIDFrom reads the authenticated customer set by the upstream auth
// proxy in the X-Customer-ID header.
func customerIDFrom(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetHeader("X-Customer-ID"))
	if err != nil {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}
	return id, true
}

func primitiveObjectID(hex string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(hex)
}

func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

// handleServiceError maps service errors onto the response envelope.
func handleServiceError(c *gin.Context, err error) {
	var validationErr *utils.ValidationError
	if errors.As(err, &validationErr) {
		utils.ValidationErrorResponse(c, validationErr.Fields)
		return
	}

	var notFoundErr *utils.NotFoundError
	if errors.As(err, &notFoundErr) {
		utils.NotFoundResponse(c, notFoundErr.Resource)
		return
	}

	if errors.Is(err, services.ErrDeviceInactive) {
		utils.ErrorResponse(c, http.StatusConflict, "DEVICE_INACTIVE", utils.ErrDeviceInactive)
		return
	}

	utils.InternalServerErrorResponse(c)
}
