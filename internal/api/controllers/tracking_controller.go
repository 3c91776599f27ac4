package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"regpay/internal/models/request_models"
	"regpay/internal/services"
	"regpay/pkg/utils"
)

type TrackingController struct {
	tracking services.TrackingServiceInterface
}

func NewTrackingController(tracking services.TrackingServiceInterface) *TrackingController {
	return &TrackingController{tracking: tracking}
}

// TrackRequests godoc
// @Summary Track requests by phone number
// @Description Public self-service lookup, tolerant of phone formatting
// @Tags Tracking
// @Accept json
// @Produce json
// @Param request body request_models.TrackingRequest true "Tracking Request"
// @Success 200 {object} utils.APIResponse
// @Router /tracking [post]
func (t *TrackingController) TrackRequests(c *gin.Context) {
	var req request_models.TrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	results, err := t.tracking.TrackByPhone(c.Request.Context(), req.Phone)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidIdentifier) {
			utils.RespondError(c, http.StatusBadRequest, "Phone number must be 8 to 20 digits")
			return
		}
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, results, "Fetched requests successfully")
}
