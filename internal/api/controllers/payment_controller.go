package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"regpay/internal/models/request_models"
	"regpay/internal/providers"
	"regpay/internal/services"
	"regpay/pkg/utils"
)

type PaymentController struct {
	reconciliation services.ReconciliationServiceInterface
	registry       *providers.Registry
	verifiers      map[string]providers.SignatureVerifier
}

func NewPaymentController(
	reconciliation services.ReconciliationServiceInterface,
	registry *providers.Registry,
	verifiers map[string]providers.SignatureVerifier,
) *PaymentController {
	return &PaymentController{
		reconciliation: reconciliation,
		registry:       registry,
		verifiers:      verifiers,
	}
}

// HandleWebhook ingests a provider push. The contract with providers is
// narrow on purpose: 400 only when the payload is unparseable, 200 for
// everything else including orphans, so a confused provider does not
// hammer us with retries it cannot make succeed.
func (p *PaymentController) HandleWebhook(c *gin.Context) {
	providerName := c.Param("provider")

	adapter, err := p.registry.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown provider"})
		return
	}

	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.WithError(err).Warn("Failed to read webhook body")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to read request body"})
		return
	}

	if verifier := p.verifiers[adapter.Name()]; verifier != nil {
		if err := verifier.Verify(rawBody, c.GetHeader("X-Signature")); err != nil {
			log.WithField("provider", adapter.Name()).Warn("Webhook signature rejected")
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid signature"})
			return
		}
	}

	event, err := adapter.ParseWebhook(rawBody)
	if err != nil {
		p.reconciliation.RecordMalformed(c.Request.Context(), adapter.Name(), services.SourceWebhook, rawBody)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid webhook payload"})
		return
	}

	resp, err := p.reconciliation.ApplyEvent(c.Request.Context(), event, services.SourceWebhook, nil)
	if err != nil {
		log.WithFields(log.Fields{
			"provider":       adapter.Name(),
			"transaction_id": event.TransactionID,
		}).WithError(err).Error("Webhook reconciliation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to process event"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyPayment godoc
// @Summary Verify a payment transaction
// @Description Client-initiated verification, same pipeline as the provider webhook
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.VerifyPaymentRequest true "Verify Payment Request"
// @Success 200 {object} utils.APIResponse
// @Router /payments/verify [post]
func (p *PaymentController) VerifyPayment(c *gin.Context) {
	var req request_models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// Bearer token is optional here; a valid one only attributes the
	// created payment record to a user.
	var createdBy *uuid.UUID
	if userID := c.GetString("user_id"); userID != "" {
		if id, err := uuid.Parse(userID); err == nil {
			createdBy = &id
		}
	}

	resp, err := p.reconciliation.VerifyPayment(c.Request.Context(), req, createdBy)
	if err != nil {
		if errors.Is(err, utils.ErrMalformedPayload) {
			utils.RespondError(c, http.StatusBadRequest, "Unknown provider")
			return
		}
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Payment verified")
}
