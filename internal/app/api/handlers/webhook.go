package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/fieldbook/internal/app/service/ledger"
	nh "github.com/fatflowers/fieldbook/internal/app/service/notification_handler"
	"github.com/fatflowers/fieldbook/pkg/response"
	"github.com/fatflowers/fieldbook/pkg/types"
)

// webhookStatus maps a processing error to the HTTP status the provider sees.
// Anything other than 2xx and 4xx makes the provider deliver the event again.
func webhookStatus(provider types.PaymentProvider, err error) int {
	switch {
	case errors.Is(err, nh.ErrAuthentication):
		if provider == types.PaymentProviderRevenueCat {
			return http.StatusUnauthorized
		}
		return http.StatusBadRequest
	case errors.Is(err, nh.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrUpstreamTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func webhook(h *nh.NotificationHandler, provider types.PaymentProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, response.WebhookError{Error: "failed to read body"})
			return
		}
		if _, err := h.HandleNotification(c.Request.Context(), provider, payload, c.Request.Header); err != nil {
			c.JSON(webhookStatus(provider, err), response.WebhookError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, response.WebhookAck{Received: true})
	}
}

// @Summary      Stripe Webhook
// @Description  Receives Stripe events. The raw body is verified against the Stripe-Signature header before anything is written.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature  header  string  true  "Stripe webhook signature"
// @Param        payload           body    string  true  "Stripe event"
// @Success      200  {object}  response.WebhookAck
// @Failure      400  {object}  response.WebhookError
// @Failure      500  {object}  response.WebhookError
// @Failure      503  {object}  response.WebhookError
// @Router       /api/v2/webhook/stripe [post]
func ApiStripeWebhook(h *nh.NotificationHandler) gin.HandlerFunc {
	return webhook(h, types.PaymentProviderStripe)
}

// @Summary      RevenueCat Webhook
// @Description  Receives RevenueCat events authorized by the shared Authorization header.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        Authorization  header  string  true  "Shared webhook secret"
// @Param        payload        body    string  true  "RevenueCat event"
// @Success      200  {object}  response.WebhookAck
// @Failure      400  {object}  response.WebhookError
// @Failure      401  {object}  response.WebhookError
// @Failure      500  {object}  response.WebhookError
// @Router       /api/v2/webhook/revenuecat [post]
func ApiRevenueCatWebhook(h *nh.NotificationHandler) gin.HandlerFunc {
	return webhook(h, types.PaymentProviderRevenueCat)
}

func RegisterWebhookRoutes(r gin.IRouter, h *nh.NotificationHandler) {
	r.POST("/stripe", ApiStripeWebhook(h))
	r.POST("/revenuecat", ApiRevenueCatWebhook(h))
}
