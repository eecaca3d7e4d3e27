package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/fieldbook/internal/app/service/ledger"
	"github.com/fatflowers/fieldbook/internal/app/service/plans"
	"github.com/fatflowers/fieldbook/internal/models"
	"github.com/fatflowers/fieldbook/pkg/logctx"
	"github.com/fatflowers/fieldbook/pkg/response"
)

// SubscriptionResponse is the caller's plan snapshot and, when there is one, the record backing it.
type SubscriptionResponse struct {
	Plan   *models.UserPlanSnapshot   `json:"plan"`
	Record *models.SubscriptionRecord `json:"record"`
}

// @Summary      List plans
// @Description  Plans currently offered to customers.
// @Tags         Subscription
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespPlans
// @Router       /api/v1/plans [get]
func ApiListPlans(catalog *plans.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := catalog.ListActivePlans(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get my subscription
// @Description  Returns the caller's plan snapshot and active subscription record.
// @Tags         Subscription
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/subscription [get]
func ApiGetSubscription(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID := logctx.UserID(ctx)

		snapshot, err := svc.GetUserPlanSnapshot(ctx, userID)
		if err != nil {
			c.JSON(http.StatusOK, ledgerError(err))
			return
		}
		out := SubscriptionResponse{Plan: snapshot}
		rec, err := svc.GetActiveSubscription(ctx, userID)
		switch {
		case err == nil:
			out.Record = rec
		case !errors.Is(err, ledger.ErrNotFound):
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Cancel my subscription
// @Description  Stops renewal at the end of the current period. Access continues until then.
// @Tags         Subscription
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespSubscriptionRecord
// @Router       /api/v1/subscription/cancel [post]
func ApiCancelSubscription(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := svc.CancelAtPeriodEnd(c.Request.Context(), logctx.UserID(c.Request.Context()))
		if err != nil {
			c.JSON(http.StatusOK, ledgerError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rec))
	}
}

func ledgerError(err error) *response.APIResponse[any] {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return response.ErrorT[any](response.APIResponseCodeNotFound, err.Error())
	case errors.Is(err, ledger.ErrValidation):
		return response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error())
	default:
		return response.ErrorT[any](response.APIResponseCodeError, err.Error())
	}
}

func RegisterSubscriptionRoutes(r gin.IRouter, catalog *plans.Catalog, svc *ledger.Service) {
	r.GET("/plans", ApiListPlans(catalog))
	r.GET("/subscription", ApiGetSubscription(svc))
	r.POST("/subscription/cancel", ApiCancelSubscription(svc))
}
