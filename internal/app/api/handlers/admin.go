package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/fieldbook/internal/app/service/ledger"
	"github.com/fatflowers/fieldbook/internal/app/service/plans"
	"github.com/fatflowers/fieldbook/internal/app/service/statistics"
	"github.com/fatflowers/fieldbook/pkg/response"
)

type AssignFreePlanRequest struct {
	UserID string `json:"user_id"`
}

// @Summary      Assign Free Plan (Admin)
// @Description  Starts the free trial of the FREE plan for a user.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handlers.AssignFreePlanRequest true "Target user"
// @Success      200  {object}  handlers.RespUser
// @Router       /api/v1/admin/assign_free_plan [post]
func ApiAssignFreePlan(svc *plans.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AssignFreePlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		user, err := svc.AssignFreePlanByUserID(c.Request.Context(), req.UserID)
		if err != nil {
			code := response.APIResponseCodeError
			if errors.Is(err, plans.ErrUserNotFound) {
				code = response.APIResponseCodeNotFound
			}
			c.JSON(http.StatusOK, response.ErrorT[any](code, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(user))
	}
}

// @Summary      List Subscription Records (Admin)
// @Description  Retrieves a paginated and filterable list of subscription records.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ledger.ScanSubscriptionRecordsRequest true "Filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListSubscriptions
// @Router       /api/v1/admin/list_subscriptions [post]
func ApiListSubscriptions(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ledger.ScanSubscriptionRecordsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ScanSubscriptionRecords(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, ledgerError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Dashboard Stats (Admin)
// @Description  User, blocked account and active subscription counts, and total earnings.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespDashboardStats
// @Router       /api/v1/admin/dashboard/stats [get]
func ApiGetDashboardStats(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.GetDashboardStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Dashboard Charts (Admin)
// @Description  Monthly user growth, subscription growth and earnings for a year.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        year  query     int  false  "Calendar year; defaults to the current year"
// @Success      200   {object}  handlers.RespDashboardCharts
// @Router       /api/v1/admin/dashboard/charts [get]
func ApiGetDashboardCharts(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		year := time.Now().Year()
		if v := c.Query("year"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1970 || n > 9999 {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid year"))
				return
			}
			year = n
		}
		res, err := svc.GetDashboardCharts(c.Request.Context(), year)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, planSvc *plans.Service, ledgerSvc *ledger.Service, stats *statistics.Service) {
	r.POST("/assign_free_plan", ApiAssignFreePlan(planSvc))
	r.POST("/list_subscriptions", ApiListSubscriptions(ledgerSvc))
	r.GET("/dashboard/stats", ApiGetDashboardStats(stats))
	r.GET("/dashboard/charts", ApiGetDashboardCharts(stats))
}
