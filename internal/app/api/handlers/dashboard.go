package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/fieldbook/internal/app/service/analytics"
	"github.com/fatflowers/fieldbook/pkg/logctx"
	"github.com/fatflowers/fieldbook/pkg/response"
)

// @Summary      Dashboard summary
// @Description  Monthly income, expenses and profit of the caller for the current year, with month-over-month changes.
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        month  query     string  false  "Focus month (Jan..Dec or 1..12); defaults to the current month"
// @Success      200    {object}  handlers.RespDashboardSummary
// @Router       /api/v1/dashboard [get]
func ApiGetDashboard(svc *analytics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var focus time.Month
		if v := c.Query("month"); v != "" {
			m, err := analytics.ParseMonth(v)
			if err != nil {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			focus = m
		}

		res, err := svc.GetSummary(c.Request.Context(), logctx.UserID(c.Request.Context()), focus)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterDashboardRoutes(r gin.IRouter, svc *analytics.Service) {
	r.GET("/dashboard", ApiGetDashboard(svc))
}
