package handlers

import (
	"github.com/fatflowers/fieldbook/internal/app/service/analytics"
	"github.com/fatflowers/fieldbook/internal/app/service/ledger"
	"github.com/fatflowers/fieldbook/internal/app/service/statistics"
	"github.com/fatflowers/fieldbook/internal/models"
	"github.com/fatflowers/fieldbook/pkg/response"
	"github.com/fatflowers/fieldbook/pkg/types"
)

type RespDashboardSummary struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    analytics.SummaryView    `json:"data"`
}

type RespPlans struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []types.Plan             `json:"data"`
}

type RespSubscription struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    SubscriptionResponse     `json:"data"`
}

type RespSubscriptionRecord struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    models.SubscriptionRecord `json:"data"`
}

type RespUser struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.User              `json:"data"`
}

// RespListSubscriptions wraps ScanSubscriptionRecordsResponse in the standard envelope.
type RespListSubscriptions struct {
	Code    response.APIResponseCode               `json:"code"`
	Message string                                 `json:"message"`
	Data    ledger.ScanSubscriptionRecordsResponse `json:"data"`
}

type RespDashboardStats struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    statistics.DashboardStats `json:"data"`
}

type RespDashboardCharts struct {
	Code    response.APIResponseCode   `json:"code"`
	Message string                     `json:"message"`
	Data    statistics.DashboardCharts `json:"data"`
}
