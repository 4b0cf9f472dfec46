package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pos-api/models"
	"pos-api/store"
)

type ReportController struct {
	repo store.Repository
}

func NewReportController(repo store.Repository) *ReportController {
	return &ReportController{repo: repo}
}

// GetSalesReport aggregates revenue and profit for today, the calendar
// month to date, and all time, plus the top products by quantity sold.
func (rc *ReportController) GetSalesReport(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	completed := []models.TransactionStatus{models.StatusCompleted}

	todayTx, _, err := rc.repo.ListTransactions(ctx, store.TransactionFilter{
		Statuses: completed, Date: &now, All: true,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	monthTx, _, err := rc.repo.ListTransactions(ctx, store.TransactionFilter{
		Statuses: completed, Since: &monthStart, All: true,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	allTx, _, err := rc.repo.ListTransactions(ctx, store.TransactionFilter{
		Statuses: completed, All: true,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"today_revenue":   revenueOf(todayTx),
		"monthly_revenue": revenueOf(monthTx),
		"total_revenue":   revenueOf(allTx),
		"total_profit":    profitOf(allTx),
		"transactions":    len(allTx),
		"top_products":    topSellers(allTx, 5),
	})
}
