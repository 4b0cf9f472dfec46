package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pos-api/metrics"
	"pos-api/models"
	"pos-api/store"
)

type TransactionController struct {
	repo store.Repository
}

func NewTransactionController(repo store.Repository) *TransactionController {
	return &TransactionController{repo: repo}
}

func listFilter(c *gin.Context) store.TransactionFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := store.TransactionFilter{Page: page, PageSize: limit}
	if dateStr := c.Query("date"); dateStr != "" {
		if date, err := time.Parse("2006-01-02", dateStr); err == nil {
			filter.Date = &date
		}
	}
	return filter
}

// GetTransactions lists all transactions with pagination and an optional
// per-day date filter.
func (tc *TransactionController) GetTransactions(c *gin.Context) {
	filter := listFilter(c)

	transactions, total, err := tc.repo.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       transactions,
		"page":       filter.Page,
		"limit":      filter.PageSize,
		"total":      total,
		"totalPages": (total + int64(filter.PageSize) - 1) / int64(filter.PageSize),
	})
}

// GetTransactionHistory lists completed and refunded transactions, with
// an optional status and receipt/cashier search filter.
func (tc *TransactionController) GetTransactionHistory(c *gin.Context) {
	filter := listFilter(c)
	if status := c.Query("status"); status != "" {
		filter.Statuses = []models.TransactionStatus{models.TransactionStatus(status)}
	} else {
		filter.Statuses = []models.TransactionStatus{
			models.StatusCompleted,
			models.StatusRefunded,
			models.StatusPartialRefund,
		}
	}

	transactions, total, err := tc.repo.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       transactions,
		"page":       filter.Page,
		"limit":      filter.PageSize,
		"total":      total,
		"totalPages": (total + int64(filter.PageSize) - 1) / int64(filter.PageSize),
	})
}

func (tc *TransactionController) GetTransactionByID(c *gin.Context) {
	tx, err := tc.repo.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// RefundTransaction flips a completed transaction to refunded and
// restores stock for every item.
func (tc *TransactionController) RefundTransaction(c *gin.Context) {
	tx, err := tc.repo.RefundTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.TransactionCounter.WithLabelValues(string(tx.Status)).Inc()
	c.JSON(http.StatusOK, tx)
}
