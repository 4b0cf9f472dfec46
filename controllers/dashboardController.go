package controllers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"pos-api/models"
	"pos-api/store"
)

type DashboardController struct {
	repo store.Repository
}

func NewDashboardController(repo store.Repository) *DashboardController {
	return &DashboardController{repo: repo}
}

type TopProduct struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Revenue   int64  `json:"revenue"`
}

// topSellers aggregates item quantities across completed transactions,
// highest quantity first.
func topSellers(transactions []models.Transaction, limit int) []TopProduct {
	byProduct := make(map[uint]*TopProduct)
	var order []uint

	for _, tx := range transactions {
		if tx.Status != models.StatusCompleted {
			continue
		}
		for _, item := range tx.Items {
			tp, ok := byProduct[item.ProductID]
			if !ok {
				tp = &TopProduct{ProductID: item.ProductID, Name: item.Name}
				byProduct[item.ProductID] = tp
				order = append(order, item.ProductID)
			}
			tp.Quantity += item.Quantity
			tp.Revenue += item.Subtotal
		}
	}

	top := make([]TopProduct, 0, len(order))
	for _, id := range order {
		top = append(top, *byProduct[id])
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Quantity > top[j].Quantity })

	if len(top) > limit {
		top = top[:limit]
	}
	return top
}

func profitOf(transactions []models.Transaction) int64 {
	var profit int64
	for _, tx := range transactions {
		if tx.Status != models.StatusCompleted {
			continue
		}
		for _, item := range tx.Items {
			profit += int64(item.Quantity) * (item.Price - item.Cost)
		}
	}
	return profit
}

func revenueOf(transactions []models.Transaction) int64 {
	var revenue int64
	for _, tx := range transactions {
		if tx.Status == models.StatusCompleted {
			revenue += tx.Total
		}
	}
	return revenue
}

// GetDashboard returns the back-office overview: today's profit and
// transaction count, the low-stock list, and the top selling products.
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	today := time.Now()

	todayTx, _, err := dc.repo.ListTransactions(ctx, store.TransactionFilter{
		Statuses: []models.TransactionStatus{models.StatusCompleted},
		Date:     &today,
		All:      true,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	allTx, _, err := dc.repo.ListTransactions(ctx, store.TransactionFilter{
		Statuses: []models.TransactionStatus{models.StatusCompleted},
		All:      true,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	lowStock, err := dc.repo.LowStockProducts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"today_profit":       profitOf(todayTx),
		"today_revenue":      revenueOf(todayTx),
		"today_transactions": len(todayTx),
		"low_stock":          len(lowStock),
		"low_stock_products": lowStock,
		"top_selling_items":  topSellers(allTx, 5),
	})
}
