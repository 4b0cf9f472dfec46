package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pos-api/metrics"
	"pos-api/middlewares"
	"pos-api/models"
	"pos-api/sale"
)

// SaleController drives the single active sale per till: cart assembly,
// payment capture, and commit.
type SaleController struct {
	sales *sale.Manager
}

func NewSaleController(sales *sale.Manager) *SaleController {
	return &SaleController{sales: sales}
}

func (sc *SaleController) GetSale(c *gin.Context) {
	c.JSON(http.StatusOK, sc.sales.Summary(middlewares.CurrentUser(c)))
}

func (sc *SaleController) AddLine(c *gin.Context) {
	var input struct {
		ProductID uint `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := sc.sales.AddLine(c.Request.Context(), middlewares.CurrentUser(c), input.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (sc *SaleController) UpdateLine(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	// Quantity is a pointer so an explicit 0 (remove the line) survives
	// the required check
	var input struct {
		Quantity     *int                `json:"quantity" binding:"required"`
		Discount     *int64              `json:"discount,omitempty"`
		DiscountType models.DiscountType `json:"discount_type,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Discount != nil && *input.Discount > 0 &&
		input.DiscountType != models.DiscountPercentage && input.DiscountType != models.DiscountFixed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "discount_type must be percentage or fixed"})
		return
	}

	summary, err := sc.sales.UpdateLine(middlewares.CurrentUser(c), uint(productID),
		*input.Quantity, input.Discount, input.DiscountType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (sc *SaleController) RemoveLine(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	summary, err := sc.sales.RemoveLine(middlewares.CurrentUser(c), uint(productID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (sc *SaleController) ClearCart(c *gin.Context) {
	summary, err := sc.sales.ClearCart(middlewares.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// StartPayment freezes the cart total and opens the payment session.
func (sc *SaleController) StartPayment(c *gin.Context) {
	summary, err := sc.sales.StartPayment(middlewares.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (sc *SaleController) CancelPayment(c *gin.Context) {
	summary, err := sc.sales.CancelPayment(middlewares.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (sc *SaleController) AddTender(c *gin.Context) {
	var input struct {
		Type         models.TenderType `json:"type" binding:"required"`
		Amount       int64             `json:"amount"`
		CashReceived int64             `json:"cash_received"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tender type"})
		return
	}

	tender, summary, err := sc.sales.Tender(middlewares.CurrentUser(c),
		input.Type, input.Amount, input.CashReceived)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tender": tender,
		"sale":   summary,
	})
}

// FinalizePayment commits the settled sale: emits the Transaction and
// decrements stock exactly once.
func (sc *SaleController) FinalizePayment(c *gin.Context) {
	tx, err := sc.sales.Commit(c.Request.Context(), middlewares.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.TransactionCounter.WithLabelValues(string(tx.Status)).Inc()
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}
