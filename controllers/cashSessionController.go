package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pos-api/models"
	"pos-api/store"
)

type CashSessionController struct {
	repo store.Repository
}

func NewCashSessionController(repo store.Repository) *CashSessionController {
	return &CashSessionController{repo: repo}
}

func (cc *CashSessionController) OpenCashSession(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	// pointer so an empty drawer (0) passes the required check
	var input struct {
		OpeningCash *int64 `json:"opening_cash" binding:"required,gte=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := models.CashSession{
		UserID:      userID,
		OpeningCash: *input.OpeningCash,
		OpenedAt:    time.Now(),
	}
	if err := cc.repo.OpenCashSession(c.Request.Context(), &session); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (cc *CashSessionController) GetCurrentCashSession(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	session, err := cc.repo.CurrentCashSession(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// CloseCashSession counts the drawer: expected cash is opening cash plus
// cash tendered minus change handed out since the session opened.
func (cc *CashSessionController) CloseCashSession(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	// pointer so a fully banked drawer (0) passes the required check
	var input struct {
		ClosingCash *int64 `json:"closing_cash" binding:"required,gte=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := cc.repo.CurrentCashSession(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	cashIn, changeOut, err := cc.repo.CashTotalsSince(c.Request.Context(), session.OpenedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	expected := session.OpeningCash + cashIn - changeOut
	diff := *input.ClosingCash - expected
	now := time.Now()

	session.TotalCashIn = cashIn
	session.TotalChange = changeOut
	session.ExpectedCash = expected
	session.ClosingCash = input.ClosingCash
	session.Difference = &diff
	session.Status = "closed"
	session.ClosedAt = &now

	if err := cc.repo.CloseCashSession(c.Request.Context(), session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, session)
}
