package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pos-api/payment"
	"pos-api/sale"
	"pos-api/services"
	"pos-api/store"
)

// respondError maps the domain error taxonomy onto HTTP statuses. All of
// these are recoverable conditions the cashier corrects and re-submits.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrNoSession):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateSKU),
		errors.Is(err, store.ErrNotRefundable),
		errors.Is(err, store.ErrSessionOpen),
		errors.Is(err, payment.ErrAlreadyFinalized),
		errors.Is(err, sale.ErrWrongState):
		status = http.StatusConflict
	case errors.Is(err, payment.ErrInsufficientCash),
		errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, payment.ErrOverPayment),
		errors.Is(err, payment.ErrNotSettled),
		errors.Is(err, sale.ErrEmptyCart):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
