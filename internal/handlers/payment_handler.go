package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/config"
	"github.com/mmelodev/GestaoEscolarCompleta-sub000/internal/billing"
	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

// PaymentInput is the operator-entered cash receipt. PaymentDate is a
// YYYY-MM-DD string; empty means today.
type PaymentInput struct {
	ReceivableID uint            `json:"receivableId" binding:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method" binding:"required"`
	PaymentDate  string          `json:"paymentDate"`
	Discount     decimal.Decimal `json:"discount"`
	Comment      string          `json:"comment"`
}

// RegisterPaymentHandler records a payment against a receivable. The ledger
// projection runs after the payment commits; a projection failure does not
// fail the request.
func RegisterPaymentHandler(c *gin.Context) {
	var input PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	in := billing.RegisterPaymentInput{
		ReceivableID: input.ReceivableID,
		Amount:       input.Amount,
		Method:       input.Method,
		Discount:     input.Discount,
		Comment:      input.Comment,
	}
	if input.PaymentDate != "" {
		date, err := time.Parse("2006-01-02", input.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid paymentDate, expected YYYY-MM-DD"})
			return
		}
		in.PaymentDate = date
	}

	payment, err := Billing.RegisterPayment(in)
	if err != nil {
		respondError(c, err)
		return
	}

	bustSummaryCache()
	c.JSON(http.StatusCreated, payment)
}

// ListPaymentsHandler lists payments, filterable by receivable or contract.
func ListPaymentsHandler(c *gin.Context) {
	var payments []models.Payment
	var totalRows int64

	query := config.DB.Model(&models.Payment{}).Preload("Receivable")

	if receivableID := c.Query("receivable_id"); receivableID != "" {
		query = query.Where("receivable_id = ?", receivableID)
	}
	if contractID := c.Query("contract_id"); contractID != "" {
		query = query.Where(
			"receivable_id IN (SELECT id FROM receivables WHERE contract_id = ?)", contractID)
	}

	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count payments"})
		return
	}

	if err := query.Scopes(Paginate(c)).Order("payment_date DESC, id DESC").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, payments, totalRows))
}

// ResyncPaymentHandler re-runs the ledger projection for one payment. Safe
// to call repeatedly; the idempotence tags absorb duplicates.
func ResyncPaymentHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	if err := Billing.SyncPayment(uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment synchronized"})
}
