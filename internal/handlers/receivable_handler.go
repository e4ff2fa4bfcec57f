package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/config"
	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

// ListReceivablesHandler lists a contract's receivables with their
// settlement progress.
func ListReceivablesHandler(c *gin.Context) {
	var receivables []models.Receivable
	var totalRows int64

	query := config.DB.Model(&models.Receivable{})

	if contractID := c.Query("contract_id"); contractID != "" {
		query = query.Where("contract_id = ?", contractID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count receivables"})
		return
	}

	if err := query.Scopes(Paginate(c)).Order("due_date, id").
		Find(&receivables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch receivables"})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, receivables, totalRows))
}

// AdjustReceivableInput sets absolute discount/interest values; the final
// amount is recomputed server-side.
type AdjustReceivableInput struct {
	Discount decimal.Decimal `json:"discount"`
	Interest decimal.Decimal `json:"interest"`
}

func AdjustReceivableHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid receivable id"})
		return
	}

	var input AdjustReceivableInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	rcv, err := Billing.AdjustReceivable(uint(id), input.Discount, input.Interest)
	if err != nil {
		respondError(c, err)
		return
	}

	bustSummaryCache()
	c.JSON(http.StatusOK, rcv)
}

// AccrueInterestHandler applies late interest at the given monthly rate to
// an overdue receivable.
func AccrueInterestHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid receivable id"})
		return
	}

	var input struct {
		MonthlyRate decimal.Decimal `json:"monthlyRate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "monthlyRate is required"})
		return
	}

	rcv, err := Billing.AccrueReceivableInterest(uint(id), input.MonthlyRate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rcv)
}
