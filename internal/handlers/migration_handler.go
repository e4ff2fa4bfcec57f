package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MigrateVigencyDatesHandler realigns pending installment due dates with
// current contract dates. Safe to re-run; returns touched counts.
func MigrateVigencyDatesHandler(c *gin.Context) {
	result, err := Billing.MigrateVigencyDates()
	if err != nil {
		respondError(c, err)
		return
	}
	slog.Info("vigency date migration finished",
		"contracts", result.Contracts, "installments", result.Installments)
	c.JSON(http.StatusOK, result)
}

// MigrateInstallmentValuesHandler recomputes pending installment face
// amounts from current contract fees. Paid history is untouched.
func MigrateInstallmentValuesHandler(c *gin.Context) {
	result, err := Billing.MigrateInstallmentValues()
	if err != nil {
		respondError(c, err)
		return
	}
	slog.Info("installment value migration finished",
		"contracts", result.Contracts, "installments", result.Installments)
	c.JSON(http.StatusOK, result)
}
