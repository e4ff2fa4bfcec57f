package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/config"
	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

// ListAccountingEntriesHandler pages through the dashboard ledger.
func ListAccountingEntriesHandler(c *gin.Context) {
	var entries []models.AccountingEntry
	var totalRows int64

	query := config.DB.Model(&models.AccountingEntry{})

	if contractID := c.Query("contract_id"); contractID != "" {
		query = query.Where("contract_id = ?", contractID)
	}
	if confirmed := c.Query("confirmed"); confirmed != "" {
		query = query.Where("confirmed = ?", confirmed == "true")
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(document_number) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count entries"})
		return
	}

	if err := query.Scopes(Paginate(c)).Order("entry_date DESC, id DESC").
		Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch entries"})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, entries, totalRows))
}

// ConfirmAccountingEntryHandler marks a ledger line reviewed, recording who
// confirmed it. Confirmation is a dashboard flag, not a financial event.
func ConfirmAccountingEntryHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	var input struct {
		Confirmed bool `json:"confirmed"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	actor := c.GetString("user_login")
	if !input.Confirmed {
		actor = ""
	}

	result := config.DB.Model(&models.AccountingEntry{}).Where("id = ?", id).
		Updates(map[string]any{"confirmed": input.Confirmed, "confirmed_by": actor})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update entry"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "entry updated"})
}

// RebuildLedgerHandler re-derives missing dashboard lines from contracts and
// payments. Idempotent: re-running creates nothing new.
func RebuildLedgerHandler(c *gin.Context) {
	created, err := Billing.RebuildLedger()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}
