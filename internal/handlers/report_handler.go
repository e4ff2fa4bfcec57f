package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/config"
)

// DebtorResponse is one row of the collections report: a contract whose
// settled payments do not yet cover its total.
type DebtorResponse struct {
	ContractID      uint            `json:"contractId"`
	ContractNumber  string          `json:"contractNumber"`
	StudentFullName string          `json:"studentFullName"`
	ClassName       string          `json:"className"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	DebtAmount      decimal.Decimal `json:"debtAmount"`
}

// ListDebtorsHandler lists contracts with outstanding balance, biggest debt
// first. Outstanding = contract total minus everything received through the
// receivable ledger.
func ListDebtorsHandler(c *gin.Context) {
	var debtors []DebtorResponse
	var totalRows int64

	paidExpr := `COALESCE((
		SELECT SUM(p.amount) FROM payments p
		JOIN receivables r ON r.id = p.receivable_id
		WHERE r.contract_id = contracts.id AND p.deleted_at IS NULL AND r.deleted_at IS NULL
	), 0)`

	query := config.DB.Table("contracts").
		Select(`
			contracts.id as contract_id,
			contracts.contract_number,
			(s.last_name || ' ' || s.first_name) as student_full_name,
			cl.name as class_name,
			contracts.total_amount,
			`+paidExpr+` as paid_amount,
			(contracts.total_amount - `+paidExpr+`) as debt_amount
		`).
		Joins("JOIN students s ON s.id = contracts.student_id").
		Joins("JOIN classes cl ON cl.id = contracts.class_id").
		Where("contracts.deleted_at IS NULL AND contracts.status = 'ACTIVE'").
		Where("(contracts.total_amount - " + paidExpr + ") > 0")

	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count debtors"})
		return
	}

	if err := query.Scopes(Paginate(c)).Order("debt_amount DESC").
		Scan(&debtors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch debtors"})
		return
	}

	if debtors == nil {
		debtors = make([]DebtorResponse, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, debtors, totalRows))
}

// BillingSummary is the cached dashboard header: totals billed, received
// and overdue across active contracts.
type BillingSummary struct {
	TotalBilled    decimal.Decimal `json:"totalBilled"`
	TotalReceived  decimal.Decimal `json:"totalReceived"`
	TotalOverdue   decimal.Decimal `json:"totalOverdue"`
	ActiveContract int64           `json:"activeContracts"`
	GeneratedAt    time.Time       `json:"generatedAt"`
}

const summaryCacheKey = "billing:summary"
const summaryCacheTTL = 5 * time.Minute

// GetBillingSummaryHandler serves the dashboard totals, cached in Redis for
// a few minutes. The cache is busted whenever money moves.
func GetBillingSummaryHandler(c *gin.Context) {
	if config.RDB != nil {
		// Cache trouble is not worth failing the dashboard over; any error
		// falls through to a fresh computation.
		if cached, err := config.RDB.Get(config.Ctx, summaryCacheKey).Result(); err == nil {
			var summary BillingSummary
			if json.Unmarshal([]byte(cached), &summary) == nil {
				c.JSON(http.StatusOK, summary)
				return
			}
		}
	}

	summary, err := computeBillingSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute summary"})
		return
	}

	if config.RDB != nil {
		if payload, err := json.Marshal(summary); err == nil {
			config.RDB.Set(config.Ctx, summaryCacheKey, payload, summaryCacheTTL)
		}
	}

	c.JSON(http.StatusOK, summary)
}

func computeBillingSummary() (BillingSummary, error) {
	summary := BillingSummary{GeneratedAt: time.Now()}

	type sumRow struct {
		Total decimal.Decimal
	}
	var row sumRow

	if err := config.DB.Table("contracts").
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("deleted_at IS NULL AND status = 'ACTIVE'").
		Scan(&row).Error; err != nil {
		return summary, err
	}
	summary.TotalBilled = row.Total

	if err := config.DB.Table("payments").
		Select("COALESCE(SUM(amount), 0) as total").
		Where("deleted_at IS NULL").
		Scan(&row).Error; err != nil {
		return summary, err
	}
	summary.TotalReceived = row.Total

	today := Billing.Clock.Today().Format("2006-01-02")
	if err := config.DB.Table("installments").
		Select("COALESCE(SUM(face_amount - paid_amount), 0) as total").
		Where("deleted_at IS NULL AND due_date < ? AND status NOT IN ('PAID', 'CANCELED')", today).
		Scan(&row).Error; err != nil {
		return summary, err
	}
	summary.TotalOverdue = row.Total

	if err := config.DB.Table("contracts").
		Where("deleted_at IS NULL AND status = 'ACTIVE'").
		Count(&summary.ActiveContract).Error; err != nil {
		return summary, err
	}

	return summary, nil
}

// bustSummaryCache drops the cached dashboard totals after any mutation
// that moves money. A nil client means caching is disabled.
func bustSummaryCache() {
	if config.RDB != nil {
		config.RDB.Del(config.Ctx, summaryCacheKey)
	}
}
