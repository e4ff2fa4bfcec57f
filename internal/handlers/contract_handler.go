package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/config"
	"github.com/mmelodev/GestaoEscolarCompleta-sub000/internal/billing"
	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

// ContractInput carries dates as YYYY-MM-DD strings to avoid binding-time
// parsing surprises; amounts are decimal strings.
type ContractInput struct {
	StudentID        uint            `json:"studentId" binding:"required"`
	ClassID          uint            `json:"classId" binding:"required"`
	SigningDate      string          `json:"signingDate"`
	StartDate        string          `json:"startDate"`
	EndDate          string          `json:"endDate"`
	EnrollmentFee    decimal.Decimal `json:"enrollmentFee"`
	MonthlyFee       decimal.Decimal `json:"monthlyFee"`
	InstallmentCount int             `json:"installmentCount" binding:"required"`
	DiscountPercent  decimal.Decimal `json:"discountPercent"`
	DiscountFlat     decimal.Decimal `json:"discountFlat"`
	TemplateTag      string          `json:"templateTag"`
	Comment          string          `json:"comment"`
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateContractHandler validates the terms and creates the contract along
// with its installment schedule and receivables.
func CreateContractHandler(c *gin.Context) {
	var input ContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	signing, err := parseDate(input.SigningDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signingDate, expected YYYY-MM-DD"})
		return
	}
	start, err := parseDate(input.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate, expected YYYY-MM-DD"})
		return
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate, expected YYYY-MM-DD"})
		return
	}

	in := billing.CreateContractInput{
		StudentID:        input.StudentID,
		ClassID:          input.ClassID,
		StartDate:        start,
		EndDate:          end,
		EnrollmentFee:    input.EnrollmentFee,
		MonthlyFee:       input.MonthlyFee,
		InstallmentCount: input.InstallmentCount,
		DiscountPercent:  input.DiscountPercent,
		DiscountFlat:     input.DiscountFlat,
		TemplateTag:      input.TemplateTag,
		Comment:          input.Comment,
	}
	if signing != nil {
		in.SigningDate = *signing
	}

	contract, err := Billing.CreateContract(in)
	if err != nil {
		respondError(c, err)
		return
	}

	bustSummaryCache()
	c.JSON(http.StatusCreated, contract)
}

func GetContractHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	contract, err := Billing.GetContract(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// ContractListItem joins contract and student columns for the listing grid.
type ContractListItem struct {
	ID              uint            `json:"id"`
	ContractNumber  string          `json:"contractNumber"`
	Status          string          `json:"status"`
	SigningDate     time.Time       `json:"signingDate"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	StudentFullName string          `json:"studentFullName"`
	ClassName       string          `json:"className"`
}

// ListContractsHandler returns contracts joined with student and class,
// searchable by contract number, student name or document.
func ListContractsHandler(c *gin.Context) {
	var results []ContractListItem
	var totalRows int64

	baseQuery := config.DB.Table("contracts").
		Joins("JOIN students s ON s.id = contracts.student_id").
		Joins("JOIN classes cl ON cl.id = contracts.class_id").
		Where("contracts.deleted_at IS NULL")

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		baseQuery = baseQuery.Where(
			"LOWER(contracts.contract_number) LIKE ? OR LOWER(s.last_name) LIKE ? OR LOWER(s.first_name) LIKE ? OR LOWER(s.document) LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if status := c.Query("status"); status != "" {
		baseQuery = baseQuery.Where("contracts.status = ?", status)
	}

	if err := baseQuery.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count contracts"})
		return
	}

	finalQuery := baseQuery.Select(`
		contracts.id,
		contracts.contract_number,
		contracts.status,
		contracts.signing_date,
		contracts.total_amount,
		(s.last_name || ' ' || s.first_name) as student_full_name,
		cl.name as class_name
	`).
		Scopes(Paginate(c)).
		Order("contracts.signing_date DESC, contracts.id DESC")

	if err := finalQuery.Scan(&results).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch contracts"})
		return
	}

	if results == nil {
		results = make([]ContractListItem, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, results, totalRows))
}

// CancelContractHandler cascades the contract and its financial trail away.
func CancelContractHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	var body struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cancellation reason is required"})
		return
	}

	if err := Billing.CancelContract(uint(id), body.Reason); err != nil {
		respondError(c, err)
		return
	}

	bustSummaryCache()
	c.JSON(http.StatusOK, gin.H{"message": "contract canceled"})
}

// GenerateInstallmentsHandler triggers schedule generation; calling it for a
// contract that already has a schedule is a no-op.
func GenerateInstallmentsHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	if err := Billing.GenerateInstallments(uint(id)); err != nil {
		respondError(c, err)
		return
	}

	installments, err := Billing.ListInstallments(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, installments)
}

// ListTemplatesHandler lists active contract templates for the form.
func ListTemplatesHandler(c *gin.Context) {
	var templates []models.ContractTemplate
	if err := config.DB.Where("status = ?", "ACTIVE").Order("name").Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch templates"})
		return
	}
	c.JSON(http.StatusOK, templates)
}
