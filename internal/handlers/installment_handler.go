package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ListInstallmentsHandler returns a contract's schedule in sequence order.
func ListInstallmentsHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	installments, err := Billing.ListInstallments(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, installments)
}

func parseAsOf(c *gin.Context) (time.Time, error) {
	if raw := c.Query("asOf"); raw != "" {
		return time.Parse("2006-01-02", raw)
	}
	return Billing.Clock.Today(), nil
}

// ListOverdueInstallmentsHandler lists everything past due and unsettled as
// of today or the asOf query parameter.
func ListOverdueInstallmentsHandler(c *gin.Context) {
	asOf, err := parseAsOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asOf, expected YYYY-MM-DD"})
		return
	}

	installments, err := Billing.ListOverdueInstallments(asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, installments)
}

// ExportOverdueInstallmentsHandler streams the overdue report as an XLSX
// workbook for the collections staff.
func ExportOverdueInstallmentsHandler(c *gin.Context) {
	asOf, err := parseAsOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asOf, expected YYYY-MM-DD"})
		return
	}

	installments, err := Billing.ListOverdueInstallments(asOf)
	if err != nil {
		respondError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Overdue"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Contract", "Student", "Installment", "Due date", "Face amount", "Paid", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, inst := range installments {
		contractNumber := ""
		studentName := ""
		if inst.Contract != nil {
			contractNumber = inst.Contract.ContractNumber
			if inst.Contract.Student != nil {
				studentName = inst.Contract.Student.FullName()
			}
		}
		values := []any{
			contractNumber,
			studentName,
			fmt.Sprintf("%d", inst.Seq),
			inst.DueDate.Format("2006-01-02"),
			inst.FaceAmount.String(),
			inst.PaidAmount.String(),
			string(inst.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=overdue-%s.xlsx", asOf.Format("2006-01-02")))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write workbook"})
	}
}

// SweepOverdueHandler runs the overdue flagging pass on demand.
func SweepOverdueHandler(c *gin.Context) {
	flagged, err := Billing.SweepOverdue()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flagged": flagged})
}
