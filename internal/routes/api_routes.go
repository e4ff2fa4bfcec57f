package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/internal/handlers"
)

// RegisterAPIRoutes registers every authenticated API route.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	apiGroup := api.Group("/api")
	{
		contracts := apiGroup.Group("/contracts")
		{
			contracts.GET("", handlers.ListContractsHandler)
			contracts.POST("", handlers.CreateContractHandler)
			contracts.GET("/:id", handlers.GetContractHandler)
			contracts.DELETE("/:id", handlers.CancelContractHandler)
			contracts.POST("/:id/installments", handlers.GenerateInstallmentsHandler)
			contracts.GET("/:id/installments", handlers.ListInstallmentsHandler)
		}

		installments := apiGroup.Group("/installments")
		{
			installments.GET("/overdue", handlers.ListOverdueInstallmentsHandler)
			installments.GET("/overdue/export", handlers.ExportOverdueInstallmentsHandler)
			installments.POST("/overdue/sweep", handlers.SweepOverdueHandler)
		}

		receivables := apiGroup.Group("/receivables")
		{
			receivables.GET("", handlers.ListReceivablesHandler)
			receivables.PUT("/:id/adjustments", handlers.AdjustReceivableHandler)
			receivables.POST("/:id/interest", handlers.AccrueInterestHandler)
		}

		payments := apiGroup.Group("/payments")
		{
			payments.GET("", handlers.ListPaymentsHandler)
			payments.POST("", handlers.RegisterPaymentHandler)
			payments.POST("/:id/resync", handlers.ResyncPaymentHandler)
		}

		accounting := apiGroup.Group("/accounting")
		{
			accounting.GET("/entries", handlers.ListAccountingEntriesHandler)
			accounting.PUT("/entries/:id/confirmation", handlers.ConfirmAccountingEntryHandler)
			accounting.POST("/rebuild", handlers.RebuildLedgerHandler)
		}

		reports := apiGroup.Group("/reports")
		{
			reports.GET("/debtors", handlers.ListDebtorsHandler)
			reports.GET("/summary", handlers.GetBillingSummaryHandler)
		}

		migrations := apiGroup.Group("/migrations")
		{
			migrations.POST("/vigency-dates", handlers.MigrateVigencyDatesHandler)
			migrations.POST("/installment-values", handlers.MigrateInstallmentValuesHandler)
		}

		templates := apiGroup.Group("/templates")
		{
			templates.GET("", handlers.ListTemplatesHandler)
		}
	}
}
