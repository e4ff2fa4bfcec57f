package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/internal/billing"
)

// Billing is the shared billing service, wired once at startup.
var Billing *billing.Service

func Init(service *billing.Service) {
	Billing = service
}

// respondError maps the billing error taxonomy onto HTTP statuses. Sync
// failures never reach here: they degrade to warnings inside the service.
func respondError(c *gin.Context, err error) {
	var (
		validation *billing.ValidationError
		notFound   *billing.NotFoundError
		conflict   *billing.ConflictError
		exhausted  *billing.ExhaustionError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Msg})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Msg})
	case errors.As(err, &exhausted):
		c.JSON(http.StatusConflict, gin.H{"error": exhausted.Msg})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
