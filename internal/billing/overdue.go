package billing

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

// ListOverdueInstallments returns installments past due and not settled as
// of the given date, oldest first. The check is computed from dates, not
// from the persisted OVERDUE flag, so the listing is correct even between
// sweep runs.
func (s *Service) ListOverdueInstallments(asOf time.Time) ([]models.Installment, error) {
	day := dateOnly(asOf)
	var installments []models.Installment
	err := s.DB.Preload("Contract").Preload("Contract.Student").
		Where("due_date < ? AND status NOT IN ?", day,
			[]models.InstallmentStatus{models.InstallmentPaid, models.InstallmentCanceled}).
		Order("due_date").
		Find(&installments).Error
	if err != nil {
		return nil, err
	}
	return installments, nil
}

// SweepOverdue persists the OVERDUE flag on pending installments past due,
// for reporting. Read-mostly and idempotent; re-running it is a no-op.
func (s *Service) SweepOverdue() (int64, error) {
	res := s.DB.Model(&models.Installment{}).
		Where("status = ? AND due_date < ?", models.InstallmentPending, s.today()).
		Update("status", models.InstallmentOverdue)
	return res.RowsAffected, res.Error
}

// StartOverdueSweep runs SweepOverdue once immediately and then on every
// tick until the context is canceled. Meant to be started from main with a
// daily interval.
func (s *Service) StartOverdueSweep(ctx context.Context, interval time.Duration) {
	sweep := func() {
		flagged, err := s.SweepOverdue()
		if err != nil {
			slog.Error("overdue sweep failed", "error", err)
			return
		}
		if flagged > 0 {
			slog.Info("overdue sweep flagged installments", "count", flagged)
		}
	}

	go func() {
		sweep()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()
}
