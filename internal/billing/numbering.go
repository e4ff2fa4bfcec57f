package billing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

// Contract numbers look like CTR2026080041: CTR + year + month + a 4-digit
// sequence that resets every calendar month. Allocation is optimistic: scan
// for a candidate, attempt the unique insert, retry on collision. No lock is
// held, so this is not linearizable; the unique index is the arbiter.
const (
	maxNumberingAttempts = 10
	maxMonthlySequence   = 9999
)

var contractNumberRe = regexp.MustCompile(`^CTR\d{6}(\d{4})$`)

func monthPrefix(month time.Time) string {
	return fmt.Sprintf("CTR%04d%02d", month.Year(), int(month.Month()))
}

func formatContractNumber(month time.Time, seq int) string {
	return fmt.Sprintf("%s%04d", monthPrefix(month), seq)
}

// nextContractSeq scans existing numbers for the month, newest first, and
// proposes the suffix of the first well-formed one plus one. Malformed
// legacy numbers are skipped rather than treated as zero.
func (s *Service) nextContractSeq(month time.Time) (int, error) {
	prefix := monthPrefix(month)

	// Unscoped: soft-deleted contracts keep their number in the unique
	// index, so the scan has to see them or allocation would spin on
	// collisions after a cancellation.
	var numbers []string
	if err := s.DB.Unscoped().Model(&models.Contract{}).
		Where("contract_number LIKE ?", prefix+"%").
		Order("contract_number DESC").
		Limit(100).
		Pluck("contract_number", &numbers).Error; err != nil {
		return 0, err
	}

	for _, number := range numbers {
		m := contractNumberRe.FindStringSubmatch(number)
		if m == nil {
			continue
		}
		suffix, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return suffix + 1, nil
	}
	return 1, nil
}

// isUniqueViolation detects a duplicate-key insert so the numbering loop can
// take the next candidate. Postgres and sqlite (tests) phrase it differently.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "unique constraint")
}

// isActivePairViolation detects the duplicate-ACTIVE-contract index firing,
// which means a concurrent create for the same student and class raced past
// the pre-insert count check. Postgres names the index; sqlite names the
// columns.
func isActivePairViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "uniq_contracts_active_pair") ||
		strings.Contains(msg, "contracts.student_id")
}
