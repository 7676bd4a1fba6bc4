package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pramuka-adm-api/internal/models"
	"github.com/noah-isme/pramuka-adm-api/internal/repository"
	appErrors "github.com/noah-isme/pramuka-adm-api/pkg/errors"
)

// Document tags embedded in issued numbers. Mula and Bantu share a tag on
// the printed decree, so both draw distinct sequences but render the same
// family label.
const (
	docTagTKUMula  = "TKU-BANTU"
	docTagTKUBantu = "TKU-BANTU"
	docTagTKUTata  = "TKU-TATA"
	docTagTKK      = "TKK-SIAGA"
)

// maxDocSequence is the largest sequence the 5-digit field can carry.
// Issuance fails hard beyond this rather than silently widening the format.
const maxDocSequence = 99999

type counterStore interface {
	Next(ctx context.Context, namespace string) (int64, error)
}

// DocNumberIssuer hands out decree numbers of the form
// 00042/TKU-BANTU/12-A/2026. Sequences are per document family, monotonic
// and never reset; gaps from failed issuances are acceptable.
type DocNumberIssuer struct {
	counters counterStore
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewDocNumberIssuer constructs a DocNumberIssuer.
func NewDocNumberIssuer(counters counterStore, metrics *MetricsService, logger *zap.Logger) *DocNumberIssuer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocNumberIssuer{counters: counters, metrics: metrics, logger: logger, now: time.Now}
}

// IssueTier returns the next decree number for a rank milestone. The troop
// token comes from the member's institution and gender.
func (d *DocNumberIssuer) IssueTier(ctx context.Context, tier models.Tier, troop string) (string, error) {
	var namespace, tag string
	switch tier {
	case models.TierMula:
		namespace, tag = repository.CounterTKUMula, docTagTKUMula
	case models.TierBantu:
		namespace, tag = repository.CounterTKUBantu, docTagTKUBantu
	case models.TierTata:
		namespace, tag = repository.CounterTKUTata, docTagTKUTata
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "unknown tier")
	}
	return d.issue(ctx, namespace, tag, troop)
}

// IssueBadge returns the next decree number for a proficiency badge award.
func (d *DocNumberIssuer) IssueBadge(ctx context.Context, troop string) (string, error) {
	return d.issue(ctx, repository.CounterTKK, docTagTKK, troop)
}

func (d *DocNumberIssuer) issue(ctx context.Context, namespace, tag, troop string) (string, error) {
	seq, err := d.counters.Next(ctx, namespace)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate document number")
	}
	if seq > maxDocSequence {
		d.logger.Error("document sequence exhausted", zap.String("namespace", namespace), zap.Int64("sequence", seq))
		return "", appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("document sequence for %s exhausted", tag))
	}
	if d.metrics != nil {
		d.metrics.RecordDocumentIssued(namespace)
	}
	return fmt.Sprintf("%05d/%s/%s-A/%d", seq, tag, troop, d.now().Year()), nil
}
