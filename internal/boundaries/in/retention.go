package in

import (
	"context"

	"github.com/bnema/wpbackup/internal/domain"
)

// RetentionService classifies a catalogue and deletes what falls out of policy.
type RetentionService interface {
	// Plan lists the catalogue and classifies it without deleting anything.
	Plan(ctx context.Context) (*domain.RetentionPlan, error)

	// Apply runs a full retention pass.
	Apply(ctx context.Context) (domain.RetentionSummary, error)
}
