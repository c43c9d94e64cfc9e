// Package store persists generated investment plans for later review.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/truevizion/advisor-cli/internal/model"
)

// ErrPlanNotFound is returned when a plan ID does not exist.
var ErrPlanNotFound = eris.New("plan not found")

// PlanRecord is a saved planning outcome: the profile that was scored, the
// derived risk assessment, and the recommendations produced for it.
type PlanRecord struct {
	ID              string                 `json:"id"`
	Profile         model.InvestorProfile  `json:"profile"`
	Score           float64                `json:"score"`
	RiskProfile     model.RiskProfile      `json:"risk_profile"`
	Recommendations []model.Recommendation `json:"recommendations"`
	CreatedAt       time.Time              `json:"created_at"`
}

// PlanFilter specifies criteria for listing plans.
type PlanFilter struct {
	RiskProfile model.RiskProfile `json:"risk_profile,omitempty"`
	Limit       int               `json:"limit,omitempty"`
	Offset      int               `json:"offset,omitempty"`
}

// Store defines the persistence interface for plan history.
type Store interface {
	// SavePlan persists a plan, assigning ID and CreatedAt when unset.
	SavePlan(ctx context.Context, plan *PlanRecord) error
	GetPlan(ctx context.Context, id string) (*PlanRecord, error)
	ListPlans(ctx context.Context, filter PlanFilter) ([]PlanRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
