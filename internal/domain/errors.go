package domain

import "errors"

var (
	// ErrInvalidHorizon is returned when the time to a goal is zero or negative
	ErrInvalidHorizon = errors.New("invalid horizon: target date must be in the future")
	// ErrNonNormalizedAllocation marks an allocation whose components do not sum to 100
	ErrNonNormalizedAllocation = errors.New("allocation does not sum to 100")
	ErrUnknownGoalCategory     = errors.New("unknown goal category")
	ErrUnknownRiskCategory     = errors.New("unknown risk category")
	ErrUnknownWeightSet        = errors.New("unknown weight set")
	ErrPlanNotFound            = errors.New("plan not found")
	ErrGoalNotFound            = errors.New("goal not found")
	ErrInvalidGoal             = errors.New("invalid goal")
	// ErrNoRiskProfile is returned when a recommendation is requested before
	// any assessment was committed
	ErrNoRiskProfile = errors.New("plan has no committed risk profile")
)
