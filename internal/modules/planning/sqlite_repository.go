package planning

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/wealthplan/internal/database"
	"github.com/aristath/wealthplan/internal/domain"
)

// SQLiteRepository stores plans, goals and recommendation snapshots in the
// plan database
type SQLiteRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSQLiteRepository creates a new SQLite backed repository
func NewSQLiteRepository(db *sql.DB, log zerolog.Logger) *SQLiteRepository {
	return &SQLiteRepository{
		db:  db,
		log: log.With().Str("repository", "planning").Logger(),
	}
}

const goalColumns = `id, plan_id, name, category, target_amount, current_amount, target_date,
	time_horizon, importance, priority, priority_override, risk_allocation,
	risk_allocation_override, monthly_contribution, monthly_contribution_override,
	diagnostics_json, created_at, updated_at`

// CreatePlan stores a new plan
func (r *SQLiteRepository) CreatePlan(ctx context.Context, plan *Plan) error {
	client, prefs, responses, profile, err := marshalPlan(plan)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO plans (id, name, client_json, preferences_json, responses_json, profile_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		plan.ID,
		plan.Name,
		client,
		prefs,
		responses,
		profile,
		plan.CreatedAt.Unix(),
		plan.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}
	return nil
}

// GetPlan returns the plan without its goals
func (r *SQLiteRepository) GetPlan(ctx context.Context, id string) (*Plan, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, client_json, preferences_json, responses_json, profile_json, created_at, updated_at
		FROM plans WHERE id = ?
	`, id)

	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlanNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// ListPlans returns every plan ordered by creation time
func (r *SQLiteRepository) ListPlans(ctx context.Context) ([]Plan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, client_json, preferences_json, responses_json, profile_json, created_at, updated_at
		FROM plans ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}
	return plans, nil
}

// UpdatePlan replaces the stored plan fields
func (r *SQLiteRepository) UpdatePlan(ctx context.Context, plan *Plan) error {
	client, prefs, responses, profile, err := marshalPlan(plan)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE plans
		SET name = ?,
			client_json = ?,
			preferences_json = ?,
			responses_json = ?,
			profile_json = ?,
			updated_at = ?
		WHERE id = ?
	`,
		plan.Name,
		client,
		prefs,
		responses,
		profile,
		plan.UpdatedAt.Unix(),
		plan.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return requireAffected(result, fmt.Errorf("%w: %s", domain.ErrPlanNotFound, plan.ID))
}

// DeletePlan removes the plan. Goals and recommendations follow through the
// foreign key cascade.
func (r *SQLiteRepository) DeletePlan(ctx context.Context, id string) error {
	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		// Explicit deletes keep the cascade intact even on connections where
		// foreign keys were not enabled.
		if _, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE plan_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete goals of plan %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recommendations WHERE plan_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete recommendations of plan %s: %w", id, err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete plan %s: %w", id, err)
		}
		return requireAffected(result, fmt.Errorf("%w: %s", domain.ErrPlanNotFound, id))
	})
}

// SaveGoal inserts or replaces a goal
func (r *SQLiteRepository) SaveGoal(ctx context.Context, g domain.FinancialGoal) error {
	var exists int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plans WHERE id = ?`, g.PlanID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check plan %s: %w", g.PlanID, err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPlanNotFound, g.PlanID)
	}

	diagnostics, err := json.Marshal(nonNilDiagnostics(g.Diagnostics))
	if err != nil {
		return fmt.Errorf("failed to marshal goal diagnostics: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		g.ID,
		g.PlanID,
		g.Name,
		string(g.Category),
		g.TargetAmount,
		g.CurrentAmount,
		g.TargetDate.Unix(),
		g.TimeHorizon,
		g.Importance,
		string(g.Priority),
		boolToInt(g.PriorityOverride),
		g.RiskAllocation,
		nullFloat(g.RiskAllocationOverride),
		g.MonthlyContribution,
		nullFloat(g.MonthlyContributionOverride),
		string(diagnostics),
		g.CreatedAt.Unix(),
		g.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save goal %s: %w", g.ID, err)
	}
	return nil
}

// GetGoal returns one goal of a plan
func (r *SQLiteRepository) GetGoal(ctx context.Context, planID, goalID string) (domain.FinancialGoal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE plan_id = ? AND id = ?`, planID, goalID)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.FinancialGoal{}, fmt.Errorf("%w: %s", domain.ErrGoalNotFound, goalID)
	}
	return g, err
}

// ListGoals returns the goals of a plan ordered by creation time
func (r *SQLiteRepository) ListGoals(ctx context.Context, planID string) ([]domain.FinancialGoal, error) {
	return r.queryGoals(ctx, `SELECT `+goalColumns+` FROM goals WHERE plan_id = ? ORDER BY created_at, id`, planID)
}

// ListAllGoals returns the goals of every plan
func (r *SQLiteRepository) ListAllGoals(ctx context.Context) ([]domain.FinancialGoal, error) {
	return r.queryGoals(ctx, `SELECT `+goalColumns+` FROM goals ORDER BY plan_id, created_at, id`)
}

// DeleteGoal removes one goal
func (r *SQLiteRepository) DeleteGoal(ctx context.Context, planID, goalID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE plan_id = ? AND id = ?`, planID, goalID)
	if err != nil {
		return fmt.Errorf("failed to delete goal %s: %w", goalID, err)
	}
	return requireAffected(result, fmt.Errorf("%w: %s", domain.ErrGoalNotFound, goalID))
}

// SaveRecommendations stores a msgpack snapshot of each recommendation
func (r *SQLiteRepository) SaveRecommendations(ctx context.Context, planID string, recs []domain.PortfolioRecommendation) error {
	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		for _, rec := range recs {
			snapshot, err := EncodeSnapshot(rec)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO recommendations (id, plan_id, kind, risk_category, snapshot, generated_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`,
				rec.ID,
				planID,
				string(rec.Kind),
				string(rec.RiskCategory),
				snapshot,
				rec.GeneratedAt.UnixNano(),
			)
			if err != nil {
				return fmt.Errorf("failed to store recommendation %s: %w", rec.ID, err)
			}
		}
		return nil
	})
}

// ListRecommendations returns stored recommendations, newest first
func (r *SQLiteRepository) ListRecommendations(ctx context.Context, planID string, limit int) ([]domain.PortfolioRecommendation, error) {
	query := `SELECT snapshot FROM recommendations WHERE plan_id = ? ORDER BY generated_at DESC, rowid ASC`
	args := []interface{}{planID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var recs []domain.PortfolioRecommendation
	for rows.Next() {
		var snapshot []byte
		if err := rows.Scan(&snapshot); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		rec, err := DecodeSnapshot(snapshot)
		if err != nil {
			r.log.Warn().Err(err).Str("plan_id", planID).Msg("Skipping unreadable recommendation snapshot")
			continue
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendations: %w", err)
	}
	return recs, nil
}

// PruneRecommendations deletes old recommendation snapshots. The newest run
// of every plan survives regardless of its age.
func (r *SQLiteRepository) PruneRecommendations(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM recommendations
		WHERE generated_at < ?
		  AND generated_at < (
			SELECT MAX(newest.generated_at) FROM recommendations newest
			WHERE newest.plan_id = recommendations.plan_id
		  )
	`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune recommendations: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned recommendations: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteRepository) queryGoals(ctx context.Context, query string, args ...interface{}) ([]domain.FinancialGoal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var out []domain.FinancialGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(s scanner) (*Plan, error) {
	var (
		plan                            Plan
		clientJSON, prefsJSON, respJSON string
		profileJSON                     sql.NullString
		createdAt, updatedAt            int64
	)
	if err := s.Scan(&plan.ID, &plan.Name, &clientJSON, &prefsJSON, &respJSON, &profileJSON, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan plan: %w", err)
	}

	if clientJSON != "" && clientJSON != "null" && clientJSON != "{}" {
		var client domain.ClientInformation
		if err := json.Unmarshal([]byte(clientJSON), &client); err != nil {
			return nil, fmt.Errorf("failed to unmarshal client of plan %s: %w", plan.ID, err)
		}
		plan.Client = &client
	}
	if err := json.Unmarshal([]byte(prefsJSON), &plan.Preferences); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences of plan %s: %w", plan.ID, err)
	}
	if err := json.Unmarshal([]byte(respJSON), &plan.Responses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal responses of plan %s: %w", plan.ID, err)
	}
	if profileJSON.Valid && profileJSON.String != "" {
		var profile domain.RiskProfile
		if err := json.Unmarshal([]byte(profileJSON.String), &profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile of plan %s: %w", plan.ID, err)
		}
		plan.Profile = &profile
	}

	plan.CreatedAt = time.Unix(createdAt, 0).UTC()
	plan.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &plan, nil
}

func marshalPlan(plan *Plan) (client, prefs, responses string, profile sql.NullString, err error) {
	clientBytes := []byte("{}")
	if plan.Client != nil {
		if clientBytes, err = json.Marshal(plan.Client); err != nil {
			return "", "", "", profile, fmt.Errorf("failed to marshal client: %w", err)
		}
	}
	prefsBytes, err := json.Marshal(plan.Preferences)
	if err != nil {
		return "", "", "", profile, fmt.Errorf("failed to marshal preferences: %w", err)
	}
	respBytes, err := json.Marshal(plan.Responses)
	if err != nil {
		return "", "", "", profile, fmt.Errorf("failed to marshal responses: %w", err)
	}
	if plan.Profile != nil {
		profileBytes, err := json.Marshal(plan.Profile)
		if err != nil {
			return "", "", "", profile, fmt.Errorf("failed to marshal profile: %w", err)
		}
		profile = sql.NullString{String: string(profileBytes), Valid: true}
	}
	return string(clientBytes), string(prefsBytes), string(respBytes), profile, nil
}

func scanGoal(s scanner) (domain.FinancialGoal, error) {
	var (
		g                                    domain.FinancialGoal
		category, priority, diagnosticsJSON  string
		targetDate, createdAt, updatedAt     int64
		priorityOverride                     int
		allocationOverride, contributionOver sql.NullFloat64
	)
	err := s.Scan(
		&g.ID,
		&g.PlanID,
		&g.Name,
		&category,
		&g.TargetAmount,
		&g.CurrentAmount,
		&targetDate,
		&g.TimeHorizon,
		&g.Importance,
		&priority,
		&priorityOverride,
		&g.RiskAllocation,
		&allocationOverride,
		&g.MonthlyContribution,
		&contributionOver,
		&diagnosticsJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return g, err
		}
		return g, fmt.Errorf("failed to scan goal: %w", err)
	}

	g.Category = domain.GoalCategory(category)
	g.Priority = domain.Priority(priority)
	g.PriorityOverride = priorityOverride != 0
	g.TargetDate = time.Unix(targetDate, 0).UTC()
	g.CreatedAt = time.Unix(createdAt, 0).UTC()
	g.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	if allocationOverride.Valid {
		v := allocationOverride.Float64
		g.RiskAllocationOverride = &v
	}
	if contributionOver.Valid {
		v := contributionOver.Float64
		g.MonthlyContributionOverride = &v
	}
	if diagnosticsJSON != "" {
		if err := json.Unmarshal([]byte(diagnosticsJSON), &g.Diagnostics); err != nil {
			return g, fmt.Errorf("failed to unmarshal diagnostics of goal %s: %w", g.ID, err)
		}
		if len(g.Diagnostics) == 0 {
			g.Diagnostics = nil
		}
	}
	return g, nil
}

func requireAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func nonNilDiagnostics(d []domain.Diagnostic) []domain.Diagnostic {
	if d == nil {
		return []domain.Diagnostic{}
	}
	return d
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
