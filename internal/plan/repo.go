package plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/mmtreino/internal/db"
	"github.com/2beens/mmtreino/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrWeekNotFound = errors.New("plan week not found")
)

const orderByDay = "CASE day WHEN 'SEG' THEN 1 WHEN 'QUA' THEN 2 WHEN 'SEX' THEN 3 ELSE 4 END"

type Repo struct {
	conn db.Conn
}

func NewRepo(conn db.Conn) *Repo {
	return &Repo{conn: conn}
}

// First returns the plan with the lowest id together with its week settings.
func (r *Repo) First(ctx context.Context) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.first")
	defer func() {
		tracing.EndSpanWithErrCheck(span, ignoreNotFound(err))
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	var p Plan
	err = gdb.WithContext(ctx).
		Preload("WeekSettings", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("week_number ASC")
		}).
		Order("id ASC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("first plan: %w", err)
	}

	return &p, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, ignoreNotFound(err))
	}()
	span.SetAttributes(attribute.Int("plan.id", id))

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	var p Plan
	if err := gdb.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("get plan %d: %w", id, err)
	}
	return &p, nil
}

func (r *Repo) WeekSettings(ctx context.Context, planID, weekNumber int) (_ *WeekSettings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.week_settings")
	defer func() {
		tracing.EndSpanWithErrCheck(span, ignoreNotFound(err))
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	var ws WeekSettings
	err = gdb.WithContext(ctx).
		Where("plan_id = ? AND week_number = ?", planID, weekNumber).
		First(&ws).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeekNotFound
		}
		return nil, fmt.Errorf("week settings %d/%d: %w", planID, weekNumber, err)
	}
	return &ws, nil
}

// WeekExercises lists the exercises of a week ordered by
// (day, session code, session number, id).
func (r *Repo) WeekExercises(ctx context.Context, planID, weekNumber int) (_ []PlanExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.week_exercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	planExercises := []PlanExercise{}
	err = gdb.WithContext(ctx).
		Preload("Exercise").
		Where("plan_id = ? AND week_number = ?", planID, weekNumber).
		Order(orderByDay).
		Order("session_code ASC").
		Order("session_number ASC").
		Order("id ASC").
		Find(&planExercises).Error
	if err != nil {
		return nil, fmt.Errorf("week exercises %d/%d: %w", planID, weekNumber, err)
	}
	return planExercises, nil
}

// SessionExercises lists the exercises of one scheduled session ordered by
// (session number, id).
func (r *Repo) SessionExercises(
	ctx context.Context,
	planID, weekNumber int,
	day Day,
	sessionCode SessionCode,
) (_ []PlanExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.session_exercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	planExercises := []PlanExercise{}
	err = gdb.WithContext(ctx).
		Preload("Exercise").
		Where(
			"plan_id = ? AND week_number = ? AND day = ? AND session_code = ?",
			planID, weekNumber, day, sessionCode,
		).
		Order("session_number ASC").
		Order("id ASC").
		Find(&planExercises).Error
	if err != nil {
		return nil, fmt.Errorf("session exercises: %w", err)
	}
	return planExercises, nil
}

// ExercisesForWeeks returns every plan exercise of the given plans and weeks,
// unordered. Used to resolve scheduled rep targets in bulk.
func (r *Repo) ExercisesForWeeks(ctx context.Context, planIDs, weeks []int) (_ []PlanExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.exercises_for_weeks")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if len(planIDs) == 0 || len(weeks) == 0 {
		return []PlanExercise{}, nil
	}

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	planExercises := []PlanExercise{}
	err = gdb.WithContext(ctx).
		Where("plan_id IN ? AND week_number IN ?", planIDs, weeks).
		Find(&planExercises).Error
	if err != nil {
		return nil, fmt.Errorf("exercises for weeks: %w", err)
	}
	return planExercises, nil
}

func (r *Repo) UpsertPlan(ctx context.Context, p Plan) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.upsert_plan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return err
	}

	p.WeekSettings = nil
	err = gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).
		Create(&p).Error
	if err != nil {
		return fmt.Errorf("upsert plan %d: %w", p.ID, err)
	}
	return nil
}

func (r *Repo) UpsertWeekSettings(ctx context.Context, ws WeekSettings) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.upsert_week_settings")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return err
	}

	err = gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "plan_id"}, {Name: "week_number"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"sets_default", "reps_target_text", "rir_target_text",
				"rest_text", "tempo_text", "block_focus", "notes",
			}),
		}).
		Create(&ws).Error
	if err != nil {
		return fmt.Errorf("upsert week settings %d/%d: %w", ws.PlanID, ws.WeekNumber, err)
	}
	return nil
}

func (r *Repo) UpsertPlanExercise(ctx context.Context, pe PlanExercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.upsert_plan_exercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return err
	}

	pe.Exercise = nil
	err = gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "plan_id"}, {Name: "week_number"}, {Name: "day"},
				{Name: "session_code"}, {Name: "exercise_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"session_number", "sets", "reps_target", "rir_target", "rest", "tempo",
			}),
		}).
		Create(&pe).Error
	if err != nil {
		return fmt.Errorf("upsert plan exercise %+v: %w", pe.Key(), err)
	}
	return nil
}

type Counts struct {
	Plans         int64
	WeekSettings  int64
	PlanExercises int64
}

func (r *Repo) Counts(ctx context.Context) (_ Counts, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plan.counts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return Counts{}, err
	}

	var c Counts
	tx := gdb.WithContext(ctx)
	if err := tx.Model(&Plan{}).Count(&c.Plans).Error; err != nil {
		return Counts{}, fmt.Errorf("count plans: %w", err)
	}
	if err := tx.Model(&WeekSettings{}).Count(&c.WeekSettings).Error; err != nil {
		return Counts{}, fmt.Errorf("count week settings: %w", err)
	}
	if err := tx.Model(&PlanExercise{}).Count(&c.PlanExercises).Error; err != nil {
		return Counts{}, fmt.Errorf("count plan exercises: %w", err)
	}
	return c, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrPlanNotFound) || errors.Is(err, ErrWeekNotFound) {
		return nil
	}
	return err
}
