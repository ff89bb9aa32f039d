package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/mmtreino/internal/db"
	"github.com/2beens/mmtreino/internal/exercises"
	"github.com/2beens/mmtreino/internal/telemetry/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrWorkoutNotFound = errors.New("workout not found")

const (
	// a write carrying revision 0 is unsequenced and always applies
	setLogApplyCondition = "excluded.revision = 0 OR workout_set_logs.revision < excluded.revision"
	setLogRevisionValue  = "CASE WHEN excluded.revision > workout_set_logs.revision THEN excluded.revision ELSE workout_set_logs.revision END"
)

type Repo struct {
	conn db.Conn
}

func NewRepo(conn db.Conn) *Repo {
	return &Repo{conn: conn}
}

func (r *Repo) EnsureUserSession(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.ensure_user_session")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return err
	}

	err = gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(&UserSession{ID: id}).Error
	if err != nil {
		return fmt.Errorf("ensure user session: %w", err)
	}
	return nil
}

// CreateOrGet inserts the log unless one already exists for its
// (visitor, plan, week, day, session code), then returns the stored row.
func (r *Repo) CreateOrGet(ctx context.Context, log WorkoutLog) (_ *WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.create_or_get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	if log.ID == "" {
		log.ID = uuid.NewString()
	}

	tx := gdb.WithContext(ctx)
	err = tx.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_session_id"}, {Name: "plan_id"}, {Name: "week_number"},
				{Name: "day"}, {Name: "session_code"},
			},
			DoNothing: true,
		}).
		Create(&log).Error
	if err != nil {
		return nil, fmt.Errorf("create workout log: %w", err)
	}

	var stored WorkoutLog
	err = tx.
		Where(
			"user_session_id = ? AND plan_id = ? AND week_number = ? AND day = ? AND session_code = ?",
			log.UserSessionID, log.PlanID, log.WeekNumber, log.Day, log.SessionCode,
		).
		First(&stored).Error
	if err != nil {
		return nil, fmt.Errorf("read back workout log: %w", err)
	}

	span.SetAttributes(attribute.String("workout.id", stored.ID))
	return &stored, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		if errors.Is(err, ErrWorkoutNotFound) {
			tracing.EndSpanWithErrCheck(span, nil)
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	var log WorkoutLog
	if err := gdb.WithContext(ctx).First(&log, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("get workout log: %w", err)
	}
	return &log, nil
}

func (r *Repo) MarkCompleted(ctx context.Context, id string, at time.Time) (_ *WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.mark_completed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	res := gdb.WithContext(ctx).
		Model(&WorkoutLog{}).
		Where("id = ?", id).
		Update("completed_at", at)
	if res.Error != nil {
		return nil, fmt.Errorf("mark workout completed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrWorkoutNotFound
	}

	return r.Get(ctx, id)
}

// ExerciseExists reports whether the library has the exercise. Set logs
// reference exercises without a foreign key, so writes check here first.
func (r *Repo) ExerciseExists(ctx context.Context, id int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.exercise_exists")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", id))

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return false, err
	}

	var count int64
	if err := gdb.WithContext(ctx).Model(&exercises.Exercise{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count exercise: %w", err)
	}
	return count > 0, nil
}

// UpsertSetLog writes the set values keyed by (workout, exercise, set).
// A write with a revision not newer than the stored one leaves the row
// untouched and reports applied as false. The stored row is returned
// either way.
func (r *Repo) UpsertSetLog(ctx context.Context, setLog SetLog) (_ *SetLog, applied bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.upsert_set_log")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("exercise.id", setLog.ExerciseID),
		attribute.Int("set.number", setLog.SetNumber),
		attribute.Int64("set.revision", setLog.Revision),
	)

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	setLog.ID = uuid.NewString()
	setLog.CreatedAt = now
	setLog.UpdatedAt = now
	setLog.Exercise = nil

	tx := gdb.WithContext(ctx)
	res := tx.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "workout_log_id"}, {Name: "exercise_id"}, {Name: "set_number"}},
			DoUpdates: append(
				clause.AssignmentColumns([]string{"weight_kg", "reps_done", "rir_actual", "notes", "updated_at"}),
				clause.Assignment{Column: clause.Column{Name: "revision"}, Value: gorm.Expr(setLogRevisionValue)},
			),
			Where: clause.Where{Exprs: []clause.Expression{gorm.Expr(setLogApplyCondition)}},
		}).
		Create(&setLog)
	if res.Error != nil {
		return nil, false, fmt.Errorf("upsert set log: %w", res.Error)
	}
	applied = res.RowsAffected > 0
	span.SetAttributes(attribute.Bool("set.applied", applied))

	var stored SetLog
	err = tx.
		Where(
			"workout_log_id = ? AND exercise_id = ? AND set_number = ?",
			setLog.WorkoutLogID, setLog.ExerciseID, setLog.SetNumber,
		).
		First(&stored).Error
	if err != nil {
		return nil, false, fmt.Errorf("read back set log: %w", err)
	}
	return &stored, applied, nil
}

// SetLogs returns the set logs of one workout ordered by (exercise, set).
func (r *Repo) SetLogs(ctx context.Context, workoutLogID string) (_ []SetLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.set_logs")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	setLogs := []SetLog{}
	err = gdb.WithContext(ctx).
		Where("workout_log_id = ?", workoutLogID).
		Order("exercise_id ASC").
		Order("set_number ASC").
		Find(&setLogs).Error
	if err != nil {
		return nil, fmt.Errorf("set logs: %w", err)
	}
	return setLogs, nil
}

// SetLogsForWorkouts returns the set logs of many workouts, most recently
// updated first, with their exercise attached.
func (r *Repo) SetLogsForWorkouts(ctx context.Context, workoutLogIDs []string) (_ []SetLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.set_logs_for_workouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workouts.count", len(workoutLogIDs)))

	if len(workoutLogIDs) == 0 {
		return []SetLog{}, nil
	}

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	setLogs := []SetLog{}
	err = gdb.WithContext(ctx).
		Preload("Exercise").
		Where("workout_log_id IN ?", workoutLogIDs).
		Order("updated_at DESC").
		Order("id ASC").
		Find(&setLogs).Error
	if err != nil {
		return nil, fmt.Errorf("set logs for workouts: %w", err)
	}
	return setLogs, nil
}

func (r *Repo) ListRecent(ctx context.Context, userSessionID string, limit int) (_ []WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list_recent")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	logs := []WorkoutLog{}
	err = gdb.WithContext(ctx).
		Where("user_session_id = ?", userSessionID).
		Order("created_at DESC").
		Order("id ASC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("list recent workouts: %w", err)
	}
	return logs, nil
}

// ListCompleted returns the visitor's completed workouts, oldest completion first.
func (r *Repo) ListCompleted(ctx context.Context, userSessionID string) (_ []WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list_completed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	logs := []WorkoutLog{}
	err = gdb.WithContext(ctx).
		Where("user_session_id = ? AND completed_at IS NOT NULL", userSessionID).
		Order("completed_at ASC").
		Order("id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("list completed workouts: %w", err)
	}
	return logs, nil
}
