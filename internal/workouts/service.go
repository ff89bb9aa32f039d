package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/mmtreino/internal/apierr"
	"github.com/2beens/mmtreino/internal/exercises"
	"github.com/2beens/mmtreino/internal/plan"
	"github.com/2beens/mmtreino/internal/telemetry/tracing"
	"github.com/2beens/mmtreino/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=workouts_test

var ErrWorkoutCompleted = errors.New("workout already completed")

const (
	DefaultRecentLimit = 8
	MaxRecentLimit     = 50
)

type workoutsRepo interface {
	EnsureUserSession(ctx context.Context, id string) error
	ExerciseExists(ctx context.Context, id int) (bool, error)
	CreateOrGet(ctx context.Context, log WorkoutLog) (*WorkoutLog, error)
	Get(ctx context.Context, id string) (*WorkoutLog, error)
	MarkCompleted(ctx context.Context, id string, at time.Time) (*WorkoutLog, error)
	UpsertSetLog(ctx context.Context, setLog SetLog) (*SetLog, bool, error)
	SetLogs(ctx context.Context, workoutLogID string) ([]SetLog, error)
	ListRecent(ctx context.Context, userSessionID string, limit int) ([]WorkoutLog, error)
}

type planRepo interface {
	Get(ctx context.Context, id int) (*plan.Plan, error)
	SessionExercises(ctx context.Context, planID, weekNumber int, day plan.Day, sessionCode plan.SessionCode) ([]plan.PlanExercise, error)
}

type StartParams struct {
	PlanID      int
	WeekNumber  int
	Day         plan.Day
	SessionCode plan.SessionCode
}

func (p StartParams) validate() error {
	fields := apierr.FieldErrors{}
	if p.PlanID < 1 {
		fields["planId"] = "must be a positive integer"
	}
	if p.WeekNumber < 1 {
		fields["weekNumber"] = "must be a positive integer"
	}
	if !p.Day.IsValid() {
		fields["day"] = "must be one of SEG, QUA, SEX"
	}
	if !p.SessionCode.IsValid() {
		fields["sessionCode"] = "must be one of A, B, C, D, DELOAD"
	}
	if len(fields) > 0 {
		return apierr.Validation(fields)
	}
	return nil
}

// SetInput carries every value of a set; a nil field clears the stored one.
type SetInput struct {
	ExerciseID int
	SetNumber  int
	WeightKg   *string
	RepsDone   *int
	RirActual  *int
	Notes      *string
	// Revision > 0 makes the write apply only when newer than the stored one.
	Revision int64
}

func (in SetInput) validate() error {
	fields := apierr.FieldErrors{}
	if in.ExerciseID < 1 {
		fields["exerciseId"] = "must be a positive integer"
	}
	if in.SetNumber < 1 {
		fields["setNumber"] = "must be a positive integer"
	}
	if in.RepsDone != nil && *in.RepsDone < 0 {
		fields["repsDone"] = "must not be negative"
	}
	if in.RirActual != nil && *in.RirActual < 0 {
		fields["rirActual"] = "must not be negative"
	}
	if in.Revision < 0 {
		fields["revision"] = "must not be negative"
	}
	if len(fields) > 0 {
		return apierr.Validation(fields)
	}
	return nil
}

type RecordSetResult struct {
	SetLog *SetLog
	// Stale is set when the write was not newer than the stored row and was
	// ignored.
	Stale bool
}

type Detail struct {
	WorkoutLog    *WorkoutLog         `json:"workoutLog"`
	PlanExercises []plan.PlanExercise `json:"planExercises"`
	SetLogs       []SetLog            `json:"setLogs"`
}

type Service struct {
	repo  workoutsRepo
	plans planRepo
	now   func() time.Time
}

func NewService(repo workoutsRepo, plans planRepo) *Service {
	return &Service{
		repo:  repo,
		plans: plans,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Start creates the workout log of a scheduled session, or returns the one
// the visitor already has for it.
func (s *Service) Start(ctx context.Context, visitorID string, params StartParams) (_ *WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := params.validate(); err != nil {
		return nil, err
	}

	if err := s.repo.EnsureUserSession(ctx, visitorID); err != nil {
		return nil, err
	}

	if _, err := s.plans.Get(ctx, params.PlanID); err != nil {
		return nil, err
	}

	workoutLog, err := s.repo.CreateOrGet(ctx, WorkoutLog{
		UserSessionID: visitorID,
		PlanID:        params.PlanID,
		WeekNumber:    params.WeekNumber,
		Day:           params.Day,
		SessionCode:   params.SessionCode,
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("workout.id", workoutLog.ID))
	log.Debugf("workout %s started [week %d %s %s]", workoutLog.ID, params.WeekNumber, params.Day, params.SessionCode)
	return workoutLog, nil
}

// RecordSet upserts one set of a workout. A completed workout is read only
// and the exercise must exist in the library.
func (s *Service) RecordSet(ctx context.Context, workoutLogID string, in SetInput) (_ *RecordSetResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.record_set")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := in.validate(); err != nil {
		return nil, err
	}

	workoutLog, err := s.repo.Get(ctx, workoutLogID)
	if err != nil {
		return nil, err
	}
	if workoutLog.IsCompleted() {
		return nil, ErrWorkoutCompleted
	}

	exists, err := s.repo.ExerciseExists(ctx, in.ExerciseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("exercise %d: %w", in.ExerciseID, exercises.ErrExerciseNotFound)
	}

	var notes *string
	if in.Notes != nil {
		notes = pkg.TrimmedOrNil(*in.Notes)
	}

	stored, applied, err := s.repo.UpsertSetLog(ctx, SetLog{
		WorkoutLogID: workoutLogID,
		ExerciseID:   in.ExerciseID,
		SetNumber:    in.SetNumber,
		WeightKg:     in.WeightKg,
		RepsDone:     in.RepsDone,
		RirActual:    in.RirActual,
		Notes:        notes,
		Revision:     in.Revision,
	})
	if err != nil {
		return nil, err
	}

	result := &RecordSetResult{
		SetLog: stored,
		Stale:  !applied,
	}
	if result.Stale {
		log.Debugf("stale set write ignored [%s %d/%d rev %d, stored %d]",
			workoutLogID, in.ExerciseID, in.SetNumber, in.Revision, stored.Revision)
	}
	return result, nil
}

// Complete stamps the completion time. Completing again only moves the stamp.
func (s *Service) Complete(ctx context.Context, workoutLogID string) (_ *WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.complete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := s.repo.Get(ctx, workoutLogID); err != nil {
		return nil, err
	}

	return s.repo.MarkCompleted(ctx, workoutLogID, s.now())
}

func (s *Service) Get(ctx context.Context, workoutLogID string) (_ *Detail, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workoutLog, err := s.repo.Get(ctx, workoutLogID)
	if err != nil {
		return nil, err
	}

	planExercises, err := s.plans.SessionExercises(
		ctx,
		workoutLog.PlanID,
		workoutLog.WeekNumber,
		workoutLog.Day,
		workoutLog.SessionCode,
	)
	if err != nil {
		return nil, fmt.Errorf("session exercises: %w", err)
	}

	setLogs, err := s.repo.SetLogs(ctx, workoutLogID)
	if err != nil {
		return nil, err
	}

	return &Detail{
		WorkoutLog:    workoutLog,
		PlanExercises: planExercises,
		SetLogs:       setLogs,
	}, nil
}

func (s *Service) Recent(ctx context.Context, visitorID string, limit int) (_ []WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.recent")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}

	return s.repo.ListRecent(ctx, visitorID, limit)
}
