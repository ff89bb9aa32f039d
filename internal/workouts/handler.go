package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/mmtreino/internal/apierr"
	"github.com/2beens/mmtreino/internal/exercises"
	"github.com/2beens/mmtreino/internal/plan"
	"github.com/2beens/mmtreino/internal/telemetry/metrics"
	"github.com/2beens/mmtreino/internal/telemetry/tracing"
	"github.com/2beens/mmtreino/internal/visitor"
	"github.com/2beens/mmtreino/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type workoutsService interface {
	Start(ctx context.Context, visitorID string, params StartParams) (*WorkoutLog, error)
	RecordSet(ctx context.Context, workoutLogID string, in SetInput) (*RecordSetResult, error)
	Complete(ctx context.Context, workoutLogID string) (*WorkoutLog, error)
	Get(ctx context.Context, workoutLogID string) (*Detail, error)
	Recent(ctx context.Context, visitorID string, limit int) ([]WorkoutLog, error)
}

type Handler struct {
	service        workoutsService
	metricsManager *metrics.Manager
}

func NewHandler(service workoutsService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

type startRequest struct {
	PlanID      pkg.FlexInt `json:"planId"`
	WeekNumber  pkg.FlexInt `json:"weekNumber"`
	Day         string      `json:"day"`
	SessionCode string      `json:"sessionCode"`
}

type setRequest struct {
	ExerciseID pkg.FlexInt     `json:"exerciseId"`
	SetNumber  pkg.FlexInt     `json:"setNumber"`
	WeightKg   pkg.FlexDecimal `json:"weightKg"`
	RepsDone   pkg.FlexInt     `json:"repsDone"`
	RirActual  pkg.FlexInt     `json:"rirActual"`
	Notes      *string         `json:"notes"`
	Revision   pkg.FlexInt     `json:"revision"`
}

func (handler *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.start")
	defer span.End()

	visitorID, err := visitor.IDFromContext(ctx)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.InvalidField("body", err.Error()))
		return
	}

	fields := apierr.FieldErrors{}
	if !req.PlanID.Valid {
		fields["planId"] = "required"
	}
	if !req.WeekNumber.Valid {
		fields["weekNumber"] = "required"
	}
	if len(fields) > 0 {
		apierr.Write(w, apierr.Validation(fields))
		return
	}

	workoutLog, err := handler.service.Start(ctx, visitorID, StartParams{
		PlanID:      req.PlanID.Value,
		WeekNumber:  req.WeekNumber.Value,
		Day:         plan.Day(req.Day),
		SessionCode: plan.SessionCode(req.SessionCode),
	})
	if err != nil {
		apierr.Write(w, toAPIError(err))
		return
	}

	handler.metricsManager.CounterWorkoutsStarted.Inc()
	pkg.WriteOK(w, map[string]any{"workoutLogId": workoutLog.ID})
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	visitorID, err := visitor.IDFromContext(ctx)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	limit := 0
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		limit, err = strconv.Atoi(limitParam)
		if err != nil || limit < 1 {
			apierr.Write(w, apierr.InvalidField("limit", "must be a positive integer"))
			return
		}
	}

	workoutLogs, err := handler.service.Recent(ctx, visitorID, limit)
	if err != nil {
		apierr.Write(w, toAPIError(err))
		return
	}

	completed := 0
	for i := range workoutLogs {
		if workoutLogs[i].IsCompleted() {
			completed++
		}
	}

	pkg.WriteOK(w, map[string]any{
		"workouts":  workoutLogs,
		"completed": completed,
	})
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	workoutLogID, ok := workoutIDParam(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("workout.id", workoutLogID))

	detail, err := handler.service.Get(ctx, workoutLogID)
	if err != nil {
		apierr.Write(w, toAPIError(err))
		return
	}

	pkg.WriteOK(w, detail)
}

func (handler *Handler) HandleRecordSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.record_set")
	defer span.End()

	workoutLogID, ok := workoutIDParam(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("workout.id", workoutLogID))

	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.InvalidField("body", err.Error()))
		return
	}

	fields := apierr.FieldErrors{}
	if !req.ExerciseID.Valid {
		fields["exerciseId"] = "required"
	}
	if !req.SetNumber.Valid {
		fields["setNumber"] = "required"
	}
	if len(fields) > 0 {
		apierr.Write(w, apierr.Validation(fields))
		return
	}

	result, err := handler.service.RecordSet(ctx, workoutLogID, SetInput{
		ExerciseID: req.ExerciseID.Value,
		SetNumber:  req.SetNumber.Value,
		WeightKg:   req.WeightKg.Ptr(),
		RepsDone:   req.RepsDone.Ptr(),
		RirActual:  req.RirActual.Ptr(),
		Notes:      req.Notes,
		Revision:   int64(req.Revision.Value),
	})
	if err != nil {
		if errors.Is(err, ErrWorkoutCompleted) {
			handler.metricsManager.CounterSetWrites.WithLabelValues(metrics.SetWriteLocked).Inc()
		}
		apierr.Write(w, toAPIError(err))
		return
	}

	outcome := metrics.SetWriteApplied
	if result.Stale {
		outcome = metrics.SetWriteStale
	}
	handler.metricsManager.CounterSetWrites.WithLabelValues(outcome).Inc()

	pkg.WriteOK(w, map[string]any{
		"setLog": result.SetLog,
		"stale":  result.Stale,
	})
}

func (handler *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.complete")
	defer span.End()

	workoutLogID, ok := workoutIDParam(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("workout.id", workoutLogID))

	workoutLog, err := handler.service.Complete(ctx, workoutLogID)
	if err != nil {
		apierr.Write(w, toAPIError(err))
		return
	}

	handler.metricsManager.CounterWorkoutsCompleted.Inc()
	pkg.WriteOK(w, map[string]any{"workoutLog": workoutLog})
}

func workoutIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		apierr.Write(w, apierr.InvalidField("workoutLogId", "must be a UUID"))
		return "", false
	}
	return id.String(), true
}

func toAPIError(err error) error {
	switch {
	case errors.Is(err, ErrWorkoutNotFound):
		return apierr.NotFound("workout not found", err)
	case errors.Is(err, plan.ErrPlanNotFound):
		return apierr.NotFound("plan not found", err)
	case errors.Is(err, exercises.ErrExerciseNotFound):
		return apierr.NotFound("exercise not found", err)
	case errors.Is(err, ErrWorkoutCompleted):
		return apierr.Conflict("workout already completed, sets are locked", err)
	}
	return err
}
