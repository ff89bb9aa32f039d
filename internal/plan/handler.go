package plan

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/mmtreino/internal/apierr"
	"github.com/2beens/mmtreino/internal/telemetry/tracing"
	"github.com/2beens/mmtreino/pkg"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
)

type planRepo interface {
	First(ctx context.Context) (*Plan, error)
	WeekSettings(ctx context.Context, planID, weekNumber int) (*WeekSettings, error)
	WeekExercises(ctx context.Context, planID, weekNumber int) ([]PlanExercise, error)
}

type Handler struct {
	repo planRepo
}

func NewHandler(repo planRepo) *Handler {
	return &Handler{repo: repo}
}

// HandleGet serves the plan with its week settings, or a null plan before
// anything was imported.
func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plan.get")
	defer span.End()

	p, err := handler.repo.First(ctx)
	if err != nil && !errors.Is(err, ErrPlanNotFound) {
		apierr.Write(w, err)
		return
	}

	pkg.WriteOK(w, map[string]any{"plan": p})
}

func (handler *Handler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plan.week")
	defer span.End()

	weekNumber, err := strconv.Atoi(strings.TrimSpace(mux.Vars(r)["weekNumber"]))
	if err != nil || weekNumber < 1 {
		apierr.Write(w, apierr.InvalidField("weekNumber", "must be a positive integer"))
		return
	}
	span.SetAttributes(attribute.Int("week", weekNumber))

	p, err := handler.repo.First(ctx)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			pkg.WriteOK(w, map[string]any{"plan": nil, "week": nil})
			return
		}
		apierr.Write(w, err)
		return
	}

	week, err := handler.repo.WeekSettings(ctx, p.ID, weekNumber)
	if err != nil && !errors.Is(err, ErrWeekNotFound) {
		apierr.Write(w, err)
		return
	}

	planExercises, err := handler.repo.WeekExercises(ctx, p.ID, weekNumber)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	// week settings are already in the week object
	p.WeekSettings = nil
	pkg.WriteOK(w, map[string]any{
		"plan":      p,
		"week":      week,
		"exercises": planExercises,
	})
}
