package exercises

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
)

type exercisesRepo interface {
	List(ctx context.Context, params ListParams) ([]Exercise, error)
	Get(ctx context.Context, id int) (*Exercise, error)
}

type Handler struct {
	repo exercisesRepo
}

func NewHandler(repo exercisesRepo) *Handler {
	return &Handler{repo: repo}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.list")
	defer span.End()

	query := r.URL.Query()
	exercises, err := handler.repo.List(ctx, ListParams{
		Search:    query.Get("search"),
		Group:     query.Get("group"),
		Equipment: query.Get("equipment"),
		Pattern:   query.Get("pattern"),
	})
	if err != nil {
		apierr.Write(w, err)
		return
	}

	pkg.WriteOK(w, map[string]any{"exercises": exercises})
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.get")
	defer span.End()

	id, err := strconv.Atoi(strings.TrimSpace(mux.Vars(r)["id"]))
	if err != nil {
		apierr.Write(w, apierr.InvalidField("id", "must be an integer"))
		return
	}

	exercise, err := handler.repo.Get(ctx, id)
	if err != nil && !errors.Is(err, ErrExerciseNotFound) {
		apierr.Write(w, err)
		return
	}

	// an unknown id is not an error here, the exercise is just null
	pkg.WriteOK(w, map[string]any{"exercise": exercise})
}
