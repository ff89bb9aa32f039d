package stats

import (
	"context"
	"net/http"

	"github.com/2beens/mmtreino/internal/apierr"
	"github.com/2beens/mmtreino/internal/telemetry/tracing"
	"github.com/2beens/mmtreino/internal/visitor"
	"github.com/2beens/mmtreino/pkg"
)

type statsComputer interface {
	Compute(ctx context.Context, visitorID string) (*Stats, error)
}

type Handler struct {
	analyzer statsComputer
}

func NewHandler(analyzer statsComputer) *Handler {
	return &Handler{
		analyzer: analyzer,
	}
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.get")
	defer span.End()

	visitorID, err := visitor.IDFromContext(ctx)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	stats, err := handler.analyzer.Compute(ctx, visitorID)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	pkg.WriteOK(w, stats)
}
