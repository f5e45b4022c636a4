package kpi

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/fitpoints/internal/fitness"
	"github.com/2beens/fitpoints/internal/telemetry/tracing"
	"github.com/2beens/fitpoints/pkg"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=kpi_mocks_test.go -package=kpi_test

type kpiService interface {
	RangeSummary(ctx context.Context, userID int, w Window) (*Summary, error)
	HistoricalWeeks(ctx context.Context, userID, weeksBack int, asOf pkg.Date) ([]WeekStat, error)
}

type Handler struct {
	service kpiService
	now     func() time.Time
}

func NewHandler(service kpiService) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/kpi/summary", handler.HandleRangeSummary).Methods("GET", "OPTIONS").Name("kpi-summary")
	r.HandleFunc("/kpi/weeks", handler.HandleHistoricalWeeks).Methods("GET", "OPTIONS").Name("kpi-weeks")
}

func (handler *Handler) HandleRangeSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.kpi.summary")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}

	window, err := ParseRange(r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		fitness.WriteError(w, err, nil, "range summary")
		return
	}
	span.SetAttributes(attribute.Int("days", window.DayCount()))

	summary, err := handler.service.RangeSummary(ctx, userID, window)
	if err != nil {
		fitness.WriteError(w, err, nil, "range summary")
		return
	}

	pkg.WriteJSON(w, summary, http.StatusOK)
}

// HandleHistoricalWeeks anchors on the as_of query parameter when given, on today otherwise.
func (handler *Handler) HandleHistoricalWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.kpi.weeks")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}

	weeksBack := DefaultWeeksBack
	weeksBackParam, err := fitness.OptionalIntParam(r, "weeks_back")
	if err != nil {
		fitness.WriteError(w, err, nil, "historical weeks")
		return
	}
	if weeksBackParam != nil {
		weeksBack = *weeksBackParam
	}

	asOf := pkg.DateOf(handler.now())
	asOfParam, err := fitness.OptionalDateParam(r, "as_of")
	if err != nil {
		fitness.WriteError(w, err, nil, "historical weeks")
		return
	}
	if asOfParam != nil {
		asOf = *asOfParam
	}

	stats, err := handler.service.HistoricalWeeks(ctx, userID, weeksBack, asOf)
	if err != nil {
		fitness.WriteError(w, err, nil, "historical weeks")
		return
	}

	pkg.WriteJSON(w, stats, http.StatusOK)
}
