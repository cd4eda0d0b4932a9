// Package costs implements GET /api/costs, the summary consumed by the chart front-end.
//
// The handler resolves the period from the query string, fetches the profile's
// records from Cost Explorer and returns the aggregated CostSummary.
package costs

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/diillson/aws-cost-dashboard-go/internal/adapter/driving/httpapi/response"
	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/sl"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/validation"
)

// Service is the part of the dashboard use case the handler needs.
type Service interface {
	Period(days int, start, end string) (entity.Period, error)
	CostSummary(ctx context.Context, profile string, period entity.Period, tags []string) (entity.CostSummary, error)
}

// Observer receives the outcome label of every request.
type Observer interface {
	ObserveOutcome(outcome string)
}

type query struct {
	Profile string   `validate:"required"`
	Days    int      `validate:"gte=0"`
	Start   string   `validate:"omitempty,datetime=2006-01-02"`
	End     string   `validate:"omitempty,datetime=2006-01-02"`
	Tags    []string `validate:"dive,keyvalue"`
}

// Handler serves the cost summary of a single profile.
type Handler struct {
	log      *slog.Logger
	service  Service
	observer Observer
	validate *validator.Validate
	defaults Defaults
}

// Defaults fill in the query parameters a request leaves out.
type Defaults struct {
	Profile string
	// Days is the window used when the request has no days parameter.
	Days int
}

// New creates a Handler.
func New(log *slog.Logger, service Service, observer Observer, defaults Defaults) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		observer: observer,
		validate: validation.New(),
		defaults: defaults,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.costs"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	values := r.URL.Query()
	q := query{
		Profile: values.Get("profile"),
		Start:   values.Get("start"),
		End:     values.Get("end"),
		Days:    h.defaults.Days,
		Tags:    values["tag"],
	}
	if q.Profile == "" {
		q.Profile = h.defaults.Profile
	}
	if raw := values.Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			log.Warn("invalid days parameter", slog.String("days", raw))
			h.fail(w, r, http.StatusBadRequest, response.Error("invalid days parameter"), "invalid")
			return
		}
		q.Days = days
	}

	if err := h.validate.Struct(q); err != nil {
		log.Warn("invalid query", sl.Err(err))
		h.fail(w, r, http.StatusBadRequest, response.Error(validationMessage(err)), "invalid")
		return
	}

	period, err := h.service.Period(q.Days, q.Start, q.End)
	if err != nil {
		log.Warn("invalid period", sl.Err(err))
		status, body := response.FromError(err)
		h.fail(w, r, status, body, response.Outcome(err))
		return
	}

	log = log.With(slog.String("profile", q.Profile), slog.String("period", period.String()))

	summary, err := h.service.CostSummary(r.Context(), q.Profile, period, q.Tags)
	if err != nil {
		log.Error("failed to build cost summary", sl.Err(err))
		status, body := response.FromError(err)
		h.fail(w, r, status, body, response.Outcome(err))
		return
	}

	h.observe(response.Outcome(nil))
	log.Info("cost summary built",
		slog.Float64("total_cost", summary.TotalCost),
		slog.Int("services", len(summary.Services)),
	)
	render.JSON(w, r, summary)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, body response.Response, outcome string) {
	h.observe(outcome)
	render.Status(r, status)
	render.JSON(w, r, body)
}

func (h *Handler) observe(outcome string) {
	if h.observer != nil {
		h.observer.ObserveOutcome(outcome)
	}
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid query"
	}
	switch verrs[0].StructField() {
	case "Profile":
		return "profile is required"
	case "Days":
		return "days must not be negative"
	case "Start", "End":
		return "start and end must be dates in YYYY-MM-DD format"
	default:
		return "tag must be in Key=Value format"
	}
}
