// Package aggregate implements POST /api/aggregate, which summarizes records sent by the caller.
package aggregate

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/diillson/aws-cost-dashboard-go/internal/adapter/driving/httpapi/response"
	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/sl"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

// Service aggregates records without touching AWS.
type Service interface {
	Aggregate(records []entity.CostRecord) (entity.CostSummary, error)
	Validate(records []entity.CostRecord) error
}

// Observer receives the outcome label of every request.
type Observer interface {
	ObserveOutcome(outcome string)
}

// Request is the body accepted by the endpoint.
type Request struct {
	Records []Record `json:"records"`
}

// Record is a CostRecord as sent by the client. Cost is a pointer so a
// missing amount is told apart from an explicit 0.
type Record struct {
	Date      string   `json:"date"`
	Service   string   `json:"service"`
	UsageType string   `json:"usageType"`
	Cost      *float64 `json:"cost"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	observer Observer
}

func New(log *slog.Logger, service Service, observer Observer) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		observer: observer,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.aggregate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		h.respondError(w, r, http.StatusBadRequest, response.Error("invalid request body"), "invalid")
		return
	}

	records, err := h.costRecords(req)
	if err != nil {
		log.Warn("aggregation rejected", slog.Int("records", len(req.Records)), sl.Err(err))
		status, body := response.FromError(err)
		h.respondError(w, r, status, body, response.Outcome(err))
		return
	}

	summary, err := h.service.Aggregate(records)
	if err != nil {
		log.Warn("aggregation rejected", slog.Int("records", len(records)), sl.Err(err))
		status, body := response.FromError(err)
		h.respondError(w, r, status, body, response.Outcome(err))
		return
	}

	if h.observer != nil {
		h.observer.ObserveOutcome(response.Outcome(nil))
	}
	log.Info("records aggregated",
		slog.Int("records", len(records)),
		slog.Float64("total_cost", summary.TotalCost),
	)
	render.JSON(w, r, summary)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, body response.Response, outcome string) {
	if h.observer != nil {
		h.observer.ObserveOutcome(outcome)
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}

// costRecords converts the request into domain records. The first malformed
// record is reported, so a record without cost fails only after the records
// before it validate.
func (h *Handler) costRecords(req Request) ([]entity.CostRecord, error) {
	records := make([]entity.CostRecord, 0, len(req.Records))
	for i, rec := range req.Records {
		if rec.Cost == nil {
			if err := h.service.Validate(records); err != nil {
				return nil, err
			}
			return nil, &types.RecordError{Index: i, Field: "Cost", Reason: "is required"}
		}
		records = append(records, entity.CostRecord{
			Date:      rec.Date,
			Service:   rec.Service,
			UsageType: rec.UsageType,
			Cost:      *rec.Cost,
		})
	}
	return records, nil
}
