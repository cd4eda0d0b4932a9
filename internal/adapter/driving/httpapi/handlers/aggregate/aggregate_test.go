package aggregate

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/service"
)

type countingObserver struct {
	outcomes map[string]int
}

func (o *countingObserver) ObserveOutcome(outcome string) {
	o.outcomes[outcome]++
}

func TestAggregateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedBody   string
		expectedLabel  string
	}{
		{
			name: "aggregates records",
			body: `{"records":[
				{"date":"2024-01-01","service":"EC2","usageType":"BoxUsage","cost":10},
				{"date":"2024-01-01","service":"S3","usageType":"Storage","cost":5},
				{"date":"2024-01-02","service":"EC2","usageType":"BoxUsage","cost":5},
				{"date":"2024-01-02","service":"S3","usageType":"Requests","cost":0.005}
			]}`,
			expectedStatus: http.StatusOK,
			expectedBody: `{
				"totalCost":20,
				"services":[
					{"name":"EC2","cost":15,"percentage":75,"usageTypes":[{"name":"BoxUsage","cost":15}]},
					{"name":"S3","cost":5,"percentage":25,"usageTypes":[{"name":"Storage","cost":5}]}
				],
				"dailyCosts":[
					{"date":"2024-01-01","services":[{"name":"EC2","cost":10},{"name":"S3","cost":5}]},
					{"date":"2024-01-02","services":[{"name":"EC2","cost":5}]}
				]
			}`,
			expectedLabel: "ok",
		},
		{
			name:           "malformed json",
			body:           `{"records":`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
			expectedLabel:  "invalid",
		},
		{
			name:           "invalid record",
			body:           `{"records":[{"date":"2024-01-01","service":"EC2","usageType":"BoxUsage","cost":1},{"date":"2024/01/02","service":"EC2","usageType":"BoxUsage","cost":1}]}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid cost record at index 1: field Date must be a date in YYYY-MM-DD format"}`,
			expectedLabel:  "invalid",
		},
		{
			name:           "missing cost",
			body:           `{"records":[{"date":"2024-01-01","service":"EC2","usageType":"BoxUsage"}]}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid cost record at index 0: field Cost is required"}`,
			expectedLabel:  "invalid",
		},
		{
			name: "missing cost among valid records",
			body: `{"records":[
				{"date":"2024-01-01","service":"EC2","usageType":"BoxUsage","cost":10},
				{"date":"2024-01-01","service":"S3","usageType":"Storage"},
				{"date":"2024-01-02","service":"EC2","usageType":"BoxUsage","cost":5}
			]}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid cost record at index 1: field Cost is required"}`,
			expectedLabel:  "invalid",
		},
		{
			name: "earlier malformed record is reported first",
			body: `{"records":[
				{"date":"2024/01/01","service":"EC2","usageType":"BoxUsage","cost":10},
				{"date":"2024-01-01","service":"S3","usageType":"Storage"}
			]}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid cost record at index 0: field Date must be a date in YYYY-MM-DD format"}`,
			expectedLabel:  "invalid",
		},
		{
			name:           "explicit zero cost is noise",
			body:           `{"records":[{"date":"2024-01-01","service":"EC2","usageType":"BoxUsage","cost":0}]}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"no cost data found"}`,
			expectedLabel:  "empty",
		},
		{
			name:           "only noise",
			body:           `{"records":[{"date":"2024-01-01","service":"EC2","usageType":"BoxUsage","cost":0.01}]}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"no cost data found"}`,
			expectedLabel:  "empty",
		},
		{
			name:           "no records",
			body:           `{}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"no cost data found"}`,
			expectedLabel:  "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer := &countingObserver{outcomes: map[string]int{}}
			h := New(logger, service.NewCostAggregator(), observer)

			req := httptest.NewRequest(http.MethodPost, "/api/aggregate", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			assert.Equal(t, map[string]int{tt.expectedLabel: 1}, observer.outcomes)
		})
	}
}
