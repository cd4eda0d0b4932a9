package health

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/diillson/aws-cost-dashboard-go/internal/adapter/driving/httpapi/response"
)

type Handler struct{}

func New() *Handler {
	return &Handler{}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.Response{Status: response.StatusOK})
}
