package handlers

import (
	"net/http"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/cases"
	httperrors "github.com/ideaSquared/adopt-dont-shop-moderation/internal/transport/http/errors"
)

type MetricsHandler struct {
	service *cases.Service
}

func NewMetricsHandler(service *cases.Service) *MetricsHandler {
	return &MetricsHandler{service: service}
}

func (h *MetricsHandler) Get(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.service.Metrics(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, metrics)
}
