package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/actions"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/cases"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/transport/http/dto"
	httperrors "github.com/ideaSquared/adopt-dont-shop-moderation/internal/transport/http/errors"
)

type ActionHandler struct {
	service *cases.Service
}

func NewActionHandler(service *cases.Service) *ActionHandler {
	return &ActionHandler{service: service}
}

func (h *ActionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ModeratorID string                  `json:"moderatorId"`
		Action      dto.CreateActionRequest `json:"action"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_JSON", "request body is not valid json")
		return
	}

	action, err := h.service.CreateAction(r.Context(), req.ModeratorID, req.Action.Draft(time.Now().UTC()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, action)
}

func (h *ActionHandler) Get(w http.ResponseWriter, r *http.Request) {
	actionID := chi.URLParam(r, "actionID")

	action, err := h.service.GetAction(r.Context(), actionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, action)
}

func (h *ActionHandler) List(w http.ResponseWriter, r *http.Request) {
	items, pagination, err := h.service.ListActions(r.Context(), actionFiltersFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ActionsResponse{
		Actions:    items,
		Pagination: pagination,
	})
}

func (h *ActionHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	actionID := chi.URLParam(r, "actionID")

	var req dto.ReverseActionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_JSON", "request body is not valid json")
		return
	}

	action, err := h.service.ReverseAction(r.Context(), actionID, req.ReversedBy, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, action)
}

func (h *ActionHandler) Expire(w http.ResponseWriter, r *http.Request) {
	expired, err := h.service.ExpireActions(r.Context(), "system")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ExpireActionsResponse{Expired: expired})
}

func (h *ActionHandler) ListActiveForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	items, err := h.service.ListActiveActions(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ActiveActionsResponse{Actions: items})
}

func actionFiltersFromQuery(r *http.Request) actions.Filters {
	query := r.URL.Query()
	var filters actions.Filters

	if v := query.Get("actionType"); v != "" {
		actionType := enums.ActionType(v)
		filters.ActionType = &actionType
	}
	if v := query.Get("severity"); v != "" {
		severity := enums.Severity(v)
		filters.Severity = &severity
	}
	if v := query.Get("isActive"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			filters.IsActive = &active
		}
	}
	if v := query.Get("moderatorId"); v != "" {
		filters.ModeratorID = &v
	}
	if v := query.Get("targetUserId"); v != "" {
		filters.TargetUserID = &v
	}
	if v := query.Get("reportId"); v != "" {
		filters.ReportID = &v
	}

	filters.Page, _ = strconv.Atoi(query.Get("page"))
	filters.Limit, _ = strconv.Atoi(query.Get("limit"))

	return filters
}
