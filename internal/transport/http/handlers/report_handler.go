package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/actions"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/cases"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/reports"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/transport/http/dto"
	httperrors "github.com/ideaSquared/adopt-dont-shop-moderation/internal/transport/http/errors"
)

type ReportHandler struct {
	service *cases.Service
}

func NewReportHandler(service *cases.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_JSON", "request body is not valid json")
		return
	}

	report, err := h.service.SubmitReport(r.Context(), req.ReporterID, req.Submission(time.Now().UTC()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, report)
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")

	report, err := h.service.GetReport(r.Context(), reportID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	evidence, err := h.service.PresentEvidence(r.Context(), report.Evidence)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	report.Evidence = evidence

	httperrors.Write(w, http.StatusOK, report)
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	items, pagination, err := h.service.ListReports(r.Context(), reportFiltersFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ReportsResponse{
		Reports:    items,
		Pagination: pagination,
	})
}

func (h *ReportHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")

	var req dto.UpdateReportStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_JSON", "request body is not valid json")
		return
	}

	report, err := h.service.UpdateReportStatus(r.Context(), reportID, req.StatusChange())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, report)
}

func (h *ReportHandler) Assign(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")

	var req dto.AssignReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_JSON", "request body is not valid json")
		return
	}

	report, err := h.service.AssignReport(r.Context(), reportID, req.ModeratorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, report)
}

func (h *ReportHandler) Escalate(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")

	var req dto.EscalateReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_JSON", "request body is not valid json")
		return
	}

	report, err := h.service.EscalateReport(r.Context(), reportID, req.EscalatedTo, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, report)
}

func (h *ReportHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")

	var req dto.ResolveReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_JSON", "request body is not valid json")
		return
	}

	var draft *actions.Draft
	if req.Action != nil {
		d := req.Action.Draft(time.Now().UTC())
		draft = &d
	}

	report, action, err := h.service.ResolveReport(r.Context(), reportID, req.ActorID, req.Notes, draft)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ReportWithActionResponse{
		Report: report,
		Action: action,
	})
}

func (h *ReportHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")

	var req dto.DismissReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_JSON", "request body is not valid json")
		return
	}

	report, err := h.service.DismissReport(r.Context(), reportID, req.ActorID, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, report)
}

func (h *ReportHandler) TakeAction(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")

	var req dto.TakeActionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_JSON", "request body is not valid json")
		return
	}

	report, action, err := h.service.TakeAction(r.Context(), reportID, req.ModeratorID, req.Action.Draft(time.Now().UTC()), req.ResolutionNotes)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ReportWithActionResponse{
		Report: report,
		Action: &action,
	})
}

func (h *ReportHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkUpdateReportsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_JSON", "request body is not valid json")
		return
	}

	actorID := ""
	if req.ModeratorID != nil {
		actorID = *req.ModeratorID
	}

	result, err := h.service.BulkUpdate(r.Context(), actorID, cases.BulkRequest{
		ReportIDs:   req.ReportIDs,
		Action:      enums.BulkAction(req.Action),
		ModeratorID: req.ModeratorID,
		EscalatedTo: req.EscalatedTo,
		Notes:       req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, result)
}

func reportFiltersFromQuery(r *http.Request) reports.Filters {
	query := r.URL.Query()
	var filters reports.Filters

	if v := query.Get("status"); v != "" {
		status := enums.ReportStatus(v)
		filters.Status = &status
	}
	if v := query.Get("category"); v != "" {
		category := enums.ReportCategory(v)
		filters.Category = &category
	}
	if v := query.Get("severity"); v != "" {
		severity := enums.Severity(v)
		filters.Severity = &severity
	}
	if v := query.Get("reportedEntityType"); v != "" {
		entityType := enums.EntityType(v)
		filters.ReportedEntityType = &entityType
	}
	if v := query.Get("assignedModerator"); v != "" {
		filters.AssignedModerator = &v
	}
	if v := query.Get("search"); v != "" {
		filters.Search = &v
	}

	filters.Page, _ = strconv.Atoi(query.Get("page"))
	filters.Limit, _ = strconv.Atoi(query.Get("limit"))
	filters.SortBy = reports.SortField(query.Get("sortBy"))
	filters.SortOrder = reports.SortOrder(query.Get("sortOrder"))

	return filters
}
