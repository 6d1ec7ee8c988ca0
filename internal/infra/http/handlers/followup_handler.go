package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lloydpilapil/pixelmojo-leads/internal/infra/http/middleware"
	"github.com/lloydpilapil/pixelmojo-leads/internal/usecase"
)

type FollowUpHandler struct {
	followUpUC *usecase.FollowUpUseCase
}

func NewFollowUpHandler(followUpUC *usecase.FollowUpUseCase) *FollowUpHandler {
	return &FollowUpHandler{followUpUC: followUpUC}
}

type eligibleResponse struct {
	Total int                        `json:"total"`
	Leads []usecase.EligibleLeadView `json:"leads"`
}

// HandleListEligible shows everything currently inside the follow-up window.
func (h *FollowUpHandler) HandleListEligible(w http.ResponseWriter, r *http.Request) {
	views, err := h.followUpUC.ListEligible(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, eligibleResponse{Total: len(views), Leads: views})
}

type triggerRequest struct {
	LeadID string `json:"leadId"`
}

// HandleTriggerOne sends one follow-up now, or explains precisely why not.
func (h *FollowUpHandler) HandleTriggerOne(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if req.LeadID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "leadId is required"})
		return
	}

	output, err := h.followUpUC.TriggerOne(r.Context(), req.LeadID)
	if err != nil {
		if ineligible, ok := usecase.IsIneligibleError(err); ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":  "Follow-up criteria not met",
				"reason": string(ineligible.Reason),
			})
			return
		}
		if usecase.IsDomainError(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Lead not found"})
			return
		}
		middleware.RecordFollowUpFailure("trigger")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	middleware.RecordFollowUpSent()
	writeJSON(w, http.StatusOK, output)
}

type batchResponse struct {
	Success bool                 `json:"success"`
	Results *usecase.BatchResult `json:"results"`
}

// HandleRunBatch is the scheduler entrypoint. Per-lead failures stay inside
// the results object; only a failed lead-list read is a top-level error, so
// the scheduler never retries a whole batch over one bad lead.
func (h *FollowUpHandler) HandleRunBatch(w http.ResponseWriter, r *http.Request) {
	results, err := h.followUpUC.RunBatch(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	for i := 0; i < results.Sent; i++ {
		middleware.RecordFollowUpSent()
	}
	for i := 0; i < results.Failed; i++ {
		middleware.RecordFollowUpFailure("batch")
	}

	writeJSON(w, http.StatusOK, batchResponse{Success: true, Results: results})
}
