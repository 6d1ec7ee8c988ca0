package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lloydpilapil/pixelmojo-leads/internal/entity"
)

// AdminHandler backs the dashboard's lead table and its spreadsheet export.
type AdminHandler struct {
	leadRepo entity.LeadRepositoryInterface
}

func NewAdminHandler(leadRepo entity.LeadRepositoryInterface) *AdminHandler {
	return &AdminHandler{leadRepo: leadRepo}
}

const adminListLimit = 500

func (h *AdminHandler) HandleListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.leadRepo.ListAll(r.Context(), adminListLimit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list leads"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total": len(leads),
		"leads": leads,
	})
}

// HandleExportLeads streams the lead table as an xlsx workbook.
func (h *AdminHandler) HandleExportLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.leadRepo.ListAll(r.Context(), 0)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list leads"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Leads"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Email", "Name", "Company", "Project Type", "Industry",
		"Budget", "Timeline", "Score", "Status", "Follow-Up Sent At", "Follow-Up Subject", "Created At"}
	for i, hd := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hd)
	}

	for row, l := range leads {
		values := []interface{}{
			l.ID, l.Email, l.Name, l.Company, l.ProjectType, l.Industry,
			l.BudgetRange, l.Timeline, l.QualificationScore, string(l.Status),
			formatTimePtr(l.FollowUpSentAt), l.FollowUpSubject,
			l.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("leads-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := f.Write(w); err != nil {
		// Headers are already out; nothing left to do but log via the caller's middleware.
		return
	}
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
