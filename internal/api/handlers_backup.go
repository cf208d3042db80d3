package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/marlowe/fabula/internal/backup"
)

// ExportBackup handles GET /backup/export: the full versioned JSON
// document, served as a download.
func (h *Handler) ExportBackup(w http.ResponseWriter, _ *http.Request) {
	data, err := backup.Export(h.svc.Snapshot(), time.Now())
	if err != nil {
		writeOpError(w, err)
		return
	}
	name := fmt.Sprintf("story-timeline-backup-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ExportText handles GET /backup/export/text: the plain-text outline.
func (h *Handler) ExportText(w http.ResponseWriter, _ *http.Request) {
	snap := h.svc.Snapshot()
	name := fmt.Sprintf("story-timeline-%s.txt", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(backup.ExportText(snap, time.Now()))
}

// ImportBackup handles POST /backup/import. The document is validated as
// a whole; a failing document is rejected and the current state is left
// untouched.
func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 50<<20)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("read body failed"))
		return
	}
	snap, err := backup.Import(raw)
	if err != nil {
		var verr *backup.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errResponse{
				Error:   "backup validation failed",
				Details: verr.Errors,
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	h.svc.Replace(snap)
	w.WriteHeader(http.StatusNoContent)
}
