/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes config, daily records, monthly salary and backup operations over
  REST so a browser UI (or curl) can drive the same stores the CLI uses.

ENDPOINTS:
  Config:
    GET    /api/config                 Current config (defaults merged in)
    PUT    /api/config                 Replace config (missing fields take defaults)
    PATCH  /api/config                 Change only the fields sent
    POST   /api/config/reset           Back to defaults
    GET    /api/language               Display language for this client

  Records:
    GET    /api/records?month=YYYY-MM  All records, or one month
    GET    /api/records/{date}         One day
    PUT    /api/records/{date}         Create or replace one day
    DELETE /api/records/{date}         Remove one day (missing is fine)

  Salary:
    GET    /api/summary?month=YYYY-MM  CalculationResult (default: this month)
    GET    /api/totals?month=YYYY-MM   Hours per category
    GET    /api/history?months=N       Net/gross per month, oldest first

  Shift:
    GET    /api/shift/default          Weekly default shift
    PUT    /api/shift/default          Set it
    DELETE /api/shift/default          Clear it

  Data:
    GET    /api/export                 Snapshot download
    POST   /api/import                 Replace everything from a snapshot
    POST   /api/reset                  Delete everything

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (payroll.ValidateEntry for records)
  3. Call the store
  4. Serialize response

ERROR HANDLING:
  - 400: payroll.IsClientError (bad date, shift, hours, snapshot)
  - 404: Day or default shift not set
  - 500: Storage errors

SECURITY NOTE:
  No authentication. The server is meant to run on the worker's own machine.

SEE ALSO:
  - dto.go: Request/response data structures
  - events.go: Change notifications over SSE
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/horasett/payroll-engine/payroll"
)

// maxImportBytes bounds an uploaded snapshot.
const maxImportBytes = 10 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	svc           *payroll.Services
	historyMonths int

	// closed by CloseStreams to end open /api/events responses
	done      chan struct{}
	closeOnce sync.Once
}

// NewHandler creates a handler over svc. historyMonths is the default window
// for /api/history.
func NewHandler(svc *payroll.Services, historyMonths int) *Handler {
	if historyMonths < 1 {
		historyMonths = payroll.DefaultHistoryMonths
	}
	return &Handler{svc: svc, historyMonths: historyMonths, done: make(chan struct{})}
}

// CloseStreams ends every open event stream. http.Server.Shutdown does not
// cancel long-lived requests, so the server registers this with
// RegisterOnShutdown.
func (h *Handler) CloseStreams() {
	h.closeOnce.Do(func() { close(h.done) })
}

// =============================================================================
// CONFIG ENDPOINTS
// =============================================================================

func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Configs.Get(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to read config", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// ReplaceConfig stores the body merged over defaults, the same way a stored
// config is read back.
func (h *Handler) ReplaceConfig(w http.ResponseWriter, r *http.Request) {
	var patch payroll.ConfigPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cfg := payroll.DefaultConfig().Apply(patch)
	if err := h.svc.Configs.Save(r.Context(), cfg); err != nil {
		h.fail(w, r, "Failed to save config", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *Handler) PatchConfig(w http.ResponseWriter, r *http.Request) {
	var patch payroll.ConfigPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cfg, err := h.svc.Configs.Update(r.Context(), patch)
	if err != nil {
		h.fail(w, r, "Failed to update config", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *Handler) ResetConfig(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Configs.Reset(r.Context()); err != nil {
		h.fail(w, r, "Failed to reset config", err)
		return
	}
	writeJSON(w, http.StatusOK, payroll.DefaultConfig())
}

// GetLanguage resolves the display language from config and Accept-Language.
func (h *Handler) GetLanguage(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Configs.Get(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to read config", err)
		return
	}
	lang := payroll.ResolveLanguage(cfg, r.Header.Get("Accept-Language"))
	writeJSON(w, http.StatusOK, LanguageResponse{Language: lang})
}

// =============================================================================
// RECORD ENDPOINTS
// =============================================================================

func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	month := r.URL.Query().Get("month")
	if month == "" {
		records, err := h.svc.Records.All(ctx)
		if err != nil {
			h.fail(w, r, "Failed to list records", err)
			return
		}
		writeJSON(w, http.StatusOK, records)
		return
	}

	ym, err := payroll.ParseYearMonth(month)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return
	}
	records, err := h.svc.Records.ByMonth(ctx, ym)
	if err != nil {
		h.fail(w, r, "Failed to list records", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Records.ByDate(r.Context(), date)
	if err != nil {
		h.fail(w, r, "Failed to get record", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "No record for "+date.String(), nil)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// SaveRecord creates or replaces the record for the date in the URL.
func (h *Handler) SaveRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	shift, err := h.resolveShift(r, req.Shift)
	if err != nil {
		h.fail(w, r, "Invalid shift", err)
		return
	}

	rec := payroll.DailyRecord{
		Date:          date,
		NormalHours:   req.NormalHours,
		NightHours:    req.NightHours,
		HolidayHours:  req.HolidayHours,
		OvertimeHours: req.OvertimeHours,
		Notes:         req.Notes,
		Shift:         shift,
	}
	if err := payroll.ValidateEntry(rec); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid record", err)
		return
	}

	if err := h.svc.Records.Save(ctx, rec); err != nil {
		h.fail(w, r, "Failed to save record", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// resolveShift parses an explicit shift or falls back to the weekly default.
// An empty result is left for ValidateEntry to reject.
func (h *Handler) resolveShift(r *http.Request, raw string) (payroll.Shift, error) {
	if raw != "" {
		return payroll.ParseShift(raw)
	}
	shift, _, err := h.svc.Shifts.Default(r.Context())
	return shift, err
}

func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.Records.Delete(r.Context(), date); err != nil {
		h.fail(w, r, "Failed to delete record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SALARY ENDPOINTS
// =============================================================================

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ym, ok := h.monthParam(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Salaries.Month(r.Context(), ym)
	if err != nil {
		h.fail(w, r, "Failed to calculate salary", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	ym, ok := h.monthParam(w, r)
	if !ok {
		return
	}

	totals, err := h.svc.Records.MonthlyTotals(r.Context(), ym.Year, ym.Month)
	if err != nil {
		h.fail(w, r, "Failed to sum hours", err)
		return
	}
	writeJSON(w, http.StatusOK, TotalsResponse{
		Month:  ym.String(),
		Totals: totals,
		Total:  totals.Total(),
	})
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	months := h.historyMonths
	if raw := r.URL.Query().Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "months must be a positive integer", err)
			return
		}
		months = n
	}

	cfg, err := h.svc.Configs.Get(ctx)
	if err != nil {
		h.fail(w, r, "Failed to read config", err)
		return
	}
	lang := payroll.ResolveLanguage(cfg, r.Header.Get("Accept-Language"))

	history, err := h.svc.Salaries.History(ctx, months, lang)
	if err != nil {
		h.fail(w, r, "Failed to build history", err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// =============================================================================
// SHIFT ENDPOINTS
// =============================================================================

func (h *Handler) GetDefaultShift(w http.ResponseWriter, r *http.Request) {
	shift, found, err := h.svc.Shifts.Default(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to read default shift", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "No default shift this week", nil)
		return
	}
	writeJSON(w, http.StatusOK, ShiftResponse{Shift: shift})
}

func (h *Handler) SetDefaultShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	shift, err := payroll.ParseShift(req.Shift)
	if err != nil {
		h.fail(w, r, "Invalid shift", err)
		return
	}
	if err := h.svc.Shifts.SetDefault(r.Context(), shift); err != nil {
		h.fail(w, r, "Failed to set default shift", err)
		return
	}
	writeJSON(w, http.StatusOK, ShiftResponse{Shift: shift})
}

func (h *Handler) ClearDefaultShift(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Shifts.ClearDefault(r.Context()); err != nil {
		h.fail(w, r, "Failed to clear default shift", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DATA ENDPOINTS
// =============================================================================

// Export streams the snapshot as a download named after today's date.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Backup.Export(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to export", err)
		return
	}

	filename := fmt.Sprintf("horasett-backup-%s.json", snap.ExportDate.Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := h.svc.Backup.Import(r.Context(), body); err != nil {
		h.fail(w, r, "Import rejected", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Backup.Reset(r.Context()); err != nil {
		h.fail(w, r, "Failed to reset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func dateParam(w http.ResponseWriter, r *http.Request) (payroll.Date, bool) {
	date, err := payroll.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return payroll.Date{}, false
	}
	return date, true
}

// monthParam reads ?month=YYYY-MM, defaulting to the current month.
func (h *Handler) monthParam(w http.ResponseWriter, r *http.Request) (payroll.YearMonth, bool) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return h.svc.Records.CurrentMonth(), true
	}
	ym, err := payroll.ParseYearMonth(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return payroll.YearMonth{}, false
	}
	return ym, true
}

// fail maps err to 400 for caller mistakes and 500 for everything else.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	if payroll.IsClientError(err) {
		writeError(w, http.StatusBadRequest, message, err)
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Msg(message)
	writeError(w, http.StatusInternalServerError, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
