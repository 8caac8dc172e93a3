package portfolio

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/folio/internal/http/render"
	"github.com/MrJamesThe3rd/folio/internal/portfolio"
)

type Handler struct {
	svc *portfolio.Service
}

func NewHandler(svc *portfolio.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/months", func(r chi.Router) {
		r.Get("/", h.listMonths)
		r.Post("/", h.getOrCreateMonth)
		r.Get("/{year}/{month}/summary", h.summary)
	})
	r.Put("/values", h.saveValue)
	r.Post("/snapshots", h.saveSnapshot)
	r.Get("/portfolio", h.rows)
	r.Get("/dashboard/{year}/{month}", h.dashboard)
}

func (h *Handler) listMonths(w http.ResponseWriter, r *http.Request) {
	months, err := h.svc.Months(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := make([]monthResponse, len(months))
	for i, m := range months {
		resp[i] = toMonthResponse(m)
	}

	render.JSON(w, http.StatusOK, resp)
}

type monthRequest struct {
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	SnapshotDate string `json:"snapshot_date"`
}

func (h *Handler) getOrCreateMonth(w http.ResponseWriter, r *http.Request) {
	var req monthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := parseSnapshotDate(req.SnapshotDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.svc.GetOrCreateMonth(r.Context(), req.Year, req.Month, date)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toMonthResponse(m))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s, err := h.svc.Summary(r.Context(), year, month)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if s == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	render.JSON(w, http.StatusOK, toSummaryResponse(s))
}

type valueRequest struct {
	MonthID    int64           `json:"month_id"`
	CategoryID int64           `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
}

func (h *Handler) saveValue(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Amount.IsNegative() {
		render.Error(w, r, portfolio.ErrNegativeAmount)
		return
	}

	v := &portfolio.Value{MonthID: req.MonthID, CategoryID: req.CategoryID, Amount: req.Amount}
	if err := h.svc.SaveValue(r.Context(), v); err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toValueResponse(v))
}

type snapshotItem struct {
	CategoryID int64           `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type snapshotRequest struct {
	Year         int            `json:"year"`
	Month        int            `json:"month"`
	SnapshotDate string         `json:"snapshot_date"`
	Items        []snapshotItem `json:"items"`
}

func (h *Handler) saveSnapshot(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := parseSnapshotDate(req.SnapshotDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := portfolio.SnapshotParams{Year: req.Year, Month: req.Month, SnapshotDate: date}
	for _, it := range req.Items {
		params.Items = append(params.Items, portfolio.ItemAmount{CategoryID: it.CategoryID, Amount: it.Amount})
	}

	result, err := h.svc.SaveSnapshot(r.Context(), params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toSnapshotResponse(result))
}

func (h *Handler) rows(w http.ResponseWriter, r *http.Request) {
	filter, err := FilterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := h.svc.Rows(r.Context(), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	stats := portfolio.ComputeStats(rows)

	render.JSON(w, http.StatusOK, portfolioResponse{
		Rows: toRowResponses(rows),
		Stats: statsResponse{
			Records:      stats.Records,
			UniqueMonths: stats.UniqueMonths,
			Total:        stats.Total.StringFixed(2),
		},
	})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d, err := h.svc.Dashboard(r.Context(), year, month)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, dashboardResponse{
		Summary: toSummaryResponse(d.Summary),
		Rows:    toRowResponses(d.Rows),
	})
}

// FilterFromQuery reads the optional year and month query parameters.
func FilterFromQuery(r *http.Request) (portfolio.RowFilter, error) {
	var filter portfolio.RowFilter

	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return filter, fmt.Errorf("invalid year %q", s)
		}

		filter.Year = new(y)
	}

	if s := r.URL.Query().Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil {
			return filter, fmt.Errorf("invalid month %q", s)
		}

		filter.Month = new(m)
	}

	return filter, nil
}

func periodParams(r *http.Request) (int, int, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q", chi.URLParam(r, "year"))
	}

	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q", chi.URLParam(r, "month"))
	}

	return year, month, nil
}

// parseSnapshotDate defaults to today when s is empty.
func parseSnapshotDate(s string) (time.Time, error) {
	if s == "" {
		y, m, d := time.Now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid snapshot_date %q: expected YYYY-MM-DD", s)
	}

	return t, nil
}
