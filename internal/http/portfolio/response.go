package portfolio

import (
	"time"

	"github.com/MrJamesThe3rd/folio/internal/portfolio"
)

type monthResponse struct {
	ID           int64  `json:"id"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	SnapshotDate string `json:"snapshot_date"`
}

type valueResponse struct {
	ID         int64     `json:"id"`
	MonthID    int64     `json:"month_id"`
	CategoryID int64     `json:"category_id"`
	Amount     string    `json:"amount"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type rowResponse struct {
	Year         int       `json:"year"`
	Month        int       `json:"month"`
	SnapshotDate string    `json:"snapshot_date"`
	CategoryName string    `json:"category_name"`
	Amount       string    `json:"amount"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type summaryResponse struct {
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	SnapshotDate  string `json:"snapshot_date"`
	CategoryCount int    `json:"category_count"`
	Total         string `json:"total"`
}

type statsResponse struct {
	Records      int    `json:"records"`
	UniqueMonths int    `json:"unique_months"`
	Total        string `json:"total"`
}

type portfolioResponse struct {
	Rows  []rowResponse `json:"rows"`
	Stats statsResponse `json:"stats"`
}

type dashboardResponse struct {
	Summary *summaryResponse `json:"summary"`
	Rows    []rowResponse    `json:"rows"`
}

type itemFailureResponse struct {
	CategoryID int64  `json:"category_id"`
	Error      string `json:"error"`
}

type snapshotResponse struct {
	MonthID  int64                 `json:"month_id"`
	Saved    int                   `json:"saved"`
	Skipped  int                   `json:"skipped"`
	Failed   int                   `json:"failed"`
	Failures []itemFailureResponse `json:"failures"`
}

func toMonthResponse(m *portfolio.Month) monthResponse {
	return monthResponse{
		ID:           m.ID,
		Year:         m.Year,
		Month:        m.Month,
		SnapshotDate: m.SnapshotDate.Format(time.DateOnly),
	}
}

func toValueResponse(v *portfolio.Value) valueResponse {
	return valueResponse{
		ID:         v.ID,
		MonthID:    v.MonthID,
		CategoryID: v.CategoryID,
		Amount:     v.Amount.StringFixed(2),
		UpdatedAt:  v.UpdatedAt,
	}
}

func toRowResponses(rows []*portfolio.Row) []rowResponse {
	resp := make([]rowResponse, len(rows))
	for i, r := range rows {
		resp[i] = rowResponse{
			Year:         r.Year,
			Month:        r.Month,
			SnapshotDate: r.SnapshotDate.Format(time.DateOnly),
			CategoryName: r.CategoryName,
			Amount:       r.Amount.StringFixed(2),
			UpdatedAt:    r.UpdatedAt,
		}
	}

	return resp
}

func toSummaryResponse(s *portfolio.Summary) *summaryResponse {
	if s == nil {
		return nil
	}

	return &summaryResponse{
		Year:          s.Year,
		Month:         s.Month,
		SnapshotDate:  s.SnapshotDate.Format(time.DateOnly),
		CategoryCount: s.CategoryCount,
		Total:         s.Total.StringFixed(2),
	}
}

func toSnapshotResponse(r *portfolio.SnapshotResult) snapshotResponse {
	resp := snapshotResponse{
		MonthID:  r.MonthID,
		Saved:    r.Saved,
		Skipped:  r.Skipped,
		Failed:   r.Failed(),
		Failures: make([]itemFailureResponse, 0, len(r.Failures)),
	}

	for _, f := range r.Failures {
		resp.Failures = append(resp.Failures, itemFailureResponse{CategoryID: f.CategoryID, Error: f.Err.Error()})
	}

	return resp
}
