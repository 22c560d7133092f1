package formatter

import (
	"fmt"
	"time"

	"github.com/hinoue/evmkit/internal/domain"
)

func fmtDate(t *time.Time) string {
	if t == nil {
		return Dim("-")
	}
	return t.Format("2006-01-02")
}

func fmtHours(h *float64) string {
	if h == nil {
		return Dim("-")
	}
	return fmt.Sprintf("%.1f", *h)
}

// FormatWorkItems renders a work-item listing.
func FormatWorkItems(items []*domain.WorkItem) string {
	rows := make([][]string, 0, len(items))
	for _, w := range items {
		status := string(w.Status)
		if w.Closed() {
			status = StyleGreen.Render(status)
		}
		rows = append(rows, []string{
			shortID(w.ID),
			w.Subject,
			w.Assignee,
			fmtDate(w.StartDate),
			fmtDate(w.DueDate),
			fmtHours(w.EstimatedHours),
			fmt.Sprintf("%d%%", w.DoneRatio),
			status,
		})
	}
	return RenderTableAligned(
		[]string{"ID", "SUBJECT", "ASSIGNEE", "START", "DUE", "EST", "DONE", "STATUS"},
		rows,
		[]bool{false, false, false, false, false, true, true, false},
	)
}

// FormatIncomplete renders overdue open items relative to a basis date.
func FormatIncomplete(items []*domain.WorkItem, asOf time.Time) string {
	header := Header(fmt.Sprintf("Incomplete as of %s", asOf.Format("2006-01-02")))
	if len(items) == 0 {
		return header + "\n\n" + StyleGreen.Render("Nothing overdue.") + "\n"
	}
	return header + "\n\n" + FormatWorkItems(items)
}

// FormatRates renders the hourly-rate table.
func FormatRates(records []*domain.HourlyRateRecord) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		scope := Dim("global")
		if r.ProjectID != nil {
			scope = *r.ProjectID
		}
		end := StyleYellow.Render("open")
		if r.EndDate != nil {
			end = r.EndDate.Format("2006-01-02")
		}
		rows = append(rows, []string{
			shortID(r.ID),
			r.UserID,
			scope,
			fmt.Sprintf("%.2f", r.Rate),
			r.EffectiveDate.Format("2006-01-02"),
			end,
			r.Comment,
		})
	}
	return RenderTableAligned(
		[]string{"ID", "MEMBER", "SCOPE", "RATE", "FROM", "TO", "COMMENT"},
		rows,
		[]bool{false, false, false, true, false, false, false},
	)
}

// FormatBaselines renders baseline snapshot headers.
func FormatBaselines(snaps []*domain.BaselineSnapshot) string {
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, []string{
			shortID(s.ID),
			s.Subject,
			s.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return RenderTable([]string{"ID", "SUBJECT", "CAPTURED"}, rows)
}

// FormatBaselineDetail renders one snapshot with its frozen items.
func FormatBaselineDetail(s *domain.BaselineSnapshot) string {
	out := Header(fmt.Sprintf("Baseline %q", s.Subject)) + "\n\n"
	rows := make([][]string, 0, len(s.Items))
	for _, item := range s.Items {
		rows = append(rows, []string{
			shortID(item.WorkItemID),
			item.Subject,
			fmtDate(item.StartDate),
			fmtDate(item.DueDate),
			fmtHours(item.EstimatedHours),
		})
	}
	return out + RenderTableAligned(
		[]string{"ITEM", "SUBJECT", "START", "DUE", "EST"},
		rows,
		[]bool{false, false, false, false, true},
	)
}

// shortID truncates a uuid for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
