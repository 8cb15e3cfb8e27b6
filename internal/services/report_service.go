package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/mail"
	"fintrack/internal/sheet"
	"fintrack/internal/storage"
)

// MailSender delivers one HTML message with attachments.
type MailSender interface {
	Enabled() bool
	Send(to, subject, htmlBody string, attachments ...mail.Attachment) error
}

// ReportService emails a user their monthly spending report with the
// month's workbook attached.
type ReportService struct {
	storage  *storage.SQLiteRepository
	engine   *analytics.Engine
	exporter sheet.WorkbookExporter
	mailer   MailSender
}

func NewReportService(storage *storage.SQLiteRepository, engine *analytics.Engine, exporter sheet.WorkbookExporter, mailer MailSender) *ReportService {
	return &ReportService{
		storage:  storage,
		engine:   engine,
		exporter: exporter,
		mailer:   mailer,
	}
}

// SendMonthlyReport computes the month's analytics and mails them to
// the user's registered address.
func (s *ReportService) SendMonthlyReport(ctx context.Context, userID int64, year, month int) error {
	if s.mailer == nil || !s.mailer.Enabled() {
		return fmt.Errorf("mail delivery not configured")
	}

	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if user.Email == "" {
		return fmt.Errorf("user %d has no email address", userID)
	}

	report := s.engine.Compute(ctx, userID, core.NewDate(year, month, 1).Time)

	var attachments []mail.Attachment
	if s.exporter != nil {
		data, err := s.exporter.Export(ctx, user.Username, year, month)
		if err != nil {
			return fmt.Errorf("export workbook: %w", err)
		}
		attachments = append(attachments, mail.Attachment{
			Filename: fmt.Sprintf("%s_%d.xlsx", time.Month(month).String(), year),
			Data:     data,
		})
	}

	subject := fmt.Sprintf("Spending report for %s %d", time.Month(month).String(), year)
	body := renderReportBody(user.Username, report)

	if err := s.mailer.Send(user.Email, subject, body, attachments...); err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	return nil
}

func renderReportBody(username string, r analytics.Report) string {
	monthName := time.Month(r.Month).String()
	total := core.Money{}
	if r.Month >= 1 && r.Month <= len(r.MonthlyTrend) {
		total = r.MonthlyTrend[r.Month-1].Total
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<html><body style=\"font-family: Arial, sans-serif;\">")
	fmt.Fprintf(&b, "<h2>%s %d</h2>", monthName, r.Year)
	fmt.Fprintf(&b, "<p>Hi %s, here is your monthly summary.</p>", username)
	fmt.Fprintf(&b, "<p><strong>Total spent:</strong> %s</p>", total)
	fmt.Fprintf(&b, "<p><strong>Daily average:</strong> %.2f</p>", r.DailyAverage/100)

	if len(r.Anomalies) > 0 {
		fmt.Fprintf(&b, "<h3>Unusual spending</h3><ul>")
		for _, a := range r.Anomalies {
			fmt.Fprintf(&b, "<li>%s: %s (%.1fx your recent average)</li>", a.Category, a.Current, a.Ratio)
		}
		fmt.Fprintf(&b, "</ul>")
	}

	if len(r.Recommendations) > 0 {
		fmt.Fprintf(&b, "<h3>Suggestions</h3><ul>")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "<li>%s</li>", rec.Text)
		}
		fmt.Fprintf(&b, "</ul>")
	}

	fmt.Fprintf(&b, "<p style=\"color: #888; font-size: 12px;\">The full workbook for the month is attached.</p>")
	fmt.Fprintf(&b, "</body></html>")
	return b.String()
}
