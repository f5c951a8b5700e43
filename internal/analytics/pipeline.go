package analytics

import (
	"context"
	"fmt"
	"time"

	"hostal/internal/analytics/repository"
	"hostal/pkg/config"
	"hostal/pkg/kafka"
	"hostal/pkg/mail"
	"hostal/pkg/model"
)

const forecastHorizonDays = 30

// Params bounds one pipeline run.
type Params struct {
	Start      time.Time
	End        time.Time
	DataSource string
}

// Notifier sends the report and failure emails.
type Notifier interface {
	SendDailyReport(to []string, report *model.Report, metrics []mail.MetricRow) error
	SendPipelineFailure(to []string, stage string, cause error) error
}

// Publisher announces completed reports on the analytics topic.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// StageError records which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageFail(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

type Pipeline struct {
	bookings  repository.BookingReader
	reviews   repository.ReviewReader
	reports   repository.ReportRepository
	notifier  Notifier
	publisher Publisher
	cfg       *config.Config
}

func NewPipeline(
	bookings repository.BookingReader,
	reviews repository.ReviewReader,
	reports repository.ReportRepository,
	notifier Notifier,
	publisher Publisher,
	cfg *config.Config,
) *Pipeline {
	return &Pipeline{
		bookings:  bookings,
		reviews:   reviews,
		reports:   reports,
		notifier:  notifier,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Run executes the stages in order. Any stage failure short-circuits, emails
// the operator and returns the stage error.
func (p *Pipeline) Run(ctx context.Context, params Params) (*model.Report, error) {
	report, err := p.run(ctx, params)
	if err != nil {
		p.handleFailure(err)
		return nil, err
	}
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, params Params) (*model.Report, error) {
	log := p.cfg.Log

	if err := p.validate(params); err != nil {
		return nil, stageFail("validate", err)
	}
	log.Info("Pipeline input validated",
		"window_start", params.Start.Format(model.DateLayout),
		"window_end", params.End.Format(model.DateLayout),
		"data_source", params.DataSource)

	bookings, err := p.bookings.FindByCheckInWindow(ctx, params.Start, params.End)
	if err != nil {
		return nil, stageFail("extract", err)
	}
	reviews, err := p.reviews.FindByCreatedWindow(ctx, params.Start, params.End)
	if err != nil {
		return nil, stageFail("extract", err)
	}
	log.Info("Window extracted", "bookings", len(bookings), "reviews", len(reviews))

	records := BuildDataset(bookings)
	occupancy := ComputeOccupancy(records)
	customers := AnalyzeCustomers(records)
	forecast := Forecast(BuildDailySeries(records), forecastHorizonDays)
	sentiment := AnalyzeSentiment(reviews)

	report := &model.Report{
		Date:        params.End.Format(model.DateLayout),
		WindowStart: params.Start.Format(model.DateLayout),
		WindowEnd:   params.End.Format(model.DateLayout),
		DataSource:  params.DataSource,
		Occupancy:   occupancy,
		Customers:   customers,
		Forecast:    forecast,
		Sentiment:   sentiment,
		Insights:    BuildInsights(occupancy, customers),
		Alerts:      BuildAlerts(occupancy),
		GeneratedAt: time.Now().UTC(),
	}

	if err := p.reports.Upsert(ctx, report); err != nil {
		return nil, stageFail("persist", err)
	}
	log.Info("Report persisted", "date", report.Date, "alerts", len(report.Alerts))

	if err := p.notify(ctx, report); err != nil {
		return nil, stageFail("notify", err)
	}

	log.Info("Pipeline run completed", "date", report.Date)
	return report, nil
}

func (p *Pipeline) validate(params Params) error {
	if params.Start.IsZero() || params.End.IsZero() {
		return fmt.Errorf("window start and end are required")
	}
	if !params.Start.Before(params.End) {
		return fmt.Errorf("window start must be before end")
	}
	if params.DataSource == "" {
		return fmt.Errorf("data source tag is required")
	}
	return nil
}

func (p *Pipeline) notify(ctx context.Context, report *model.Report) error {
	metrics := []mail.MetricRow{
		{Label: "Total Bookings", Value: fmt.Sprintf("%d", report.Occupancy.TotalBookings)},
		{Label: "Total Revenue", Value: fmt.Sprintf("$%.2f", report.Occupancy.TotalRevenue)},
		{Label: "Total Nights", Value: fmt.Sprintf("%d", report.Occupancy.TotalNights)},
		{Label: "Unique Customers", Value: fmt.Sprintf("%d", report.Customers.UniqueCustomers)},
		{Label: "Repeat Rate", Value: fmt.Sprintf("%.1f%%", report.Customers.RepeatRatePct)},
	}

	if err := p.notifier.SendDailyReport(p.cfg.ReportRecipients, report, metrics); err != nil {
		return fmt.Errorf("failed to send report email: %w", err)
	}

	if p.publisher != nil {
		msg := kafka.NewMessage().
			WithKey(report.Date).
			WithValue(report).
			WithEventType("report_generated").
			WithSource("analytics").
			Build()
		if err := p.publisher.Publish(ctx, msg); err != nil {
			return fmt.Errorf("failed to publish report event: %w", err)
		}
	}
	return nil
}

// handleFailure emails the operator. Best effort: a failure here only logs.
func (p *Pipeline) handleFailure(err error) {
	stage := "unknown"
	if stageErr, ok := err.(*StageError); ok {
		stage = stageErr.Stage
	}
	p.cfg.Log.Error("Pipeline run failed", "stage", stage, "error", err)

	if p.cfg.OperatorEmail == "" {
		return
	}
	if mailErr := p.notifier.SendPipelineFailure([]string{p.cfg.OperatorEmail}, stage, err); mailErr != nil {
		p.cfg.Log.Error("Failed to send pipeline failure email", "error", mailErr)
	}
}
