package analytics

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"hostal/pkg/config"
	"hostal/pkg/kafka"
	"hostal/pkg/logger"
	"hostal/pkg/mail"
	"hostal/pkg/model"
)

type memBookingReader struct {
	bookings []*model.Booking
	err      error
}

func (m *memBookingReader) FindByCheckInWindow(_ context.Context, _, _ time.Time) ([]*model.Booking, error) {
	return m.bookings, m.err
}

type memReviewReader struct {
	reviews []*model.Review
	err     error
}

func (m *memReviewReader) FindByCreatedWindow(_ context.Context, _, _ time.Time) ([]*model.Review, error) {
	return m.reviews, m.err
}

type memReportStore struct {
	reports     map[string]*model.Report
	upsertCalls int
	err         error
}

func newMemReportStore() *memReportStore {
	return &memReportStore{reports: make(map[string]*model.Report)}
}

func (m *memReportStore) Upsert(_ context.Context, report *model.Report) error {
	if m.err != nil {
		return m.err
	}
	m.upsertCalls++
	m.reports[report.Date] = report
	return nil
}

func (m *memReportStore) FindByDate(_ context.Context, date string) (*model.Report, error) {
	report, ok := m.reports[date]
	if !ok {
		return nil, errors.New("report not found")
	}
	return report, nil
}

type mockNotifier struct {
	reportRecipients []string
	reportSent       *model.Report
	reportMetrics    []mail.MetricRow
	reportErr        error

	failureRecipients []string
	failureStage      string
	failureCause      error
}

func (m *mockNotifier) SendDailyReport(to []string, report *model.Report, metrics []mail.MetricRow) error {
	m.reportRecipients = to
	m.reportSent = report
	m.reportMetrics = metrics
	return m.reportErr
}

func (m *mockNotifier) SendPipelineFailure(to []string, stage string, cause error) error {
	m.failureRecipients = to
	m.failureStage = stage
	m.failureCause = cause
	return nil
}

type mockPublisher struct {
	messages []kafka.Message
	err      error
}

func (m *mockPublisher) Publish(_ context.Context, msg kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msg)
	return nil
}

type pipelineFixture struct {
	pipeline  *Pipeline
	bookings  *memBookingReader
	reviews   *memReviewReader
	reports   *memReportStore
	notifier  *mockNotifier
	publisher *mockPublisher
}

func newPipelineFixture() *pipelineFixture {
	cfg := &config.Config{
		Log:              logger.New(logger.Config{Output: io.Discard}),
		ReportRecipients: []string{"manager@hostalmagic.com"},
		OperatorEmail:    "ops@hostalmagic.com",
	}

	f := &pipelineFixture{
		bookings:  &memBookingReader{},
		reviews:   &memReviewReader{},
		reports:   newMemReportStore(),
		notifier:  &mockNotifier{},
		publisher: &mockPublisher{},
	}
	f.pipeline = NewPipeline(f.bookings, f.reviews, f.reports, f.notifier, f.publisher, cfg)
	return f
}

func defaultParams() Params {
	return Params{
		Start:      day("2026-08-01"),
		End:        day("2026-08-29"),
		DataSource: "bookings",
	}
}

func TestPipelineRunHappyPath(t *testing.T) {
	f := newPipelineFixture()
	f.bookings.bookings = []*model.Booking{
		stay("a@example.com", "dorm", "2026-08-05", 2, 50, 10),
		stay("b@example.com", "double", "2026-08-10", 3, 195, 4),
	}
	f.reviews.reviews = []*model.Review{
		review("Amazing stay, great location"),
	}

	report, err := f.pipeline.Run(context.Background(), defaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Date != "2026-08-29" {
		t.Errorf("expected report keyed by window end, got %s", report.Date)
	}
	if report.Occupancy.TotalBookings != 2 || report.Occupancy.TotalRevenue != 245 {
		t.Errorf("unexpected occupancy: %+v", report.Occupancy)
	}
	if report.Sentiment == nil || report.Sentiment.TotalReviews != 1 {
		t.Errorf("expected sentiment for 1 review, got %+v", report.Sentiment)
	}

	if f.reports.reports["2026-08-29"] == nil {
		t.Error("expected report persisted by date")
	}

	if len(f.notifier.reportRecipients) != 1 || f.notifier.reportRecipients[0] != "manager@hostalmagic.com" {
		t.Errorf("unexpected report recipients: %v", f.notifier.reportRecipients)
	}
	if f.notifier.reportSent != report {
		t.Error("expected the generated report in the email")
	}
	if len(f.notifier.reportMetrics) == 0 {
		t.Error("expected summary metric rows in the email")
	}

	if len(f.publisher.messages) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(f.publisher.messages))
	}
	msg := f.publisher.messages[0]
	if msg.Key != "2026-08-29" {
		t.Errorf("expected event keyed by report date, got %s", msg.Key)
	}
	if msg.GetEventType() != "report_generated" {
		t.Errorf("unexpected event type: %s", msg.GetEventType())
	}
	var published model.Report
	if err := msg.DecodeValue(&published); err != nil {
		t.Fatalf("failed to decode published report: %v", err)
	}
	if published.Date != report.Date {
		t.Errorf("published report date %s, want %s", published.Date, report.Date)
	}

	if f.notifier.failureStage != "" {
		t.Errorf("no failure email expected, got stage %s", f.notifier.failureStage)
	}
}

func TestPipelineRejectsInvalidWindow(t *testing.T) {
	f := newPipelineFixture()
	params := defaultParams()
	params.Start, params.End = params.End, params.Start

	_, err := f.pipeline.Run(context.Background(), params)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != "validate" {
		t.Errorf("expected validate stage error, got %v", err)
	}
	if f.reports.upsertCalls != 0 {
		t.Error("nothing should be persisted on invalid input")
	}
	if f.notifier.failureStage != "validate" {
		t.Errorf("expected failure email for validate stage, got %q", f.notifier.failureStage)
	}
	if len(f.notifier.failureRecipients) != 1 || f.notifier.failureRecipients[0] != "ops@hostalmagic.com" {
		t.Errorf("failure email should go to the operator, got %v", f.notifier.failureRecipients)
	}
}

func TestPipelineRejectsMissingDataSource(t *testing.T) {
	f := newPipelineFixture()
	params := defaultParams()
	params.DataSource = ""

	if _, err := f.pipeline.Run(context.Background(), params); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestPipelineExtractFailure(t *testing.T) {
	f := newPipelineFixture()
	f.bookings.err = errors.New("connection reset by peer")

	_, err := f.pipeline.Run(context.Background(), defaultParams())
	if err == nil {
		t.Fatal("expected extract error")
	}

	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != "extract" {
		t.Errorf("expected extract stage error, got %v", err)
	}
	if f.reports.upsertCalls != 0 {
		t.Error("nothing should be persisted when extraction fails")
	}
	if f.notifier.failureStage != "extract" {
		t.Errorf("expected failure email for extract stage, got %q", f.notifier.failureStage)
	}
}

func TestPipelinePersistFailure(t *testing.T) {
	f := newPipelineFixture()
	f.reports.err = errors.New("write concern error")

	_, err := f.pipeline.Run(context.Background(), defaultParams())

	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != "persist" {
		t.Errorf("expected persist stage error, got %v", err)
	}
	if f.notifier.reportSent != nil {
		t.Error("report email should not be sent when persistence fails")
	}
}

func TestPipelineNotifyFailureStillPersists(t *testing.T) {
	f := newPipelineFixture()
	f.notifier.reportErr = errors.New("smtp unavailable")

	_, err := f.pipeline.Run(context.Background(), defaultParams())

	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != "notify" {
		t.Errorf("expected notify stage error, got %v", err)
	}
	if f.reports.reports["2026-08-29"] == nil {
		t.Error("report should persist even when notification fails")
	}
	if f.notifier.failureStage != "notify" {
		t.Errorf("expected failure email for notify stage, got %q", f.notifier.failureStage)
	}
}

func TestPipelineRerunReplacesReport(t *testing.T) {
	f := newPipelineFixture()
	f.bookings.bookings = []*model.Booking{
		stay("a@example.com", "dorm", "2026-08-05", 2, 50, 10),
	}

	if _, err := f.pipeline.Run(context.Background(), defaultParams()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if _, err := f.pipeline.Run(context.Background(), defaultParams()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if f.reports.upsertCalls != 2 {
		t.Errorf("expected 2 upserts, got %d", f.reports.upsertCalls)
	}
	if len(f.reports.reports) != 1 {
		t.Errorf("expected a single report for the date, got %d", len(f.reports.reports))
	}
}
