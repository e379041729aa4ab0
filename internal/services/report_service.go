package services

import (
	"context"
	"fmt"
	"io"

	"github.com/kval-tools/assessment_backend/internal/insight"
	"github.com/kval-tools/assessment_backend/internal/models"
	"github.com/kval-tools/assessment_backend/internal/report"
	"github.com/kval-tools/assessment_backend/internal/scoring"
)

// ReportService computes scores and assembles exportable reports
// #INTEGRATION_POINT: Used by report handler; pipeline is score -> narrate -> assemble
type ReportService interface {
	// Scores computes the aggregate for a session without narratives
	Scores(ctx context.Context, sessionID string) (*models.Aggregate, error)

	// Report builds the full exportable report for a completed session.
	// When useAI is false the deterministic narrative backend is used even if
	// an AI backend is configured.
	Report(ctx context.Context, sessionID string, useAI bool) (*models.ExportableResult, error)

	// WriteJSON writes a report as indented JSON
	WriteJSON(w io.Writer, result *models.ExportableResult) error

	// WriteCSV writes a report as a flat CSV score table
	WriteCSV(w io.Writer, result *models.ExportableResult) error

	// NarrativeBackend names the configured narrative backend
	NarrativeBackend() string
}

// reportService implements ReportService
type reportService struct {
	sessionSvc SessionService
	catalogSvc CatalogService
	generator  *insight.Generator
	template   *insight.Generator
}

// NewReportService creates a new report service. backend may be nil, in which
// case every narrative comes from the deterministic template backend.
func NewReportService(
	sessionSvc SessionService,
	catalogSvc CatalogService,
	backend insight.TextBackend,
) ReportService {
	return &reportService{
		sessionSvc: sessionSvc,
		catalogSvc: catalogSvc,
		generator:  insight.NewGenerator(backend),
		template:   insight.NewGenerator(nil),
	}
}

// Scores computes the aggregate for a session without narratives
func (s *reportService) Scores(ctx context.Context, sessionID string) (*models.Aggregate, error) {
	session, err := s.sessionSvc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalogSvc.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	return scoring.Compute(catalog, session.Answers)
}

// Report builds the full exportable report for a completed session
// #BUSINESS_RULE: Reports are only produced for completed sessions so scores
// cannot change after the respondent has seen them
func (s *reportService) Report(ctx context.Context, sessionID string, useAI bool) (*models.ExportableResult, error) {
	session, err := s.sessionSvc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsCompleted() {
		return nil, models.ErrSessionIncomplete
	}

	catalog, err := s.catalogSvc.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	agg, err := scoring.Compute(catalog, session.Answers)
	if err != nil {
		return nil, err
	}

	gen := s.generator
	if !useAI {
		gen = s.template
	}

	sections, err := gen.Generate(ctx, agg, catalog, session)
	if err != nil {
		return nil, fmt.Errorf("failed to generate narratives: %w", err)
	}

	return report.Assemble(agg, sections, session.Respondent)
}

// WriteJSON writes a report as indented JSON
func (s *reportService) WriteJSON(w io.Writer, result *models.ExportableResult) error {
	return report.ExportJSON(w, result)
}

// WriteCSV writes a report as a flat CSV score table
func (s *reportService) WriteCSV(w io.Writer, result *models.ExportableResult) error {
	return report.ExportCSV(w, result)
}

// NarrativeBackend names the configured narrative backend
func (s *reportService) NarrativeBackend() string {
	return s.generator.BackendName()
}
