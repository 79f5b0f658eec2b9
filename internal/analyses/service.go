package analyses

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"wound-backend/internal/ledger"
	"wound-backend/internal/shared/metrics"
	"wound-backend/internal/shared/telemetry"
	"wound-backend/internal/vision"
)

// AnalyzeRequest is the validated inbound payload for one classification.
type AnalyzeRequest struct {
	Image              string
	ModelID            string
	IdentificationCode string
	Patient            PatientContext
}

// AnalyzeResponse is the assembled outcome of one pipeline run.
type AnalyzeResponse struct {
	AnalysisID  string
	Provider    string
	Outcome     string
	Result      ClassificationResult
	SheetStatus string
}

// Service orchestrates the classification pipeline: validation, prompt
// composition, provider dispatch, safety fallback, normalization, and
// fault-isolated persistence.
type Service struct {
	Providers *vision.Registry
	Ledger    ledger.Sink
	Repo      Repo
	Models    map[string]string

	sem *semaphore.Weighted
}

// NewService constructs a Service. maxConcurrent caps in-flight provider
// calls; the hosted providers rate-limit on their side and nothing else in
// the pipeline shields against that.
func NewService(providers *vision.Registry, sink ledger.Sink, repo Repo, models map[string]string, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Service{
		Providers: providers,
		Ledger:    sink,
		Repo:      repo,
		Models:    models,
		sem:       semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Analyze runs the full pipeline for one request. A content-policy refusal
// never surfaces as an error: it degrades to the blocked sentinel and the
// pipeline continues so the refusal lands in the audit ledger. Ledger and
// history failures surface only through SheetStatus and logs.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (AnalyzeResponse, error) {
	if strings.TrimSpace(req.Image) == "" {
		return AnalyzeResponse{}, ErrImageRequired
	}

	metrics.IncClassificationStarted()
	start := time.Now()

	prompt := ComposePrompt(req.Patient)
	client, providerID := s.Providers.Resolve(req.ModelID)

	raw, err := s.classify(ctx, client, req.Image, prompt)

	outcome := OutcomeNormal
	var result ClassificationResult
	switch {
	case err == nil:
		result, err = Normalize(raw)
		if err != nil {
			metrics.IncClassificationFailed()
			return AnalyzeResponse{}, err
		}
	case vision.IsSafetyBlocked(err):
		telemetry.Warn("analysis.safety_blocked", map[string]any{
			"provider":            providerID,
			"identification_code": req.IdentificationCode,
			"error":               err.Error(),
		})
		result = BlockedResult()
		outcome = OutcomeBlocked
		metrics.IncClassificationBlocked()
	default:
		metrics.IncClassificationFailed()
		return AnalyzeResponse{}, err
	}

	sheetStatus := s.Ledger.Append(ctx, buildRecord(req, result, client.Label(), outcome))

	analysis := Analysis{
		ID:                 uuid.NewString(),
		IdentificationCode: req.IdentificationCode,
		Provider:           providerID,
		Model:              s.Models[providerID],
		Outcome:            outcome,
		Result:             result,
		SheetStatus:        sheetStatus,
		CreatedAt:          time.Now().UTC(),
	}
	if s.Repo != nil {
		if err := s.Repo.Create(ctx, analysis); err != nil {
			// History is a mirror of the ledger; its failure never fails the request.
			telemetry.Error("analysis.history_write_failed", map[string]any{
				"analysis_id": analysis.ID,
				"error":       err.Error(),
			})
		}
	}

	metrics.IncClassificationCompleted()
	metrics.ObserveClassificationDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)

	return AnalyzeResponse{
		AnalysisID:  analysis.ID,
		Provider:    providerID,
		Outcome:     outcome,
		Result:      result,
		SheetStatus: sheetStatus,
	}, nil
}

func (s *Service) classify(ctx context.Context, client vision.Client, image, prompt string) (string, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.sem.Release(1)
	return client.Classify(ctx, image, prompt)
}

// Get returns one stored analysis by id.
func (s *Service) Get(ctx context.Context, analysisID string) (Analysis, error) {
	return s.Repo.GetByID(ctx, analysisID)
}

// List returns recent analyses, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Analysis, error) {
	return s.Repo.ListRecent(ctx, limit, offset)
}

func buildRecord(req AnalyzeRequest, result ClassificationResult, providerLabel, outcome string) ledger.Record {
	marker := ledger.OutcomeNormal
	if outcome == OutcomeBlocked {
		marker = ledger.OutcomeBlocked
	}
	return ledger.Record{
		Timestamp:          time.Now(),
		IdentificationCode: req.IdentificationCode,
		Etiology:           result.Etiology,
		Tissue:             result.Tissue,
		Exudate:            result.Exudate,
		InfectionSigns:     result.InfectionSigns,
		PeriwoundSkin:      result.PeriwoundSkin,
		DressingObjective:  result.DressingObjective,
		PrimaryDressing:    result.PrimaryDressing,
		ProviderLabel:      providerLabel,
		Outcome:            marker,
	}
}
