package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/conventory/internal/logging"
	"github.com/JonMunkholm/conventory/internal/metrics"
)

// ErrFileTooLarge is returned when an import exceeds the configured size.
var ErrFileTooLarge = errors.New("file too large")

// DefaultImportTimeout bounds a single import run.
const DefaultImportTimeout = 10 * time.Minute

// ServiceConfig holds the import limits applied by Service.
type ServiceConfig struct {
	MaxFileSize   int64         // Bytes; 0 disables the check
	MaxConcurrent int           // Runs executing at once
	MaxWait       time.Duration // How long a run waits for a slot
	Timeout       time.Duration // Per-run deadline
}

// Service is the caller-facing API for import, export and templates.
// It is safe for concurrent use; each import run gets its own resolver
// and reference cache.
type Service struct {
	store   Store
	limiter *ImportLimiter
	cfg     ServiceConfig
}

// NewService creates a Service over store.
func NewService(store Store, cfg ServiceConfig) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultImportTimeout
	}
	return &Service{
		store:   store,
		limiter: NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		cfg:     cfg,
	}
}

// Import parses, validates and imports text for tenantID.
//
// Row problems are reported in the result, not as an error. The error is
// non-nil only when the run could not start (size limit, limiter), when the
// file is malformed (*ParseError, nil result), or when the run was aborted
// (*PersistenceError or a context error, with the partial result).
func (s *Service) Import(ctx context.Context, tenantID uuid.UUID, text string, opts ImportOptions) (*ImportResult, error) {
	logger := logging.WithFields(ctx, "tenant_id", tenantID, "validate_only", opts.ValidateOnly)

	if s.cfg.MaxFileSize > 0 && int64(len(text)) > s.cfg.MaxFileSize {
		metrics.RecordImport(metrics.ImportRun{ValidateOnly: opts.ValidateOnly, Outcome: metrics.OutcomeRejected})
		return nil, fmt.Errorf("%w: %d bytes exceeds %d byte limit", ErrFileTooLarge, len(text), s.cfg.MaxFileSize)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		logger.Warn("import rejected", "error", err, "active", s.limiter.ActiveCount())
		metrics.RecordImport(metrics.ImportRun{ValidateOnly: opts.ValidateOnly, Outcome: metrics.OutcomeRejected})
		return nil, err
	}
	defer s.limiter.Release()
	metrics.ImportStarted()
	defer metrics.ImportFinished()

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	logger.Info("import started", "bytes", len(text))
	result, err := RunImport(runCtx, s.store, tenantID, text, opts)

	var parseErr *ParseError
	switch {
	case errors.As(err, &parseErr):
		logger.Warn("import rejected: malformed csv", "line", parseErr.Line, "error", parseErr.Err)
		metrics.RecordImport(metrics.ImportRun{ValidateOnly: opts.ValidateOnly, Outcome: metrics.OutcomeFailed})
		return nil, err
	case err != nil:
		logger.Error("import aborted",
			"error", err,
			"categories_added", result.Stats.CategoriesAdded,
			"locations_added", result.Stats.LocationsAdded,
			"items_added", result.Stats.ItemsAdded,
		)
		s.record(result, metrics.OutcomeFailed)
		return result, err
	}

	for _, e := range result.Errors {
		logger.Debug("import row error", "row", e.Row, "field", e.Field, "message", e.Message)
	}
	outcome := metrics.OutcomeSuccess
	if !result.Success {
		outcome = metrics.OutcomePartial
	}
	s.record(result, outcome)

	logger.Info("import finished",
		"success", result.Success,
		"rows", result.RowsProcessed,
		"errors", len(result.Errors),
		"categories_added", result.Stats.CategoriesAdded,
		"locations_added", result.Stats.LocationsAdded,
		"items_added", result.Stats.ItemsAdded,
		"duration", result.Duration,
	)
	return result, nil
}

func (s *Service) record(result *ImportResult, outcome string) {
	errRows := make(map[int]struct{})
	for _, e := range result.Errors {
		errRows[e.Row] = struct{}{}
	}
	metrics.RecordImport(metrics.ImportRun{
		ValidateOnly:    result.ValidateOnly,
		Outcome:         outcome,
		Duration:        result.Duration,
		RowsOK:          result.RowsProcessed - len(errRows),
		RowErrors:       len(errRows),
		CategoriesAdded: result.Stats.CategoriesAdded,
		LocationsAdded:  result.Stats.LocationsAdded,
		ItemsAdded:      result.Stats.ItemsAdded,
	})
}

// Export renders every item of tenantID as CSV.
func (s *Service) Export(ctx context.Context, tenantID uuid.UUID) (string, error) {
	items, err := s.store.ListItems(ctx, tenantID)
	if err != nil {
		return "", fmt.Errorf("list items: %w", err)
	}
	logging.FromContext(ctx).Info("export", "tenant_id", tenantID, "items", len(items))
	metrics.RecordExport()
	return Export(items), nil
}

// GenerateTemplate returns the import template.
func (s *Service) GenerateTemplate() string {
	return GenerateTemplate()
}

// WaitForImports blocks until running imports finish or ctx is done.
// Used during graceful shutdown.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// ImportStatus reports limiter usage for health endpoints.
func (s *Service) ImportStatus() LimiterStatus {
	return s.limiter.Status()
}
