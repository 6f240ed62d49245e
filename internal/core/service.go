package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/StefanEhlert/chefsnumbers/internal/catalog"
	"github.com/StefanEhlert/chefsnumbers/internal/config"
	"github.com/StefanEhlert/chefsnumbers/internal/logging"
)

// Service runs catalog imports against a store.
type Service struct {
	store       catalog.Store
	limiter     *ImportLimiter
	maxFileSize int64
	timeout     time.Duration
}

// NewService creates a Service. Import runs are limited to
// cfg.MaxConcurrent at a time.
func NewService(store catalog.Store, cfg config.ImportConfig) *Service {
	return &Service{
		store:       store,
		limiter:     NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		maxFileSize: cfg.MaxFileSize,
		timeout:     cfg.Timeout,
	}
}

// Limiter exposes the run limiter for status output and shutdown draining.
func (s *Service) Limiter() *ImportLimiter {
	return s.limiter
}

// ImportPlan is the outcome of mapping, normalizing, reconciling and merging
// a parsed file, before anything is written.
type ImportPlan struct {
	Mapping FieldMapping
	Merge   MergeResult
	Notes   []RowNote
}

// PlanImport maps every row of parsed with the default mapping plus
// overrides, reconciles the drafts and merges them against idx. It is pure:
// the same inputs always give the same plan, apart from new supplier ids.
func PlanImport(parsed *ParsedFile, overrides FieldMapping, idx *CatalogIndex) (*ImportPlan, error) {
	mapping, err := DefaultMapping(parsed.Headers).WithOverrides(parsed.Headers, overrides)
	if err != nil {
		return nil, err
	}

	plan := &ImportPlan{Mapping: mapping}
	drafts := make([]ArticleDraft, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		d, note := Reconcile(BuildDraft(row, mapping))
		if note != "" {
			plan.Notes = append(plan.Notes, RowNote{Line: d.Line, Name: d.Name, Message: note})
		}
		drafts = append(drafts, d)
	}

	plan.Merge = Resolve(NewImportContext(idx), drafts)
	return plan, nil
}

// Parse checks the size of raw, decodes it and tokenizes it. A non-empty
// enc forces the decoding.
func (s *Service) Parse(fileName string, raw []byte, enc Encoding) (*ParsedFile, error) {
	if len(raw) == 0 {
		return nil, &IOError{FileName: fileName, Err: ErrEmptyFile}
	}
	if s.maxFileSize > 0 && int64(len(raw)) > s.maxFileSize {
		return nil, &IOError{FileName: fileName, Err: fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(raw), s.maxFileSize)}
	}

	text := DetectEncoding(raw)
	if enc != "" {
		forced, err := DecodeAs(raw, enc)
		if err != nil {
			return nil, err
		}
		text = forced
	}

	return ParseFile(fileName, text)
}

// Snapshot reads the catalog index for one run.
func (s *Service) Snapshot(ctx context.Context) (*CatalogIndex, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	names, err := s.store.ListArticleNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	suppliers, err := s.store.ListSuppliers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return NewCatalogIndex(names, suppliers), nil
}

// Preview runs every stage except the write and reports what an import
// would do.
func (s *Service) Preview(ctx context.Context, fileName string, raw []byte, opts ImportOptions) (*ImportResult, error) {
	parsed, err := s.Parse(fileName, raw, opts.Encoding)
	if err != nil {
		return nil, err
	}
	return s.PreviewParsed(ctx, fileName, parsed, opts.Mapping)
}

// PreviewParsed previews an already tokenized file, so a caller can try
// different mappings without re-reading it.
func (s *Service) PreviewParsed(ctx context.Context, fileName string, parsed *ParsedFile, overrides FieldMapping) (*ImportResult, error) {
	start := time.Now()
	result := newResult(fileName, parsed)
	result.DryRun = true
	log := logging.WithFields(ctx, "import_id", result.ImportID, "file", fileName)

	idx, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := PlanImport(parsed, overrides, idx)
	if err != nil {
		return nil, err
	}

	result.apply(plan)
	result.Articles = plan.Merge.Accepted
	result.NewSuppliers = plan.Merge.NewSuppliers
	result.Outcome = ImportOutcome{
		ImportedCount:         len(plan.Merge.Accepted),
		SkippedCount:          len(plan.Merge.Skipped),
		SuppliersCreatedCount: len(plan.Merge.NewSuppliers),
	}
	result.Duration = time.Since(start)

	log.Info("import preview", "rows", len(parsed.Rows), "accepted", result.Outcome.ImportedCount,
		"skipped", result.Outcome.SkippedCount)
	return result, nil
}

// Import runs the full pipeline and commits the result.
func (s *Service) Import(ctx context.Context, fileName string, raw []byte, opts ImportOptions) (*ImportResult, error) {
	parsed, err := s.Parse(fileName, raw, opts.Encoding)
	if err != nil {
		return nil, err
	}
	return s.ImportParsed(ctx, fileName, parsed, opts.Mapping)
}

// ImportParsed imports an already tokenized file.
func (s *Service) ImportParsed(ctx context.Context, fileName string, parsed *ParsedFile, overrides FieldMapping) (*ImportResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	start := time.Now()
	result := newResult(fileName, parsed)
	log := logging.WithFields(ctx, "import_id", result.ImportID, "file", fileName)
	log.Info("import started", "format", parsed.Format, "rows", len(parsed.Rows))
	log.Debug("file decoded", "encoding", parsed.Encoding, "delimiter", string(parsed.Delimiter))

	idx, err := s.Snapshot(ctx)
	if err != nil {
		log.Error("import failed", "stage", "snapshot", "error", err)
		return nil, err
	}
	plan, err := PlanImport(parsed, overrides, idx)
	if err != nil {
		return nil, err
	}
	result.apply(plan)

	execCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	outcome, err := Execute(execCtx, s.store, plan.Merge)
	if err != nil {
		log.Error("import failed", "stage", "execute", "error", err)
		return nil, err
	}

	result.Outcome = outcome
	result.Duration = time.Since(start)
	log.Info("import completed",
		"imported", outcome.ImportedCount,
		"skipped", outcome.SkippedCount,
		"suppliers_created", outcome.SuppliersCreatedCount,
		"duration", result.Duration,
	)
	return result, nil
}

// ImportReader reads the file from r and imports it. Read failures and
// files over the size limit are reported as IOError.
func (s *Service) ImportReader(ctx context.Context, fileName string, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	raw, err := s.ReadFile(fileName, r)
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, fileName, raw, opts)
}

// ReadFile reads at most the configured maximum file size from r.
func (s *Service) ReadFile(fileName string, r io.Reader) ([]byte, error) {
	if s.maxFileSize > 0 {
		r = io.LimitReader(r, s.maxFileSize+1)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &IOError{FileName: fileName, Err: err}
	}
	if s.maxFileSize > 0 && int64(len(raw)) > s.maxFileSize {
		return nil, &IOError{FileName: fileName, Err: fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.maxFileSize)}
	}
	return raw, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func newResult(fileName string, parsed *ParsedFile) *ImportResult {
	r := &ImportResult{
		ImportID: uuid.NewString(),
		FileName: fileName,
		Format:   parsed.Format,
		Encoding: parsed.Encoding,
		Headers:  parsed.Headers,
		Skipped:  []SkippedRow{},
		Notes:    []RowNote{},
	}
	if parsed.Format == FormatCSV {
		r.Delimiter = string(parsed.Delimiter)
	}
	return r
}

func (r *ImportResult) apply(plan *ImportPlan) {
	r.Mapping = plan.Mapping
	if plan.Merge.Skipped != nil {
		r.Skipped = plan.Merge.Skipped
	}
	if plan.Notes != nil {
		r.Notes = plan.Notes
	}
}
