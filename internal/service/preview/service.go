// Package preview executes cross-sheet preview queries: it resolves the
// selected sheets through the catalog, loads their rows, hash-joins them in
// memory, then filters, projects, and stringifies the result.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"gridlake/internal/domain"
)

// Service wires the preview pipeline to the catalog and row sources.
// The metrics recorder is optional.
type Service struct {
	catalog domain.SheetCatalog
	rows    domain.RowSource
	metrics domain.MetricsRecorder
	logger  *slog.Logger
}

func NewService(catalog domain.SheetCatalog, rows domain.RowSource, metrics domain.MetricsRecorder, logger *slog.Logger) *Service {
	return &Service{
		catalog: catalog,
		rows:    rows,
		metrics: metrics,
		logger:  logger.With("component", "preview"),
	}
}

// resolvedSheet pairs a selection with its catalog record.
type resolvedSheet struct {
	selection SheetSelection
	sheet     *domain.SheetSource
}

// Preview runs one preview request end to end. Input problems surface as
// domain.ValidationError and unreadable sheet data as
// domain.SourceUnavailableError; degradations inside a succeeding preview
// (stale sheets, join-type mismatches) come back as warnings instead.
func (s *Service) Preview(ctx context.Context, req Request) (*Result, error) {
	if len(req.Sheets) == 0 {
		return nil, domain.ErrValidation("At least one sheet must be selected.")
	}
	if len(req.Projections) == 0 {
		return nil, domain.ErrValidation("At least one projection must be provided.")
	}

	start := time.Now()
	warnings := []string{}

	// Resolve selections in request order. The primary is the first
	// selection explicitly marked primary, or the first selection.
	resolved := make(map[string]resolvedSheet, len(req.Sheets))
	var primaryAlias string
	primaryMarked := false
	for i, sel := range req.Sheets {
		if _, dup := resolved[sel.Alias]; dup {
			return nil, domain.ErrValidation("Duplicate sheet alias '%s'.", sel.Alias)
		}
		sheet, err := s.catalog.Resolve(ctx, sel.SheetID)
		if err != nil {
			return nil, err
		}
		if sheet == nil {
			return nil, domain.ErrValidation("Sheet '%s' not found.", sel.SheetID)
		}
		if sheet.Status != domain.SheetStatusActive {
			warnings = append(warnings, fmt.Sprintf("Sheet '%s' (%s) is %s.", sel.Alias, sheet.DisplayLabel, sheet.Status))
		}
		resolved[sel.Alias] = resolvedSheet{selection: sel, sheet: sheet}

		if i == 0 {
			primaryAlias = sel.Alias
		}
		if !primaryMarked && sel.Role == domain.SheetRolePrimary {
			primaryAlias = sel.Alias
			primaryMarked = true
		}
	}
	primary := resolved[primaryAlias]

	// Validate every join before touching join-sheet data.
	var joins []resolvedSheet
	for _, sel := range req.Sheets {
		if sel.Alias == primaryAlias {
			continue
		}
		if sel.Role == domain.SheetRoleUnion {
			return nil, domain.ErrValidation("Union operations are not supported in preview mode.")
		}
		if sel.Role == domain.SheetRoleJoin && len(sel.JoinKeys) == 0 {
			return nil, domain.ErrValidation("Join keys required for alias '%s'.", sel.Alias)
		}
		target := resolved[sel.Alias]
		joinWarnings, err := ValidateJoinKeys(primary.sheet.Columns, target.sheet.Columns, sel.JoinKeys, primaryAlias, sel.Alias)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, joinWarnings...)
		joins = append(joins, target)
	}

	primaryRows, err := s.rows.Load(ctx, primary.selection.SheetID)
	if err != nil {
		return nil, err
	}
	combined := make([]combinedRow, 0, len(primaryRows))
	for _, row := range primaryRows {
		combined = append(combined, combinedRow{primaryAlias: row})
	}

	// Join targets load concurrently, but only when there is anything to
	// join against. Per-slot errors keep the report deterministic: the
	// first failure in request order wins, not the first to finish.
	if len(combined) > 0 && len(joins) > 0 {
		joinRowSets := make([][]domain.Row, len(joins))
		loadErrs := make([]error, len(joins))
		var g errgroup.Group
		for i, target := range joins {
			g.Go(func() error {
				joinRowSets[i], loadErrs[i] = s.rows.Load(ctx, target.selection.SheetID)
				return nil
			})
		}
		_ = g.Wait()
		for _, err := range loadErrs {
			if err != nil {
				return nil, err
			}
		}

		for i, target := range joins {
			combined, err = joinCombined(combined, joinRowSets[i], primaryAlias, target.selection)
			if err != nil {
				return nil, err
			}
		}
	}

	combined, err = applyFilters(combined, req.Filters, resolved)
	if err != nil {
		return nil, err
	}

	// Projections parse once each, in request order, before any execution;
	// mixing is checked only after every projection parsed.
	parsed := make([]Expression, len(req.Projections))
	var hasScalar, hasAggregate bool
	for i, p := range req.Projections {
		expr, err := parseProjection(p.Expression, primaryAlias, resolved)
		if err != nil {
			return nil, err
		}
		parsed[i] = expr
		if _, ok := expr.(ScalarExpr); ok {
			hasScalar = true
		} else {
			hasAggregate = true
		}
	}
	if hasScalar && hasAggregate {
		return nil, domain.ErrValidation("Cannot mix aggregate and scalar projections in preview.")
	}

	dataRows := [][]string{}
	if hasAggregate {
		cells, err := executeAggregates(parsed, combined)
		if err != nil {
			return nil, err
		}
		dataRows = append(dataRows, cells)
	} else if len(combined) > 0 {
		dataRows = projectScalars(parsed, combined)

		// The limit applies to scalar previews only; the single aggregate
		// row always comes back whole.
		if req.Limit != nil {
			limit := *req.Limit
			if limit < 0 {
				limit = 0
			}
			if limit < len(dataRows) {
				dataRows = dataRows[:limit]
			}
		}
	}

	headers := make([]string, len(req.Projections))
	for i, p := range req.Projections {
		headers[i] = p.Label
	}

	result := &Result{
		Headers:     headers,
		Rows:        dataRows,
		Warnings:    warnings,
		ExecutionMS: time.Since(start).Seconds() * 1000.0,
		RowCount:    len(dataRows),
	}
	s.logger.Debug("preview executed", "sheets", len(req.Sheets), "rows", result.RowCount, "duration_ms", result.ExecutionMS)
	s.recordMetrics(ctx, req, result)
	return result, nil
}

// recordMetrics attributes the preview duration to every selected sheet.
// Best-effort: a recorder failure downgrades to a warning log.
func (s *Service) recordMetrics(ctx context.Context, req Request, result *Result) {
	if s.metrics == nil {
		return
	}
	sheetIDs := make([]string, len(req.Sheets))
	for i, sel := range req.Sheets {
		sheetIDs[i] = sel.SheetID
	}
	sample := domain.PreviewSample{
		SheetIDs:   sheetIDs,
		DurationMS: result.ExecutionMS,
		RowCount:   result.RowCount,
		RecordedAt: time.Now().UTC(),
	}
	if err := s.metrics.RecordPreview(ctx, sample); err != nil {
		s.logger.Warn("record preview metrics", "error", err)
	}
}
