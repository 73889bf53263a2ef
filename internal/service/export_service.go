package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/locvowork/isms_status_exporter/internal/aggregator"
	"github.com/locvowork/isms_status_exporter/internal/domain"
	"github.com/locvowork/isms_status_exporter/internal/logger"
	"github.com/locvowork/isms_status_exporter/internal/mapper"
	"github.com/locvowork/isms_status_exporter/pkg/xlsxtemplate"
	"golang.org/x/sync/errgroup"
)

const (
	policySourceName   = "UserSelectedDocuments"
	evidenceSourceName = "Evidence_Metadata"
)

// ExportService builds the ISMS status workbook.
type ExportService struct {
	policies     domain.PolicyRecordSource
	evidences    domain.EvidenceRecordSource
	templates    xlsxtemplate.Loader
	layout       ReportLayout
	mapper       *mapper.TemplateMapper
	fetchTimeout time.Duration
}

// NewExportService creates an ExportService. A zero fetchTimeout disables the
// fetch deadline.
func NewExportService(
	policies domain.PolicyRecordSource,
	evidences domain.EvidenceRecordSource,
	templates xlsxtemplate.Loader,
	layout ReportLayout,
	fetchTimeout time.Duration,
) *ExportService {
	return &ExportService{
		policies:     policies,
		evidences:    evidences,
		templates:    templates,
		layout:       layout,
		mapper:       mapper.New(layout.Rows),
		fetchTimeout: fetchTimeout,
	}
}

// Export fetches both record collections, aggregates them and returns the
// filled template serialized as xlsx. Nothing is returned unless every step
// succeeded.
func (s *ExportService) Export(ctx context.Context) (*bytes.Buffer, error) {
	policies, evidences, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(policies) == 0 && len(evidences) == 0 {
		return nil, domain.ErrNoData
	}
	logger.InfoLog(ctx, "fetched %d policy records and %d evidence records", len(policies), len(evidences))

	items := aggregator.Aggregate(policies, evidences)
	logger.DebugLog(ctx, "aggregated %d ISMS items", len(items))

	wb, err := s.templates.Load()
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	defer wb.Close()

	sheets := make(map[string]*xlsxtemplate.Sheet, len(s.layout.Sheets))
	for _, route := range s.layout.Sheets {
		sheet, err := wb.Sheet(route.Name)
		if err != nil {
			if errors.Is(err, xlsxtemplate.ErrSheetNotFound) {
				return nil, fmt.Errorf("%w: %q", domain.ErrMissingTemplateSheet, route.Name)
			}
			return nil, err
		}
		sheets[route.Name] = sheet
	}

	parts := s.layout.Partition(items)
	var g errgroup.Group
	for name, sheet := range sheets {
		name, sheet := name, sheet
		g.Go(func() error {
			if err := s.mapper.MapToRows(sheet, parts[name]); err != nil {
				var rowErr *domain.RowProcessingError
				if errors.As(err, &rowErr) {
					logger.ErrorLog(logger.WithRow(ctx, rowErr.Sheet, rowErr.Row), "mapping row failed: %v", err)
				}
				return err
			}
			logger.DebugLog(ctx, "mapped %d items into sheet %q", len(parts[name]), name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	wb.ActivateFirstSheet()
	return wb.WriteToBuffer()
}

func (s *ExportService) fetch(ctx context.Context) ([]domain.RawPolicyRecord, []domain.RawEvidenceRecord, error) {
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	var (
		policies  []domain.RawPolicyRecord
		evidences []domain.RawEvidenceRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		policies, err = s.policies.ScanPolicies(gctx)
		if err != nil {
			return &domain.UpstreamFetchError{Source: policySourceName, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		evidences, err = s.evidences.ScanEvidence(gctx)
		if err != nil {
			return &domain.UpstreamFetchError{Source: evidenceSourceName, Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return policies, evidences, nil
}
