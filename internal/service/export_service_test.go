package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/locvowork/isms_status_exporter/internal/domain"
	"github.com/locvowork/isms_status_exporter/pkg/xlsxtemplate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubSource struct {
	policies    []domain.RawPolicyRecord
	evidences   []domain.RawEvidenceRecord
	policyErr   error
	evidenceErr error
}

func (s *stubSource) ScanPolicies(context.Context) ([]domain.RawPolicyRecord, error) {
	return s.policies, s.policyErr
}

func (s *stubSource) ScanEvidence(context.Context) ([]domain.RawEvidenceRecord, error) {
	return s.evidences, s.evidenceErr
}

type countingLoader struct {
	inner xlsxtemplate.Loader
	calls int
}

func (l *countingLoader) Load() (*xlsxtemplate.Workbook, error) {
	l.calls++
	return l.inner.Load()
}

func statusTemplate(t *testing.T, sheetNames ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", sheetNames[0]))
	for _, name := range sheetNames[1:] {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}
	rows := map[string][]string{
		ManagementSheetName: {"1.1.1", "1.1.2", "1.2.1"},
		ProtectionSheetName: {"2.1.1", "2.1.2"},
	}
	for _, name := range sheetNames {
		for i, id := range rows[name] {
			cell, err := excelize.JoinCellName("F", 3+i)
			require.NoError(t, err)
			require.NoError(t, f.SetCellStr(name, cell, id))
		}
	}
	// Activate the second sheet so the export has to reset it.
	f.SetActiveSheet(len(sheetNames) - 1)

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func sampleSource() *stubSource {
	return &stubSource{
		policies: []domain.RawPolicyRecord{
			{ISMSID: "1.1.1", Content: "정보보호 정책 수립", FullPath: "/policy/security.docx"},
			{ISMSID: "2.1.1", Content: "None", FullPath: "/policy/access.docx"},
		},
		evidences: []domain.RawEvidenceRecord{
			{ISMSItem: "2.1.1", FileName: "access_log.pdf", Reasons: []string{"서명 누락"}},
			{ISMSItem: "1.2.1", FileName: "none"},
		},
	}
}

func TestExportService_Export(t *testing.T) {
	src := sampleSource()
	loader := &countingLoader{inner: xlsxtemplate.BytesLoader(statusTemplate(t, ManagementSheetName, ProtectionSheetName))}
	svc := NewExportService(src, src, loader, DefaultReportLayout(), 0)

	buf, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, loader.calls)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, 0, f.GetActiveSheetIndex())

	v, err := f.GetCellValue(ManagementSheetName, "I3")
	require.NoError(t, err)
	assert.Equal(t, "정보보호 정책 수립", v)
	v, err = f.GetCellValue(ManagementSheetName, "J3")
	require.NoError(t, err)
	assert.Equal(t, "/policy/security.docx", v)

	runs, err := f.GetCellRichText(ProtectionSheetName, "I3")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "  access_log.pdf:\n", runs[0].Text)
	assert.Equal(t, "    - 서명 누락", runs[1].Text)
	v, err = f.GetCellValue(ProtectionSheetName, "K3")
	require.NoError(t, err)
	assert.Equal(t, "access_log.pdf", v)

	h, err := f.GetRowHeight(ManagementSheetName, 4)
	require.NoError(t, err)
	assert.Equal(t, 50.0, h)
	h, err = f.GetRowHeight(ManagementSheetName, 5)
	require.NoError(t, err)
	assert.Equal(t, 50.0, h)
	h, err = f.GetRowHeight(ManagementSheetName, 3)
	require.NoError(t, err)
	assert.Equal(t, 70.0, h)
}

func TestExportService_NoData(t *testing.T) {
	loader := &countingLoader{inner: xlsxtemplate.BytesLoader(nil)}
	svc := NewExportService(&stubSource{}, &stubSource{}, loader, DefaultReportLayout(), 0)

	buf, err := svc.Export(context.Background())
	assert.Nil(t, buf)
	assert.True(t, errors.Is(err, domain.ErrNoData))
	assert.Zero(t, loader.calls)
}

func TestExportService_MissingSheet(t *testing.T) {
	src := sampleSource()
	loader := xlsxtemplate.BytesLoader(statusTemplate(t, ManagementSheetName))
	svc := NewExportService(src, src, loader, DefaultReportLayout(), 0)

	_, err := svc.Export(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingTemplateSheet))
	assert.Contains(t, err.Error(), ProtectionSheetName)
}

func TestExportService_UpstreamFailure(t *testing.T) {
	boom := errors.New("connection refused")
	src := &stubSource{evidenceErr: boom}
	svc := NewExportService(src, src, xlsxtemplate.BytesLoader(nil), DefaultReportLayout(), 0)

	_, err := svc.Export(context.Background())
	require.Error(t, err)

	var fetchErr *domain.UpstreamFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, evidenceSourceName, fetchErr.Source)
	assert.True(t, errors.Is(err, boom))
}
