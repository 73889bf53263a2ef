package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/isms_status_exporter/internal/domain"
	"github.com/locvowork/isms_status_exporter/internal/logger"
	"github.com/locvowork/isms_status_exporter/internal/service/serviceutils"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFileName  = "ISMS_Status.xlsx"
)

// Exporter produces the status workbook.
type Exporter interface {
	Export(ctx context.Context) (*bytes.Buffer, error)
}

type ExportHandler struct {
	svc         Exporter
	development bool
}

// NewExportHandler creates the download handler. With development set, 500
// responses carry the full error chain.
func NewExportHandler(svc Exporter, development bool) *ExportHandler {
	return &ExportHandler{svc: svc, development: development}
}

// DownloadExcelHandler handles GET /api/download-excel
func (h *ExportHandler) DownloadExcelHandler(c echo.Context) error {
	ctx := c.Request().Context()

	buf, err := h.svc.Export(ctx)
	if err != nil {
		return h.respondExportError(c, err)
	}

	header := c.Response().Header()
	header.Set(echo.HeaderContentType, xlsxContentType)
	header.Set(echo.HeaderContentDisposition, contentDisposition(exportFileName))
	header.Set("Cache-Control", "no-cache")
	header.Set(echo.HeaderContentLength, strconv.Itoa(buf.Len()))
	c.Response().WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(c.Response()); err != nil {
		logger.ErrorLog(ctx, "writing export response failed: %v", err)
	}
	return nil
}

func (h *ExportHandler) respondExportError(c echo.Context, err error) error {
	ctx := c.Request().Context()

	if errors.Is(err, domain.ErrNoData) {
		logger.WarnLog(ctx, "export requested but no records were found")
		return serviceutils.ResponseError(c, http.StatusNotFound, "No data found to export", err)
	}

	msg := "Failed to generate Excel file"
	if errors.Is(err, domain.ErrMissingTemplateSheet) {
		msg = "Excel template is malformed"
	}
	logger.ErrorLog(ctx, "export failed: %v", err)

	if h.development {
		return serviceutils.ResponseErrorDetail(c, http.StatusInternalServerError, msg, err, errorChain(err))
	}
	return serviceutils.ResponseError(c, http.StatusInternalServerError, msg, err)
}

// HealthHandler handles GET /healthz
func HealthHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", nil)
}

// contentDisposition builds an attachment header with both the plain and the
// RFC 5987 file name. Both carry the percent-encoded name so the plain value
// stays a valid header token.
func contentDisposition(name string) string {
	encoded := encodeExtValue(name)
	return fmt.Sprintf("attachment; filename=%s; filename*=UTF-8''%s", encoded, encoded)
}

// encodeExtValue percent-encodes every byte outside the RFC 5987 attr-char set.
func encodeExtValue(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}

// errorChain renders every error in the wrap chain, outermost first.
func errorChain(err error) string {
	var parts []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		parts = append(parts, fmt.Sprintf("%T: %v", e, e))
	}
	return strings.Join(parts, "\n")
}
