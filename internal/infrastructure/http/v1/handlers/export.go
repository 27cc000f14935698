package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tradereg/internal/domain/export"
)

// pdfPageWidth is the printable width in points for landscape A4 reports.
const pdfPageWidth = 780.0

// ExportHandler streams catalog and record exports. The table build is shared;
// only the final encoding differs per endpoint.
type ExportHandler struct {
	*BaseHandler
	service  *export.Service
	renderer export.PDFRenderer
}

// NewExportHandler creates an export handler. The renderer may be nil; the
// PDF route only registers when one is wired.
func NewExportHandler(base *BaseHandler, service *export.Service, renderer export.PDFRenderer) *ExportHandler {
	return &ExportHandler{BaseHandler: base, service: service, renderer: renderer}
}

func (h *ExportHandler) tableQuery(c *gin.Context) export.TableQuery {
	q := export.TableQuery{
		Kind:   c.Param("kind"),
		Search: c.Query("search"),
		Limit:  h.ParseIntQuery(c, "limit", 0),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if fields := c.Query("fields"); fields != "" {
		for _, key := range strings.Split(fields, ",") {
			if key = strings.TrimSpace(key); key != "" {
				q.FieldKeys = append(q.FieldKeys, key)
			}
		}
	}
	return q
}

// CSV handles GET /export/:kind/csv - UTF-8 CSV with BOM, cells neutralized
// against spreadsheet formula execution.
func (h *ExportHandler) CSV(c *gin.Context) {
	q := h.tableQuery(c)

	table, err := h.service.BuildTable(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+export.CSVFilename(q.Kind)+`"`)
	c.Status(http.StatusOK)

	if err := export.WriteCSV(c.Writer, table); err != nil {
		// Headers are out; log through the error chain, do not rewrite the body.
		_ = c.Error(err)
	}
}

// Table handles GET /export/:kind/table - the format-agnostic table as JSON,
// for clients that render their own output.
func (h *ExportHandler) Table(c *gin.Context) {
	table, err := h.service.BuildTable(c.Request.Context(), h.tableQuery(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, table)
}

// PDF handles GET /export/:kind/pdf - delegated to the wired renderer.
func (h *ExportHandler) PDF(c *gin.Context) {
	q := h.tableQuery(c)

	table, err := h.service.BuildTable(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}

	opts := export.PDFLayout(q.Kind+" export", pdfPageWidth, table)
	opts.Filters = export.FilterSummary(q.Kind, q.Search, q.FieldKeys)

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="`+q.Kind+`_export.pdf"`)
	c.Status(http.StatusOK)

	if err := h.renderer.Render(c.Request.Context(), c.Writer, table, opts); err != nil {
		_ = c.Error(err)
	}
}

// RegisterRoutes wires the export routes.
func (h *ExportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:kind/csv", h.CSV)
	rg.GET("/:kind/table", h.Table)
	if h.renderer != nil {
		rg.GET("/:kind/pdf", h.PDF)
	}
}
