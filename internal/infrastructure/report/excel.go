// Package report renders closing reports into downloadable artifacts.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of the rendered workbook
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Reporte"

// Renderer turns a report description into an artifact
type Renderer interface {
	Render(ctx context.Context, r *entity.Report) (*entity.Artifact, error)
}

type excelRenderer struct {
	loc *time.Location
}

// NewExcelRenderer creates a renderer that writes one xlsx sheet per report.
// Dates are printed in loc.
func NewExcelRenderer(loc *time.Location) Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &excelRenderer{loc: loc}
}

func (e *excelRenderer) Render(ctx context.Context, r *entity.Report) (*entity.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r == nil || r.Title == "" {
		return nil, fmt.Errorf("report title is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, err
	}
	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, row: 1}
	w.put(1, r.Title)
	w.style(titleStyle, 1)
	w.next()
	if r.Subtitle != "" {
		w.put(1, r.Subtitle)
		w.next()
	}
	w.put(1, "Fecha: "+r.Date.In(e.loc).Format("2006-01-02 15:04"))
	w.next()

	width := 1
	for _, section := range r.Sections {
		w.next()
		if section.Title != "" {
			w.put(1, section.Title)
			w.style(boldStyle, 1)
			w.next()
		}
		if len(section.Header) > 0 {
			for i, h := range section.Header {
				w.put(i+1, h)
			}
			w.style(boldStyle, len(section.Header))
			w.next()
			width = max(width, len(section.Header))
		}
		for _, row := range section.Rows {
			for i, cell := range row {
				w.put(i+1, cellValue(cell, e.loc))
			}
			width = max(width, len(row))
			w.next()
		}
	}
	if r.Note != "" {
		w.next()
		w.put(1, r.Note)
	}
	if w.err != nil {
		return nil, w.err
	}

	last, err := excelize.ColumnNumberToName(width)
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "A", last, 20); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return &entity.Artifact{
		Name:        FileName(r, e.loc),
		ContentType: ContentTypeXLSX,
		Data:        buf.Bytes(),
	}, nil
}

// FileName derives a stable artifact name from the report title and date
func FileName(r *entity.Report, loc *time.Location) string {
	base := utils.Slugify(r.Title + " " + r.Subtitle)
	if base == "" {
		base = "reporte"
	}
	return fmt.Sprintf("%s-%s.xlsx", base, r.Date.In(loc).Format("20060102-150405"))
}

func cellValue(v any, loc *time.Location) any {
	switch val := v.(type) {
	case decimal.Decimal:
		return val.InexactFloat64()
	case *decimal.Decimal:
		if val == nil {
			return ""
		}
		return val.InexactFloat64()
	case time.Time:
		return val.In(loc).Format("2006-01-02 15:04")
	case fmt.Stringer:
		return val.String()
	}
	return v
}

type sheetWriter struct {
	f   *excelize.File
	row int
	err error
}

func (w *sheetWriter) put(col int, value any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(sheetName, cell, value)
}

func (w *sheetWriter) style(id, cols int) {
	if w.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, w.row)
	last, _ := excelize.CoordinatesToCellName(cols, w.row)
	w.err = w.f.SetCellStyle(sheetName, first, last, id)
}

func (w *sheetWriter) next() {
	w.row++
}
