package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/edusuite/colegio/internal/academics"
	"github.com/edusuite/colegio/internal/models"
)

// Reports writes period and cycle closure workbooks into a directory.
// Implements academics.ReportSink.
type Reports struct {
	log *zap.SugaredLogger
	dir string
}

var _ academics.ReportSink = (*Reports)(nil)

func NewReports(log *zap.SugaredLogger, dir string) (*Reports, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Reports{log: log, dir: dir}, nil
}

func (r *Reports) PeriodReport(_ context.Context, period models.AcademicPeriod, rows []academics.PeriodReportRow) error {
	sheet := SheetSpec{
		Title:  "Periodo",
		Header: []string{"Estudiante", "Promedio", "Calificaciones"},
	}
	for _, row := range rows {
		sheet.Rows = append(sheet.Rows, []string{
			row.StudentName,
			formatAvg(row.Average),
			strconv.Itoa(row.Graded),
		})
	}
	f, err := BuildWorkbook([]SheetSpec{sheet})
	if err != nil {
		return err
	}
	path := filepath.Join(r.dir, sanitizeFileName(fmt.Sprintf("Reporte de periodo — %s.xlsx", period.Name)))
	if err := f.SaveAs(path); err != nil {
		return err
	}
	r.log.Infow("reporte de periodo generado", "period_id", period.ID, "path", path)
	return nil
}

func (r *Reports) CycleReport(_ context.Context, cycle models.AcademicCycle, summary academics.BatchSummary, rows []academics.OutcomeRow) error {
	resumen := SheetSpec{
		Title:  "Resumen",
		Header: []string{"Total", "Promovidos", "Repiten", "Graduados", "Errores"},
		Rows: [][]string{{
			strconv.Itoa(summary.Total),
			strconv.Itoa(summary.Promoted),
			strconv.Itoa(summary.Repeats),
			strconv.Itoa(summary.Graduated),
			strconv.Itoa(len(summary.Errors)),
		}},
	}
	detalle := SheetSpec{
		Title:  "Detalle",
		Header: []string{"Estudiante", "Curso", "Promedio", "Resultado", "Observaciones"},
	}
	for _, row := range rows {
		avg := "—"
		if row.Average != nil {
			avg = formatAvg(*row.Average)
		}
		detalle.Rows = append(detalle.Rows, []string{
			row.StudentName, row.CourseName, avg, string(row.Outcome), row.Remarks,
		})
	}
	sheets := []SheetSpec{resumen, detalle}
	if len(summary.Errors) > 0 {
		errores := SheetSpec{
			Title:  "Errores",
			Header: []string{"Estudiante", "Error"},
		}
		for _, e := range summary.Errors {
			errores.Rows = append(errores.Rows, []string{e.StudentName, e.Message})
		}
		sheets = append(sheets, errores)
	}

	f, err := BuildWorkbook(sheets)
	if err != nil {
		return err
	}
	path := filepath.Join(r.dir, sanitizeFileName(fmt.Sprintf("Cierre de ciclo — %s.xlsx", cycle.Name)))
	if err := f.SaveAs(path); err != nil {
		return err
	}
	r.log.Infow("reporte de ciclo generado", "cycle_id", cycle.ID, "path", path)
	return nil
}

func formatAvg(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
