package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	generate_excel "capacity-backend/internal/service/generate-excel"
	"capacity-backend/internal/storage"
)

type CapacityReportHandler interface {
	GenerateExcel(ctx context.Context, filter generate_excel.ReportFilter) ([]byte, error)
}

// GenerateReportExcel streams the machines-by-periods capacity workbook.
// Defaults: current month, weekly buckets.
func GenerateReportExcel(log *slog.Logger, gen CapacityReportHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.generate-report.GenerateReportExcel"

		fromStr := r.URL.Query().Get("from")
		toStr := r.URL.Query().Get("to")
		processType := r.URL.Query().Get("process_type")

		granularity := storage.Granularity(r.URL.Query().Get("granularity"))
		if granularity == "" {
			granularity = storage.GranularityWeekly
		}
		if !granularity.Valid() {
			http.Error(w, "invalid granularity", http.StatusBadRequest)
			return
		}

		now := time.Now().UTC()
		fDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		tDate := now

		if fromStr != "" {
			parsed, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				http.Error(w, "invalid from date", http.StatusBadRequest)
				return
			}
			fDate = parsed
		}
		if toStr != "" {
			parsed, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				http.Error(w, "invalid to date", http.StatusBadRequest)
				return
			}
			tDate = parsed
		}

		filter := generate_excel.ReportFilter{
			From:        fDate.UnixMilli(),
			To:          tDate.UnixMilli(),
			ProcessType: processType,
			Granularity: granularity,
		}

		// Workbooks take longer than the usual 5s.
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, filter)
		if err != nil {
			log.Error("failed to generate excel", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("Capacity_Report_%s.xlsx", time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
