package generate_excel

import (
	"context"
	"fmt"
	"math"

	"capacity-backend/internal/service/schedule"
	"capacity-backend/internal/storage"

	"github.com/xuri/excelize/v2"
)

type CapacityReportStorage interface {
	GetMachines(ctx context.Context, processType string, facilityID *int64) ([]storage.Machine, error)
	GetJobsInWindow(ctx context.Context, startMs, endMs int64) ([]storage.ScheduledJob, error)
}

type CapacityReportService struct {
	storage CapacityReportStorage
}

func NewCapacityReportService(storage CapacityReportStorage) *CapacityReportService {
	return &CapacityReportService{storage: storage}
}

// ReportFilter narrows the capacity report. Dates are epoch milliseconds,
// both inclusive.
type ReportFilter struct {
	From        int64
	To          int64
	ProcessType string
	Granularity storage.Granularity
}

// GenerateExcel renders a machines-by-periods quantity matrix for the
// window. A job scheduled on several machines contributes an even share of
// its daily quantity to each.
func (g *CapacityReportService) GenerateExcel(ctx context.Context, filter ReportFilter) ([]byte, error) {
	const op = "service.generate-excel.GenerateExcel"

	machines, err := g.storage.GetMachines(ctx, filter.ProcessType, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch machines: %w", op, err)
	}
	jobs, err := g.storage.GetJobsInWindow(ctx, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch jobs: %w", op, err)
	}

	periods, err := schedule.CalculatePeriods(filter.From, filter.To, filter.Granularity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cells, err := buildMatrix(machines, jobs, periods)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Capacity"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	totalStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "top", Color: "000000", Style: 1}},
	})

	headers := []string{"Machine", "Process"}
	for _, p := range periods {
		headers = append(headers, p.Label)
	}
	headers = append(headers, "Total")
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	colTotals := make([]int, len(periods))
	for row, m := range machines {
		rowTotal := 0
		f.SetCellValue(sheet, mustCell(1, row+2), m.Name)
		f.SetCellValue(sheet, mustCell(2, row+2), m.ProcessTypeKey)
		for col := range periods {
			qty := cells[m.ID][col]
			f.SetCellValue(sheet, mustCell(col+3, row+2), qty)
			rowTotal += qty
			colTotals[col] += qty
		}
		f.SetCellValue(sheet, mustCell(len(periods)+3, row+2), rowTotal)
	}

	totalRow := len(machines) + 2
	f.SetCellValue(sheet, mustCell(1, totalRow), "Total")
	grand := 0
	for col, sum := range colTotals {
		f.SetCellValue(sheet, mustCell(col+3, totalRow), sum)
		grand += sum
	}
	f.SetCellValue(sheet, mustCell(len(periods)+3, totalRow), grand)
	last := mustCell(len(periods)+3, totalRow)
	f.SetCellStyle(sheet, mustCell(1, totalRow), last, totalStyle)

	f.SetColWidth(sheet, "A", "A", 24)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: write workbook: %w", op, err)
	}
	return buf.Bytes(), nil
}

// buildMatrix folds every job's weekly split down to days and accumulates
// them into machine rows and report columns. Explicit accumulator keyed by
// machine id so iteration order never shows up in the output.
func buildMatrix(machines []storage.Machine, jobs []storage.ScheduledJob, periods []storage.Period) (map[int64][]int, error) {
	acc := make(map[int64][]float64, len(machines))
	for _, m := range machines {
		acc[m.ID] = make([]float64, len(periods))
	}

	for _, job := range jobs {
		if len(job.MachinesID) == 0 {
			continue
		}
		days, err := schedule.DailyQuantities(job.WeeklySplit, job.StartDate, job.DueDate)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", job.ID, err)
		}
		share := 1.0 / float64(len(job.MachinesID))

		for _, machineID := range job.MachinesID {
			row, ok := acc[machineID]
			if !ok {
				continue
			}
			for _, d := range days {
				for col, p := range periods {
					if d.Date >= p.StartDate && d.Date <= p.EndDate {
						row[col] += d.Quantity * share
						break
					}
				}
			}
		}
	}

	cells := make(map[int64][]int, len(acc))
	for id, row := range acc {
		out := make([]int, len(row))
		for col, v := range row {
			out[col] = int(math.Round(v))
		}
		cells[id] = out
	}

	return cells, nil
}

func mustCell(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}
