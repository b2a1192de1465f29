package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"capacity-backend/internal/service/schedule"
	"capacity-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ScheduleEditor interface {
	EditPeriod(ctx context.Context, jobID int64, granularity storage.Granularity, editedIndex, newValue int, allowBackward bool) ([]storage.Period, error)
	ResetJob(ctx context.Context, jobID int64) ([]storage.Period, error)
}

type editRequest struct {
	Granularity   storage.Granularity `json:"granularity"`
	EditedIndex   int                 `json:"edited_index"`
	NewValue      int                 `json:"new_value"`
	AllowBackward bool                `json:"allow_backward"`
}

// EditJobPeriod applies one cell edit at the view granularity and returns
// the redistributed view.
func EditJobPeriod(log *slog.Logger, editor ScheduleEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.update.EditJobPeriod"

		idStr := chi.URLParam(r, "jobID")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid job ID", http.StatusBadRequest)
			return
		}

		var req editRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}
		if req.Granularity == "" {
			req.Granularity = storage.GranularityWeekly
		}
		if !req.Granularity.Valid() {
			http.Error(w, "Invalid granularity", http.StatusBadRequest)
			return
		}
		if req.NewValue < 0 {
			http.Error(w, "Quantity cannot be negative", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		periods, err := editor.EditPeriod(ctx, id, req.Granularity, req.EditedIndex, req.NewValue, req.AllowBackward)
		if err != nil {
			if errors.Is(err, schedule.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Job not found", http.StatusNotFound)
				return
			}
			log.Error("Failed to apply edit", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("Schedule cell updated", slog.Int64("job_id", id), slog.Int("index", req.EditedIndex))

		render.JSON(w, r, periods)
	}
}

// ResetJobSchedule rebuilds an even weekly split and clears every lock.
func ResetJobSchedule(log *slog.Logger, editor ScheduleEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.update.ResetJobSchedule"

		idStr := chi.URLParam(r, "jobID")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid job ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		periods, err := editor.ResetJob(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Job not found", http.StatusNotFound)
				return
			}
			log.Error("Failed to reset schedule", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("Schedule reset to even distribution", slog.Int64("job_id", id))

		render.JSON(w, r, periods)
	}
}
