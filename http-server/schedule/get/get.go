package get

import (
	"context"
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

type PeriodsService interface {
	PeriodsForJob(ctx context.Context, jobID int64, granularity storage.Granularity) ([]storage.Period, error)
}

// GetJobPeriods renders a job's stored weekly split at the requested
// granularity (weekly when the query param is absent).
func GetJobPeriods(log *slog.Logger, service PeriodsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.get.GetJobPeriods"

		idStr := chi.URLParam(r, "jobID")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid job ID", http.StatusBadRequest)
			return
		}

		granularity := storage.Granularity(r.URL.Query().Get("granularity"))
		if granularity == "" {
			granularity = storage.GranularityWeekly
		}
		if !granularity.Valid() {
			http.Error(w, "Invalid granularity", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		periods, err := service.PeriodsForJob(ctx, id, granularity)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Job not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, schedule.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("Failed to build periods", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, periods)
	}
}
