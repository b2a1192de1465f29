package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"capacity-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type MachineRegistry interface {
	GetMachines(ctx context.Context, processType string, facilityID *int64) ([]storage.Machine, error)
	GetProcessTypeFields(ctx context.Context, processType string) ([]storage.ProcessTypeField, error)
}

func GetMachines(log *slog.Logger, registry MachineRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.get.GetMachines"

		processType := r.URL.Query().Get("process_type")

		var facilityID *int64
		if raw := r.URL.Query().Get("facilities_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				http.Error(w, "Invalid facilities_id", http.StatusBadRequest)
				return
			}
			facilityID = &id
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		machines, err := registry.GetMachines(ctx, processType, facilityID)
		if err != nil {
			log.Error("Failed to load machines", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, machines)
	}
}

// GetProcessTypeFields hands the per-process parameter schema to the
// frontend untouched; validation against it happens there.
func GetProcessTypeFields(log *slog.Logger, registry MachineRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.get.GetProcessTypeFields"

		processType := chi.URLParam(r, "processType")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		fields, err := registry.GetProcessTypeFields(ctx, processType)
		if err != nil {
			log.Error("Failed to load process type fields", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, fields)
	}
}
