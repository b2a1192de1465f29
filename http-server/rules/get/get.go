package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"capacity-backend/internal/storage"

	"github.com/go-chi/render"
)

type RuleStore interface {
	GetActiveRules(ctx context.Context, processType string, machineID *int64) ([]storage.MachineRule, error)
}

// GetRules lists the active rules for a process type. The engine only ever
// reads rules; editing happens through the hosted admin backend.
func GetRules(log *slog.Logger, store RuleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.rules.get.GetRules"

		processType := r.URL.Query().Get("process_type")
		if processType == "" {
			http.Error(w, "process_type is required", http.StatusBadRequest)
			return
		}

		var machineID *int64
		if raw := r.URL.Query().Get("machines_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				http.Error(w, "Invalid machines_id", http.StatusBadRequest)
				return
			}
			machineID = &id
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		ruleset, err := store.GetActiveRules(ctx, processType, machineID)
		if err != nil {
			log.Error("Failed to load rules", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ruleset)
	}
}
