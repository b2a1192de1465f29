package match

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"capacity-backend/internal/service/matching"
	"capacity-backend/internal/service/rules"

	"github.com/go-chi/render"
)

type MatchService interface {
	MatchJob(ctx context.Context, req matching.MatchRequest) ([]matching.MachineMatch, error)
	BestMachine(ctx context.Context, req matching.MatchRequest) (*matching.MachineMatch, error)
}

func MatchMachines(log *slog.Logger, service MatchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.match.MatchMachines"

		var req matching.MatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}
		if req.ProcessType == "" {
			http.Error(w, "process_type is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		matches, err := service.MatchJob(ctx, req)
		if err != nil {
			if errors.Is(err, rules.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("Match run failed", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, matches)
	}
}

func BestMachine(log *slog.Logger, service MatchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.match.BestMachine"

		var req matching.MatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}
		if req.ProcessType == "" {
			http.Error(w, "process_type is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		best, err := service.BestMachine(ctx, req)
		if err != nil {
			if errors.Is(err, rules.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("Best-machine run failed", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		if best == nil {
			http.Error(w, "No machine can handle this job", http.StatusNotFound)
			return
		}

		render.JSON(w, r, best)
	}
}
