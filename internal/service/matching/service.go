package matching

import (
	"context"
	"fmt"

	"capacity-backend/internal/storage"

	"golang.org/x/sync/errgroup"
)

type MatchStorage interface {
	GetMachines(ctx context.Context, processType string, facilityID *int64) ([]storage.Machine, error)
	GetActiveRules(ctx context.Context, processType string, machineID *int64) ([]storage.MachineRule, error)
	GetAssignmentsInWindow(ctx context.Context, startMs, endMs int64) ([]storage.JobAssignment, error)
}

type Service struct {
	storage MatchStorage
}

func NewService(storage MatchStorage) *Service {
	return &Service{storage: storage}
}

// MatchRequest is the HTTP-facing shape of one match run.
type MatchRequest struct {
	ProcessType string         `json:"process_type"`
	Quantity    int            `json:"quantity"`
	StartDate   int64          `json:"start_date"`
	DueDate     int64          `json:"due_date"`
	FacilityID  *int64         `json:"facilities_id,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

// MatchJob gathers machines, rules and the existing schedule in parallel,
// then ranks candidates.
func (s *Service) MatchJob(ctx context.Context, req MatchRequest) ([]MachineMatch, error) {
	const op = "service.matching.MatchJob"

	var (
		machines    []storage.Machine
		ruleset     []storage.MachineRule
		assignments []storage.JobAssignment
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		machines, err = s.storage.GetMachines(gCtx, req.ProcessType, req.FacilityID)
		if err != nil {
			return fmt.Errorf("machines: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ruleset, err = s.storage.GetActiveRules(gCtx, req.ProcessType, nil)
		if err != nil {
			return fmt.Errorf("rules: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		assignments, err = s.storage.GetAssignmentsInWindow(gCtx, req.StartDate, req.DueDate)
		if err != nil {
			return fmt.Errorf("assignments: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	criteria := JobCriteria{
		ProcessType: req.ProcessType,
		Quantity:    req.Quantity,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		Parameters:  req.Parameters,
		Rules:       ruleset,
	}

	return FindMatchingMachines(criteria, machines, assignments)
}

// BestMachine is MatchJob narrowed to the single top qualified candidate.
func (s *Service) BestMachine(ctx context.Context, req MatchRequest) (*MachineMatch, error) {
	matches, err := s.MatchJob(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 || !matches[0].CanHandle {
		return nil, nil
	}
	return &matches[0], nil
}
