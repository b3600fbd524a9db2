package worker

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/repository/mongodb"
	"github.com/mamadbah2/poultrypms/internal/service/ledger"
)

// Service manages the worker roster.
type Service struct {
	workers mongodb.WorkerRepository
	logger  *zap.Logger
}

// NewService wires the roster service.
func NewService(workers mongodb.WorkerRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{workers: workers, logger: logger}
}

// Input carries a worker create or update request.
type Input struct {
	Name    string
	Role    string
	Salary  float64
	Contact string
	Shift   models.Shift
}

func (in Input) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ledger.ErrInvalidInput)
	}
	if in.Role == "" {
		return fmt.Errorf("%w: role is required", ledger.ErrInvalidInput)
	}
	if in.Salary <= 0 {
		return fmt.Errorf("%w: salary must be positive", ledger.ErrInvalidInput)
	}
	if in.Contact == "" {
		return fmt.Errorf("%w: contact is required", ledger.ErrInvalidInput)
	}
	if !in.Shift.Valid() {
		return fmt.Errorf("%w: unknown shift %q", ledger.ErrInvalidInput, in.Shift)
	}
	return nil
}

// Create adds a worker to the roster.
func (s *Service) Create(ctx context.Context, in Input) (*models.Worker, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	worker := &models.Worker{
		Name:    in.Name,
		Role:    in.Role,
		Salary:  in.Salary,
		Contact: in.Contact,
		Shift:   in.Shift,
	}
	if err := s.workers.Insert(ctx, worker); err != nil {
		return nil, err
	}
	return worker, nil
}

// List returns the full roster.
func (s *Service) List(ctx context.Context) ([]models.Worker, error) {
	return s.workers.FindAll(ctx)
}

// Get resolves one worker by id.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.Worker, error) {
	return s.workers.FindByID(ctx, id)
}

// Update rewrites a worker. Salary changes apply to payroll rows computed
// after the change; past rows keep the salaries they were computed with.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in Input) (*models.Worker, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.workers.FindByID(ctx, id); err != nil {
		return nil, err
	}

	worker := &models.Worker{
		ID:      id,
		Name:    in.Name,
		Role:    in.Role,
		Salary:  in.Salary,
		Contact: in.Contact,
		Shift:   in.Shift,
	}
	if err := s.workers.Replace(ctx, worker); err != nil {
		return nil, err
	}
	return worker, nil
}

// Delete removes a worker. Attendance records referencing the worker remain
// and render as Unknown in searches.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.workers.Delete(ctx, id)
}
