package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"snow-board.com/snow-board/internal/constants"
	"snow-board.com/snow-board/internal/credentials"
	dto "snow-board.com/snow-board/internal/data_models"
	apperrors "snow-board.com/snow-board/internal/errors"
	"snow-board.com/snow-board/internal/metrics"
	model "snow-board.com/snow-board/internal/models"
	repository "snow-board.com/snow-board/internal/repositories"
	"snow-board.com/snow-board/internal/validators"
)

// TaskService owns the task lifecycle: available -> taken -> available, and
// deletion by the owner when the job is done.
type TaskService struct {
	repo    *repository.TaskRepository
	hasher  credentials.Hasher
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewTaskService(
	repo *repository.TaskRepository,
	hasher credentials.Hasher,
	logger *zap.Logger,
	m *metrics.Metrics,
) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TaskService{
		repo:    repo,
		hasher:  hasher,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*model.Task, error) {
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.OwnerPassword.Value.String())
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		ID:                uuid.NewString(),
		Name:              req.Name.String(),
		Phone:             req.Phone.String(),
		Address:           req.Address.String(),
		Area:              int64(req.Area),
		Price:             int64(req.Price),
		WantsSalt:         bool(req.WantsSalt),
		HasEquipment:      bool(req.HasEquipment),
		Description:       req.Description.String(),
		OwnerPasswordHash: hash,
		CreatedAt:         s.now().UnixMilli(),
		Status:            constants.StatusAvailable,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task created", zap.String("task_id", task.ID), zap.Int64("area", task.Area), zap.Int64("price", task.Price))
	s.metrics.Transition("created")
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.repo.List(ctx)
}

func (s *TaskService) ListOwnerTasks(ctx context.Context, creds dto.OwnerCredentials) ([]model.Task, error) {
	if err := validators.ValidateOwnerCredentials(&creds); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, creds.Phone.String(), creds.Password.String())
}

// TakeTask lets anyone claim an available task. Only the first claimant wins;
// later claims fail with ErrTaskAlreadyTaken.
func (s *TaskService) TakeTask(ctx context.Context, id, phone string) error {
	phone, err := validators.ValidatePhone(phone)
	if err != nil {
		return err
	}

	if err := s.repo.Claim(ctx, id, phone); err != nil {
		return err
	}

	s.logger.Info("task taken", zap.String("task_id", id))
	s.metrics.Transition("taken")
	return nil
}

// ClearTaken returns a taken task to the board. Only the owner may do this.
func (s *TaskService) ClearTaken(ctx context.Context, id string, creds dto.OwnerCredentials) error {
	task, err := s.authorize(ctx, id, creds)
	if err != nil {
		return err
	}

	// A concurrent delete by the owner can remove the task after authorize.
	if err := s.repo.UpdateStatus(ctx, task.ID, constants.StatusAvailable, nil); err != nil {
		if errors.Is(err, apperrors.ErrTaskNotFound) {
			return apperrors.ErrWrongCredentials
		}
		return err
	}

	s.logger.Info("task claim cleared", zap.String("task_id", task.ID))
	s.metrics.Transition("cleared")
	return nil
}

// CompleteTask removes a finished task. Completion is a hard delete.
func (s *TaskService) CompleteTask(ctx context.Context, id string, creds dto.OwnerCredentials) error {
	task, err := s.authorize(ctx, id, creds)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, task.ID); err != nil {
		if errors.Is(err, apperrors.ErrTaskNotFound) {
			return apperrors.ErrWrongCredentials
		}
		return err
	}

	s.logger.Info("task completed", zap.String("task_id", task.ID))
	s.metrics.Transition("completed")
	return nil
}

func (s *TaskService) authorize(ctx context.Context, id string, creds dto.OwnerCredentials) (*model.Task, error) {
	if err := validators.ValidateOwnerCredentials(&creds); err != nil {
		return nil, err
	}

	task, err := s.repo.FindOwned(ctx, id, creds.Phone.String(), creds.Password.String())
	if err != nil {
		s.logger.Warn("owner authorization failed", zap.String("task_id", id), zap.Error(err))
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
