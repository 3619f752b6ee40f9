package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"snow-board.com/snow-board/internal/constants"
	"snow-board.com/snow-board/internal/credentials"
	apperrors "snow-board.com/snow-board/internal/errors"
	model "snow-board.com/snow-board/internal/models"
)

type TaskRepository struct {
	db     *gorm.DB
	hasher credentials.Hasher
}

func NewTaskRepository(db *gorm.DB, hasher credentials.Hasher) *TaskRepository {
	return &TaskRepository{db: db, hasher: hasher}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find task %s: %w", id, err)
	}
	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	tasks := []model.Task{}
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListByOwner returns the tasks whose stored phone equals phone exactly and
// whose password hash verifies password. A wrong password and an owner with no
// tasks both yield an empty slice.
func (r *TaskRepository) ListByOwner(ctx context.Context, phone, password string) ([]model.Task, error) {
	var candidates []model.Task
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("created_at desc").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks by owner: %w", err)
	}

	// Each distinct hash is verified once.
	verified := make(map[string]bool)
	owned := make([]model.Task, 0, len(candidates))
	for _, task := range candidates {
		ok, seen := verified[task.OwnerPasswordHash]
		if !seen {
			ok = r.hasher.Matches(task.OwnerPasswordHash, password)
			verified[task.OwnerPasswordHash] = ok
		}
		if ok {
			owned = append(owned, task)
		}
	}
	return owned, nil
}

// FindOwned returns the task only when both halves of the owner credential
// match. A missing row is indistinguishable from a wrong pair.
func (r *TaskRepository) FindOwned(ctx context.Context, id, phone, password string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ? AND phone = ?", id, phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrWrongCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find owned task %s: %w", id, err)
	}

	if !r.hasher.Matches(task.OwnerPasswordHash, password) {
		return nil, apperrors.ErrWrongCredentials
	}
	return &task, nil
}

// UpdateStatus writes status and takenByPhone together in one statement.
func (r *TaskRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status constants.TaskStatus,
	takenByPhone *string,
) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"taken_by_phone": takenByPhone,
		})

	if res.Error != nil {
		return fmt.Errorf("update task %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// Claim moves an available task to taken in a single conditional update so
// concurrent claimants cannot both win.
func (r *TaskRepository) Claim(ctx context.Context, id, phone string) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND status = ?", id, constants.StatusAvailable).
		Updates(map[string]interface{}{
			"status":         constants.StatusTaken,
			"taken_by_phone": phone,
		})

	if res.Error != nil {
		return fmt.Errorf("claim task %s: %w", id, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return apperrors.ErrTaskAlreadyTaken
}

func (r *TaskRepository) DeleteByID(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete task %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
