package model

import (
	"snow-board.com/snow-board/internal/constants"
)

// Task is a single snow-clearing job posting. CreatedAt is milliseconds since
// the Unix epoch. TakenByPhone is set iff Status is taken.
type Task struct {
	ID                string               `gorm:"primaryKey;size:36"`
	Name              string               `gorm:"not null"`
	Phone             string               `gorm:"not null;index:idx_tasks_owner"`
	Address           string               `gorm:"not null"`
	Area              int64                `gorm:"not null"`
	Price             int64                `gorm:"not null"`
	WantsSalt         bool                 `gorm:"not null"`
	HasEquipment      bool                 `gorm:"not null"`
	Description       string               `gorm:"not null"`
	OwnerPasswordHash string               `gorm:"not null"`
	CreatedAt         int64                `gorm:"not null;autoCreateTime:false;index:idx_tasks_created_at,sort:desc"`
	Status            constants.TaskStatus `gorm:"type:varchar(20);not null"`
	TakenByPhone      *string              `gorm:"size:64"`
}

func (Task) TableName() string {
	return "tasks"
}
