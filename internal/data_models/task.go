package dto

import (
	"snow-board.com/snow-board/internal/constants"
	model "snow-board.com/snow-board/internal/models"
)

type CreateTaskRequest struct {
	Name         Text   `json:"name"`
	Phone        Text   `json:"phone"`
	Address      Text   `json:"address"`
	Area         Number `json:"area"`
	Price        Number `json:"price"`
	WantsSalt    Flag   `json:"wantsSalt"`
	HasEquipment Flag   `json:"hasEquipment"`
	Description  Text   `json:"description"`
	// Absent is rejected; empty and null are allowed.
	OwnerPassword OptionalText `json:"ownerPassword"`
}

type CreateTaskResponse struct {
	ID        string               `json:"id"`
	CreatedAt int64                `json:"createdAt"`
	Status    constants.TaskStatus `json:"status"`
}

type TakeTaskRequest struct {
	Phone Text `json:"phone"`
}

type OwnerCredentials struct {
	Phone    Text `json:"phone" query:"phone"`
	Password Text `json:"password" query:"password"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

// PublicTask is the view served to everyone. It never carries the claimant's
// phone number.
type PublicTask struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Phone        string               `json:"phone"`
	Address      string               `json:"address"`
	Area         int64                `json:"area"`
	Price        int64                `json:"price"`
	WantsSalt    bool                 `json:"wantsSalt"`
	HasEquipment bool                 `json:"hasEquipment"`
	Description  string               `json:"description"`
	CreatedAt    int64                `json:"createdAt"`
	Status       constants.TaskStatus `json:"status"`
}

// OwnerTask is the view served to a task's owner.
type OwnerTask struct {
	PublicTask
	TakenByPhone string `json:"takenByPhone,omitempty"`
}

func NewPublicTask(t model.Task) PublicTask {
	return PublicTask{
		ID:           t.ID,
		Name:         t.Name,
		Phone:        t.Phone,
		Address:      t.Address,
		Area:         t.Area,
		Price:        t.Price,
		WantsSalt:    t.WantsSalt,
		HasEquipment: t.HasEquipment,
		Description:  t.Description,
		CreatedAt:    t.CreatedAt,
		Status:       t.Status,
	}
}

func NewOwnerTask(t model.Task) OwnerTask {
	v := OwnerTask{PublicTask: NewPublicTask(t)}
	if t.TakenByPhone != nil {
		v.TakenByPhone = *t.TakenByPhone
	}
	return v
}

func PublicTasks(tasks []model.Task) []PublicTask {
	out := make([]PublicTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewPublicTask(t))
	}
	return out
}

func OwnerTasks(tasks []model.Task) []OwnerTask {
	out := make([]OwnerTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewOwnerTask(t))
	}
	return out
}
