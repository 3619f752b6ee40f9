package constants

type TaskStatus string

const (
	StatusAvailable TaskStatus = "available"
	StatusTaken     TaskStatus = "taken"
)
