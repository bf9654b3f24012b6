package tasks

import (
	"time"

	"github.com/minicrm-io/minicrm/pkg/customers"
	"github.com/minicrm-io/minicrm/pkg/users"
)

// Status tracks a task through its lifecycle.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Valid reports whether the status is one of the defined variants.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusDone
}

// Task is a unit of work assigned to an employee for a customer.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	AssignedTo  int64     `json:"assignedTo"`
	CustomerID  int64     `json:"customerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Detail is a task with its assignee and customer summaries attached. The
// assignee serializes as "user", matching the established response shape.
type Detail struct {
	Task
	AssignedUser *users.Summary     `json:"user"`
	Customer     *customers.Summary `json:"customer"`
}

// CreateRequest is the payload for creating a task. Status defaults to
// PENDING when omitted.
type CreateRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	AssignedTo  int64  `json:"assignedTo" validate:"required,gt=0"`
	CustomerID  int64  `json:"customerId" validate:"required,gt=0"`
	Status      Status `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS DONE"`
}

// UpdateStatusRequest is the payload for moving a task to a new status.
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=PENDING IN_PROGRESS DONE"`
}
