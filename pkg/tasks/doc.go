// Package tasks implements task assignment and status tracking. Tasks
// reference exactly one EMPLOYEE assignee and one customer; listing and
// status updates are scoped by the caller's identity.
package tasks
