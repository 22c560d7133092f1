package domain

import "time"

// Project groups work items. ParentID forms the project tree; EVM
// queries for a project include its descendants.
type Project struct {
	ID       string
	Name     string
	ParentID *string
	Status   ProjectStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}
