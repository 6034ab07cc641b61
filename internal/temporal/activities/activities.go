package activities

import (
	"nomadoctor/internal/backup"
)

// Activities holds all activity implementations for the worker. Every
// exported method is registered under its own name.
type Activities struct {
	Backup *backup.Service
}

// NewActivities creates a new Activities instance backed by service
func NewActivities(service *backup.Service) *Activities {
	return &Activities{
		Backup: service,
	}
}
