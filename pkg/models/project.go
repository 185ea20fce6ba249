package models

import (
	"time"

	"github.com/google/uuid"
)

// Project binds a name to a workspace folder and caches the documents found in it
type Project struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	FolderPath   string      `json:"folderPath"`
	Description  string      `json:"description"`
	CreatedAt    time.Time   `json:"createdAt"`
	LastOpenedAt time.Time   `json:"lastOpenedAt"`
	IsActive     bool        `json:"isActive"`
	Files        []FileEntry `json:"markdownFiles"`
}

// NewProject creates a project with a fresh identifier
func NewProject(name, folderPath, description string) *Project {
	now := time.Now()
	return &Project{
		ID:           uuid.New().String(),
		Name:         name,
		FolderPath:   folderPath,
		Description:  description,
		CreatedAt:    now,
		LastOpenedAt: now,
		Files:        []FileEntry{},
	}
}
