package models

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Favorite is a bookmarked document
type Favorite struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	FilePath       string    `json:"filePath"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	AddedAt        time.Time `json:"addedAt"`
	LastAccessedAt time.Time `json:"lastAccessedAt"`
	AccessCount    int       `json:"accessCount"`
	IsPinned       bool      `json:"isPinned"`
}

// NewFavorite creates a favorite with a fresh identifier
func NewFavorite(title, filePath, description, category string) *Favorite {
	now := time.Now()
	return &Favorite{
		ID:             uuid.New().String(),
		Title:          title,
		FilePath:       filePath,
		Description:    description,
		Category:       category,
		AddedAt:        now,
		LastAccessedAt: now,
	}
}

// MarkAccessed bumps the access counter and stamps the access time
func (f *Favorite) MarkAccessed() {
	f.LastAccessedAt = time.Now()
	f.AccessCount++
}

// DisplayText is the title followed by the document's file name
func (f *Favorite) DisplayText() string {
	return fmt.Sprintf("%s (%s)", f.Title, filepath.Base(f.FilePath))
}
