// Package storage persists the bot state as one JSON document and mirrors it
// to any additional stores that are configured.
package storage

import (
	"context"
	"errors"

	"github.com/PancyStudios/MultiGameBot/pkg/models"
)

var (
	// ErrNotFound is returned by Load when no document has been stored yet
	ErrNotFound = errors.New("no hay datos guardados")
	// ErrMalformed is returned by Load when the stored document cannot be decoded
	ErrMalformed = errors.New("datos guardados corruptos")
)

// Store reads and replaces the whole snapshot document
type Store interface {
	Name() string
	Load(ctx context.Context) (*models.Snapshot, error)
	Save(ctx context.Context, snap *models.Snapshot) error
}
