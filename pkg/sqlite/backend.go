// Package sqlite provides the public API for the SQLite shop backend.
// This package exposes the factory function for creating backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/shopmap/internal/sqlite"
	"github.com/mesh-intelligence/shopmap/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	shop := sqlite.NewBackend()
//	err := shop.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".shopmap-db",
//	})
//	defer shop.Detach()
func NewBackend() types.Shop {
	return sqlite.NewBackend()
}
