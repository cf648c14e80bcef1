//go:build !cgo

// Package pclnative binds the geometry boundary to the native PCL wrapper
// shared library. Without cgo there is nothing to bind.
package pclnative

import (
	"github.com/pkg/errors"

	"go.viam.com/pointclouds/engine"
)

// New reports that the native engine is unavailable in this build.
func New() (engine.Geometry, error) {
	return nil, errors.New("native geometry engine requires a cgo-enabled build")
}
