// Package service orders the startup and shutdown of long-lived subsystems
package service

import "context"

// Service is a long-lived subsystem: engine, control server, audio backend
//
// Lifecycle:
//  1. Construction
//  2. Start(ctx) - acquire resources, launch goroutines; ctx bounds the service lifetime
//  3. [runtime operation]
//  4. Stop() - halt goroutines, release resources; must be idempotent
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must start before this one
	Dependencies() []string

	Start(ctx context.Context) error
	Stop() error
}
