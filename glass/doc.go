// Package glass holds the liquid glass parameter store.
//
// Global parameters live in a single Config created at startup and published as
// immutable Params snapshots, so the frame loop never observes a half-written
// commit. Per-node state is limited to an enable Override; every other parameter
// is global-only and reaches a node through Resolve.
package glass
