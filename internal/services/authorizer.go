package services

import "context"

// Authorizer answers identity questions about the caller carried by ctx.
// It is consulted synchronously before any admin read or mutation.
type Authorizer interface {
	// IsAdmin reports whether the caller may run admin operations.
	IsAdmin(ctx context.Context) bool
	// UserID returns the authenticated caller's id, or "" for anonymous.
	UserID(ctx context.Context) string
}

// AllowAll is an Authorizer that treats every caller as an anonymous admin.
// Intended for tests and the local CLI.
type AllowAll struct{}

func (AllowAll) IsAdmin(context.Context) bool { return true }
func (AllowAll) UserID(context.Context) string { return "" }

// DenyAll is an Authorizer that treats every caller as anonymous.
type DenyAll struct{}

func (DenyAll) IsAdmin(context.Context) bool { return false }
func (DenyAll) UserID(context.Context) string { return "" }
