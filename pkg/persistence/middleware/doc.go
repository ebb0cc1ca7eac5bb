// Package middleware provides ports.RunStore decorators applied before runs
// reach the backend.
package middleware
