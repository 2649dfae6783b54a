// Package models defines the domain models for MyCESE.
//
// # Entities
//
//   - User: a member of the association; role determines the monthly quota
//   - Event: an association event members can register for
//   - Payment: one materialized quota period for one member
//   - LogEntry: an immutable audit record
//
// # Persistence
//
// Entities are persisted as JSON arrays, one per collection. Field names use
// camelCase so data written by earlier versions of the dashboard decodes
// unchanged. Relationships are held as ID strings, never pointers.
//
// # Money
//
// Amounts are shopspring/decimal values. A Payment's Amount is a snapshot of
// the quota at the time the row was created and is never recomputed.
package models
