// Package model defines the data structures shared by the pepaudit packages.
//
// This package contains the following main types:
//   - IndexEntry: one row of the numerical proposal index
//   - ExpectedStatusTable: the read-only short code → acceptable statuses table
//   - StatusHistogram: per-status counts in first-observed order
//   - AuditReport: the finalized audit result with exactly one total row
//   - Warning and CountMismatch: advisory diagnostics raised during an audit
//   - Table: the renderer input produced by every command
//
// Types here have no dependencies on the crawler, transport or report packages
// so that all of them can import model without cycles.
package model
