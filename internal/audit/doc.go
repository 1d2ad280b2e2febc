// Package audit reconciles the statuses claimed by the PEP index with the
// statuses declared on each PEP's own page.
//
// An Engine reads the index, fetches every detail page (sequentially by
// default, or on a bounded pool with WithConcurrency), compares each
// declared status with the expected status table and counts the statuses
// in a histogram. Disagreements are collected as model.Warning values and
// logged; they never stop the audit. Only a failure to read the index page
// itself, or cancellation of the context, aborts a run.
//
// The Aggregator turns the histogram into the final model.AuditReport and
// detects entries that the histogram does not account for.
package audit
