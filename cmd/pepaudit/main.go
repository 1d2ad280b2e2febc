// Package main provides the entry point for the pepaudit CLI.
//
// pepaudit audits the status markers of the Python Enhancement Proposal index
// against each proposal's own page, and scrapes a few facts from the Python
// documentation site.
//
// Usage:
//
//	pepaudit pep
//	pepaudit whats-new -o pretty
//	pepaudit latest-versions -o csv
//	pepaudit download
//
// See --help for all available options.
package main

// main is the entry point for pepaudit.
func main() {
	Execute()
}
