// Package keiba extracts race information and per-entrant results from the
// race result pages published on db.netkeiba.com and normalizes them into
// typed records for tabular analysis.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, http/).
package keiba
