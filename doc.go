// Package perfboard implements a sales performance dashboard: a server
// serving per-user metric dashboards and team rollups, plus the loader and
// terminal client around it.
//
// Each metric is classified by attainment against its annual target:
//   - OnTrack: attainment of at least 100 percent
//   - AtRisk: attainment of at least 80 but below 100 percent
//   - Behind: attainment below 80 percent
//
// Values render by kind: currency as grouped dollars ("$1,000,000"), counts
// with thousands separators, percentages with one decimal place.
//
// The server can store records in memory or in a PostgreSQL database. The
// in-memory backend snapshots to a file for persistence across restarts, and
// deterministic sample data answers queries until real records are ingested.
//
// Features:
//   - REST API for users, per-user dashboards and team dashboards
//   - Batch ingest endpoint with gzip support
//   - Prometheus metrics and a host status endpoint
//   - Graceful shutdown handling
//   - Structured logging
//   - Audit logging to file or HTTP endpoint
//
// All binaries support configuration via command-line flags and environment
// variables.
package perfboard
