// Package models defines the data structures shared by the dashboard server,
// loader and client. JSON field names follow the upstream API contract.
package models

// User describes a person tracked on the dashboard.
type User struct {
	// Alias is the unique short login of the user
	Alias string `json:"alias"`

	// Name is the full display name
	Name string `json:"name"`

	// JobTitle is the user's role, e.g. "Senior Solutions Architect"
	JobTitle string `json:"job_title"`

	// StaffLevel is the level band, e.g. "L6"
	StaffLevel string `json:"staff_level"`

	// Supervisor is the alias of the user's manager
	Supervisor string `json:"supervisor"`

	// Region is the geographic region of the user
	Region string `json:"region"`
}

// Metric is a single KPI of a user as served by the dashboard API.
type Metric struct {
	// Name is the metric identifier, unique within a user's metric set
	Name string `json:"metric_name"`

	// DisplayName is the human-readable label
	DisplayName string `json:"display_name"`

	// ActualValue is the achieved value
	ActualValue float64 `json:"actual_value"`

	// AnnualTarget is the yearly target; may be zero
	AnnualTarget float64 `json:"annual_target"`

	// AttainmentPercent is actual over target as a percentage, supplied
	// pre-computed; the server derives it at ingest time only when absent
	AttainmentPercent float64 `json:"attainment_percent"`

	// Kind is the formatting category: "currency", "count" or "percentage".
	// Unknown values render as counts
	Kind string `json:"metric_type"`
}

// MetricRecord is a Metric tied to its owner, the row shape used for
// ingest and storage.
type MetricRecord struct {
	// UserAlias is the owner of the metric
	UserAlias string `json:"user_alias"`

	Metric
}

// DashboardResponse is the payload of GET /api/dashboard/{userAlias}.
type DashboardResponse struct {
	UserAlias  string   `json:"user_alias"`
	UserName   string   `json:"user_name"`
	JobTitle   string   `json:"job_title"`
	StaffLevel string   `json:"staff_level"`
	Supervisor string   `json:"supervisor"`
	Metrics    []Metric `json:"metrics"`
}

// UsersResponse is the payload of GET /api/users.
type UsersResponse struct {
	Users []User `json:"users"`
}

// TeamMember is one direct report in a team dashboard.
type TeamMember struct {
	UserAlias string `json:"user_alias"`
	Name      string `json:"name"`
	JobTitle  string `json:"job_title"`

	// OverallAttainment is the mean attainment across the member's metrics
	OverallAttainment float64 `json:"overall_attainment"`

	// MetricsCount is the number of metrics contributing to the mean
	MetricsCount int `json:"metrics_count"`

	// Tier counts of the member's metrics by severity
	OnTrackMetrics int `json:"on_track_metrics"`
	AtRiskMetrics  int `json:"at_risk_metrics"`
	BehindMetrics  int `json:"behind_metrics"`
}

// TeamSummary aggregates a manager's team.
type TeamSummary struct {
	TotalMembers int `json:"total_members"`

	// AvgAttainment is the team mean of member attainments, rounded to one decimal
	AvgAttainment float64 `json:"avg_attainment"`

	// MembersOnTrack counts members whose overall attainment is at least 80
	MembersOnTrack int `json:"members_on_track"`
	MembersAtRisk  int `json:"members_at_risk"`
}

// TeamDashboardResponse is the payload of GET /api/team-dashboard/{managerAlias}.
type TeamDashboardResponse struct {
	ManagerAlias string       `json:"manager_alias"`
	TeamSummary  TeamSummary  `json:"team_summary"`
	TeamMembers  []TeamMember `json:"team_members"`
}

// IngestRequest is the payload of POST /api/ingest. Records arrive already
// parsed; upstream collaborators own the raw source formats.
type IngestRequest struct {
	// Users to upsert before the records are applied (optional)
	Users []User `json:"users,omitempty"`

	// Records are the metric rows to upsert
	Records []MetricRecord `json:"records"`
}

// ErrorResponse is the JSON error envelope used by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the payload of GET /status: server uptime plus a host
// resource snapshot.
type StatusResponse struct {
	Status         string  `json:"status"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	TotalMemory    uint64  `json:"total_memory"`
	FreeMemory     uint64  `json:"free_memory"`
	CPUUtilization float64 `json:"cpu_utilization"`
}

// AuditEvent records one ingest operation for the audit log.
type AuditEvent struct {
	// ID uniquely identifies the event
	ID string `json:"id"`

	// TS is the timestamp of the event in ISO 8601 format
	TS string `json:"ts"`

	// UserAliases lists the users whose data was touched
	UserAliases []string `json:"user_aliases"`

	// IPAddress is the address of the client that initiated the operation
	IPAddress string `json:"ip_address"`
}
