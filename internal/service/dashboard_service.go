// Package service provides the business logic layer for the dashboard system.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"

	"github.com/Schera-ole/perfboard/internal/display"
	internalerrors "github.com/Schera-ole/perfboard/internal/errors"
	models "github.com/Schera-ole/perfboard/internal/model"
	"github.com/Schera-ole/perfboard/internal/repository"
	"github.com/Schera-ole/perfboard/internal/sample"
)

// DashboardService assembles dashboard responses from stored records.
//
// Users and metrics come from the underlying repository; aliases the storage
// knows nothing about fall back to the deterministic sample generator so the
// service is demoable without any ingested data.
type DashboardService struct {
	// repository is the underlying data storage implementation
	repository repository.Repository
}

// NewDashboardService creates a new DashboardService with the specified repository.
func NewDashboardService(repo repository.Repository) *DashboardService {

	return &DashboardService{repository: repo}
}

// GetUsers lists all known users. An empty storage yields the sample user set.
func (ds *DashboardService) GetUsers(ctx context.Context) (models.UsersResponse, error) {
	users, err := ds.repository.GetUsers(ctx)
	if err != nil {
		return models.UsersResponse{}, fmt.Errorf("error listing users: %w", err)
	}
	if len(users) == 0 {
		users = sample.Users()
	}
	return models.UsersResponse{Users: users}, nil
}

// GetDashboard builds the dashboard for one user alias.
//
// When storage holds no metric records for the alias the whole dashboard is
// generated from the sample data, so any alias resolves to something renderable.
func (ds *DashboardService) GetDashboard(ctx context.Context, alias string) (models.DashboardResponse, error) {
	metrics, err := ds.repository.GetUserMetrics(ctx, alias)
	if err != nil {
		return models.DashboardResponse{}, fmt.Errorf("error loading metrics for %s: %w", alias, err)
	}
	if len(metrics) == 0 {
		return sample.Dashboard(alias), nil
	}

	resp := models.DashboardResponse{UserAlias: alias, Metrics: metrics}
	user, err := ds.repository.GetUser(ctx, alias)
	switch {
	case err == nil:
		resp.UserName = user.Name
		resp.JobTitle = user.JobTitle
		resp.StaffLevel = user.StaffLevel
		resp.Supervisor = user.Supervisor
	case errors.Is(err, internalerrors.ErrUserNotFound):
		// Records without a user row: take the header the sample generator
		// would produce for this alias.
		fallback := sample.Dashboard(alias)
		resp.UserName = fallback.UserName
		resp.JobTitle = fallback.JobTitle
		resp.StaffLevel = fallback.StaffLevel
		resp.Supervisor = fallback.Supervisor
	default:
		return models.DashboardResponse{}, fmt.Errorf("error loading user %s: %w", alias, err)
	}
	return resp, nil
}

// GetTeamDashboard builds the aggregated view for everyone reporting to the
// given manager alias. Member stats are derived from each member's dashboard,
// stored or sample-generated.
func (ds *DashboardService) GetTeamDashboard(ctx context.Context, manager string) (models.TeamDashboardResponse, error) {
	team, err := ds.repository.ListTeam(ctx, manager)
	if err != nil {
		return models.TeamDashboardResponse{}, fmt.Errorf("error listing team for %s: %w", manager, err)
	}
	if len(team) == 0 {
		team = sample.Team(manager)
	}

	resp := models.TeamDashboardResponse{
		ManagerAlias: manager,
		TeamMembers:  make([]models.TeamMember, 0, len(team)),
	}
	var total float64
	for _, user := range team {
		dashboard, err := ds.GetDashboard(ctx, user.Alias)
		if err != nil {
			return models.TeamDashboardResponse{}, err
		}
		member := summarizeMember(user, dashboard.Metrics)
		total += member.OverallAttainment
		resp.TeamMembers = append(resp.TeamMembers, member)
	}

	summary := models.TeamSummary{TotalMembers: len(resp.TeamMembers)}
	if len(resp.TeamMembers) > 0 {
		summary.AvgAttainment = roundTenth(total / float64(len(resp.TeamMembers)))
	}
	for _, member := range resp.TeamMembers {
		if display.Classify(member.OverallAttainment) != display.Behind {
			summary.MembersOnTrack++
		} else {
			summary.MembersAtRisk++
		}
	}
	resp.TeamSummary = summary
	return resp, nil
}

// summarizeMember folds a member's metrics into the team-view row: mean
// attainment plus per-tier metric counts.
func summarizeMember(user models.User, metrics []models.Metric) models.TeamMember {
	member := models.TeamMember{
		UserAlias:    user.Alias,
		Name:         user.Name,
		JobTitle:     user.JobTitle,
		MetricsCount: len(metrics),
	}
	var total float64
	for _, metric := range metrics {
		total += metric.AttainmentPercent
		switch display.Classify(metric.AttainmentPercent) {
		case display.OnTrack:
			member.OnTrackMetrics++
		case display.AtRisk:
			member.AtRiskMetrics++
		default:
			member.BehindMetrics++
		}
	}
	if len(metrics) > 0 {
		member.OverallAttainment = roundTenth(total / float64(len(metrics)))
	}
	return member
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// Ingest upserts a batch of users and already-parsed metric records.
//
// Records arriving without an attainment value get one derived from
// actual/target when the target is positive; a zero target leaves the
// attainment at zero rather than dividing.
func (ds *DashboardService) Ingest(ctx context.Context, req models.IngestRequest) error {
	if len(req.Users) > 0 {
		if err := ds.repository.UpsertUsers(ctx, req.Users); err != nil {
			return fmt.Errorf("error upserting users: %w", err)
		}
	}
	if len(req.Records) == 0 {
		return nil
	}

	records := make([]models.MetricRecord, 0, len(req.Records))
	for _, record := range req.Records {
		if record.AttainmentPercent == 0 && record.AnnualTarget > 0 {
			record.AttainmentPercent = record.ActualValue / record.AnnualTarget * 100
		}
		records = append(records, record)
	}
	if err := ds.repository.UpsertMetrics(ctx, records); err != nil {
		return fmt.Errorf("error upserting metrics: %w", err)
	}
	return nil
}

// Ping checks the repository connection, delegating to the repository implementation.
func (ds *DashboardService) Ping(ctx context.Context) error {

	return ds.repository.Ping(ctx)
}

// IsMemStorage checks if the underlying repository is a MemStorage implementation.
func (ds *DashboardService) IsMemStorage() bool {

	_, isMemStorage := ds.repository.(*repository.MemStorage)
	return isMemStorage
}

// snapshot is the on-disk shape used to carry the mem backend across restarts.
type snapshot struct {
	Users   []models.User         `json:"users"`
	Records []models.MetricRecord `json:"records"`
}

// SaveSnapshot writes all users and metric records to a file in JSON format.
func (ds *DashboardService) SaveSnapshot(ctx context.Context, fname string) error {

	users, err := ds.repository.GetUsers(ctx)
	if err != nil {
		return fmt.Errorf("error listing users for snapshot: %w", err)
	}
	records, err := ds.repository.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("error listing records for snapshot: %w", err)
	}

	file, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	return encoder.Encode(snapshot{Users: users, Records: records})
}

// RestoreSnapshot restores users and metric records from a file.
//
// A missing file is not an error; the server simply starts empty.
func (ds *DashboardService) RestoreSnapshot(ctx context.Context, fname string, logger *zap.SugaredLogger) error {

	if _, err := os.Stat(fname); os.IsNotExist(err) {
		logger.Infof("storage file not exists %s", fname)
		return nil
	}

	file, err := os.Open(fname)
	if err != nil {
		return fmt.Errorf("error while opening file to restore: %w", err)
	}
	defer file.Close()

	var snap snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		return fmt.Errorf("error while unmarshalling file store: %w", err)
	}

	if len(snap.Users) > 0 {
		if err := ds.repository.UpsertUsers(ctx, snap.Users); err != nil {
			return fmt.Errorf("error restoring users: %w", err)
		}
	}
	if len(snap.Records) > 0 {
		if err := ds.repository.UpsertMetrics(ctx, snap.Records); err != nil {
			return fmt.Errorf("error restoring records: %w", err)
		}
	}
	return nil
}
