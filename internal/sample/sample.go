// Package sample generates deterministic fallback dashboard data for
// environments without ingested records. The same alias always produces the
// same users and metric values, so demo output is stable between requests.
package sample

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"

	"github.com/Schera-ole/perfboard/internal/display"
	models "github.com/Schera-ole/perfboard/internal/model"
)

// metricDef describes one of the canonical sample KPIs.
type metricDef struct {
	name    string
	display string
	target  float64
	kind    display.Kind
}

var metricDefs = []metricDef{
	{name: "revenue_target", display: "Revenue Target", target: 1000000, kind: display.Currency},
	{name: "customer_engagements", display: "Customer Engagements", target: 50, kind: display.Count},
	{name: "win_rate", display: "Win Rate", target: 70, kind: display.Percentage},
}

// Users returns the canonical sample user set.
func Users() []models.User {
	return []models.User{
		{
			Alias:      "jsmith",
			Name:       "John Smith",
			JobTitle:   "Senior Solutions Architect",
			StaffLevel: "L6",
			Supervisor: "manager1",
			Region:     "US East",
		},
		{
			Alias:      "mjohnson",
			Name:       "Mary Johnson",
			JobTitle:   "Principal Solutions Architect",
			StaffLevel: "L7",
			Supervisor: "manager1",
			Region:     "US West",
		},
		{
			Alias:      "rbrown",
			Name:       "Robert Brown",
			JobTitle:   "Solutions Architect",
			StaffLevel: "L5",
			Supervisor: "manager2",
			Region:     "US Central",
		},
	}
}

// UserInfo looks up a sample user by alias.
func UserInfo(alias string) (models.User, bool) {
	for _, u := range Users() {
		if u.Alias == alias {
			return u, true
		}
	}
	return models.User{}, false
}

// Team returns the sample users reporting to the given manager alias.
func Team(manager string) []models.User {
	var team []models.User
	for _, u := range Users() {
		if u.Supervisor == manager {
			team = append(team, u)
		}
	}
	return team
}

// Dashboard builds a dashboard for the alias with deterministic metric
// values in the 75-90% attainment band. Aliases outside the sample user set
// get synthesized user info so any alias can be demoed.
func Dashboard(alias string) models.DashboardResponse {
	user, ok := UserInfo(alias)
	if !ok {
		user = models.User{
			Alias:      alias,
			Name:       alias,
			JobTitle:   "Solutions Architect",
			StaffLevel: "L5",
		}
	}

	resp := models.DashboardResponse{
		UserAlias:  user.Alias,
		UserName:   user.Name,
		JobTitle:   user.JobTitle,
		StaffLevel: user.StaffLevel,
		Supervisor: user.Supervisor,
	}

	variation := float64(aliasHash(alias)%30) / 100
	for _, def := range metricDefs {
		actual := float64(int64(def.target * (0.75 + variation*0.5)))
		resp.Metrics = append(resp.Metrics, models.Metric{
			Name:              def.name,
			DisplayName:       def.display,
			ActualValue:       actual,
			AnnualTarget:      def.target,
			AttainmentPercent: actual / def.target * 100,
			Kind:              string(def.kind),
		})
	}
	return resp
}

// aliasHash derives a stable number from the alias. The first eight hex
// digits of the MD5 sum keep parity with the upstream data generator.
func aliasHash(alias string) uint64 {
	sum := md5.Sum([]byte(alias))
	digest := hex.EncodeToString(sum[:])
	v, _ := strconv.ParseUint(digest[:8], 16, 64)
	return v
}
