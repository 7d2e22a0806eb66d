package handler

import (
	"encoding/json"
	"net/http"

	models "github.com/Schera-ole/perfboard/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

// touchedAliases collects the distinct user aliases an ingest request names,
// in arrival order, for the audit trail.
func touchedAliases(req models.IngestRequest) []string {
	seen := make(map[string]struct{})
	var aliases []string
	for _, user := range req.Users {
		if _, ok := seen[user.Alias]; !ok && user.Alias != "" {
			seen[user.Alias] = struct{}{}
			aliases = append(aliases, user.Alias)
		}
	}
	for _, record := range req.Records {
		if _, ok := seen[record.UserAlias]; !ok && record.UserAlias != "" {
			seen[record.UserAlias] = struct{}{}
			aliases = append(aliases, record.UserAlias)
		}
	}
	return aliases
}
