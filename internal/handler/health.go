package handler

import (
	"encoding/json"
	"net/http"
)

// HandleHealthz reports liveness. Backend reachability is deliberately not
// checked here: the frontend stays up and serves error pages through
// backend outages.
func HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
