package handlers

import (
	"net/http"

	"spriteforge/generator"
)

type statusResponse struct {
	Generation  generator.Status `json:"generation"`
	Batch       BatchStatus      `json:"batch"`
	StorageFull bool             `json:"storageFull"`
}

// StatusHandler reports the current generation phase, batch progress and
// the storage-full flag in one poll.
func (s *Server) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Generation:  s.orch.Status(),
		Batch:       s.batchStatus(),
		StorageFull: s.repo.StorageFull(),
	})
}
