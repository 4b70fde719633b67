// Package handlers exposes the repository and the generation pipeline over a
// small JSON HTTP surface. Handlers are thin relays; all rules live in the
// repo and generator packages.
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"spriteforge/generator"
	"spriteforge/repo"
	"spriteforge/store"
)

// BatchStatus reports progress of a running batch generation.
type BatchStatus struct {
	Active  bool   `json:"active"`
	Message string `json:"message"`
	Total   int    `json:"total"`
	Current int    `json:"current"`
}

// Server wires the repository and orchestrator into HTTP handlers.
type Server struct {
	repo *repo.Repository
	orch *generator.Orchestrator
	log  *zap.Logger

	batchMu sync.Mutex
	batch   BatchStatus
}

// NewServer builds a handler set over the given repository and orchestrator.
func NewServer(r *repo.Repository, o *generator.Orchestrator, log *zap.Logger) *Server {
	return &Server{repo: r, orch: o, log: log}
}

// Register attaches all routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/assets", s.AssetsHandler)
	mux.HandleFunc("/projects", s.ProjectsHandler)
	mux.HandleFunc("/projects/activate", s.ActivateProjectHandler)
	mux.HandleFunc("/generate/sprite", s.GenerateSpriteHandler)
	mux.HandleFunc("/generate/sprite/images", s.RegenerateImagesHandler)
	mux.HandleFunc("/generate/item", s.GenerateItemHandler)
	mux.HandleFunc("/generate/story", s.GenerateStoryHandler)
	mux.HandleFunc("/generate/map", s.GenerateMapHandler)
	mux.HandleFunc("/generate/rpg", s.GenerateRPGHandler)
	mux.HandleFunc("/generate/illustration", s.GenerateIllustrationHandler)
	mux.HandleFunc("/generate/batch", s.BatchGenerateHandler)
	mux.HandleFunc("/status", s.StatusHandler)
}

func (s *Server) setBatch(status BatchStatus) {
	s.batchMu.Lock()
	s.batch = status
	s.batchMu.Unlock()
}

func (s *Server) batchStatus() BatchStatus {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return s.batch
}

type errorResponse struct {
	Error       string `json:"error"`
	StorageFull bool   `json:"storageFull,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes: storage-full to 507,
// missing records to 404, contract violations from the model to 502.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error(), StorageFull: s.repo.StorageFull()}

	var malformed *generator.MalformedResponseError
	switch {
	case errors.Is(err, repo.ErrStorageFull), errors.Is(err, store.ErrCapacityExceeded):
		writeJSON(w, http.StatusInsufficientStorage, resp)
	case errors.Is(err, repo.ErrProjectNotFound):
		writeJSON(w, http.StatusNotFound, resp)
	case errors.Is(err, repo.ErrDuplicateAsset):
		writeJSON(w, http.StatusConflict, resp)
	case errors.As(err, &malformed):
		writeJSON(w, http.StatusBadGateway, resp)
	default:
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

// dataURL wraps PNG bytes as a self-contained image payload reference, the
// same format the persisted assets use.
func dataURL(png []byte) string {
	if len(png) == 0 {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

func dataURLs(frames [][]byte) []string {
	out := make([]string, 0, len(frames))
	for _, f := range frames {
		out = append(out, dataURL(f))
	}
	return out
}
