package handlers

import (
	"encoding/json"
	"net/http"

	"spriteforge/models"
)

type projectsResponse struct {
	Projects        []models.Project `json:"projects"`
	ActiveProjectID string           `json:"activeProjectId,omitempty"`
	StorageFull     bool             `json:"storageFull"`
}

type createProjectRequest struct {
	Name           string `json:"name"`
	StoryConceptID string `json:"storyConceptId,omitempty"`
}

type activateProjectRequest struct {
	ID string `json:"id"` // empty clears the active project
}

// ProjectsHandler lists, creates, and deletes projects.
func (s *Server) ProjectsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, projectsResponse{
			Projects:        s.repo.ListProjects(),
			ActiveProjectID: s.repo.ActiveProjectID(),
			StorageFull:     s.repo.StorageFull(),
		})

	case http.MethodPost:
		var req createProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "Missing project name", http.StatusBadRequest)
			return
		}
		project, err := s.repo.CreateProject(r.Context(), req.Name, req.StoryConceptID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, project)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Missing id", http.StatusBadRequest)
			return
		}
		if err := s.repo.DeleteProject(r.Context(), id); err != nil {
			s.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ActivateProjectHandler sets or clears the active project pointer.
func (s *Server) ActivateProjectHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req activateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		s.repo.ClearActiveProject()
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := s.repo.SetActiveProject(req.ID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
