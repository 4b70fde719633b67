package handlers

import (
	"encoding/json"
	"net/http"

	"spriteforge/models"
)

type assetsResponse struct {
	Assets      []models.Asset `json:"assets"`
	StorageFull bool           `json:"storageFull"`
}

type saveAssetResponse struct {
	ID string `json:"id"`
}

// AssetsHandler lists, saves, and deletes assets.
func (s *Server) AssetsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, assetsResponse{
			Assets:      s.repo.ListAssets(),
			StorageFull: s.repo.StorageFull(),
		})

	case http.MethodPost:
		var asset models.Asset
		if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		if asset.ID == "" {
			asset.ID = models.NewAssetID(asset.AssetType)
		}
		if err := s.repo.AddAsset(r.Context(), asset); err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, saveAssetResponse{ID: asset.ID})

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Missing id", http.StatusBadRequest)
			return
		}
		if err := s.repo.RemoveAsset(r.Context(), id); err != nil {
			s.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
