// Package repo is the single in-memory source of truth for assets and
// projects, mirrored to the persistent store on every mutation.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"spriteforge/models"
	"spriteforge/store"
)

// StoryContextLimit bounds how much of a project's story is injected into
// generation prompts. A cost/relevance tradeoff, not a correctness bound.
const StoryContextLimit = 1000

var (
	// ErrStorageFull rejects additive saves while the storage-full flag is
	// set, before any mutation happens.
	ErrStorageFull = errors.New("storage is full, delete assets to free space")

	// ErrProjectNotFound reports an unknown project id.
	ErrProjectNotFound = errors.New("project not found")

	// ErrDuplicateAsset rejects an asset whose id is already in the
	// collection. Ids are globally unique; a second copy would make removal
	// by id ambiguous.
	ErrDuplicateAsset = errors.New("asset id already exists")
)

// Repository mirrors the asset and project collections between memory and the
// persistent store. All access goes through one mutex; mutations that couple
// an asset insert with a project link update commit together so no caller
// observes the asset without its link.
type Repository struct {
	mu    sync.Mutex
	log   *zap.Logger
	store store.Store

	assets   []models.Asset
	projects []models.Project

	activeProjectID string
	storageFull     bool
	lastTimestamp   int64
}

// Load builds a Repository from the store. A corrupted collection is reported
// in the returned warnings and replaced with an empty one rather than
// failing the whole load.
func Load(ctx context.Context, s store.Store, log *zap.Logger) (*Repository, []error) {
	r := &Repository{log: log, store: s}
	var warnings []error

	if err := loadCollection(ctx, s, store.KeyAssets, &r.assets); err != nil {
		warnings = append(warnings, fmt.Errorf("saved assets could not be loaded, starting empty: %w", err))
		r.assets = nil
	}
	if err := loadCollection(ctx, s, store.KeyProjects, &r.projects); err != nil {
		warnings = append(warnings, fmt.Errorf("saved projects could not be loaded, starting empty: %w", err))
		r.projects = nil
	}

	for _, w := range warnings {
		log.Warn("corrupted collection", zap.Error(w))
	}
	return r, warnings
}

func loadCollection[T any](ctx context.Context, s store.Store, key string, out *[]T) error {
	payload, err := s.Load(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, out)
}

// AddAsset appends an asset and, when a project is active and the asset's
// category has a linked list, couples the project link into the same logical
// transaction. Rejected up front while the storage-full flag is set.
func (r *Repository) AddAsset(ctx context.Context, asset models.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.storageFull {
		return ErrStorageFull
	}
	if err := asset.Validate(); err != nil {
		return err
	}
	if _, exists := r.findAsset(asset.ID); exists {
		return fmt.Errorf("asset %q: %w", asset.ID, ErrDuplicateAsset)
	}
	if asset.Timestamp == 0 {
		asset.Timestamp = r.nextTimestamp()
	}
	if r.activeProjectID != "" && asset.ProjectID == "" {
		asset.ProjectID = r.activeProjectID
	}

	r.assets = append(r.assets, asset)
	linked := false
	if r.activeProjectID != "" {
		for i := range r.projects {
			if r.projects[i].ID == r.activeProjectID {
				linked = r.projects[i].LinkAsset(&asset)
				break
			}
		}
	}

	if err := r.persist(ctx, store.KeyAssets); err != nil {
		return err
	}
	if linked {
		if err := r.persist(ctx, store.KeyProjects); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAsset drops an asset from the collection. Project linked-asset lists
// are left untouched; stale ids there are tolerated by every lookup.
// Removals are attempted even while the storage-full flag is set, since
// deleting assets is how a user frees space.
func (r *Repository) RemoveAsset(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.assets[:0]
	for _, a := range r.assets {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	r.assets = kept
	return r.persist(ctx, store.KeyAssets)
}

// GetAsset looks an asset up by id.
func (r *Repository) GetAsset(id string) (models.Asset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findAsset(id)
}

// ListAssets returns all assets newest first, ties broken by insertion order.
func (r *Repository) ListAssets() []models.Asset {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Asset, len(r.assets))
	copy(out, r.assets)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// CreateProject allocates a project, optionally anchored to an existing story
// concept asset, and makes it the active project.
func (r *Repository) CreateProject(ctx context.Context, name, storyConceptID string) (models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.storageFull {
		return models.Project{}, ErrStorageFull
	}

	project := models.Project{
		ID:        models.NewProjectID(),
		Name:      name,
		Timestamp: r.nextTimestamp(),
	}
	if storyConceptID != "" {
		story, ok := r.findAsset(storyConceptID)
		if !ok || story.AssetType != models.AssetStoryConcept {
			return models.Project{}, fmt.Errorf("story concept %q not found", storyConceptID)
		}
		project.StoryConceptID = story.ID
		project.GameGenre = story.Genre
	}

	r.projects = append(r.projects, project)
	r.activeProjectID = project.ID
	if err := r.persist(ctx, store.KeyProjects); err != nil {
		return project, err
	}
	return project, nil
}

// DeleteProject removes the project record only. Its assets stay in the
// global collection with a now-dangling projectId, treated as unassigned.
func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.projects[:0]
	found := false
	for _, p := range r.projects {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	r.projects = kept
	if !found {
		return ErrProjectNotFound
	}
	if r.activeProjectID == id {
		r.activeProjectID = ""
	}
	return r.persist(ctx, store.KeyProjects)
}

// GetProject looks a project up by id.
func (r *Repository) GetProject(id string) (models.Project, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findProject(id)
}

// ListProjects returns all projects newest first.
func (r *Repository) ListProjects() []models.Project {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Project, len(r.projects))
	copy(out, r.projects)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// SetActiveProject points new-asset attribution and prompt context at the
// given project.
func (r *Repository) SetActiveProject(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.findProject(id); !ok {
		return ErrProjectNotFound
	}
	r.activeProjectID = id
	return nil
}

// ClearActiveProject drops the active pointer.
func (r *Repository) ClearActiveProject() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeProjectID = ""
}

// ActiveProjectID returns the active project id, empty when none is set.
func (r *Repository) ActiveProjectID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeProjectID
}

// ActiveStoryContext resolves the story context of the active project, if
// any, for prompt injection.
func (r *Repository) ActiveStoryContext() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.activeProjectID == "" {
		return "", false
	}
	return r.resolveStoryContext(r.activeProjectID)
}

// ResolveStoryContext returns a bounded prefix of the project's anchoring
// story content for prompt injection, or false when no story is linked or
// the referenced asset no longer exists.
func (r *Repository) ResolveStoryContext(projectID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveStoryContext(projectID)
}

// StorageFull reports whether the last mirror write failed on capacity and no
// write has succeeded since.
func (r *Repository) StorageFull() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storageFull
}

func (r *Repository) findAsset(id string) (models.Asset, bool) {
	for _, a := range r.assets {
		if a.ID == id {
			return a, true
		}
	}
	return models.Asset{}, false
}

func (r *Repository) findProject(id string) (models.Project, bool) {
	for _, p := range r.projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

func (r *Repository) resolveStoryContext(projectID string) (string, bool) {
	project, ok := r.findProject(projectID)
	if !ok || project.StoryConceptID == "" {
		return "", false
	}
	story, ok := r.findAsset(project.StoryConceptID)
	if !ok || story.AssetType != models.AssetStoryConcept {
		return "", false
	}
	content := []rune(story.Content)
	if len(content) > StoryContextLimit {
		return string(content[:StoryContextLimit]) + "...", true
	}
	return story.Content, true
}

// persist mirrors one collection to the store and drives the storage-full
// flag: a capacity failure sets it (logging only on the transition), any
// successful write clears it. On capacity failure the in-memory state stays
// as the new, unsaved truth.
func (r *Repository) persist(ctx context.Context, key string) error {
	var payload []byte
	var err error
	switch key {
	case store.KeyAssets:
		assets := r.assets
		if assets == nil {
			assets = []models.Asset{}
		}
		payload, err = json.Marshal(assets)
	case store.KeyProjects:
		projects := r.projects
		if projects == nil {
			projects = []models.Project{}
		}
		payload, err = json.Marshal(projects)
	default:
		return fmt.Errorf("unknown collection key %q", key)
	}
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}

	saveErr := r.store.Save(ctx, key, payload)
	if errors.Is(saveErr, store.ErrCapacityExceeded) {
		if !r.storageFull {
			r.log.Warn("storage full, further saves disabled", zap.String("key", key))
			r.storageFull = true
		}
		return fmt.Errorf("save %q: %w", key, saveErr)
	}
	if saveErr != nil {
		return saveErr
	}
	if r.storageFull {
		r.log.Info("storage write succeeded, saves re-enabled")
		r.storageFull = false
	}
	return nil
}

// nextTimestamp hands out ms timestamps that never go backwards within one
// process, so insertion order is a stable tiebreak for equal instants.
func (r *Repository) nextTimestamp() int64 {
	now := time.Now().UnixMilli()
	if now < r.lastTimestamp {
		now = r.lastTimestamp
	}
	r.lastTimestamp = now
	return now
}
