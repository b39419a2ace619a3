package preview

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gridlake/internal/domain"
)

// DefinitionService persists preview requests under reusable names and
// replays them through the engine.
type DefinitionService struct {
	store   domain.DefinitionStore
	preview *Service
	logger  *slog.Logger
}

func NewDefinitionService(store domain.DefinitionStore, preview *Service, logger *slog.Logger) *DefinitionService {
	return &DefinitionService{
		store:   store,
		preview: preview,
		logger:  logger.With("component", "definitions"),
	}
}

// Save validates and stores a preview request. The stored payload is the
// canonical JSON encoding of the request; its sha256 lets clients detect
// definition changes.
func (s *DefinitionService) Save(ctx context.Context, name, description string, req Request) (*domain.QueryDefinition, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrValidation("definition name is required")
	}
	if len(req.Sheets) == 0 {
		return nil, domain.ErrValidation("At least one sheet must be selected.")
	}
	if len(req.Projections) == 0 {
		return nil, domain.ErrValidation("At least one projection must be provided.")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode definition: %w", err)
	}
	sum := sha256.Sum256(payload)

	now := time.Now().UTC()
	def := &domain.QueryDefinition{
		ID:          domain.NewID(),
		Name:        name,
		Description: description,
		Definition:  payload,
		Checksum:    hex.EncodeToString(sum[:]),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, sel := range req.Sheets {
		def.Sheets = append(def.Sheets, domain.QuerySheetLink{
			SheetID:  sel.SheetID,
			Alias:    sel.Alias,
			Role:     sel.Role.OrDefault(),
			Position: i,
		})
	}

	if err := s.store.Insert(ctx, def); err != nil {
		return nil, err
	}
	s.logger.Info("query definition saved", "id", def.ID, "name", def.Name)
	return def, nil
}

// Get returns one definition or domain.NotFoundError.
func (s *DefinitionService) Get(ctx context.Context, id string) (*domain.QueryDefinition, error) {
	def, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, domain.ErrNotFound("query definition %q not found", id)
	}
	return def, nil
}

// List returns all definitions, newest first.
func (s *DefinitionService) List(ctx context.Context) ([]domain.QueryDefinition, error) {
	return s.store.List(ctx)
}

// Delete removes a definition.
func (s *DefinitionService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Run replays a saved definition through the preview engine. A successful
// run marks the definition validated; that bookkeeping is best-effort.
func (s *DefinitionService) Run(ctx context.Context, id string) (*Result, error) {
	def, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var req Request
	if err := json.Unmarshal(def.Definition, &req); err != nil {
		return nil, fmt.Errorf("decode definition %q: %w", id, err)
	}

	result, err := s.preview.Preview(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.store.TouchValidated(ctx, id, time.Now().UTC()); err != nil {
		s.logger.Warn("mark definition validated", "id", id, "error", err)
	}
	return result, nil
}
