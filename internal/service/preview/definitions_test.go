package preview

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridlake/internal/domain"
)

type definitionStoreStub struct {
	defs      map[string]*domain.QueryDefinition
	insertErr error
	touchErr  error
	touched   []string
	deleted   []string
}

func newDefinitionStoreStub() *definitionStoreStub {
	return &definitionStoreStub{defs: map[string]*domain.QueryDefinition{}}
}

func (s *definitionStoreStub) Insert(_ context.Context, def *domain.QueryDefinition) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.defs[def.ID] = def
	return nil
}

func (s *definitionStoreStub) GetByID(_ context.Context, id string) (*domain.QueryDefinition, error) {
	return s.defs[id], nil
}

func (s *definitionStoreStub) List(_ context.Context) ([]domain.QueryDefinition, error) {
	var defs []domain.QueryDefinition
	for _, def := range s.defs {
		defs = append(defs, *def)
	}
	return defs, nil
}

func (s *definitionStoreStub) Delete(_ context.Context, id string) error {
	if _, ok := s.defs[id]; !ok {
		return domain.ErrNotFound("query definition %q not found", id)
	}
	delete(s.defs, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *definitionStoreStub) TouchValidated(_ context.Context, id string, _ time.Time) error {
	if s.touchErr != nil {
		return s.touchErr
	}
	s.touched = append(s.touched, id)
	return nil
}

func newDefinitionService(store domain.DefinitionStore) *DefinitionService {
	engine := newTestService(scenarioCatalog(), scenarioRows(), nil)
	return NewDefinitionService(store, engine, testLogger())
}

func TestDefinitionService_Save(t *testing.T) {
	store := newDefinitionStoreStub()
	svc := newDefinitionService(store)

	req := scenarioRequest()
	def, err := svc.Save(context.Background(), "monthly-orders", "orders vs budget", req)
	require.NoError(t, err)
	assert.NotEmpty(t, def.ID)
	assert.Equal(t, "monthly-orders", def.Name)

	payload, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(def.Definition))
	sum := sha256.Sum256(payload)
	assert.Equal(t, hex.EncodeToString(sum[:]), def.Checksum)

	require.Len(t, def.Sheets, 2)
	assert.Equal(t, domain.QuerySheetLink{SheetID: "sheet-sales", Alias: "sales", Role: domain.SheetRolePrimary, Position: 0}, def.Sheets[0])
	assert.Equal(t, domain.QuerySheetLink{SheetID: "sheet-budget", Alias: "budget", Role: domain.SheetRoleJoin, Position: 1}, def.Sheets[1])

	assert.Contains(t, store.defs, def.ID)
}

func TestDefinitionService_Save_RoleDefaultsToPrimary(t *testing.T) {
	svc := newDefinitionService(newDefinitionStoreStub())

	req := scenarioRequest()
	req.Sheets = req.Sheets[:1]
	req.Sheets[0].Role = ""
	def, err := svc.Save(context.Background(), "orders", "", req)
	require.NoError(t, err)
	assert.Equal(t, domain.SheetRolePrimary, def.Sheets[0].Role)
}

func TestDefinitionService_Save_Validation(t *testing.T) {
	svc := newDefinitionService(newDefinitionStoreStub())
	ctx := context.Background()

	_, err := svc.Save(ctx, "  ", "", scenarioRequest())
	assert.EqualError(t, err, "definition name is required")

	req := scenarioRequest()
	req.Sheets = nil
	_, err = svc.Save(ctx, "orders", "", req)
	assert.EqualError(t, err, "At least one sheet must be selected.")

	req = scenarioRequest()
	req.Projections = nil
	_, err = svc.Save(ctx, "orders", "", req)
	assert.EqualError(t, err, "At least one projection must be provided.")
}

func TestDefinitionService_Save_ConflictPropagates(t *testing.T) {
	store := newDefinitionStoreStub()
	store.insertErr = domain.ErrConflict("query definition %q already exists", "orders")
	svc := newDefinitionService(store)

	_, err := svc.Save(context.Background(), "orders", "", scenarioRequest())
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestDefinitionService_Get_NotFound(t *testing.T) {
	svc := newDefinitionService(newDefinitionStoreStub())

	_, err := svc.Get(context.Background(), "nope")
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDefinitionService_Run(t *testing.T) {
	store := newDefinitionStoreStub()
	svc := newDefinitionService(store)
	ctx := context.Background()

	def, err := svc.Save(ctx, "orders", "", scenarioRequest())
	require.NoError(t, err)

	result, err := svc.Run(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"223500", "225000"}}, result.Rows)
	assert.Equal(t, []string{def.ID}, store.touched)
}

func TestDefinitionService_Run_TouchFailureIsBestEffort(t *testing.T) {
	store := newDefinitionStoreStub()
	store.touchErr = errors.New("db busy")
	svc := newDefinitionService(store)
	ctx := context.Background()

	def, err := svc.Save(ctx, "orders", "", scenarioRequest())
	require.NoError(t, err)

	result, err := svc.Run(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowCount)
}

func TestDefinitionService_Run_NotFound(t *testing.T) {
	svc := newDefinitionService(newDefinitionStoreStub())

	_, err := svc.Run(context.Background(), "nope")
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDefinitionService_Run_CorruptPayload(t *testing.T) {
	store := newDefinitionStoreStub()
	store.defs["def-1"] = &domain.QueryDefinition{ID: "def-1", Name: "broken", Definition: []byte("{not json")}
	svc := newDefinitionService(store)

	_, err := svc.Run(context.Background(), "def-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode definition")
}
