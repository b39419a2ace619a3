package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gridlake/internal/domain"
)

// DefinitionRepository persists saved query definitions and their sheet links.
type DefinitionRepository struct {
	db *sql.DB
}

func NewDefinitionRepository(db *sql.DB) *DefinitionRepository {
	return &DefinitionRepository{db: db}
}

var _ domain.DefinitionStore = (*DefinitionRepository)(nil)

// Insert stores a definition together with its sheet links in one transaction.
func (r *DefinitionRepository) Insert(ctx context.Context, def *domain.QueryDefinition) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO query_definitions (id, name, description, definition, checksum, created_at, updated_at, last_validated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		def.ID, def.Name, def.Description, string(def.Definition), def.Checksum,
		def.CreatedAt, def.UpdatedAt, def.LastValidatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrConflict("query definition %q already exists", def.Name)
		}
		return fmt.Errorf("insert query definition: %w", err)
	}

	for _, link := range def.Sheets {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO query_sheet_links (definition_id, sheet_id, alias, role, position_index)
			 VALUES (?, ?, ?, ?, ?)`,
			def.ID, link.SheetID, link.Alias, string(link.Role.OrDefault()), link.Position)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return domain.ErrConflict("duplicate sheet alias %q in query definition %q", link.Alias, def.Name)
			}
			return fmt.Errorf("insert sheet link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit query definition: %w", err)
	}
	return nil
}

// GetByID returns a definition with its links, or (nil, nil) when missing.
func (r *DefinitionRepository) GetByID(ctx context.Context, id string) (*domain.QueryDefinition, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, definition, checksum, created_at, updated_at, last_validated_at
		 FROM query_definitions WHERE id = ?`, id)
	def, err := scanDefinition(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get query definition: %w", err)
	}
	if def.Sheets, err = r.loadLinks(ctx, def.ID); err != nil {
		return nil, err
	}
	return def, nil
}

// List returns definitions newest-first, each with its sheet links.
func (r *DefinitionRepository) List(ctx context.Context) ([]domain.QueryDefinition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, definition, checksum, created_at, updated_at, last_validated_at
		 FROM query_definitions ORDER BY created_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list query definitions: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var defs []domain.QueryDefinition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan query definition: %w", err)
		}
		defs = append(defs, *def)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range defs {
		if defs[i].Sheets, err = r.loadLinks(ctx, defs[i].ID); err != nil {
			return nil, err
		}
	}
	return defs, nil
}

// Delete removes a definition; links cascade.
func (r *DefinitionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM query_definitions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete query definition: %w", err)
	}
	return requireRowAffected(res, "query definition", id)
}

// TouchValidated records the time the definition last previewed successfully.
func (r *DefinitionRepository) TouchValidated(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE query_definitions SET last_validated_at = ?, updated_at = ? WHERE id = ?`,
		at, at, id)
	if err != nil {
		return fmt.Errorf("touch query definition: %w", err)
	}
	return requireRowAffected(res, "query definition", id)
}

func (r *DefinitionRepository) loadLinks(ctx context.Context, definitionID string) ([]domain.QuerySheetLink, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sheet_id, alias, role, position_index
		 FROM query_sheet_links WHERE definition_id = ? ORDER BY position_index`, definitionID)
	if err != nil {
		return nil, fmt.Errorf("load sheet links: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var links []domain.QuerySheetLink
	for rows.Next() {
		var (
			link domain.QuerySheetLink
			role string
		)
		if err := rows.Scan(&link.SheetID, &link.Alias, &role, &link.Position); err != nil {
			return nil, fmt.Errorf("scan sheet link: %w", err)
		}
		link.Role = domain.SheetRole(role)
		links = append(links, link)
	}
	return links, rows.Err()
}

func scanDefinition(row rowScanner) (*domain.QueryDefinition, error) {
	var (
		def         domain.QueryDefinition
		rawDef      string
		validatedAt sql.NullTime
	)
	err := row.Scan(&def.ID, &def.Name, &def.Description, &rawDef, &def.Checksum,
		&def.CreatedAt, &def.UpdatedAt, &validatedAt)
	if err != nil {
		return nil, err
	}
	def.Definition = []byte(rawDef)
	if validatedAt.Valid {
		t := validatedAt.Time
		def.LastValidatedAt = &t
	}
	return &def, nil
}
