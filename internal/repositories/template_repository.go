package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/notificationservice/backend/internal/models"
	"go.uber.org/zap"
)

type templatesRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTemplatesRepository creates a new instance of the TemplateRepository interface
func NewTemplatesRepository(db *sql.DB, logger *zap.Logger) *templatesRepository {
	return &templatesRepository{
		db:     db,
		logger: logger,
	}
}

const templateColumns = "name, parent, title, body, engine_type, created_by, created_date, updated_by, updated_date"

// Get retrieves a message template by its name.
// Returns nil without error when no template with the given name exists.
func (r *templatesRepository) Get(ctx context.Context, name string) (*models.Template, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM message_templates
		WHERE name = ?
	`, templateColumns)

	template, err := r.scanTemplate(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("failed to query template", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("failed to query template: %w", err)
	}

	return template, nil
}

// GetAll retrieves all message templates ordered by name
func (r *templatesRepository) GetAll(ctx context.Context) ([]models.Template, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM message_templates
		ORDER BY name
	`, templateColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query templates", zap.Error(err))
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		template, err := r.scanTemplate(rows)
		if err != nil {
			r.logger.Error("failed to scan template", zap.Error(err))
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, *template)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return templates, nil
}

// GetChildren retrieves all templates that name the given template as their parent
func (r *templatesRepository) GetChildren(ctx context.Context, parent string) ([]models.Template, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM message_templates
		WHERE parent = ?
		ORDER BY name
	`, templateColumns)

	rows, err := r.db.QueryContext(ctx, query, parent)
	if err != nil {
		r.logger.Error("failed to query child templates", zap.Error(err), zap.String("parent", parent))
		return nil, fmt.Errorf("failed to query child templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		template, err := r.scanTemplate(rows)
		if err != nil {
			r.logger.Error("failed to scan template", zap.Error(err))
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, *template)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return templates, nil
}

// Add inserts a new message template
func (r *templatesRepository) Add(ctx context.Context, template *models.Template) error {
	query := fmt.Sprintf(`
		INSERT INTO message_templates (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, templateColumns)

	_, err := r.db.ExecContext(ctx, query,
		template.Name,
		nullableParent(template.Parent),
		template.Title,
		template.Body,
		string(template.EngineType),
		template.CreatedBy,
		template.CreatedDate,
		template.UpdatedBy,
		template.UpdatedDate,
	)
	if err != nil {
		r.logger.Error("failed to insert template", zap.Error(err), zap.String("name", template.Name))
		return fmt.Errorf("failed to insert template: %w", err)
	}

	return nil
}

// Update replaces the mutable fields of an existing template.
// Returns the number of affected rows.
func (r *templatesRepository) Update(ctx context.Context, template *models.Template) (int64, error) {
	query := `
		UPDATE message_templates
		SET parent = ?, title = ?, body = ?, engine_type = ?, updated_by = ?, updated_date = ?
		WHERE name = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		nullableParent(template.Parent),
		template.Title,
		template.Body,
		string(template.EngineType),
		template.UpdatedBy,
		template.UpdatedDate,
		template.Name,
	)
	if err != nil {
		r.logger.Error("failed to update template", zap.Error(err), zap.String("name", template.Name))
		return 0, fmt.Errorf("failed to update template: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected, nil
}

// Delete removes a template by name. Returns the number of affected rows.
func (r *templatesRepository) Delete(ctx context.Context, name string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM message_templates WHERE name = ?`, name)
	if err != nil {
		r.logger.Error("failed to delete template", zap.Error(err), zap.String("name", name))
		return 0, fmt.Errorf("failed to delete template: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected, nil
}

// DeleteAll removes every stored template. Returns the number of affected rows.
func (r *templatesRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM message_templates`)
	if err != nil {
		r.logger.Error("failed to delete templates", zap.Error(err))
		return 0, fmt.Errorf("failed to delete templates: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected, nil
}

// scanner abstracts sql.Row and sql.Rows for template scanning
type scanner interface {
	Scan(dest ...any) error
}

func (r *templatesRepository) scanTemplate(row scanner) (*models.Template, error) {
	var template models.Template
	var parent sql.NullString
	var engineType string

	err := row.Scan(
		&template.Name,
		&parent,
		&template.Title,
		&template.Body,
		&engineType,
		&template.CreatedBy,
		&template.CreatedDate,
		&template.UpdatedBy,
		&template.UpdatedDate,
	)
	if err != nil {
		return nil, err
	}

	if parent.Valid {
		template.Parent = parent.String
	}
	template.EngineType = models.EngineType(engineType)

	return &template, nil
}

// nullableParent maps an empty parent name to NULL
func nullableParent(parent string) sql.NullString {
	return sql.NullString{String: parent, Valid: parent != ""}
}
