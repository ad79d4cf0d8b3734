package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kakeibo/internal/core"
)

var ErrTemplateNotFound = errors.New("recurring template not found")

// SaveTemplate inserts a template and returns its assigned ID.
func (s *DraftStore) SaveTemplate(ctx context.Context, t core.RecurringTemplate) (int64, error) {
	if !t.Frequency.IsValid() {
		return 0, fmt.Errorf("save template: unknown frequency %q", t.Frequency)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO recurring_templates
			(item_name, amount, quantity, tax_rate, category_id, shop_name, frequency, start_date, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ItemName, int64(t.Amount), t.Quantity, int64(t.TaxRate), t.CategoryID,
		t.ShopName, string(t.Frequency), t.StartDate.Format("2006-01-02"), t.Active)
	if err != nil {
		return 0, fmt.Errorf("save template: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save template id: %w", err)
	}
	return id, nil
}

// ActiveTemplates returns every active recurring template.
func (s *DraftStore) ActiveTemplates(ctx context.Context) ([]core.RecurringTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_name, amount, quantity, tax_rate, category_id, shop_name,
		       frequency, start_date, last_execution, active
		FROM recurring_templates WHERE active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list active templates: %w", err)
	}
	defer rows.Close()

	var templates []core.RecurringTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return templates, nil
}

// TemplateByID returns one template, active or not.
func (s *DraftStore) TemplateByID(ctx context.Context, id int64) (core.RecurringTemplate, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, item_name, amount, quantity, tax_rate, category_id, shop_name,
		       frequency, start_date, last_execution, active
		FROM recurring_templates WHERE id = ?`, id)

	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringTemplate{}, ErrTemplateNotFound
	}
	if err != nil {
		return core.RecurringTemplate{}, err
	}
	return t, nil
}

// MarkTemplateExecuted records when the template last produced a draft.
func (s *DraftStore) MarkTemplateExecuted(ctx context.Context, id int64, when time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE recurring_templates SET last_execution = ? WHERE id = ?`,
		when.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("mark template executed %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// DeactivateTemplate stops a template from producing drafts without losing it.
func (s *DraftStore) DeactivateTemplate(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE recurring_templates SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate template %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (core.RecurringTemplate, error) {
	var (
		t         core.RecurringTemplate
		amount    int64
		taxRate   int64
		frequency string
		startDate string
		lastExec  sql.NullString
		active    int
	)
	err := row.Scan(&t.ID, &t.ItemName, &amount, &t.Quantity, &taxRate, &t.CategoryID,
		&t.ShopName, &frequency, &startDate, &lastExec, &active)
	if err != nil {
		return core.RecurringTemplate{}, fmt.Errorf("scan template: %w", err)
	}

	t.Amount = core.Yen(amount)
	t.TaxRate = core.TaxRate(taxRate)
	t.Frequency = core.Frequency(frequency)
	t.Active = active != 0

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return core.RecurringTemplate{}, fmt.Errorf("parse template start date %q: %w", startDate, err)
	}
	t.StartDate = core.Date{Time: start}

	if lastExec.Valid && lastExec.String != "" {
		when, err := time.Parse(time.RFC3339, lastExec.String)
		if err != nil {
			return core.RecurringTemplate{}, fmt.Errorf("parse template last execution %q: %w", lastExec.String, err)
		}
		t.LastExecution = when
	}
	return t, nil
}
