package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store reads the product tables. All lists return active/available rows only;
// inactive rows exist for the back office and never reach the storefront.
type Store struct{ DB *pgxpool.Pool }

func (s *Store) ListTickets(ctx context.Context) ([]Ticket, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, name, description, price, duration_minutes, age_restriction, image_url, is_active, created_at
		FROM tickets WHERE is_active ORDER BY price`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ticket
	for rows.Next() {
		var t Ticket
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Price, &t.DurationMinutes,
			&t.AgeRestriction, &t.ImageURL, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) ListCombos(ctx context.Context) ([]Combo, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, name, description, price, original_price, includes, image_url, is_active, created_at
		FROM combos WHERE is_active ORDER BY price`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Combo
	for rows.Next() {
		var c Combo
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Price, &c.OriginalPrice,
			&c.Includes, &c.ImageURL, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, name, description, category, price, image_url, is_available, created_at
		FROM menu_items WHERE is_available ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MenuItem
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Category, &m.Price,
			&m.ImageURL, &m.IsAvailable, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) ListMenuCategories(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT DISTINCT category FROM menu_items WHERE is_available ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
