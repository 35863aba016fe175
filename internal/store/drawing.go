package store

import (
	"database/sql"
	"errors"
	"time"
)

// Drawing is a saved canvas, encoded as PNG.
type Drawing struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	PNG       []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// DrawingRepository provides CRUD operations for saved drawings.
type DrawingRepository struct {
	db *sql.DB
}

// Drawings returns the drawing repository for this store.
func (s *Store) Drawings() *DrawingRepository {
	return &DrawingRepository{db: s.db}
}

// Create inserts a new drawing. An empty SessionID stores no session link.
func (r *DrawingRepository) Create(d *Drawing) error {
	d.CreatedAt = time.Now()

	var sessionID sql.NullString
	if d.SessionID != "" {
		sessionID = sql.NullString{String: d.SessionID, Valid: true}
	}

	_, err := r.db.Exec(
		`INSERT INTO drawings (id, session_id, width, height, png, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, sessionID, d.Width, d.Height, d.PNG, d.CreatedAt,
	)
	return err
}

// GetByID retrieves a drawing, including its PNG data.
func (r *DrawingRepository) GetByID(id string) (*Drawing, error) {
	d := &Drawing{}
	var sessionID sql.NullString

	err := r.db.QueryRow(
		`SELECT id, session_id, width, height, png, created_at FROM drawings WHERE id = ?`,
		id,
	).Scan(&d.ID, &sessionID, &d.Width, &d.Height, &d.PNG, &d.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	d.SessionID = sessionID.String
	return d, nil
}

// List returns drawing metadata, newest first. PNG data is not loaded.
func (r *DrawingRepository) List() ([]*Drawing, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, width, height, created_at FROM drawings ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drawings []*Drawing
	for rows.Next() {
		d := &Drawing{}
		var sessionID sql.NullString

		if err := rows.Scan(&d.ID, &sessionID, &d.Width, &d.Height, &d.CreatedAt); err != nil {
			return nil, err
		}

		d.SessionID = sessionID.String
		drawings = append(drawings, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return drawings, nil
}

// Delete removes a drawing by its ID.
func (r *DrawingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM drawings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}
