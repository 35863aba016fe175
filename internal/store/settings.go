package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// SettingsRepository stores string key-value settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the value for key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set inserts or replaces the value for key.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	return err
}

// Delete removes key.
func (r *SettingsRepository) Delete(key string) error {
	result, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// All returns every stored setting.
func (r *SettingsRepository) All() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Preferences are the user-tunable settings of the pointer loop.
type Preferences struct {
	BrushColor      string  `mapstructure:"brush_color" json:"brush_color"`
	BrushSize       float64 `mapstructure:"brush_size" json:"brush_size"`
	SmoothingAlpha  float64 `mapstructure:"smoothing_alpha" json:"smoothing_alpha"`
	ClickCooldownMS int     `mapstructure:"click_cooldown_ms" json:"click_cooldown_ms"`
}

// DefaultPreferences returns the built-in preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		BrushColor:      "#00ff00",
		BrushSize:       5,
		SmoothingAlpha:  0.5,
		ClickCooldownMS: 300,
	}
}

// Validate reports the first out-of-range preference.
func (p Preferences) Validate() error {
	if _, err := colorful.Hex(p.BrushColor); err != nil {
		return fmt.Errorf("brush_color %q: %w", p.BrushColor, err)
	}
	if p.BrushSize <= 0 {
		return fmt.Errorf("brush_size must be positive, got %v", p.BrushSize)
	}
	if p.SmoothingAlpha <= 0 || p.SmoothingAlpha > 1 {
		return fmt.Errorf("smoothing_alpha must be in (0, 1], got %v", p.SmoothingAlpha)
	}
	if p.ClickCooldownMS < 0 {
		return fmt.Errorf("click_cooldown_ms must not be negative, got %d", p.ClickCooldownMS)
	}
	return nil
}

// Cooldown returns the click cooldown as a duration.
func (p Preferences) Cooldown() time.Duration {
	return time.Duration(p.ClickCooldownMS) * time.Millisecond
}

// LoadPreferences overlays stored settings on defaults. Unknown keys are ignored.
func (r *SettingsRepository) LoadPreferences(defaults Preferences) (Preferences, error) {
	stored, err := r.All()
	if err != nil {
		return defaults, err
	}

	prefs := defaults
	if err := DecodePreferences(stored, &prefs); err != nil {
		return defaults, err
	}
	return prefs, nil
}

// SavePreferences validates and stores every preference field.
func (r *SettingsRepository) SavePreferences(p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}

	fields := make(map[string]any)
	if err := mapstructure.Decode(p, &fields); err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	for key, value := range fields {
		if err := r.Set(key, fmt.Sprint(value)); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}
	return nil
}

// DecodePreferences decodes loosely typed values, such as the strings kept in
// the settings table or a JSON patch, into p. Fields missing from input keep
// their current value.
func DecodePreferences(input any, p *Preferences) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           p,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decoding preferences: %w", err)
	}
	return nil
}
