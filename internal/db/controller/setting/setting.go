// Package setting provides key/value storage for application bookkeeping.
package setting

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/ClinicOps/clinicops/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when attempting to read or write a setting with an empty name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its name.
func Get(db *gorm.DB, name string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var s models.Setting
	result := db.Where(nameQueryPattern, name).Limit(1).Find(&s)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrSettingNotFound
	}

	return &s, nil
}

// GetString returns the value of a setting as string, or fallback if it does not exist.
func GetString(db *gorm.DB, name, fallback string) (string, error) {
	s, err := Get(db, name)
	if errors.Is(err, ErrSettingNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}

	return string(s.Value), nil
}

// Set creates or updates a setting by name (upsert operation).
func Set(db *gorm.DB, name string, value []byte) (*models.Setting, error) {
	s, err := Get(db, name)
	if errors.Is(err, ErrSettingNotFound) {
		s = &models.Setting{Name: name, Value: value}
		if err = db.Create(s).Error; err != nil {
			return nil, err
		}

		return s, nil
	}
	if err != nil {
		return nil, err
	}

	s.Value = value
	if err = db.Save(s).Error; err != nil {
		return nil, err
	}

	return s, nil
}

// ListByPrefix retrieves all settings whose name starts with prefix, ordered by name.
func ListByPrefix(db *gorm.DB, prefix string) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	escaped := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(prefix)

	var settings []models.Setting
	if err := db.Where("name LIKE ? ESCAPE '!'", escaped+"%").Order("name").Find(&settings).Error; err != nil {
		return nil, err
	}

	return settings, nil
}

// DeleteByName deletes a setting by name.
func DeleteByName(db *gorm.DB, name string) error {
	if db == nil {
		return ErrDBNil
	}
	if name == "" {
		return ErrSettingNameEmpty
	}

	result := db.Where(nameQueryPattern, name).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
