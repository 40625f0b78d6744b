// Package models contains database model definitions.
package models

// Setting is a named value stored in the database.
// The permission generator keeps its bookkeeping here (e.g. the registry
// version each module was generated from).
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"unique;size:191"`
	Value []byte `gorm:"type:blob"`
}
