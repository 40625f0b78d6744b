// Package main provides the entry point of clinicops, the command line tool
// that maintains the module scoped permission catalog of the clinic platform.
// It generates permissions from the module registry, synchronises roles with
// modules and checks what a user may do. Storage is gorm over MySQL,
// PostgreSQL or SQLite.
package main
