// Package models contains GORM persistence models and their conversions
// to and from domain entities. Domain entities stay free of persistence
// tags; this package owns the mapping.
package models
