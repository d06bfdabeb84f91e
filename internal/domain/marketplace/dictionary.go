package marketplace

import (
	"context"

	"github.com/google/uuid"

	"github.com/sellerhub/backend/internal/domain/shared"
)

// DictionaryKind classifies marketplace reference data.
type DictionaryKind string

const (
	DictionaryKindCategory        DictionaryKind = "category"
	DictionaryKindAttribute       DictionaryKind = "attribute"
	DictionaryKindAttributeValue  DictionaryKind = "attribute_value"
	DictionaryKindDictionary      DictionaryKind = "dictionary"
	DictionaryKindDictionaryValue DictionaryKind = "dictionary_value"
)

// IsValid returns true if the kind is valid
func (k DictionaryKind) IsValid() bool {
	switch k {
	case DictionaryKindCategory, DictionaryKindAttribute, DictionaryKindAttributeValue,
		DictionaryKindDictionary, DictionaryKindDictionaryValue:
		return true
	default:
		return false
	}
}

// Dictionary is one typed reference entry scoped by marketplace,
// optionally hierarchical via ParentID, unique within a marketplace by
// (kind, external id).
type Dictionary struct {
	shared.BaseEntity
	Marketplace Code
	Kind        DictionaryKind
	ExternalID  string
	ParentID    *uuid.UUID
	Name        string
	Payload     map[string]any
}

// NewDictionary creates a dictionary entry.
func NewDictionary(code Code, kind DictionaryKind, externalID, name string) (*Dictionary, error) {
	if !code.IsValid() {
		return nil, ErrIntegrationInvalidCode
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "invalid dictionary kind")
	}
	return &Dictionary{
		BaseEntity:  shared.NewBaseEntity(),
		Marketplace: code,
		Kind:        kind,
		ExternalID:  externalID,
		Name:        name,
	}, nil
}

// DictionaryRepository persists marketplace reference data.
type DictionaryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Dictionary, error)
	FindByExternalID(ctx context.Context, code Code, kind DictionaryKind, externalID string) (*Dictionary, error)
	FindByKind(ctx context.Context, code Code, kind DictionaryKind) ([]Dictionary, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]Dictionary, error)
	Save(ctx context.Context, entry *Dictionary) error
	SaveBatch(ctx context.Context, entries []*Dictionary) error
}
