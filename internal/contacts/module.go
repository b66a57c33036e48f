// Package contacts provides the local contact list bounded context module.
package contacts

import (
	"phonefinder/internal/contacts/index"
	"phonefinder/platform/config"
	"phonefinder/platform/logger"
)

// Module owns the in-memory contact index for the process lifetime.
type Module struct {
	index *index.Index
}

// NewModule loads the configured contact source. A malformed source is fatal;
// individual bad rows are skipped and reported through the logger.
func NewModule(cfg config.ContactsConfig, log *logger.Logger) (*Module, error) {
	idx, err := index.LoadFile(cfg.GetContactsPath(), cfg.GetDefaultRegion())
	if err != nil {
		return nil, err
	}

	log.ContactLoad(cfg.GetContactsPath(), idx.Len(), idx.Skipped())

	return &Module{index: idx}, nil
}

// Index returns the loaded contact index.
func (m *Module) Index() *index.Index {
	return m.index
}
