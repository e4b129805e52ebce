package specification

import (
	"gorm.io/gorm"
)

// BySourceName filters documents on the source recorded in their metadata.
type BySourceName struct {
	Source string
}

func (s BySourceName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("metadata->>'source' = ?", s.Source)
}
