package specification

import (
	"fmt"

	"gorm.io/gorm"
)

// OrderBy sorts the result set on a single column. Field names come from
// callers inside this module, never from request input, so building the
// clause with Sprintf is safe here.
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}
