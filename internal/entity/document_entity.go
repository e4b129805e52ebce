package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id        uuid.UUID
	Content   string
	Metadata  map[string]string
	Embedding []float32
	CreatedAt time.Time
}
