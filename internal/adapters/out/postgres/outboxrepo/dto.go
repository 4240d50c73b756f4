// Package outboxrepo stores domain events in the outbox table inside the producing
// transaction and hands them to the relay afterwards.
package outboxrepo

import (
	"time"

	"github.com/google/uuid"
)

const (
	statusNew        = "new"
	statusProcessing = "processing"
	statusProcessed  = "processed"
)

type MessageDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventName   string    `gorm:"type:varchar(64);not null"`
	AggregateID uuid.UUID `gorm:"type:uuid;not null;index"`
	Payload     []byte    `gorm:"type:jsonb;not null"`
	Status      string    `gorm:"type:varchar(16);not null;index:idx_outbox_status_created,priority:1"`
	Attempts    int       `gorm:"not null;default:0"`
	OccurredAt  time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;index:idx_outbox_status_created,priority:2"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (MessageDTO) TableName() string {
	return "outbox"
}
