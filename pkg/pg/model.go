package pg

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is the shared primary key and creation time of ledger entities. IDs
// are generated client side so SQLite and Postgres behave the same.
type Model struct {
	ID        uuid.UUID `gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time
}

func (m *Model) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
