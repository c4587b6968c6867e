// internal/domain/catalog/entity.go
package catalog

import "time"

// Pokemon represents a purchasable catalog entry. The ID is the national
// pokedex number assigned upstream, not a generated key.
type Pokemon struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Types     []string  `json:"types" gorm:"serializer:json;type:jsonb"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Pokemon model
func (Pokemon) TableName() string {
	return "pokemon"
}
