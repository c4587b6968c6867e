// internal/domain/identity/entity.go
package identity

import "time"

// User is the local shadow of an account held by the external identity
// provider. Credentials never live here, only the stable external subject
// and the email used for order confirmations.
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ExternalID string    `json:"external_id" gorm:"uniqueIndex;not null;size:255"`
	Email      string    `json:"email" gorm:"size:255"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
