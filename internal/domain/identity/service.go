// internal/domain/identity/service.go
package identity

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Service resolves external identities to local user rows
type Service struct {
	db *gorm.DB
}

// NewService creates a new identity service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetOrCreateUser returns the local user for an external subject, creating
// the row on first sight. Concurrent first requests race on the unique
// external_id index; the loser re-selects the winner's row.
func (s *Service) GetOrCreateUser(ctx context.Context, externalID, email string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error
	if err == nil {
		// Keep the confirmation email current
		if email != "" && user.Email != email {
			user.Email = email
			if err := s.db.WithContext(ctx).Model(&user).Update("email", email).Error; err != nil {
				return nil, fmt.Errorf("failed to update user email: %w", err)
			}
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user = User{ExternalID: externalID, Email: email}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
				return nil, fmt.Errorf("failed to get user after insert race: %w", err)
			}
			return &user, nil
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// GetByID returns a user by local ID
func (s *Service) GetByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
