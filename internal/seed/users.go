package seed

import (
	"context"
	"errors"
	"fmt"

	"sankalp/internal/store"
	"sankalp/internal/utils"
	"sankalp/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

type demoUserSeed struct {
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
}

var demoUsers = []demoUserSeed{
	{Email: "testuser@sankalp.com", Password: "password123", FullName: "Test User", PhoneNumber: "+91-9876543210"},
	{Email: "admin@sankalp.com", Password: "admin123", FullName: "Admin User", PhoneNumber: "+91-9876543211"},
}

// SeedDemoUsers creates the demo accounts with bcrypt-hashed passwords and a
// welcome notification each. Existing accounts are left untouched.
func SeedDemoUsers(ctx context.Context, userRepo *store.UserRepository, notificationRepo *store.NotificationRepository) error {
	for _, seedUser := range demoUsers {
		_, err := userRepo.UserByEmail(ctx, seedUser.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrUserNotFound) {
			return fmt.Errorf("failed to check user %s: %w", seedUser.Email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seedUser.Password), 12)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", seedUser.Email, err)
		}

		user := &types.User{
			Email:        seedUser.Email,
			PasswordHash: string(hash),
			FullName:     seedUser.FullName,
			PhoneNumber:  utils.StringPtr(seedUser.PhoneNumber),
			IsVerified:   true,
		}
		if err := userRepo.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", seedUser.Email, err)
		}

		notification := &types.Notification{
			UserID:  user.ID,
			Title:   "Welcome to Sankalp",
			Message: "Browse the catalog to purchase your first policy.",
		}
		if err := notificationRepo.CreateNotification(ctx, notification); err != nil {
			return fmt.Errorf("failed to create welcome notification for %s: %w", seedUser.Email, err)
		}
	}

	return nil
}
