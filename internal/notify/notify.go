// Package notify is the delivery collaborator for account notifications.
// The forum core only generates credentials; how they reach the user is
// behind the Notifier interface. The default implementation just logs,
// which is all a development deployment needs.
package notify

import (
	"log/slog"

	"github.com/lssb2003/university-forum/internal/models"
)

// Notifier delivers account notifications to users.
type Notifier interface {
	// PasswordReset informs the user of their temporary password.
	PasswordReset(user *models.User, tempPassword string) error
}

// LogNotifier writes notifications to the structured log instead of
// delivering them. The credential itself is deliberately not logged.
type LogNotifier struct{}

// PasswordReset logs that a reset notification would have been sent.
func (LogNotifier) PasswordReset(user *models.User, tempPassword string) error {
	slog.Info("password reset notification",
		"user_id", user.ID,
		"email", user.Email,
	)
	return nil
}
