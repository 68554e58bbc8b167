package repository

import (
	"context"

	"github.com/Poco-dev/todo-bot/domain"
)

// PresenceRepository records when an owner was last seen. Failures here are
// logged and ignored by callers; presence is observability only.
type PresenceRepository interface {
	Touch(ctx context.Context, owner domain.Identity) error
}
