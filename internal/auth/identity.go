package auth

import (
	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/anonto42/vidtube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity is the authenticated caller of a request. It is passed explicitly
// into every service call that acts on behalf of a user.
type Identity struct {
	UserID   primitive.ObjectID
	Username string
	Email    string
}

// IdentityOf builds the identity of a loaded user.
func IdentityOf(user *models.User) Identity {
	return Identity{UserID: user.ID, Username: user.Username, Email: user.Email}
}

// IsZero reports whether the identity is anonymous.
func (i Identity) IsZero() bool {
	return i.UserID.IsZero()
}

// Owns reports whether the identity is the given owner.
func (i Identity) Owns(owner primitive.ObjectID) bool {
	return !i.IsZero() && i.UserID == owner
}

// Authorize fails with Forbidden unless actor owns the resource. action and
// resource only shape the message, e.g. ("update", "comment").
func Authorize(owner primitive.ObjectID, actor Identity, action, resource string) error {
	if actor.Owns(owner) {
		return nil
	}
	return apperror.Forbiddenf("You are not authorized to %s this %s as you are not the owner", action, resource)
}
