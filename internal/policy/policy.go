// Package policy holds the recipe visibility and ownership rules as pure
// decision functions, so they are enforced in one place and testable without
// the HTTP layer or a database.
package policy

import (
	"github.com/forkful/backend/internal/models"
)

// Decision is the outcome of a read-visibility check. Anything other than
// Allow carries the reason the API layer maps onto a status code and detail
// message. Drafts, pending and private recipes deny with NotFound rather than
// Forbidden so their existence is not leaked to unauthorized viewers.
type Decision int

const (
	// Allow grants read access.
	Allow Decision = iota
	// DenyHidden is a banned recipe viewed by someone other than the author.
	DenyHidden
	// DenyDeleted is a soft-deleted recipe viewed by someone other than the
	// author. The author keeps read access until the purge.
	DenyDeleted
	// DenyNotFound is an unpublished or private recipe viewed by a
	// non-author, indistinguishable from a missing recipe.
	DenyNotFound
)

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d == Allow
}

func isAuthor(actor *models.User, recipe *models.Recipe) bool {
	return actor != nil && actor.ID == recipe.AuthorID
}

// CanView decides read access for a (recipe, actor) pair. A nil actor is an
// anonymous request. Precedence: deletion, superuser override, ban,
// publication state, privacy.
func CanView(actor *models.User, recipe *models.Recipe) Decision {
	if recipe.IsDeleted {
		// Soft-deleted recipes report deleted to everyone but the author,
		// superusers included.
		if isAuthor(actor, recipe) {
			return Allow
		}
		return DenyDeleted
	}

	if actor != nil && actor.IsSuperuser {
		return Allow
	}

	if recipe.IsBanned && !isAuthor(actor, recipe) {
		return DenyHidden
	}

	if !recipe.IsPublished() && !isAuthor(actor, recipe) {
		return DenyNotFound
	}

	if recipe.IsPrivate && !isAuthor(actor, recipe) {
		return DenyNotFound
	}

	return Allow
}

// CanModify reports whether the actor may update, delete or restore the
// recipe. Ownership is exclusive: admins cannot mutate someone else's
// content, their authority is limited to ban/unban.
func CanModify(actor *models.User, recipe *models.Recipe) bool {
	return isAuthor(actor, recipe)
}

// CanModerate reports whether the actor may ban/unban recipes and use the
// admin listing.
func CanModerate(actor *models.User) bool {
	return actor != nil && actor.IsActive && actor.HasAdminRole()
}

// CanViewStatistics restricts the statistics endpoint to the owner and
// moderators.
func CanViewStatistics(actor *models.User, recipe *models.Recipe) bool {
	return isAuthor(actor, recipe) || CanModerate(actor)
}

// CanPublish reports whether the actor may create or edit content at all:
// verified, active and not banned.
func CanPublish(actor *models.User) bool {
	return actor != nil && actor.IsActive && actor.IsVerified && !actor.IsBanned
}
