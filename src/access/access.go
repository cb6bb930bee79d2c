package access

import (
	"fmt"

	"uservice/src/types"

	"github.com/google/uuid"
)

// Staff are the roles allowed to manage bookings, the catalog and the inbox.
var Staff = []types.Role{types.ROLE_MANAGER, types.ROLE_ADMIN}

func RequireCaller(caller *types.Caller) error {
	if caller == nil || caller.ID == uuid.Nil {
		return fmt.Errorf("%w: authentication required", types.ErrUnauthorized)
	}
	return nil
}

func RequireRole(caller *types.Caller, roles ...types.Role) error {
	if err := RequireCaller(caller); err != nil {
		return err
	}
	if !caller.HasRole(roles...) {
		return fmt.Errorf("%w: role %s is not allowed", types.ErrForbidden, caller.Role)
	}
	return nil
}

// RequireOwnerOrRole passes when the caller owns the resource or holds one of roles.
func RequireOwnerOrRole(caller *types.Caller, ownerID uuid.UUID, roles ...types.Role) error {
	if err := RequireCaller(caller); err != nil {
		return err
	}
	if caller.ID == ownerID || caller.HasRole(roles...) {
		return nil
	}
	return fmt.Errorf("%w: not the owner", types.ErrForbidden)
}
