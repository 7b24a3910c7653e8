package enums

import "fmt"

// AdminAction labels an entry in the administrative audit log.
type AdminAction string

const (
	AdminActionUserUpdated   AdminAction = "user_updated"
	AdminActionUserDeleted   AdminAction = "user_deleted"
	AdminActionItemDeleted   AdminAction = "item_deleted"
	AdminActionOrderUpdated  AdminAction = "order_updated"
	AdminActionReviewDeleted AdminAction = "review_deleted"
)

var validAdminActions = []AdminAction{
	AdminActionUserUpdated,
	AdminActionUserDeleted,
	AdminActionItemDeleted,
	AdminActionOrderUpdated,
	AdminActionReviewDeleted,
}

// String implements fmt.Stringer.
func (a AdminAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdminAction.
func (a AdminAction) IsValid() bool {
	for _, candidate := range validAdminActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdminAction converts raw input into an AdminAction.
func ParseAdminAction(value string) (AdminAction, error) {
	for _, candidate := range validAdminActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid admin action %q", value)
}
