package models

// Order and order item statuses. Both share the same enum.
const (
	StatusPending   = "PENDING"
	StatusPreparing = "PREPARING"
	StatusReady     = "READY"
	StatusDelivered = "DELIVERED"
	StatusCanceled  = "CANCELED"
)

// User roles.
const (
	RoleCustomer       = "CUSTOMER"
	RoleFoodcourtOwner = "FOODCOURT_OWNER"
	RoleAdmin          = "ADMIN"
)

var orderStatuses = []string{
	StatusPending,
	StatusPreparing,
	StatusReady,
	StatusDelivered,
	StatusCanceled,
}

// OrderStatuses returns every status in lifecycle order.
func OrderStatuses() []string {
	out := make([]string, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

func IsValidOrderStatus(status string) bool {
	for _, s := range orderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether no further transition is allowed.
func IsTerminalStatus(status string) bool {
	return status == StatusDelivered || status == StatusCanceled
}

// TerminalStatuses are used by history filters.
func TerminalStatuses() []string {
	return []string{StatusDelivered, StatusCanceled}
}

func IsValidRole(role string) bool {
	return role == RoleCustomer || role == RoleFoodcourtOwner || role == RoleAdmin
}
