package domain

// Role identifies who is calling into the engine.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// Actor is the caller of a state-changing operation.
type Actor struct {
	Role Role
}

// CanManageOrders reports whether the actor may move orders through fulfillment.
func (a Actor) CanManageOrders() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}
