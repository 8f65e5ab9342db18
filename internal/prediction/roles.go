package prediction

// Role is one of the four independent risk dimensions. The set is fixed:
// every role maps to exactly one model slot and one fallback entry.
type Role string

const (
	RoleWearout    Role = "wearout"
	RoleThermal    Role = "thermal"
	RolePower      Role = "power"
	RoleController Role = "controller"
)

// Roles is the canonical iteration order. The summary reducer breaks
// risk ties by first occurrence in this order, so it must stay stable.
var Roles = []Role{RoleWearout, RoleThermal, RolePower, RoleController}

var roleLabels = map[Role]string{
	RoleWearout:    "Wear-Out",
	RoleThermal:    "Thermal",
	RolePower:      "Power",
	RoleController: "Controller",
}

// Label returns the display label used in summaries and API responses.
func (r Role) Label() string {
	return roleLabels[r]
}
