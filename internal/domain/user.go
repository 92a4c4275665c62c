package domain

import "fmt"

type Role string

const (
	RoleCicloBasico   Role = "ciclo_basico"
	RoleCicloSuperior Role = "ciclo_superior"
	RoleKiosquero     Role = "kiosquero"
	RoleAdmin         Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCicloBasico, RoleCicloSuperior, RoleKiosquero, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Student reports whether the role belongs to one of the two student cycles.
func (r Role) Student() bool { return r == RoleCicloBasico || r == RoleCicloSuperior }

// Staff covers the roles allowed to run the kiosco order board.
func (r Role) Staff() bool { return r == RoleKiosquero || r == RoleAdmin }

// BreakTimes is the pickup slot set for the role's cycle. The senior cycle
// stays at school into the evening, so it gets two extra slots.
func (r Role) BreakTimes() []string {
	switch r {
	case RoleCicloBasico:
		return []string{"9:35", "11:55", "14:55"}
	case RoleCicloSuperior:
		return []string{"9:35", "11:55", "14:55", "17:15", "19:35"}
	}
	return nil
}

// CanPickupAt reports membership in the role's slot set.
func (r Role) CanPickupAt(slot string) bool {
	for _, t := range r.BreakTimes() {
		if t == slot {
			return true
		}
	}
	return false
}

// LandingPath resolves the default view for a role. Unauthorized access to
// another role's view redirects here instead of erroring.
func (r Role) LandingPath() string {
	switch r {
	case RoleKiosquero:
		return "/kiosco"
	case RoleAdmin:
		return "/admin"
	default:
		return "/menu"
	}
}

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Hash     string `json:"-"`
	IsActive bool   `json:"is_active"`
}
