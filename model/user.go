package model

import "strings"

type Role string

const (
	RoleUser       Role = "USER"
	RoleVenueOwner Role = "VENUE_OWNER"
	RoleAdmin      Role = "ADMIN"
)

// Roles lists every role in the order the admin screen cycles through them.
var Roles = []Role{RoleUser, RoleVenueOwner, RoleAdmin}

func (r Role) Is(other Role) bool {
	return strings.EqualFold(string(r), string(other))
}

// Next returns the role following r in Roles, wrapping around.
func (r Role) Next() Role {
	for i, role := range Roles {
		if role.Is(r) {
			return Roles[(i+1)%len(Roles)]
		}
	}
	return RoleUser
}

type User struct {
	Id       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Token    string `json:"token,omitempty"`
}

type Credentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// ProfileUpdate is what a user may change about themselves. An empty
// password keeps the current one.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}
