package domain

import "time"

const (
	RoleVendedor = "vendedor"
	RoleAdmin    = "admin"
)

// SystemUsers is the fixed roster of store staff. All of them can sell,
// roles only differ on destructive operations.
var SystemUsers = []string{
	"ANA",
	"ALESSANDRA",
	"DEISE",
	"EDUARDA",
	"JOHNATTAN",
	"JULIANO",
	"LARISSA",
	"LUCAS",
	"LUIZA",
	"RODOLFO",
	"ROMUALDO",
	"VITOR",
}

func IsSystemUser(name string) bool {
	for _, u := range SystemUsers {
		if u == name {
			return true
		}
	}
	return false
}

type User struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
