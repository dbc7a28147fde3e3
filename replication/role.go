package replication

import "fmt"

// Role is the network role of one copy of a character.
type Role uint8

const (
	// RoleAuthority is the server's copy. Its starts are final.
	RoleAuthority Role = iota
	// RoleAutonomousProxy is the copy on the client controlling the character. It predicts
	// starts and has them confirmed by the authority.
	RoleAutonomousProxy
	// RoleSimulatedProxy is a copy on any other client. It only follows the authority.
	RoleSimulatedProxy
)

func (r Role) String() string {
	switch r {
	case RoleAuthority:
		return "authority"
	case RoleAutonomousProxy:
		return "autonomous_proxy"
	case RoleSimulatedProxy:
		return "simulated_proxy"
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}
