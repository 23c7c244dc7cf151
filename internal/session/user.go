package session

import (
	"time"

	"github.com/nightwire/ircsuite/internal/protocol"
)

// ClientState is the per-connection registration state. Only CONNECTED,
// START_REGISTRATION and REGISTERED are represented: there is no
// DISCONNECTED state (a closed connection has no User) and no IN_CHANNEL
// state (channel membership is tracked in User.Channels, and a user
// stays REGISTERED while joined).
type ClientState int

const (
	StateConnected ClientState = iota
	StateStartRegistration
	StateRegistered
)

func (s ClientState) String() string {
	switch s {
	case StateConnected:
		return "CONNECTED"
	case StateStartRegistration:
		return "START_REGISTRATION"
	case StateRegistered:
		return "REGISTERED"
	default:
		return "UNKNOWN"
	}
}

// User is the server-side record for a connected client, per spec
// section 3. Channels is the user's half of the bipartite membership
// relation; Store.Join/Store.Part keep it and the channel's member set
// consistent.
type User struct {
	Nickname string
	Username string
	Hostname string
	Realname string

	State ClientState

	// Fd is a weak back-reference to the owning poll-table slot. It must
	// be re-resolved through the poll table on use rather than cached
	// across turns, per spec section 5's ownership rules.
	Fd int

	Outbound *Queue

	Channels map[string]*Channel

	LastActivity time.Time
}

// NewUser allocates a User with an empty outbound queue and membership set,
// in the CONNECTED state.
func NewUser(fd int) *User {
	return &User{
		Fd:       fd,
		State:    StateConnected,
		Outbound: NewQueue(OutboundCapacity),
		Channels: make(map[string]*Channel),
	}
}

// MaxChannelsPerUser is the membership cap from spec section 3.
const MaxChannelsPerUser = 5

// Registered reports whether the user has completed NICK+USER.
func (u *User) Registered() bool {
	return u.State == StateRegistered
}

// Prefix returns the source used to stamp forwarded messages. Only the
// nickname is filled in; the user and host parts are left empty, so a
// forwarded line from john reads ":john!@ ...". Username and Hostname
// are reported through WHOIS instead.
func (u *User) Prefix() protocol.Prefix {
	return protocol.Prefix{Nick: u.Nickname}
}
