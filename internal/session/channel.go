package session

// Lifecycle tags a channel's destruction policy, per spec section 3.
type Lifecycle int

const (
	Temporary Lifecycle = iota
	Permanent
)

// MaxChannelMembers is the membership cap from spec section 3.
const MaxChannelMembers = 100

// Channel is the server-side record for a channel, per spec section 3.
// Members is the channel's half of the bipartite membership relation.
//
// Per the resolved Open Question in SPEC_FULL.md section 9: JOIN is the
// only operation that creates a channel, and it always creates one
// tagged Temporary. Nothing in this system creates a Permanent channel,
// but the tag is preserved so a future command can.
type Channel struct {
	Name      string
	Topic     string
	Lifecycle Lifecycle

	Members  map[string]*User
	Outbound *Queue
}

// NewChannel allocates an empty Temporary channel.
func NewChannel(name string) *Channel {
	return &Channel{
		Name:      name,
		Lifecycle: Temporary,
		Members:   make(map[string]*User),
		Outbound:  NewQueue(OutboundCapacity),
	}
}

// Empty reports whether the channel has no members.
func (c *Channel) Empty() bool {
	return len(c.Members) == 0
}

// ShouldDestroy reports whether the channel should be torn down: it is
// Temporary and Empty, per spec section 3's auto-destroy rule.
func (c *Channel) ShouldDestroy() bool {
	return c.Lifecycle == Temporary && c.Empty()
}

// Names returns the member nicknames, for the 353 NAMES reply.
func (c *Channel) Names() []string {
	names := make([]string, 0, len(c.Members))
	for nick := range c.Members {
		names = append(names, nick)
	}
	return names
}
