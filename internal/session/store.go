// Package session implements the server-side session store, command
// dispatcher and poll loop: spec sections 3, 4.3, 4.4 and 4.5.
package session

import "fmt"

// Store is the single owner of the user index, channel index and
// membership relation. It is mutated only by the poll loop goroutine
// (spec section 5); no internal locking is used.
//
// The two hash indexes described in spec section 4.3 (DJB2-keyed chained
// buckets over nickname/channel name) are realized as plain Go maps —
// per DESIGN NOTES section 9, the intrusive bucket-chain structure of the
// original is exactly what a standard container replaces, not what a Go
// port should reproduce.
type Store struct {
	users    map[string]*User // keyed by case-folded nickname
	channels map[string]*Channel
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*User),
		channels: make(map[string]*Channel),
	}
}

func foldNick(nick string) string {
	// IRC nickname case-folding is ASCII-only for this subset of RFC 2812;
	// no Unicode casemapping negotiation (section 6 CLI has no CASEMAPPING).
	out := []byte(nick)
	for i, b := range out {
		if b >= 'A' && b <= 'Z' {
			out[i] = b - 'A' + 'a'
		}
	}
	return string(out)
}

// InsertUser adds u to the user index keyed by its (case-folded)
// nickname. Returns an error if the nickname is already taken.
func (s *Store) InsertUser(u *User) error {
	key := foldNick(u.Nickname)
	if _, exists := s.users[key]; exists {
		return fmt.Errorf("session: nickname %q already indexed", u.Nickname)
	}
	s.users[key] = u
	return nil
}

// RemoveUser removes u from every channel it belongs to (cascading
// destruction of now-empty Temporary channels) and then from the user
// index.
func (s *Store) RemoveUser(u *User) {
	for name := range u.Channels {
		if ch, ok := s.channels[name]; ok {
			s.part(u, ch)
		}
	}
	delete(s.users, foldNick(u.Nickname))
}

// LookupUserByNick returns the user indexed under nick, or nil.
func (s *Store) LookupUserByNick(nick string) *User {
	return s.users[foldNick(nick)]
}

// RenameUser moves u's index entry from its current nickname to
// newNick, and rekeys u's entry in every channel's Members map to match
// (Members is keyed by nickname, so a rename that skipped this would
// leave a ghost entry under the old nickname in every joined channel).
// Returns an error if newNick is already taken by a different user.
func (s *Store) RenameUser(u *User, newNick string) error {
	newKey := foldNick(newNick)
	if existing, exists := s.users[newKey]; exists && existing != u {
		return fmt.Errorf("session: nickname %q already indexed", newNick)
	}
	oldNick := u.Nickname
	delete(s.users, foldNick(oldNick))
	u.Nickname = newNick
	s.users[newKey] = u
	for _, ch := range u.Channels {
		delete(ch.Members, oldNick)
		ch.Members[newNick] = u
	}
	return nil
}

// InsertChannel adds ch to the channel index. Returns an error if the
// name is already taken.
func (s *Store) InsertChannel(ch *Channel) error {
	if _, exists := s.channels[ch.Name]; exists {
		return fmt.Errorf("session: channel %q already indexed", ch.Name)
	}
	s.channels[ch.Name] = ch
	return nil
}

// RemoveChannel removes ch from the index unconditionally.
func (s *Store) RemoveChannel(ch *Channel) {
	delete(s.channels, ch.Name)
}

// LookupChannelByName returns the channel indexed under name, or nil.
func (s *Store) LookupChannelByName(name string) *Channel {
	return s.channels[name]
}

// Join adds user to channel on both sides of the membership relation.
// Returns an error if the user is already at the per-user channel cap,
// or the channel is already at its member cap, per spec section 3.
func (s *Store) Join(u *User, ch *Channel) error {
	if _, already := u.Channels[ch.Name]; already {
		return nil
	}
	if len(u.Channels) >= MaxChannelsPerUser {
		return fmt.Errorf("session: %s already joined %d channels", u.Nickname, MaxChannelsPerUser)
	}
	if len(ch.Members) >= MaxChannelMembers {
		return fmt.Errorf("session: %s is full", ch.Name)
	}
	u.Channels[ch.Name] = ch
	ch.Members[u.Nickname] = u
	return nil
}

// Part removes user from channel on both sides of the relation. If the
// channel is Temporary and becomes empty, it is destroyed (removed from
// the channel index) as part of the same call.
func (s *Store) Part(u *User, ch *Channel) {
	s.part(u, ch)
}

func (s *Store) part(u *User, ch *Channel) {
	delete(u.Channels, ch.Name)
	delete(ch.Members, u.Nickname)
	if ch.ShouldDestroy() {
		s.RemoveChannel(ch)
	}
}

// UsersInChannel returns the members of ch.
func (s *Store) UsersInChannel(ch *Channel) []*User {
	out := make([]*User, 0, len(ch.Members))
	for _, u := range ch.Members {
		out = append(out, u)
	}
	return out
}

// ChannelsOfUser returns the channels u belongs to.
func (s *Store) ChannelsOfUser(u *User) []*Channel {
	out := make([]*Channel, 0, len(u.Channels))
	for _, ch := range u.Channels {
		out = append(out, ch)
	}
	return out
}

// UserCount and ChannelCount report index sizes, used by inspect.go's
// status reporting.
func (s *Store) UserCount() int    { return len(s.users) }
func (s *Store) ChannelCount() int { return len(s.channels) }
