package session

import "testing"

func TestStoreInsertAndLookupUser(t *testing.T) {
	s := NewStore()
	u := NewUser(3)
	u.Nickname = "John"

	if err := s.InsertUser(u); err != nil {
		t.Fatalf("InsertUser: %v", err)
	}
	if got := s.LookupUserByNick("john"); got != u {
		t.Fatalf("lookup by folded nick failed: got %v", got)
	}
	if got := s.LookupUserByNick("JOHN"); got != u {
		t.Fatalf("lookup by upper nick failed: got %v", got)
	}
}

func TestStoreInsertUserDuplicateNickRejected(t *testing.T) {
	s := NewStore()
	a := NewUser(3)
	a.Nickname = "john"
	b := NewUser(4)
	b.Nickname = "John"

	if err := s.InsertUser(a); err != nil {
		t.Fatalf("InsertUser(a): %v", err)
	}
	if err := s.InsertUser(b); err == nil {
		t.Fatalf("expected duplicate nickname to be rejected")
	}
}

func TestStoreRenameUser(t *testing.T) {
	s := NewStore()
	u := NewUser(3)
	u.Nickname = "john"
	_ = s.InsertUser(u)

	if err := s.RenameUser(u, "jonathan"); err != nil {
		t.Fatalf("RenameUser: %v", err)
	}
	if s.LookupUserByNick("john") != nil {
		t.Fatalf("old nickname still indexed")
	}
	if s.LookupUserByNick("jonathan") != u {
		t.Fatalf("new nickname not indexed")
	}
}

func TestStoreRenameUserRekeysChannelMembership(t *testing.T) {
	s := NewStore()
	u := NewUser(3)
	u.Nickname = "john"
	_ = s.InsertUser(u)

	ch := NewChannel("#general")
	_ = s.InsertChannel(ch)
	_ = s.Join(u, ch)

	if err := s.RenameUser(u, "jonathan"); err != nil {
		t.Fatalf("RenameUser: %v", err)
	}
	if _, ok := ch.Members["john"]; ok {
		t.Fatalf("old nickname still a member key after rename")
	}
	if got := ch.Members["jonathan"]; got != u {
		t.Fatalf("new nickname not a member key after rename: got %v", got)
	}

	// Part (and RemoveUser) look members up by the *current* nickname;
	// a Store that failed to rekey Members would leave a ghost entry
	// under "john" and never actually remove u here.
	s.Part(u, ch)
	if _, ok := u.Channels[ch.Name]; ok {
		t.Fatalf("user side of membership not removed after part post-rename")
	}
	if s.LookupChannelByName("#general") != nil {
		t.Fatalf("expected empty temporary channel to be destroyed after renamed user parts")
	}
}

func TestStoreRenameUserCollision(t *testing.T) {
	s := NewStore()
	a := NewUser(3)
	a.Nickname = "john"
	b := NewUser(4)
	b.Nickname = "paul"
	_ = s.InsertUser(a)
	_ = s.InsertUser(b)

	if err := s.RenameUser(b, "john"); err == nil {
		t.Fatalf("expected rename collision to be rejected")
	}
}

func TestStoreJoinPartMembershipSymmetry(t *testing.T) {
	s := NewStore()
	u := NewUser(3)
	u.Nickname = "john"
	_ = s.InsertUser(u)

	ch := NewChannel("#general")
	_ = s.InsertChannel(ch)

	if err := s.Join(u, ch); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, ok := u.Channels[ch.Name]; !ok {
		t.Fatalf("user side of membership missing")
	}
	if _, ok := ch.Members[u.Nickname]; !ok {
		t.Fatalf("channel side of membership missing")
	}

	s.Part(u, ch)
	if _, ok := u.Channels[ch.Name]; ok {
		t.Fatalf("user side of membership not removed")
	}
	if _, ok := ch.Members[u.Nickname]; ok {
		t.Fatalf("channel side of membership not removed")
	}
}

func TestStorePartDestroysEmptyTemporaryChannel(t *testing.T) {
	s := NewStore()
	u := NewUser(3)
	u.Nickname = "john"
	_ = s.InsertUser(u)

	ch := NewChannel("#general")
	_ = s.InsertChannel(ch)
	_ = s.Join(u, ch)

	s.Part(u, ch)
	if s.LookupChannelByName("#general") != nil {
		t.Fatalf("expected empty temporary channel to be destroyed")
	}
}

func TestStoreJoinRejectsWhenChannelFull(t *testing.T) {
	s := NewStore()
	ch := NewChannel("#general")
	_ = s.InsertChannel(ch)

	for i := 0; i < MaxChannelMembers; i++ {
		u := NewUser(i)
		u.Nickname = string(rune('a' + i%26))
		u.Nickname = u.Nickname + string(rune('0'+i/26))
		_ = s.InsertUser(u)
		if err := s.Join(u, ch); err != nil {
			t.Fatalf("Join(%d): %v", i, err)
		}
	}

	overflow := NewUser(9999)
	overflow.Nickname = "overflow"
	_ = s.InsertUser(overflow)
	if err := s.Join(overflow, ch); err == nil {
		t.Fatalf("expected join to fail once channel is at capacity")
	}
}

func TestStoreJoinRejectsWhenUserAtChannelCap(t *testing.T) {
	s := NewStore()
	u := NewUser(3)
	u.Nickname = "john"
	_ = s.InsertUser(u)

	for i := 0; i < MaxChannelsPerUser; i++ {
		ch := NewChannel("#chan" + string(rune('a'+i)))
		_ = s.InsertChannel(ch)
		if err := s.Join(u, ch); err != nil {
			t.Fatalf("Join(%d): %v", i, err)
		}
	}

	extra := NewChannel("#overflow")
	_ = s.InsertChannel(extra)
	if err := s.Join(u, extra); err == nil {
		t.Fatalf("expected join to fail once user is at channel cap")
	}
}

func TestStoreRemoveUserCascadesPartFromAllChannels(t *testing.T) {
	s := NewStore()
	u := NewUser(3)
	u.Nickname = "john"
	_ = s.InsertUser(u)

	ch := NewChannel("#general")
	_ = s.InsertChannel(ch)
	_ = s.Join(u, ch)

	s.RemoveUser(u)
	if s.LookupUserByNick("john") != nil {
		t.Fatalf("user still indexed after RemoveUser")
	}
	if s.LookupChannelByName("#general") != nil {
		t.Fatalf("expected channel to be destroyed once its last member is removed")
	}
}

func TestStoreUsersInChannelAndChannelsOfUser(t *testing.T) {
	s := NewStore()
	u := NewUser(3)
	u.Nickname = "john"
	_ = s.InsertUser(u)

	ch := NewChannel("#general")
	_ = s.InsertChannel(ch)
	_ = s.Join(u, ch)

	members := s.UsersInChannel(ch)
	if len(members) != 1 || members[0] != u {
		t.Fatalf("UsersInChannel = %v", members)
	}

	channels := s.ChannelsOfUser(u)
	if len(channels) != 1 || channels[0] != ch {
		t.Fatalf("ChannelsOfUser = %v", channels)
	}
}
