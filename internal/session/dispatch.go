package session

import (
	"strings"

	"github.com/nightwire/ircsuite/internal/logging"
	"github.com/nightwire/ircsuite/internal/protocol"
)

var log = logging.New("session/dispatch")

// Dispatcher holds what every per-verb handler shares: the store it
// mutates and the server name stamped on replies. The user issuing the
// current command is passed to Dispatch on each call. One Dispatcher is
// built at startup and held by the Server for its lifetime; grounded on
// presbrey-pkg/irc/server.go's handleCommand shape.
type Dispatcher struct {
	Store      *Store
	ServerName string
}

// NewDispatcher returns a Dispatcher bound to store and serverName.
func NewDispatcher(store *Store, serverName string) *Dispatcher {
	return &Dispatcher{Store: store, ServerName: serverName}
}

// Dispatch runs the handler for cmd's verb against u, per spec section
// 4.4. Replies and peer messages are pushed onto the appropriate
// outbound queues; Dispatch itself never writes to a socket.
func (d *Dispatcher) Dispatch(u *User, cmd protocol.Command) {
	switch cmd.Verb {
	case "NICK":
		d.handleNick(u, cmd)
	case "USER":
		d.handleUser(u, cmd)
	case "JOIN":
		d.handleJoin(u, cmd)
	case "PART":
		d.handlePart(u, cmd)
	case "PRIVMSG":
		d.handlePrivmsg(u, cmd)
	case "WHOIS":
		d.handleWhois(u, cmd)
	case "PING":
		d.handlePing(u, cmd)
	case "QUIT":
		d.handleQuit(u, cmd)
	default:
		d.reply(u, "421", []string{cmd.Verb}, "Unknown command")
	}
}

func (d *Dispatcher) nickOrStar(u *User) string {
	if u.Nickname == "" {
		return "*"
	}
	return u.Nickname
}

func (d *Dispatcher) reply(u *User, code string, args []string, message string) {
	line := protocol.Reply(d.ServerName, code, d.nickOrStar(u), args, message)
	u.Outbound.Enqueue(line)
}

// broadcastToChannel enqueues line on every member's outbound queue
// except skip (pass nil to exclude no one).
func (d *Dispatcher) broadcastToChannel(ch *Channel, skip *User, line string) {
	for _, member := range d.Store.UsersInChannel(ch) {
		if member == skip {
			continue
		}
		member.Outbound.Enqueue(line)
	}
}

func (d *Dispatcher) handleNick(u *User, cmd protocol.Command) {
	if len(cmd.Args) < 1 || cmd.Args[0] == "" {
		d.reply(u, "431", nil, "No nickname given")
		return
	}
	newNick := cmd.Args[0]
	if !ValidNickname(newNick) {
		d.reply(u, "432", []string{newNick}, "Erroneous nickname")
		return
	}
	if existing := d.Store.LookupUserByNick(newNick); existing != nil && existing != u {
		d.reply(u, "433", []string{newNick}, "Nickname is already in use")
		return
	}

	if u.State == StateConnected {
		// First NICK before any index entry exists for this user.
		u.Nickname = newNick
		if err := d.Store.InsertUser(u); err != nil {
			d.reply(u, "433", []string{newNick}, "Nickname is already in use")
			return
		}
		u.State = StateStartRegistration
		return
	}

	old := u.Prefix()
	if err := d.Store.RenameUser(u, newNick); err != nil {
		d.reply(u, "433", []string{newNick}, "Nickname is already in use")
		return
	}
	line := protocol.PeerMessage(old, "NICK", []string{newNick}, "", false)
	for _, ch := range d.Store.ChannelsOfUser(u) {
		d.broadcastToChannel(ch, nil, line)
	}
}

func (d *Dispatcher) handleUser(u *User, cmd protocol.Command) {
	if u.State != StateStartRegistration {
		if u.State == StateRegistered {
			d.reply(u, "462", nil, "You may not reregister")
			return
		}
		d.reply(u, "451", nil, "You have not registered")
		return
	}
	if len(cmd.Args) < 4 {
		d.reply(u, "461", []string{"USER"}, "Not enough parameters")
		return
	}

	u.Username = cmd.Args[0]
	u.Hostname = cmd.Args[1]
	u.Realname = cmd.Args[3]
	u.State = StateRegistered
	d.reply(u, "001", nil, "Welcome to the IRC Network")
}

func (d *Dispatcher) handleJoin(u *User, cmd protocol.Command) {
	if !u.Registered() {
		d.reply(u, "451", nil, "You have not registered")
		return
	}
	if len(cmd.Args) < 1 || cmd.Args[0] == "" {
		d.reply(u, "461", []string{"JOIN"}, "Not enough parameters")
		return
	}
	name := cmd.Args[0]
	if !ValidChannelName(name) {
		d.reply(u, "479", []string{name}, "Illegal channel name")
		return
	}

	ch := d.Store.LookupChannelByName(name)
	if ch == nil {
		ch = NewChannel(name)
		if err := d.Store.InsertChannel(ch); err != nil {
			ch = d.Store.LookupChannelByName(name)
		}
	}
	if err := d.Store.Join(u, ch); err != nil {
		d.reply(u, "471", []string{name}, "Cannot join channel (+l)")
		return
	}

	joinLine := protocol.PeerMessage(u.Prefix(), "JOIN", []string{name}, "", false)
	d.broadcastToChannel(ch, nil, joinLine)

	if ch.Topic == "" {
		d.reply(u, "331", []string{name}, "No topic is set")
	} else {
		d.reply(u, "332", []string{name}, ch.Topic)
	}
	d.reply(u, "353", []string{name}, strings.Join(ch.Names(), " "))
	d.reply(u, "366", []string{name}, "End of /NAMES list")
}

func (d *Dispatcher) handlePart(u *User, cmd protocol.Command) {
	if len(cmd.Args) < 1 || cmd.Args[0] == "" {
		d.reply(u, "461", []string{"PART"}, "Not enough parameters")
		return
	}
	name := cmd.Args[0]
	ch := d.Store.LookupChannelByName(name)
	if ch == nil {
		d.reply(u, "403", []string{name}, "No such channel")
		return
	}
	if _, onChannel := u.Channels[name]; !onChannel {
		d.reply(u, "442", []string{name}, "You're not on that channel")
		return
	}

	partMsg := ""
	hasTrailing := cmd.Trailing && len(cmd.Args) > 1
	if hasTrailing {
		partMsg = cmd.Args[len(cmd.Args)-1]
	}
	line := protocol.PeerMessage(u.Prefix(), "PART", []string{name}, partMsg, hasTrailing)
	d.broadcastToChannel(ch, nil, line)
	d.Store.Part(u, ch)
}

func (d *Dispatcher) handlePrivmsg(u *User, cmd protocol.Command) {
	if len(cmd.Args) < 2 {
		d.reply(u, "461", []string{"PRIVMSG"}, "Not enough parameters")
		return
	}
	target := cmd.Args[0]
	text := cmd.Args[len(cmd.Args)-1]
	line := protocol.PeerMessage(u.Prefix(), "PRIVMSG", []string{target}, text, true)

	if strings.HasPrefix(target, "#") {
		ch := d.Store.LookupChannelByName(target)
		if ch == nil {
			d.reply(u, "403", []string{target}, "No such channel")
			return
		}
		if _, onChannel := u.Channels[target]; !onChannel {
			d.reply(u, "442", []string{target}, "You're not on that channel")
			return
		}
		d.broadcastToChannel(ch, u, line)
		return
	}

	dest := d.Store.LookupUserByNick(target)
	if dest == nil {
		d.reply(u, "401", []string{target}, "No such nick/channel")
		return
	}
	dest.Outbound.Enqueue(line)
}

func (d *Dispatcher) handleWhois(u *User, cmd protocol.Command) {
	if len(cmd.Args) < 1 || cmd.Args[0] == "" {
		d.reply(u, "461", []string{"WHOIS"}, "Not enough parameters")
		return
	}
	target := d.Store.LookupUserByNick(cmd.Args[0])
	if target == nil {
		d.reply(u, "401", []string{cmd.Args[0]}, "No such nick/channel")
		return
	}
	d.reply(u, "311", []string{target.Nickname, target.Username, target.Hostname}, target.Realname)
}

// handlePing is a DOMAIN+ keepalive supplement (spec section 4.4 note):
// a registered client's PING <token> is answered with PONG <server>
// :<token>, grounded on presbrey-pkg/irc/channels.go's reply pattern.
func (d *Dispatcher) handlePing(u *User, cmd protocol.Command) {
	token := ""
	if len(cmd.Args) > 0 {
		token = cmd.Args[len(cmd.Args)-1]
	}
	u.Outbound.Enqueue("PONG " + d.ServerName + " :" + token)
}

func (d *Dispatcher) handleQuit(u *User, cmd protocol.Command) {
	msg := "Client quit"
	if cmd.Trailing && len(cmd.Args) > 0 {
		msg = cmd.Args[len(cmd.Args)-1]
	}
	line := protocol.PeerMessage(u.Prefix(), "QUIT", nil, msg, true)
	for _, ch := range d.Store.ChannelsOfUser(u) {
		d.broadcastToChannel(ch, u, line)
	}
	d.Store.RemoveUser(u)
	log.Debugf("user %s quit: %s", u.Nickname, msg)
}
