package client

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nightwire/ircsuite/internal/protocol"
)

// ErrInterrupt is returned by HandleLine when the user issues /QUIT,
// telling the caller's event loop to shut down.
var ErrInterrupt = errors.New("client: quit requested")

// DefaultPort is the server port assumed when the user gives a bare
// host to /CONNECT, per spec section 6's CLI default.
const DefaultPort = 50100

// Controller routes a line of user input to either a local command or a
// remote (server-bound) command, per spec section 4.2: "a leading / on
// user input denotes a command to be executed or forwarded; absence of
// / in a non-channel context is an error."
//
// Grounded on the teacher's serialui/commands.go HandleCommand: a map of
// command name to {Description, FullHelp, Callback}, with /help listing
// and looking up entries from the same table.
type Controller struct {
	UI      UI
	Session *Session

	addr string
}

// NewController returns a Controller with no active session.
func NewController(ui UI) *Controller {
	return &Controller{UI: ui}
}

type command struct {
	Description string
	FullHelp    string
	Callback    func(c *Controller, args []string) error
}

var commandTable map[string]command

func init() {
	commandTable = map[string]command{
		"connect": {
			Description: "Connect to a server",
			FullHelp:    "/CONNECT [host [port]]\n\nDefault target is 127.0.0.1:50100.",
			Callback:    cmdConnect,
		},
		"disconnect": {
			Description: "Close the connection to the server",
			FullHelp:    "/DISCONNECT [:message]",
			Callback:    cmdDisconnect,
		},
		"nick": {
			Description: "Set or change your nickname",
			FullHelp:    "/NICK <nickname>",
			Callback:    cmdNick,
		},
		"user": {
			Description: "Complete registration with user/host/real name",
			FullHelp:    "/USER <username> <hostname> <*> :<realname>",
			Callback:    cmdUser,
		},
		"join": {
			Description: "Join a channel",
			FullHelp:    "/JOIN <#channel>",
			Callback:    cmdJoin,
		},
		"part": {
			Description: "Leave a channel",
			FullHelp:    "/PART <#channel> [:message]",
			Callback:    cmdPart,
		},
		"privmsg": {
			Description: "Send a message to a nickname or channel",
			FullHelp:    "/PRIVMSG <target> :<message>",
			Callback:    cmdPrivmsg,
		},
		"whois": {
			Description: "Look up a user",
			FullHelp:    "/WHOIS <nickname>",
			Callback:    cmdWhois,
		},
		"quit": {
			Description: "Disconnect and exit",
			FullHelp:    "/QUIT [:message]",
			Callback:    cmdQuit,
		},
	}
	commandTable["help"] = command{
		Description: "Show available commands or extended help (/HELP [command])",
		FullHelp:    "/HELP [command]",
		Callback:    cmdHelp,
	}
}

// HandleLine routes one line of raw user input. Lines beginning with
// '/' are local commands (possibly forwarded to the server). Any other
// line is reported to the UI as an error: this client keeps no current
// channel, so messages are sent with /PRIVMSG.
func (c *Controller) HandleLine(line string) error {
	if !strings.HasPrefix(line, "/") {
		c.UI.Error("unknown input %q: prefix commands with /, e.g. /PRIVMSG #general :hi", line)
		return nil
	}

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	key := strings.ToLower(strings.TrimPrefix(parts[0], "/"))

	cmd, ok := commandTable[key]
	if !ok {
		c.UI.Error("unknown command /%s, try /HELP", key)
		return nil
	}
	return cmd.Callback(c, parts[1:])
}

// sendRaw forwards line verbatim to the server, reporting an error to
// the UI if there is no active session.
func (c *Controller) sendRaw(line string) {
	if c.Session == nil {
		c.UI.Error("not connected, try /CONNECT")
		return
	}
	if err := c.Session.SendCommand(line); err != nil {
		c.UI.Error("write failed: %v", err)
	}
}

func cmdConnect(c *Controller, args []string) error {
	host := "127.0.0.1"
	port := DefaultPort
	if len(args) >= 1 {
		host = args[0]
	}
	if len(args) >= 2 {
		p, err := strconv.Atoi(args[1])
		if err != nil {
			c.UI.Error("invalid port %q", args[1])
			return nil
		}
		port = p
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	sess, err := Dial(addr)
	if err != nil {
		c.UI.Error("connect failed: %v", err)
		return nil
	}
	if c.Session != nil {
		c.Session.Close()
	}
	c.Session = sess
	c.addr = addr
	c.UI.Status("connected to %s", addr)
	return nil
}

func cmdDisconnect(c *Controller, args []string) error {
	if c.Session == nil {
		c.UI.Error("not connected")
		return nil
	}
	msg := ""
	if len(args) > 0 {
		msg = strings.TrimPrefix(strings.Join(args, " "), ":")
	}
	c.sendRaw(protocol.Command{Verb: "QUIT", Args: []string{msg}, Trailing: true}.String())
	c.Session.Close()
	c.Session = nil
	c.UI.Status("disconnected")
	return nil
}

func cmdNick(c *Controller, args []string) error {
	if len(args) != 1 {
		c.UI.Msg("Usage: /NICK <nickname>")
		return nil
	}
	c.sendRaw("NICK " + args[0])
	return nil
}

func cmdUser(c *Controller, args []string) error {
	if len(args) < 4 {
		c.UI.Msg("Usage: /USER <username> <hostname> <*> :<realname>")
		return nil
	}
	real := strings.TrimPrefix(strings.Join(args[3:], " "), ":")
	cmd := protocol.Command{
		Verb:     "USER",
		Args:     []string{args[0], args[1], args[2], real},
		Trailing: true,
	}
	c.sendRaw(cmd.String())
	return nil
}

func cmdJoin(c *Controller, args []string) error {
	if len(args) != 1 {
		c.UI.Msg("Usage: /JOIN <#channel>")
		return nil
	}
	c.sendRaw("JOIN " + args[0])
	return nil
}

func cmdPart(c *Controller, args []string) error {
	if len(args) < 1 {
		c.UI.Msg("Usage: /PART <#channel> [:message]")
		return nil
	}
	cmd := protocol.Command{Verb: "PART", Args: []string{args[0]}}
	if len(args) > 1 {
		cmd.Args = append(cmd.Args, strings.TrimPrefix(strings.Join(args[1:], " "), ":"))
		cmd.Trailing = true
	}
	c.sendRaw(cmd.String())
	return nil
}

func cmdPrivmsg(c *Controller, args []string) error {
	if len(args) < 2 {
		c.UI.Msg("Usage: /PRIVMSG <target> :<message>")
		return nil
	}
	text := strings.Join(args[1:], " ")
	text = strings.TrimPrefix(text, ":")
	cmd := protocol.Command{Verb: "PRIVMSG", Args: []string{args[0], text}, Trailing: true}
	c.sendRaw(cmd.String())
	return nil
}

func cmdWhois(c *Controller, args []string) error {
	if len(args) != 1 {
		c.UI.Msg("Usage: /WHOIS <nickname>")
		return nil
	}
	c.sendRaw("WHOIS " + args[0])
	return nil
}

func cmdQuit(c *Controller, args []string) error {
	msg := "Client quit"
	if len(args) > 0 {
		msg = strings.TrimPrefix(strings.Join(args, " "), ":")
	}
	if c.Session != nil {
		c.sendRaw(protocol.Command{Verb: "QUIT", Args: []string{msg}, Trailing: true}.String())
		c.Session.Close()
		c.Session = nil
	}
	return ErrInterrupt
}

func cmdHelp(c *Controller, args []string) error {
	switch len(args) {
	case 0:
		names := make([]string, 0, len(commandTable))
		maxLen := 0
		for name := range commandTable {
			names = append(names, name)
			if len(name) > maxLen {
				maxLen = len(name)
			}
		}
		sort.Strings(names)
		var b strings.Builder
		b.WriteString("Available commands:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "/%s%s%s\n", name, strings.Repeat(" ", maxLen-len(name)+4), commandTable[name].Description)
		}
		c.UI.Msg("%s", b.String())
	case 1:
		key := strings.ToLower(strings.TrimPrefix(args[0], "/"))
		cmd, ok := commandTable[key]
		if !ok {
			c.UI.Error("unknown command /%s", key)
			return nil
		}
		c.UI.Msg("%s\n%s", cmd.Description, cmd.FullHelp)
	default:
		c.UI.Msg("Usage: /HELP [command]")
	}
	return nil
}
