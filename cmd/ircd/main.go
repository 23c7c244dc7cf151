// Command ircd is the server entry point: spec section 6's CLI
// ("server accepts a listening port, default 50100, and optional
// server-name for response origin").
//
// Grounded on the teacher's cmd/infchat/main.go: flag-based
// configuration, go-log level setup, and a signal goroutine using
// golang.org/x/sys/unix for SIGTERM/SIGQUIT.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"github.com/nightwire/ircsuite/internal/config"
	"github.com/nightwire/ircsuite/internal/logging"
	"github.com/nightwire/ircsuite/internal/session"
	"github.com/nightwire/ircsuite/internal/startup"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfgFile := flag.String("config", "", "settings file to use (see spec section 6 for recognized keys)")
	port := flag.Int("port", 0, "listening port (overrides the settings file; default 50100)")
	serverName := flag.String("server-name", "irc.server.com", "server name stamped on reply lines")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	if err := logging.SetLevel(*logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "ircd: invalid -log-level: %v\n", err)
		return 1
	}
	log := logging.New("cmd/ircd")

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ircd: %v\n", err)
		return 1
	}
	if *port != 0 {
		cfg.Port = *port
	}

	seq := startup.New("ircd startup")
	defer seq.Unwind()

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ircd: %v\n", seq.Abort(err))
		return 1
	}
	seq.DeferClose(listener)

	listenerFd, err := session.ListenerFd(listener)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ircd: %v\n", seq.Abort(err))
		return 1
	}

	store := session.NewStore()
	dispatcher := session.NewDispatcher(store, *serverName)
	srv := session.NewServer(store, dispatcher, listener, listenerFd, cfg.MaxClients)

	log.Infof("listening on :%d (server-name=%s, max-clients=%d)", cfg.Port, *serverName, cfg.MaxClients)

	stop := make(chan struct{})
	go watchSignals(stop)

	if err := srv.Run(stop); err != nil {
		log.Errorf("poll loop exited: %v", err)
		return 1
	}
	return 0
}

func watchSignals(stop chan<- struct{}) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, unix.SIGTERM, unix.SIGQUIT)
	<-sig
	close(stop)
}
