package session

// Status is a point-in-time snapshot of server occupancy. Nothing in
// this module calls Inspect. Grounded on the teacher's
// node/inspect.go Status/StatusData pair.
type Status struct {
	Users         int
	Channels      int
	Connections   int
	TableCapacity int
}

// Inspect returns a Status snapshot of srv and its store.
func Inspect(srv *Server) Status {
	return Status{
		Users:         srv.Store.UserCount(),
		Channels:      srv.Store.ChannelCount(),
		Connections:   srv.ActiveConnections(),
		TableCapacity: srv.Capacity(),
	}
}
