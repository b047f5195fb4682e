package tcp

// table maps socket descriptors to their connections. It's the only owner of connections:
// a connection missing in the table is already closed.
type table struct {
	conns map[int]*Conn
}

func newTable() table {
	return table{conns: make(map[int]*Conn)}
}

func (t table) add(conn *Conn) {
	t.conns[conn.fd] = conn
}

func (t table) get(fd int) (*Conn, bool) {
	conn, found := t.conns[fd]
	return conn, found
}

func (t table) remove(fd int) {
	delete(t.conns, fd)
}

func (t table) len() int {
	return len(t.conns)
}
