package session

// MessageProxy buffers the messages produced during one command so they
// can be delivered in a single batch per recipient once the command has
// completely finished. This keeps delivery (which may fail) strictly
// separate from game mutation (which must not), and spares players a
// notification per line.
type MessageProxy struct {
	msgs  map[string][]string
	order []string
}

// NewMessageProxy constructs an empty proxy
func NewMessageProxy() *MessageProxy {
	return &MessageProxy{msgs: map[string][]string{}}
}

// Send buffers text for user. It implements hanabi.MessageSink.
func (p *MessageProxy) Send(user, text string) {
	if _, ok := p.msgs[user]; !ok {
		p.order = append(p.order, user)
	}
	p.msgs[user] = append(p.msgs[user], text)
}

// Messages returns everything buffered for user so far
func (p *MessageProxy) Messages(user string) []string {
	return p.msgs[user]
}

// Flush hands each recipient's buffered messages to deliver, in the
// order recipients first appeared, and empties the proxy. Delivery is
// best-effort; deliver's failures are its own problem.
func (p *MessageProxy) Flush(deliver func(user string, lines []string)) {
	for _, user := range p.order {
		deliver(user, p.msgs[user])
	}
	p.msgs = map[string][]string{}
	p.order = nil
}
