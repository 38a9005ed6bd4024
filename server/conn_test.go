package server

import (
	"testing"

	utils "github.com/jonhoo/hanabot/internal"
	"github.com/stretchr/testify/assert"
)

func TestUserConnClose(t *testing.T) {
	c := newUserConn("alice", nil)
	c.enqueue([]byte("one"))

	c.close()
	c.close()

	// enqueue on a closed connection drops the message instead of
	// sending on the closed channel
	c.enqueue([]byte("two"))

	msg, ok := <-c.send
	utils.AssertTrue(t, ok)
	utils.AssertEqual(t, string(msg), "one")
	_, ok = <-c.send
	assert.False(t, ok)
}
