package websocket

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	writes    chan Event
	fail      bool
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn(fail bool) *fakeConn {
	return &fakeConn{writes: make(chan Event, 8), fail: fail, closed: make(chan struct{})}
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	if f.fail {
		return errors.New("broken pipe")
	}
	f.writes <- v.(Event)
	return nil
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

// stalledConn blocks every write until it is closed, like a peer whose TCP
// window never opens.
type stalledConn struct {
	closed    chan struct{}
	closeOnce sync.Once
}

func (s *stalledConn) WriteJSON(interface{}) error {
	<-s.closed
	return errors.New("connection closed")
}

func (s *stalledConn) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

func startHub(t *testing.T) *Hub {
	h := NewHub()
	go h.Run()
	t.Cleanup(h.Stop)
	return h
}

func receive(t *testing.T, c *fakeConn) Event {
	t.Helper()
	select {
	case e := <-c.writes:
		return e
	case <-time.After(time.Second):
		require.FailNow(t, "no event delivered")
		return Event{}
	}
}

func TestPublishReachesEveryConnectionOfRecipient(t *testing.T) {
	h := startHub(t)
	alice, bob := uuid.New(), uuid.New()
	tab1, tab2, other := newFakeConn(false), newFakeConn(false), newFakeConn(false)
	h.Register <- &Client{UserID: alice, Conn: tab1}
	h.Register <- &Client{UserID: alice, Conn: tab2}
	h.Register <- &Client{UserID: bob, Conn: other}

	h.Publish([]uuid.UUID{alice}, "booking:created", map[string]string{"id": "b1"})

	assert.Equal(t, "booking:created", receive(t, tab1).Type)
	assert.Equal(t, "booking:created", receive(t, tab2).Type)
	select {
	case <-other.writes:
		t.Fatal("bob should not receive alice's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	h := startHub(t)
	alice := uuid.New()
	conn := newFakeConn(false)
	h.Register <- &Client{UserID: alice, Conn: conn}
	h.Unregister <- &Client{UserID: alice, Conn: conn}

	h.Publish([]uuid.UUID{alice}, "post:liked", nil)
	select {
	case <-conn.writes:
		t.Fatal("unregistered connection received an event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFailingConnectionIsClosed(t *testing.T) {
	h := startHub(t)
	alice := uuid.New()
	broken := newFakeConn(true)
	h.Register <- &Client{UserID: alice, Conn: broken}

	h.Publish([]uuid.UUID{alice}, "booking:status", nil)
	select {
	case <-broken.closed:
	case <-time.After(time.Second):
		t.Fatal("broken connection was not closed")
	}
}

func TestStalledConnectionDoesNotBlockHub(t *testing.T) {
	h := startHub(t)
	slow, alice := uuid.New(), uuid.New()
	stalled := &stalledConn{closed: make(chan struct{})}
	h.Register <- &Client{UserID: slow, Conn: stalled}

	h.Publish([]uuid.UUID{slow}, "booking:created", nil)

	healthy := newFakeConn(false)
	registered := make(chan struct{})
	go func() {
		h.Register <- &Client{UserID: alice, Conn: healthy}
		close(registered)
	}()
	select {
	case <-registered:
	case <-time.After(time.Second):
		t.Fatal("register blocked behind a stalled connection")
	}

	h.Publish([]uuid.UUID{slow, alice}, "post:liked", nil)
	assert.Equal(t, "post:liked", receive(t, healthy).Type)
}

func TestStalledConnectionIsDroppedWhenBehind(t *testing.T) {
	h := startHub(t)
	slow := uuid.New()
	stalled := &stalledConn{closed: make(chan struct{})}
	h.Register <- &Client{UserID: slow, Conn: stalled}

	// one event is held by the blocked write, the rest fill the buffer
	for i := 0; i < sendBuffer+2; i++ {
		h.Publish([]uuid.UUID{slow}, "booking:status", nil)
	}
	select {
	case <-stalled.closed:
	case <-time.After(time.Second):
		t.Fatal("stalled connection was not dropped")
	}
}
