package sse

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
)

/*
lockedBuffer lets the test read what Stream writes from another goroutine.
*/
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (lb *lockedBuffer) Write(p []byte) (int, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	return lb.buf.Write(p)
}

func (lb *lockedBuffer) String() string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	return lb.buf.String()
}

func TestBroadcast(t *testing.T) {
	Convey("Given a broker with one subscriber", t, func() {
		broker := NewBroker()
		events, cancel, ok := broker.Subscribe()
		So(ok, ShouldBeTrue)
		So(broker.Len(), ShouldEqual, 1)

		Convey("When an event is broadcast", func() {
			So(broker.Broadcast(map[string]string{"state": "done"}), ShouldBeNil)

			Convey("Then the subscriber should receive it as JSON", func() {
				So(string(<-events), ShouldEqual, `{"state":"done"}`)
			})
		})

		Convey("When the subscriber cancels", func() {
			cancel()

			Convey("Then it should be removed and its channel closed", func() {
				So(broker.Len(), ShouldEqual, 0)
				_, open := <-events
				So(open, ShouldBeFalse)
			})
		})

		Convey("When the broker closes", func() {
			broker.Close()
			_, open := <-events

			Convey("Then new subscriptions should be refused", func() {
				So(open, ShouldBeFalse)
				_, _, ok := broker.Subscribe()
				So(ok, ShouldBeFalse)
				So(broker.Broadcast("ignored"), ShouldBeNil)
				cancel()
			})
		})
	})
}

func TestBroadcastDropsForSlowClients(t *testing.T) {
	broker := NewBroker()
	_, cancel, _ := broker.Subscribe()
	defer cancel()

	for i := 0; i < 20; i++ {
		assert.NoError(t, broker.Broadcast(i))
	}
}

func TestStream(t *testing.T) {
	broker := NewTestBroker()
	out := &lockedBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		broker.Stream(ctx, bufio.NewWriter(out))
		close(done)
	}()

	assert.Eventually(t, func() bool { return broker.Len() == 1 }, time.Second, 10*time.Millisecond)
	assert.NoError(t, broker.Broadcast(map[string]string{"cycle_id": "abc"}))

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), `data: {"cycle_id":"abc"}`+"\n\n")
	}, time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), ": heartbeat\n\n")
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, 0, broker.Len())
}
