package events

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRegistry_Lifecycle(t *testing.T) {
	r := NewRegistry(2)
	r.Now = func() time.Time { return time.UnixMilli(7) }
	id, ch := r.Register()
	if r.Len() != 1 {
		t.Fatalf("Len = %d", r.Len())
	}
	if n := r.Publish(Event{Type: "x"}); n != 1 {
		t.Fatalf("delivered = %d", n)
	}
	if ev := <-ch; ev.Type != "x" || ev.Timestamp != 7 {
		t.Fatalf("unexpected event %+v", ev)
	}
	r.Deregister(id)
	r.Deregister(id)
	if _, ok := <-ch; ok {
		t.Fatalf("queue should be closed after Deregister")
	}
	if r.Len() != 0 || r.Publish(Event{Type: "y"}) != 0 {
		t.Fatalf("deregistered subscriber still reachable")
	}
}

func TestRegistry_PublishNeverBlocks(t *testing.T) {
	r := NewRegistry(1)
	_, _ = r.Register()
	done := make(chan int)
	go func() {
		total := 0
		for i := 0; i < 10; i++ {
			total += r.Publish(Event{Type: "flood"})
		}
		done <- total
	}()
	select {
	case total := <-done:
		if total != 1 {
			t.Fatalf("want exactly one buffered delivery, got %d", total)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Publish blocked on a full subscriber")
	}
}

func TestRegistry_ConcurrentUse(t *testing.T) {
	r := NewRegistry(0)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			id, _ := r.Register()
			r.Deregister(id)
		}()
		go func() {
			defer wg.Done()
			r.SendProcessingUpdate("f", "started", 0, nil)
		}()
	}
	wg.Wait()
	if r.Len() != 0 {
		t.Fatalf("Len = %d", r.Len())
	}
}

func readEvent(t *testing.T, br *bufio.Reader) Event {
	t.Helper()
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data: "))), &ev); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		return ev
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStream_ConnectedUpdatesAndHeartbeat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewRegistry(4)
	router := gin.New()
	router.GET("/api/events", Stream(reg, 20*time.Millisecond))
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/events")
	if err != nil {
		t.Fatal(err)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}
	br := bufio.NewReader(resp.Body)
	if ev := readEvent(t, br); ev.Type != TypeConnected {
		t.Fatalf("first event = %+v", ev)
	}
	waitFor(t, func() bool { return reg.Len() == 1 })

	reg.SendProcessingUpdate("file-1", "completed", 100, nil)
	sawUpdate, sawHeartbeat := false, false
	for !(sawUpdate && sawHeartbeat) {
		ev := readEvent(t, br)
		switch ev.Type {
		case TypeProcessingUpdate:
			if ev.FileID != "file-1" || ev.Progress != 100 {
				t.Fatalf("unexpected update %+v", ev)
			}
			sawUpdate = true
		case TypeHeartbeat:
			sawHeartbeat = true
		}
	}

	resp.Body.Close()
	waitFor(t, func() bool { return reg.Len() == 0 })
}
