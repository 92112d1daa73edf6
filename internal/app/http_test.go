package app

import (
	"net/http"
	"reflect"
	"testing"
	"time"
)

func TestNewLLMHTTPClient_Config(t *testing.T) {
	c := newLLMHTTPClient(30 * time.Second)
	if c.Timeout <= 30*time.Second {
		t.Fatalf("client timeout %s should exceed the request timeout", c.Timeout)
	}
	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected http.Transport")
	}
	if tr.MaxIdleConnsPerHost < 2 {
		t.Fatalf("expected a per-host idle pool, got %d", tr.MaxIdleConnsPerHost)
	}
	if reflect.ValueOf(http.DefaultTransport).Pointer() == reflect.ValueOf(tr).Pointer() {
		t.Fatalf("transport should not be default")
	}
	if c := newLLMHTTPClient(0); c.Timeout <= defaultRequestTimeout {
		t.Fatalf("zero timeout should fall back to the default, got %s", c.Timeout)
	}
}
