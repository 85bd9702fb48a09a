package httpapi

import (
	"context"
	"testing"
	"time"
)

func TestJoinContexts(t *testing.T) {
	a, cancelA := context.WithCancel(context.Background())
	defer cancelA()
	b, cancelB := context.WithCancel(context.Background())
	ctx, cancel := joinContexts(a, b)
	defer cancel()
	cancelB()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("joined context not cancelled by b")
	}

	ctx2, cancel2 := joinContexts(a, context.Background())
	defer cancel2()
	cancelA()
	select {
	case <-ctx2.Done():
	case <-time.After(time.Second):
		t.Fatalf("joined context not cancelled by a")
	}
}

func TestSetters(t *testing.T) {
	SetMaxBodyBytes(-1)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("maxBodyBytes=%d", maxBodyBytes)
	}
	SetEventSinkBuffer(0)
	if eventSinkBuffer != 64 {
		t.Fatalf("eventSinkBuffer=%d", eventSinkBuffer)
	}
	SetEventKeepAlive(-time.Second)
	if eventKeepAlive != 0 {
		t.Fatalf("eventKeepAlive=%v", eventKeepAlive)
	}
	SetEventKeepAlive(15 * time.Second)
	SetCORSOptions(true, []string{"*"}, nil, nil)
	defer SetCORSOptions(false, nil, nil, nil)
	if len(corsAllowedMethods) == 0 || len(corsAllowedHeaders) == 0 {
		t.Fatalf("cors defaults not applied")
	}
}
