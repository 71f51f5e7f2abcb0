package chat

import (
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send:      make(chan []byte, 10),
		SessionID: "sess1",
	}
	hub.register <- registration{client: client}

	data := []byte(`{"action":"message"}`)
	hub.Broadcast("sess1", data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

func TestHubBroadcastIsolatedPerSession(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := &Client{Send: make(chan []byte, 10), SessionID: "sessA"}
	b := &Client{Send: make(chan []byte, 10), SessionID: "sessB"}
	hub.register <- registration{client: a}
	hub.register <- registration{client: b}

	hub.Broadcast("sessA", []byte("only-a"))

	select {
	case got := <-a.Send:
		if string(got) != "only-a" {
			t.Fatalf("unexpected payload: %s", got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for sessA message")
	}

	select {
	case got := <-b.Send:
		t.Fatalf("sessB received foreign message: %s", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubStopClosesClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Send: make(chan []byte, 1), SessionID: "sess1"}
	hub.register <- registration{client: client}

	hub.Stop()

	select {
	case _, open := <-client.Send:
		if open {
			t.Fatal("expected send channel closed after Stop")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for channel close")
	}
}
