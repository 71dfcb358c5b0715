package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/preview"
)

func recvMsg(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case b := <-ch:
		return b
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for hub message")
		return nil
	}
}

func assertNoMsg(t *testing.T, ch chan []byte) {
	t.Helper()
	select {
	case b := <-ch:
		t.Fatalf("unexpected message: %s", b)
	case <-time.After(50 * time.Millisecond):
	}
}

func newClient(session, id, role string) *Client {
	return &Client{ID: id, Session: session, Role: role, Send: make(chan []byte, 8)}
}

func TestHub_RelaysBuilderToPreviews(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	builder := newClient("sess-1", "b1", RoleBuilder)
	previewer := newClient("sess-1", "p1", RolePreview)
	other := newClient("sess-2", "p2", RolePreview)
	hub.RegisterClient(builder)
	hub.RegisterClient(previewer)
	hub.RegisterClient(other)
	recvMsg(t, previewer.Send) // join snapshot
	recvMsg(t, other.Send)

	env := []byte(`{"type":"UPDATE_CONFIG","payload":{"partnerName":"Sam"}}`)
	hub.Push("sess-1", env)

	got := recvMsg(t, previewer.Send)
	assert.JSONEq(t, string(env), string(got))

	// the builder does not echo, other sessions stay quiet
	assertNoMsg(t, builder.Send)
	assertNoMsg(t, other.Send)
}

func TestHub_DropsForeignEnvelopes(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	previewer := newClient("sess-1", "p1", RolePreview)
	hub.RegisterClient(previewer)
	recvMsg(t, previewer.Send)

	hub.Push("sess-1", []byte(`{"type":"SOMETHING_ELSE","payload":{"partnerName":"Sam"}}`))
	assertNoMsg(t, previewer.Send)
}

// A preview joining after edits were made gets the merged state as one
// snapshot envelope.
func TestHub_LateJoinerSnapshot(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	first := newClient("sess-1", "p1", RolePreview)
	hub.RegisterClient(first)
	recvMsg(t, first.Send)

	hub.Push("sess-1", []byte(`{"type":"UPDATE_CONFIG","payload":{"partnerName":"Sam"}}`))
	recvMsg(t, first.Send)
	hub.Push("sess-1", []byte(`{"type":"UPDATE_CONFIG","payload":{"message":"hi"}}`))
	recvMsg(t, first.Send)

	late := newClient("sess-1", "p2", RolePreview)
	hub.RegisterClient(late)

	var env preview.Envelope
	require.NoError(t, json.Unmarshal(recvMsg(t, late.Send), &env))
	assert.Equal(t, preview.EnvelopeTypeUpdateConfig, env.Type)
	require.NotNil(t, env.Payload.PartnerName)
	assert.Equal(t, "Sam", *env.Payload.PartnerName)
	require.NotNil(t, env.Payload.Message)
	assert.Equal(t, "hi", *env.Payload.Message)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	previewer := newClient("sess-1", "p1", RolePreview)
	hub.RegisterClient(previewer)
	recvMsg(t, previewer.Send)

	hub.UnregisterClient(previewer)
	select {
	case _, open := <-previewer.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}
