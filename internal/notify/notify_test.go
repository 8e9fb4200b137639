package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type failingSender struct{ calls int }

func (f *failingSender) Name() string { return "failing" }

func (f *failingSender) Send(context.Context, Message) error {
	f.calls++
	return errors.New("relay down")
}

func TestSinkFanOut(t *testing.T) {
	failing := &failingSender{}
	rec := &Recorder{}
	sink := NewSink([]string{"ops@example.org"}, "servicedesk@example.org", failing, rec)

	sink.Admins(context.Background(), "cost centre created", "paypoint 123")
	sink.Manager(context.Background(), "boss@example.org", "new account", "details")

	assert.Equal(t, 2, failing.calls)

	msgs := rec.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, Message{Subject: "cost centre created", Body: "paypoint 123", To: []string{"ops@example.org"}, Operator: true}, msgs[0])
	assert.Equal(t, []string{"boss@example.org"}, msgs[1].To)
	assert.Equal(t, []string{"servicedesk@example.org"}, msgs[1].Cc)
	assert.False(t, msgs[1].Operator)
}

func TestNilSink(t *testing.T) {
	var sink *Sink

	assert.NotPanics(t, func() { sink.Send(context.Background(), Message{Subject: "x"}) })
}

func TestNewDefaultsToLog(t *testing.T) {
	sink, err := New(Config{AdminEmails: []string{"ops@example.org"}})
	require.NoError(t, err)
	require.Len(t, sink.senders, 1)
	assert.Equal(t, "log", sink.senders[0].Name())
}

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage("noreply@example.org", Message{
		Subject: "New account created",
		Body:    "Employee ID: 123",
		To:      []string{"boss@example.org"},
		Cc:      []string{"servicedesk@example.org"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Subject: New account created")
	assert.Contains(t, out, "<boss@example.org>")
	assert.Contains(t, out, "<servicedesk@example.org>")
	assert.Contains(t, out, "Employee ID: 123")

	_, err = buildMessage("noreply@example.org", Message{Subject: "x"})
	require.ErrorIs(t, err, ErrNoRecipients)

	_, err = buildMessage("not an address", Message{To: []string{"a@example.org"}})
	require.Error(t, err)
}

func TestTLSPolicy(t *testing.T) {
	assert.Equal(t, mail.TLSMandatory, tlsPolicy("mandatory"))
	assert.Equal(t, mail.NoTLS, tlsPolicy("none"))
	assert.Equal(t, mail.TLSOpportunistic, tlsPolicy(""))
}

func TestDataDogSender(t *testing.T) {
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/api/v1/events", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("DD-API-KEY"))
		_, _ = io.Copy(io.Discard, r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, `{"status":"ok","event":{"id":1,"title":"x"}}`)
	}))
	defer srv.Close()

	dd := NewDataDog(DataDog{
		Enabled:     true,
		APIKey:      "key",
		ServiceName: "identity-sync",
		Servers:     datadog.ServerConfigurations{{URL: srv.URL}},
	})

	require.NoError(t, dd.Send(context.Background(), Message{Subject: "staff only", To: []string{"a@example.org"}}))
	assert.Equal(t, int32(0), hits.Load())

	require.NoError(t, dd.Send(context.Background(), Message{Subject: "ops", Body: "b", Operator: true}))
	assert.Equal(t, int32(1), hits.Load())
	assert.Contains(t, dd.tags, "service:identity-sync")
}
