package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleImport() ImportCompleted {
	to := &domain.BedSlot{Room: "501", Bed: 2}
	return ImportCompleted{
		ImportID: "imp-1",
		Source:   "turno.xlsx",
		At:       time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		Success:  1,
		Errors:   []string{},
		Transitions: []BedTransition{
			{Kind: TransitionAssigned, PatientID: "p1", PatientName: "Ana Pérez", To: to},
			{Kind: TransitionDisplaced, PatientID: "p2", From: to},
		},
	}
}

type fakePublisher struct {
	topics   []string
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(topic string, _ byte, _ bool, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	return nil
}

func TestMQTTNotifier(t *testing.T) {
	pub := &fakePublisher{}
	n := NewMQTTNotifier(pub, "hospital/pediatria/", 1)
	assert.Equal(t, "hospital/pediatria/beds", n.Topic())

	require.NoError(t, n.NotifyImport(context.Background(), sampleImport()))
	require.Len(t, pub.payloads, 2)
	assert.Equal(t, []string{"hospital/pediatria/beds", "hospital/pediatria/beds"}, pub.topics)

	var tr BedTransition
	require.NoError(t, json.Unmarshal(pub.payloads[0], &tr))
	assert.Equal(t, TransitionAssigned, tr.Kind)
	assert.Equal(t, "501-2", tr.To.Key())
	assert.Nil(t, tr.From)
}

func TestStreamNotifier(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	n := NewStreamNotifier(client, "")
	ctx := context.Background()
	require.NoError(t, n.NotifyImport(ctx, sampleImport()))
	require.NoError(t, n.NotifyBed(ctx, BedTransition{Kind: TransitionReleased, PatientID: "p1"}))

	msgs, err := client.XRange(ctx, DefaultStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, TypeImportCompleted, msgs[0].Values["type"])
	assert.Equal(t, "imp-1", msgs[0].Values["import_id"])
	assert.Equal(t, "1", msgs[0].Values["success"])
	assert.Equal(t, TypeBedTransition, msgs[1].Values["type"])
}

func TestWebhookNotifier(t *testing.T) {
	var got webhookBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, 0, zap.NewNop())
	assert.Equal(t, DefaultWebhookDeadline, n.deadline)
	require.NoError(t, n.NotifyImport(context.Background(), sampleImport()))
	assert.Equal(t, TypeImportCompleted, got.Type)
	data, ok := got.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "imp-1", data["import_id"])
}

func TestWebhookNotifier_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, 0, zap.NewNop())
	n.httpClient.SetRetryCount(0)
	err := n.NotifyBed(context.Background(), BedTransition{Kind: TransitionAssigned})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestWebhookNotifier_DeadlineCoversRetries(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	defer close(release)

	n := NewWebhookNotifier(srv.URL, 150*time.Millisecond, zap.NewNop())
	start := time.Now()
	err := n.NotifyImport(context.Background(), sampleImport())
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

type countingNotifier struct {
	imports, beds int
	err           error
}

func (c *countingNotifier) NotifyImport(context.Context, ImportCompleted) error {
	c.imports++
	return c.err
}

func (c *countingNotifier) NotifyBed(context.Context, BedTransition) error {
	c.beds++
	return c.err
}

func TestMulti_SwallowsFailures(t *testing.T) {
	failing := &countingNotifier{err: errors.New("broker down")}
	ok := &countingNotifier{}
	m := NewMulti(zap.NewNop(), failing, nil, ok)
	assert.Equal(t, 2, m.Len())

	assert.NoError(t, m.NotifyImport(context.Background(), sampleImport()))
	assert.NoError(t, m.NotifyBed(context.Background(), BedTransition{}))
	assert.Equal(t, 1, failing.imports)
	assert.Equal(t, 1, ok.imports)
	assert.Equal(t, 1, ok.beds)
}
