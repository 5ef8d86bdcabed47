package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestEmitEncodesEvent(t *testing.T) {
	w := &fakeWriter{}
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := &Producer{writer: w, now: func() time.Time { return ts }}

	err := p.Emit(context.Background(), EventMove, "round-1", map[string]any{
		"column": 4,
		"event":  "ignored",
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("round-1"), w.msgs[0].Key)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &body))
	assert.Equal(t, EventMove, body["event"])
	assert.Equal(t, "round-1", body["roundId"])
	assert.Equal(t, "2024-05-01T12:00:00Z", body["ts"])
	assert.Equal(t, float64(4), body["column"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestEmitWrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := &Producer{writer: &fakeWriter{err: boom}, now: time.Now}

	err := p.Emit(context.Background(), EventRoundFinished, "r", nil)
	assert.ErrorIs(t, err, boom)
}

func TestNilProducerIsNoop(t *testing.T) {
	var p *Producer
	assert.NoError(t, p.Emit(context.Background(), EventMove, "r", nil))
	assert.NoError(t, p.Close())
}

func TestEncodeEventRejectsUnencodable(t *testing.T) {
	_, err := encodeEvent(EventMove, "r", time.Now(), map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}
