package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	require.Error(t, err)
}

func TestPublishEncodesJSON(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "snappy")

	err := p.Publish(context.Background(), "baseball.predictions", []byte("G1"), map[string]interface{}{"hit_prob": 0.25})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "baseball.predictions", w.msgs[0].Topic)
	assert.Equal(t, []byte("G1"), w.msgs[0].Key)

	var body map[string]float64
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &body))
	assert.Equal(t, 0.25, body["hit_prob"])
}

func TestPublishRawValues(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "none")

	require.NoError(t, p.Publish(context.Background(), "t", []byte("a"), []byte("raw")))
	require.NoError(t, p.Publish(context.Background(), "t", nil, "text"))
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "raw", string(w.msgs[0].Value))
	assert.Equal(t, "text", string(w.msgs[1].Value))
	assert.Nil(t, w.msgs[1].Key)
}

func TestPublishRejectsUnencodable(t *testing.T) {
	p := newProducer(&fakeWriter{}, "none")
	err := p.Publish(context.Background(), "t", nil, make(chan int))
	assert.Error(t, err)
}

func TestPublishPropagatesWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newProducer(w, "snappy")

	err := p.Publish(context.Background(), "baseball.logs", nil, []string{"x"})
	assert.EqualError(t, err, "broker down")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Gzip, parseCompression("gzip"))
	assert.Equal(t, kafka.Zstd, parseCompression("zstd"))
	assert.Equal(t, kafka.Snappy, parseCompression("unknown"))
}

func TestProducerConfigWriter(t *testing.T) {
	cfg := DefaultProducerConfig()
	for _, opt := range []ProducerOption{
		WithBrokers([]string{"k1:9092", "k2:9092"}),
		WithRequiredAcks(1),
		WithCompression("zstd"),
		WithHashByKey(true),
		WithBatching(0, 0, 0),
		WithAsync(true),
	} {
		opt(&cfg)
	}
	require.NoError(t, cfg.validate())

	w := cfg.writer()
	assert.Equal(t, "k1:9092,k2:9092", w.Addr.String())
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.Equal(t, kafka.RequireOne, w.RequiredAcks)
	assert.Equal(t, kafka.Zstd, w.Compression)
	assert.Equal(t, 100, w.BatchSize)
	assert.True(t, w.Async)

	cfg.RequiredAcks = 2
	assert.Error(t, cfg.validate())
}
