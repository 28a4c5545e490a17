package broker

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Set TEST_KAFKA_BROKERS (comma separated) to run against a real cluster.
func TestPublishAndConsume(t *testing.T) {
	brokers := os.Getenv("TEST_KAFKA_BROKERS")
	if brokers == "" {
		t.Skip("TEST_KAFKA_BROKERS not set")
	}
	cfg := &Config{
		Brokers: strings.Split(brokers, ","),
		Topic:   "test-orders-" + uuid.NewString(),
		GroupID: "test-" + uuid.NewString(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	producer := NewProducer(cfg)
	defer producer.Close()
	require.Eventually(t, func() bool {
		return producer.Publish(ctx, "order-1", []byte(`{"status":"confirmed"}`)) == nil
	}, 20*time.Second, 500*time.Millisecond, "topic is created on first write")

	consumer := NewConsumer(cfg)
	defer consumer.Close()
	msg, err := consumer.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "order-1", string(msg.Key))
	assert.JSONEq(t, `{"status":"confirmed"}`, string(msg.Value))
}
