package mq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"pickleshop/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	msg, err := encode(map[string]any{"order_id": "o1", "total": 350, "at": at})
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.Equal(t, "o1", got["order_id"])
	assert.EqualValues(t, 350, got["total"])
	assert.Equal(t, "2024-05-01T10:00:00Z", got["at"])
}

func TestEncode_Unsupported(t *testing.T) {
	_, err := encode(make(chan int))
	assert.Error(t, err)
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(logger.Discard())
	assert.NoError(t, p.Publish(context.Background(), "order.placed", struct{}{}))
	assert.NoError(t, p.Close())
}
