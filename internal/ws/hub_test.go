package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishQueuesJSON(t *testing.T) {
	hub := NewHub(zap.NewNop())

	hub.Publish(Event{Type: "stock_update", Action: "product_created", Data: map[string]int{"quantity": 3}, Message: "ok"})

	require.Len(t, hub.Broadcast, 1)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(<-hub.Broadcast, &got))
	assert.Equal(t, "stock_update", got["type"])
	assert.Equal(t, "product_created", got["action"])
	assert.Equal(t, float64(3), got["data"].(map[string]interface{})["quantity"])
}

func TestPublishDropsWhenFull(t *testing.T) {
	hub := NewHub(zap.NewNop())
	for i := 0; i < cap(hub.Broadcast)+5; i++ {
		hub.Publish(Event{Type: "stock_update", Action: "noop"})
	}
	assert.Equal(t, cap(hub.Broadcast), len(hub.Broadcast))
	assert.Equal(t, 0, hub.ClientCount())
}
