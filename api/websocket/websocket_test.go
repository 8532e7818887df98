package websocket

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/energy-advisor/internal/events"
	"github.com/OldStager01/energy-advisor/pkg/config"
	"github.com/OldStager01/energy-advisor/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(nil)
	go hub.Run()
	t.Cleanup(hub.Stop)

	r := gin.New()
	r.GET("/ws", ServeWebSocket(hub))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, hub *Hub, url string) *websocket.Conn {
	t.Helper()
	before := hub.ClientCount()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return hub.ClientCount() == before+1 }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestNewWebSocketSettings(t *testing.T) {
	s := NewWebSocketSettings(nil)
	assert.Equal(t, 60*time.Second, s.PongWait)
	assert.Equal(t, 54*time.Second, s.PingPeriod)
	assert.Equal(t, 256, s.ClientBuffer)

	s = NewWebSocketSettings(&config.WebSocketConfig{
		PongTimeout:  10 * time.Second,
		PingInterval: 20 * time.Second,
		ClientBuffer: 8,
	})
	assert.Equal(t, 9*time.Second, s.PingPeriod)
	assert.Equal(t, 8, s.ClientBuffer)
}

func TestHub_TopicFiltering(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url+"?topics=bills")

	hub.Broadcast(string(MessageTypeRecommendation), []byte(`{"type":"recommendation"}`))
	hub.Broadcast(string(MessageTypeBills), []byte(`{"type":"bills"}`))

	msg := readMessage(t, conn)
	assert.Equal(t, "bills", msg["type"])
}

func TestClient_Subscribe(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url+"?topics=bills")

	require.NoError(t, conn.WriteJSON(IncomingMessage{Type: "subscribe", Topic: "status"}))

	msg := readMessage(t, conn)
	assert.Equal(t, string(MessageTypeSubscription), msg["type"])
	data := msg["data"].(map[string]interface{})
	assert.Equal(t, "subscribed", data["action"])
	assert.ElementsMatch(t, []interface{}{"bills", "status"}, data["topics"])

	hub.Broadcast(string(MessageTypeStatus), []byte(`{"type":"status"}`))
	assert.Equal(t, "status", readMessage(t, conn)["type"])
}

func TestEventBridge_ForwardsRecommendations(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url)

	bus := events.NewEventBus(10)
	bridge := NewEventBridge(hub, bus.SubscribeAll())
	bridge.Start()
	defer func() {
		bus.Close()
		bridge.Stop()
	}()

	rec := &models.Recommendation{
		ID:           "rec-1",
		Appliances:   []string{"Geyser"},
		MonthlyUnits: 300,
		SavingsScore: 12.5,
		Bill:         models.BillEstimate{SavingPercent: 20, SavedAmount: 480},
		Tips:         []models.Tip{{Appliance: "Geyser", Text: "Lower the thermostat."}},
	}
	events.NewPublisher(bus).WithTraceID("trace-9").RecommendationCreated(rec)

	msg := readMessage(t, conn)
	assert.Equal(t, "recommendation", msg["type"])
	assert.Equal(t, "trace-9", msg["trace_id"])

	data := msg["data"].(map[string]interface{})
	assert.Equal(t, "rec-1", data["id"])
	assert.Equal(t, 480.0, data["saved_amount"])
	assert.NotContains(t, data, "tips")
}

func TestConvertToWSMessage(t *testing.T) {
	tests := []struct {
		eventType models.EventType
		want      MessageType
	}{
		{models.EventTypeRecommendationCreated, MessageTypeRecommendation},
		{models.EventTypeRecommendationFailed, MessageTypeRecommendationFailed},
		{models.EventTypeBillsUploaded, MessageTypeBills},
		{models.EventTypeArtifactsLoaded, MessageTypeStatus},
		{models.EventTypeError, MessageTypeError},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			msg := convertToWSMessage(models.NewEvent(tt.eventType, "m"))
			require.NotNil(t, msg)
			assert.Equal(t, tt.want, msg.Type)
		})
	}

	assert.Nil(t, convertToWSMessage(models.NewEvent(models.EventType("unknown"), "m")))
}
