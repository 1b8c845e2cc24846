package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, hub *Hub) string {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/live/:idSchedule", func(ctx *gin.Context) {
		if err := hub.Serve(ctx, ctx.Param("idSchedule")); err != nil {
			ctx.Status(http.StatusBadRequest)
		}
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastBySchedule(t *testing.T) {
	hub := NewHub(nil)
	url := newTestServer(t, hub)

	watcher := dial(t, url+"/live/s1")
	other := dial(t, url+"/live/s2")
	assert.Eventually(t, func() bool {
		return hub.Count("s1") == 1 && hub.Count("s2") == 1
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast(&res.AttemptEvent{
		Type:     res.ATTEMPT_ANSWERED,
		Schedule: "s1",
		Attempt:  "a1",
		Answered: 3,
	})

	var event res.AttemptEvent
	watcher.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, watcher.ReadJSON(&event))
	assert.Equal(t, res.ATTEMPT_ANSWERED, event.Type)
	assert.Equal(t, "a1", event.Attempt)
	assert.Equal(t, 3, event.Answered)

	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}

func TestHubUnregistersOnClose(t *testing.T) {
	hub := NewHub(nil)
	url := newTestServer(t, hub)

	conn := dial(t, url+"/live/s1")
	assert.Eventually(t, func() bool {
		return hub.Count("s1") == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool {
		return hub.Count("s1") == 0
	}, time.Second, 10*time.Millisecond)
}
