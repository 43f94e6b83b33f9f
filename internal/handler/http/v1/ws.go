package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterLive mounts the websocket live feed. The hub handles the upgrade
// itself, so it is wrapped as a plain http.Handler. Clients subscribe to
// topics over the socket and receive the current view followed by ordered
// change events.
func RegisterLive(api *gin.RouterGroup, hub http.Handler) {
	api.GET("/live", gin.WrapH(hub))
}
