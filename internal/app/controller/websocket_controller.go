package controller

import (
	"net/http"

	"github.com/cuckooblock/vendor-portal/internal/app/service"
	"github.com/cuckooblock/vendor-portal/internal/app/workflow"
	apperrors "github.com/cuckooblock/vendor-portal/internal/errors"
	"github.com/cuckooblock/vendor-portal/internal/middleware"
	"github.com/cuckooblock/vendor-portal/internal/websocket"
	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
)

type WebSocketController struct {
	hub           *websocket.Hub
	accessService service.AccessService
	upgrader      gorillaws.Upgrader
}

func NewWebSocketController(hub *websocket.Hub, accessService service.AccessService, allowedOrigins []string) *WebSocketController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &WebSocketController{
		hub:           hub,
		accessService: accessService,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// non-browser clients send no Origin
				return origin == "" || allowed[origin] || allowed["*"]
			},
		},
	}
}

// Connect upgrades to a websocket that receives review events for the
// caller: their own status changes, plus every submission for admins.
// GET /api/v1/ws?token=...
func (ctrl *WebSocketController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	role, err := ctrl.accessService.ResolveRole(c.Request.Context(), userID)
	if err != nil {
		log.Warn("Role lookup failed, connecting as vendor", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := websocket.NewClient(ctrl.hub, &websocket.Conn{Conn: conn}, userID, workflow.Authorize(role, workflow.RoleAdmin) == nil)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"user_id":  userID,
		"is_admin": client.IsAdmin,
	})
}
