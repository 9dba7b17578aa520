package push

import (
	"net/http"

	"github.com/gorilla/websocket"

	"affiliatehub/internal/pkg/auth"
	"affiliatehub/internal/pkg/logger"
)

// Handler 负责把 HTTP 升级为 websocket 并注册到 hub
type Handler struct {
	hub      *Hub
	verifier *auth.Verifier
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, verifier *auth.Verifier) *Handler {
	return &Handler{
		hub:      hub,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 看板和网关不同源，身份由 token 保证
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("GET /ws", h.serveWs)
}

// serveWs 浏览器无法给 websocket 设置 header，token 也可以放在 ?token= 里
func (h *Handler) serveWs(w http.ResponseWriter, r *http.Request) {
	var caller auth.Caller
	var err error
	if token := r.URL.Query().Get("token"); token != "" {
		caller, err = h.verifier.Parse(token)
	} else {
		caller, err = h.verifier.FromRequest(r)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := newClient(h.hub, conn, caller.ID, caller.Role)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}
