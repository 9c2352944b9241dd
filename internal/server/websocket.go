package server

import (
	"errors"
	"net/http"

	"github.com/goevery/messenger/internal/auth"
	"github.com/goevery/messenger/internal/persistence"
	"github.com/goevery/messenger/internal/realtime"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WebSocketServer struct {
	logger        *zap.Logger
	upgrader      *websocket.Upgrader
	registry      *realtime.Registry
	authenticator *auth.Authenticator
	users         persistence.UserStore
}

func NewWebSocketServer(
	logger *zap.Logger,
	upgrader *websocket.Upgrader,
	registry *realtime.Registry,
	authenticator *auth.Authenticator,
	users persistence.UserStore,
) *WebSocketServer {
	return &WebSocketServer{
		logger,
		upgrader,
		registry,
		authenticator,
		users,
	}
}

func (s *WebSocketServer) Register(router *mux.Router) {
	router.HandleFunc("/ws/{userId}", s.handle)
}

// handle accepts a push channel for the user named in the path. Legacy
// clients connect with the bare path; when a token query parameter is
// supplied it must be a valid session token for that same user, otherwise
// the upgrade is refused.
func (s *WebSocketServer) handle(w http.ResponseWriter, r *http.Request) {
	userId := mux.Vars(r)["userId"]

	if token := r.URL.Query().Get("token"); token != "" {
		err := s.verifyToken(r, token, userId)
		if err != nil {
			s.logger.Warn("rejecting websocket connection",
				zap.String("userId", userId),
				zap.Error(err))
			http.Error(w, "could not validate credentials", http.StatusForbidden)
			return
		}
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	ws.SetReadLimit(1024)

	connection := realtime.NewConnection(userId, ws)
	connection.Start()

	connectionId := s.registry.Register(userId, connection)

	s.logger.Info("websocket connection established",
		zap.String("userId", userId),
		zap.String("connectionId", connectionId))

	// Inbound frames carry no protocol; the read loop only detects the
	// peer going away.
	for {
		_, _, err := ws.ReadMessage()
		if err != nil {
			break
		}
	}

	s.registry.Unregister(connectionId, userId)
	connection.Close()

	s.logger.Info("websocket connection closed",
		zap.String("userId", userId),
		zap.String("connectionId", connectionId))
}

func (s *WebSocketServer) verifyToken(r *http.Request, token string, userId string) error {
	username, err := s.authenticator.Authenticate(token)
	if err != nil {
		return err
	}

	user, err := s.users.FindUserByUsername(r.Context(), username)
	if err != nil {
		return err
	}

	if user.Id != userId {
		return errors.New("token subject does not match path user")
	}

	return nil
}
