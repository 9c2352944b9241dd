package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/goevery/messenger/internal/handler"
	"github.com/goevery/messenger/internal/ierr"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Handlers groups the REST operations wired into the router.
type Handlers struct {
	Register           handler.RegisterHandlerInterface
	Login              handler.LoginHandlerInterface
	Logout             handler.LogoutHandlerInterface
	Profile            handler.ProfileHandlerInterface
	ListUsers          handler.ListUsersHandlerInterface
	SearchUsers        handler.SearchUsersHandlerInterface
	CreateConversation handler.CreateConversationHandlerInterface
	ListConversations  handler.ListConversationsHandlerInterface
	CreateGroup        handler.CreateGroupHandlerInterface
	AddParticipants    handler.AddParticipantsHandlerInterface
	SendMessage        handler.SendMessageHandlerInterface
	ListMessages       handler.ListMessagesHandlerInterface
	Health             *handler.HealthHandler
}

type RESTServer struct {
	logger   *zap.Logger
	handlers Handlers
	auth     *AuthMiddleware
	limiter  *IPRateLimiter
}

func NewRESTServer(
	logger *zap.Logger,
	handlers Handlers,
	auth *AuthMiddleware,
	limiter *IPRateLimiter,
) *RESTServer {
	return &RESTServer{
		logger,
		handlers,
		auth,
		limiter,
	}
}

func (s *RESTServer) Register(router *mux.Router) {
	router.Use(corsMiddleware)
	router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	router.HandleFunc("/register", s.limiter.Wrap(s.handleRegister)).Methods(http.MethodPost)
	router.HandleFunc("/login", s.limiter.Wrap(s.handleLogin)).Methods(http.MethodPost)
	router.HandleFunc("/logout", s.auth.Wrap(s.handleLogout)).Methods(http.MethodPost)

	router.HandleFunc("/me", s.auth.Wrap(s.handleGetProfile)).Methods(http.MethodGet)
	router.HandleFunc("/me", s.auth.Wrap(s.handleUpdateProfile)).Methods(http.MethodPut)
	router.HandleFunc("/users", s.auth.Wrap(s.handleListUsers)).Methods(http.MethodGet)
	router.HandleFunc("/users/search", s.auth.Wrap(s.handleSearchUsers)).Methods(http.MethodGet)

	router.HandleFunc("/conversations", s.auth.Wrap(s.handleCreateConversation)).Methods(http.MethodPost)
	router.HandleFunc("/conversations", s.auth.Wrap(s.handleListConversations)).Methods(http.MethodGet)
	router.HandleFunc("/conversations/{conversationId}/messages", s.auth.Wrap(s.handleListMessages)).Methods(http.MethodGet)
	router.HandleFunc("/messages", s.auth.Wrap(s.handleSendMessage)).Methods(http.MethodPost)

	router.HandleFunc("/groups", s.auth.Wrap(s.handleCreateGroup)).Methods(http.MethodPost)
	router.HandleFunc("/groups/{groupId}/participants", s.auth.Wrap(s.handleAddParticipants)).Methods(http.MethodPut)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
}

func (s *RESTServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req handler.RegisterRequest
	if !s.decode(w, r, &req) {
		return
	}

	response, err := s.handlers.Register.Handle(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *RESTServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req handler.LoginRequest
	if !s.decode(w, r, &req) {
		return
	}

	response, err := s.handlers.Login.Handle(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *RESTServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	response, err := s.handlers.Logout.Handle(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *RESTServer) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.handlers.Profile.Get(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

func (s *RESTServer) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req handler.UpdateProfileRequest
	if !s.decode(w, r, &req) {
		return
	}

	profile, err := s.handlers.Profile.Update(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

func (s *RESTServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.handlers.ListUsers.Handle(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profiles)
}

func (s *RESTServer) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	profiles, err := s.handlers.SearchUsers.Handle(r.Context(), query)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profiles)
}

func (s *RESTServer) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req handler.CreateConversationRequest
	if !s.decode(w, r, &req) {
		return
	}

	conversation, err := s.handlers.CreateConversation.Handle(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, conversation)
}

func (s *RESTServer) handleListConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := s.handlers.ListConversations.Handle(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, conversations)
}

func (s *RESTServer) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req handler.CreateGroupRequest
	if !s.decode(w, r, &req) {
		return
	}

	conversation, err := s.handlers.CreateGroup.Handle(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, conversation)
}

func (s *RESTServer) handleAddParticipants(w http.ResponseWriter, r *http.Request) {
	var req handler.AddParticipantsRequest
	if !s.decode(w, r, &req) {
		return
	}
	req.GroupId = mux.Vars(r)["groupId"]

	response, err := s.handlers.AddParticipants.Handle(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *RESTServer) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req handler.SendMessageRequest
	if !s.decode(w, r, &req) {
		return
	}

	message, err := s.handlers.SendMessage.Handle(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, message)
}

func (s *RESTServer) handleListMessages(w http.ResponseWriter, r *http.Request) {
	conversationId := mux.Vars(r)["conversationId"]

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeError(w, ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("invalid limit")))
			return
		}
		limit = parsed
	}

	messages, err := s.handlers.ListMessages.Handle(r.Context(), conversationId, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, messages)
}

func (s *RESTServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.handlers.Health.Handle())
}

func (s *RESTServer) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		s.writeError(w, ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("invalid request body")))
		return false
	}

	return true
}

func (s *RESTServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *RESTServer) writeError(w http.ResponseWriter, err error) {
	var coded ierr.Error
	if !errors.As(err, &coded) {
		s.logger.Error("unhandled error in rest handler", zap.Error(err))
		coded = ierr.New(ierr.ErrorCodeInternal, errors.New("internal error"))
	}

	s.writeJSON(w, statusForCode(coded.Code), coded)
}

func statusForCode(code ierr.ErrorCode) int {
	switch code {
	case ierr.ErrorCodeInvalidArgument, ierr.ErrorCodeAlreadyExists, ierr.ErrorCodeFailedPrecondition:
		return http.StatusBadRequest
	case ierr.ErrorCodeUnauthenticated:
		return http.StatusUnauthorized
	case ierr.ErrorCodePermissionDenied:
		return http.StatusForbidden
	case ierr.ErrorCodeNotFound:
		return http.StatusNotFound
	case ierr.ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
