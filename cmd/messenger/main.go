package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/goevery/messenger/internal/auth"
	"github.com/goevery/messenger/internal/handler"
	"github.com/goevery/messenger/internal/persistence/mongodb"
	"github.com/goevery/messenger/internal/realtime"
	"github.com/goevery/messenger/internal/server"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type App struct {
	logger   *zap.Logger
	settings Settings

	engine          *mongodb.Engine
	presenceTracker *realtime.PresenceTracker
	restServer      *server.RESTServer
	websocketServer *server.WebSocketServer
}

func NewApp(logger *zap.Logger, settings Settings, engine *mongodb.Engine) *App {
	authenticator := auth.NewAuthenticator(
		settings.JWTSecret,
		time.Duration(settings.TokenTtlHours)*time.Hour,
	)
	validate := validator.New()

	registry := realtime.NewRegistry(logger)
	dispatcher := realtime.NewDispatcher(logger, registry)
	presenceTracker := realtime.NewPresenceTracker(logger, engine, registry.Transitions())

	createConversationHandler := handler.NewCreateConversationHandler(validate, engine, engine)

	handlers := server.Handlers{
		Register:           handler.NewRegisterHandler(validate, engine, authenticator),
		Login:              handler.NewLoginHandler(validate, engine, authenticator),
		Logout:             handler.NewLogoutHandler(engine),
		Profile:            handler.NewProfileHandler(validate, engine),
		ListUsers:          handler.NewListUsersHandler(engine),
		SearchUsers:        handler.NewSearchUsersHandler(engine),
		CreateConversation: createConversationHandler,
		ListConversations:  handler.NewListConversationsHandler(engine, engine),
		CreateGroup:        handler.NewCreateGroupHandler(validate, createConversationHandler),
		AddParticipants:    handler.NewAddParticipantsHandler(validate, engine, engine),
		SendMessage:        handler.NewSendMessageHandler(logger, validate, engine, engine, dispatcher),
		ListMessages:       handler.NewListMessagesHandler(engine, engine),
		Health:             handler.NewHealthHandler(),
	}

	authMiddleware := server.NewAuthMiddleware(logger, authenticator, engine)
	loginLimiter := server.NewIPRateLimiter(2, 5)

	restServer := server.NewRESTServer(logger, handlers, authMiddleware, loginLimiter)

	upgrader := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	websocketServer := server.NewWebSocketServer(logger, upgrader, registry, authenticator, engine)

	return &App{
		logger:          logger,
		settings:        settings,
		engine:          engine,
		presenceTracker: presenceTracker,
		restServer:      restServer,
		websocketServer: websocketServer,
	}
}

func (a *App) Run(ctx context.Context) error {
	notifyCtx, notifyCtxCancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer notifyCtxCancel()

	err := a.engine.Setup(notifyCtx)
	if err != nil {
		return fmt.Errorf("failed to setup persistence engine: %w", err)
	}

	go a.presenceTracker.Run(notifyCtx)

	router := mux.NewRouter()
	a.websocketServer.Register(router)

	apiRouter := router.PathPrefix(a.settings.BasePath).Subrouter()
	a.restServer.Register(apiRouter)

	address := fmt.Sprintf("0.0.0.0:%d", a.settings.Port)
	httpServer := &http.Server{
		Addr:    address,
		Handler: router,
	}

	a.logger.Info("starting http server",
		zap.String("address", address))

	go func() {
		err := httpServer.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("failed to start http server",
				zap.Error(err))
		}
	}()

	<-notifyCtx.Done()

	a.logger.Info("stopping http server")

	shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCtxCancel()

	err = httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	a.logger.Info("http server stopped")

	return nil
}

func main() {
	ctx := context.Background()

	godotenv.Load()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	var settings Settings
	_, err := env.UnmarshalFromEnviron(&settings)
	if err != nil {
		logger.Fatal("failed to parse settings from environment", zap.Error(err))
	}

	logger, err = buildZapLogger(settings.LogEncoding)
	if err != nil {
		logger.Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	client, err := mongodb.Connect(settings.MongoURL)
	if err != nil {
		logger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error("failed to disconnect from mongodb", zap.Error(err))
		}
	}()

	engine := mongodb.NewEngine(client, settings.DBName)

	app := NewApp(logger, settings, engine)

	err = app.Run(ctx)
	if err != nil {
		logger.Fatal("failed to run", zap.Error(err))
	}
}
