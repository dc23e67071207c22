package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"goreview/internal/adapters"
	"goreview/internal/bootstrap"
	analysisDelivery "goreview/internal/delivery/analysis"
	archiveDelivery "goreview/internal/delivery/archive"
	ownMiddleware "goreview/internal/middleware"
	repo "goreview/internal/repository"
	archiveuc "goreview/internal/usecase/archive"
)

type mainDeliveryHandler struct {
	analysis *analysisDelivery.AnalysisHandler
	archive  *archiveDelivery.ArchiveHandler
}

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	databaseAdapters := initDatabaseAdapters(ctx, logger, cfg)
	defer databaseAdapters.mongoAdapter.Close(ctx)
	defer databaseAdapters.redisAdapter.Close(ctx)

	r := chi.NewRouter()
	handlers := initializeDeliveryHandlers(*cfg, logger, databaseAdapters)
	handlers.Router(r, cfg.IsLocalCors)

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := http.ListenAndServe(cfg.ServerPort, r); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)

	r.Post("/analysis/new", h.analysis.HandleNewAnalysis)
	r.Post("/analysis/summary", h.analysis.HandleGameSummary)
	r.Post("/analysis/turn", h.analysis.HandleTurnAnalysis)
	r.Get("/analysis/watch", h.analysis.HandleWatchAnalysis)
	r.Post("/archive/save", h.archive.HandleSaveGame)
	r.Get("/archive", h.archive.HandleListGames)
	r.Post("/archive/get", h.archive.HandleGetGame)
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(cfg)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatal("Не удалось инициализировать MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(cfg)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatal("Не удалось инициализировать Redis", zap.Error(err))
	}

	log.Info("Адаптеры баз данных инициализированы")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

func initializeDeliveryHandlers(
	cfg bootstrap.Config,
	log *zap.SugaredLogger,
	databaseAdapters *dataBaseAdapters,
) *mainDeliveryHandler {
	oracle := repo.NewKatagoAnalyzer(&cfg, log)
	sessionStore := repo.NewSessionRedisStorage(databaseAdapters.redisAdapter.GetClient())
	analysisHandler := analysisDelivery.NewAnalysisHandler(cfg, log, oracle, sessionStore)

	archiveRepo := repo.NewArchiveRepository(cfg, log, databaseAdapters.mongoAdapter.Database)
	archiveHandler := archiveDelivery.NewArchiveHandler(cfg, log, archiveuc.NewArchiveUseCase(archiveRepo))

	return &mainDeliveryHandler{
		analysis: analysisHandler,
		archive:  archiveHandler,
	}
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
	time.Sleep(1 * time.Second) // дать время закрыть соединения
}
