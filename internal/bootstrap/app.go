package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"docbase/internal/app"
	"docbase/internal/cache"
	"docbase/internal/config"
	"docbase/internal/indexing"
	"docbase/internal/model"
	mysqlClient "docbase/internal/platform/mysql"
	rabbitmqClient "docbase/internal/platform/rabbitmq"
	redisClient "docbase/internal/platform/redis"
	"docbase/internal/repository"
	"docbase/internal/storage"
	"docbase/internal/worker"
)

// App wires platform clients and the core services. Services are built once
// here so the sync upload path and the background worker share one
// BatchService, and with it the per-account batch serialization.
type App struct {
	Config *config.Config
	MySQL  *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection

	Resolver        *app.Resolver
	AuthService     *app.AuthService
	AccountService  *app.AccountService
	DelegateService *app.DelegateService
	DocumentService *app.DocumentService
	BatchService    *app.BatchService
	ProgressCache   *cache.ProgressCache
	BatchPublisher  *rabbitmqClient.BatchPublisher
	BatchWorker     *worker.BatchIngestWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.User{},
		&model.Account{},
		&model.Credential{},
		&model.Delegate{},
		&model.Document{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(mysqlDB)
	accountRepo := repository.NewAccountRepository(mysqlDB)
	credentialRepo := repository.NewCredentialRepository(mysqlDB)
	delegateRepo := repository.NewDelegateRepository(mysqlDB)
	documentRepo := repository.NewDocumentRepository(mysqlDB)

	indexClient := indexing.NewClient(cfg.Indexing.BaseURL)
	storeClient := storage.NewClient(cfg.Storage.BaseURL, cfg.Storage.APIKey)

	resolver := app.NewResolver(delegateRepo, accountRepo)
	authService := app.NewAuthService(
		userRepo,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute,
	)
	accountService := app.NewAccountService(accountRepo, credentialRepo)
	delegateService := app.NewDelegateService(delegateRepo, userRepo)
	quotaGate := app.NewQuotaGate(indexClient)
	ingestService := app.NewIngestService(storeClient, indexClient, documentRepo)
	batchService := app.NewBatchService(quotaGate, ingestService, cfg.Indexing.DefaultTechnique, cfg.Upload.MaxFileSize)
	documentService := app.NewDocumentService(documentRepo, accountService, quotaGate, indexClient)

	progressCache := cache.NewProgressCache(redisCli, time.Duration(cfg.Redis.ProgressTTLSeconds)*time.Second)
	batchPublisher := rabbitmqClient.NewBatchPublisher(mqConn, cfg.RabbitMQ.BatchIngestQueue)

	batchWorker := worker.NewBatchIngestWorker(
		mqConn,
		resolver,
		accountService,
		batchService,
		progressCache,
		cfg.RabbitMQ.BatchIngestQueue,
	)
	if err := batchWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start batch worker failed: %w", err)
	}

	return &App{
		Config:          cfg,
		MySQL:           mysqlDB,
		Redis:           redisCli,
		MQConn:          mqConn,
		Resolver:        resolver,
		AuthService:     authService,
		AccountService:  accountService,
		DelegateService: delegateService,
		DocumentService: documentService,
		BatchService:    batchService,
		ProgressCache:   progressCache,
		BatchPublisher:  batchPublisher,
		BatchWorker:     batchWorker,
		StartedAt:       time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.BatchWorker != nil {
		a.BatchWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
