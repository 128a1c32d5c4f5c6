package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"documind/internal/config"
	mysqlClient "documind/internal/platform/mysql"
	rabbitmqClient "documind/internal/platform/rabbitmq"
	redisClient "documind/internal/platform/redis"
	sqliteClient "documind/internal/platform/sqlite"
	"documind/internal/repository"
	"documind/internal/worker"
)

// App owns every process-wide resource. Redis and MQConn are nil when the
// matching feature is not configured.
type App struct {
	Config         *config.Config
	DB             *gorm.DB
	Redis          *redis.Client
	MQConn         *amqp.Connection
	ActivityWorker *worker.ActivityWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return Open(ctx, cfg)
}

// Open connects the configured backends. On error every resource opened so
// far is released.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, StartedAt: time.Now()}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = db
	if err := repository.AutoMigrate(db); err != nil {
		_ = app.Close()
		return nil, err
	}

	if cfg.Redis.Addr != "" {
		redisCli, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.Redis = redisCli
	} else {
		log.Printf("redis not configured, chat history cache disabled")
	}

	if cfg.RabbitMQ.URL != "" {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.ActivityQueue)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.MQConn = mqConn

		activityWorker := worker.NewActivityWorker(mqConn, repository.NewActivityRepository(db), cfg.RabbitMQ.ActivityQueue)
		if err := activityWorker.Start(ctx); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("start activity worker failed: %w", err)
		}
		app.ActivityWorker = activityWorker
	} else {
		log.Printf("rabbitmq not configured, activity events disabled")
	}

	return app, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMySQL:
		return mysqlClient.New(ctx, cfg.MySQL)
	case config.StorageDriverMemory:
		return sqliteClient.NewMemory(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStorageType, cfg.Storage.Driver)
	}
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ActivityWorker != nil {
		a.ActivityWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
