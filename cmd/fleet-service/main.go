package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/SmartFleet/SmartFleet/internal/application"
	"github.com/SmartFleet/SmartFleet/internal/assignment"
	"github.com/SmartFleet/SmartFleet/internal/common/config"
	"github.com/SmartFleet/SmartFleet/internal/common/db"
	"github.com/SmartFleet/SmartFleet/internal/common/logger"
	"github.com/SmartFleet/SmartFleet/internal/common/middleware"
	"github.com/SmartFleet/SmartFleet/internal/common/server"
	"github.com/SmartFleet/SmartFleet/internal/common/tracing"
	"github.com/SmartFleet/SmartFleet/internal/driver"
	"github.com/SmartFleet/SmartFleet/internal/expense"
	"github.com/SmartFleet/SmartFleet/internal/maintenance"
	"github.com/SmartFleet/SmartFleet/internal/notification"
	"github.com/SmartFleet/SmartFleet/internal/setting"
	"github.com/SmartFleet/SmartFleet/internal/stats"
	"github.com/SmartFleet/SmartFleet/internal/user"
	"github.com/SmartFleet/SmartFleet/internal/vehicle"
)

var (
	configPath = flag.String("config", "configs/fleet-service.json", "配置文件路径")
)

func main() {
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Backend, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 本地配置指向了 Consul KV 时，以 KV 里的完整配置为准（拉不到则继续用本地配置）
	if cfg.Consul.ConfigKey != "" {
		kvCfg, err := config.LoadConfigFromConsulKV(cfg.Consul.Host, cfg.Consul.Port, cfg.Consul.ConfigKey)
		if err != nil {
			log.Warnf("failed to load config from consul kv, using local config: %v", err)
		} else {
			log.Infof("config loaded from consul kv key=%s", cfg.Consul.ConfigKey)
			cfg = kvCfg
		}
	}

	// 初始化链路追踪
	tracer, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}
	_ = tracer

	// 初始化数据库
	gormDB, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&user.User{},
		&vehicle.Vehicle{},
		&driver.Driver{},
		&assignment.Assignment{},
		&application.Application{},
		&maintenance.Record{},
		&expense.Expense{},
		&notification.Notification{},
		&setting.Setting{},
	); err != nil {
		log.Fatalf("failed to migrate mysql schema: %v", err)
	}

	// 初始化 Redis（仅统计缓存使用，连不上时降级）
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warnf("redis unavailable, stats cache disabled: %v", err)
		rdb = nil
	}
	cancel()

	// 组装各模块
	asgStore := assignment.NewGormStore(gormDB)
	asgManager := assignment.NewManager(asgStore)
	asgHandler := assignment.NewHandler(asgManager, asgStore)

	vehicleRepo := vehicle.NewRepo(gormDB)
	vehicleHandler := vehicle.NewHandler(vehicle.NewService(vehicleRepo, asgStore))

	driverRepo := driver.NewRepo(gormDB)
	driverHandler := driver.NewHandler(driver.NewService(driverRepo, asgStore))

	notifSvc := notification.NewService(notification.NewRepo(gormDB))
	notifHandler := notification.NewHandler(notifSvc)

	appSvc := application.NewService(application.NewGormStore(gormDB))
	appHandler := application.NewHandler(appSvc, notifSvc, log)

	userHandler := user.NewHandler(user.NewService(user.NewRepo(gormDB), cfg.Auth))

	maintRepo := maintenance.NewRepo(gormDB)
	maintHandler := maintenance.NewHandler(maintenance.NewService(maintRepo, vehicleRepo))

	expenseRepo := expense.NewRepo(gormDB)
	expenseHandler := expense.NewHandler(expense.NewService(expenseRepo, vehicleRepo))

	settingHandler := setting.NewHandler(setting.NewRepo(gormDB))

	statsSvc := stats.NewService(
		stats.NewRepo(gormDB),
		stats.PeriodSumFunc(maintRepo.SumCostInPeriod),
		stats.PeriodSumFunc(expenseRepo.SumAmountInPeriod),
		rdb,
		log,
	)
	statsHandler := stats.NewHandler(statsSvc)

	breaker := middleware.NewCircuitBreaker(cfg.Server.Name, 5, 30*time.Second)

	if err := server.RunHTTPServer(cfg, log, func(r *gin.Engine) error {
		api := r.Group("/api/v1")
		userHandler.RegisterRoutes(api)
		vehicleHandler.RegisterRoutes(api)
		driverHandler.RegisterRoutes(api)
		asgHandler.RegisterRoutes(api)
		appHandler.RegisterRoutes(api)
		maintHandler.RegisterRoutes(api)
		expenseHandler.RegisterRoutes(api)
		notifHandler.RegisterRoutes(api)
		settingHandler.RegisterRoutes(api)
		statsHandler.RegisterRoutes(api)
		return nil
	}, server.WithBreaker(breaker)); err != nil {
		log.Fatalf("fleet-service exited with error: %v", err)
	}
}
