package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/SlpAus/life-gacha-backend/api"
	"github.com/SlpAus/life-gacha-backend/internal/daily"
	"github.com/SlpAus/life-gacha-backend/internal/economy"
	"github.com/SlpAus/life-gacha-backend/internal/gacha"
	"github.com/SlpAus/life-gacha-backend/internal/ledger"
	"github.com/SlpAus/life-gacha-backend/internal/platform/config"
	"github.com/SlpAus/life-gacha-backend/internal/platform/database"
	"github.com/SlpAus/life-gacha-backend/internal/platform/health"
	"github.com/SlpAus/life-gacha-backend/internal/platform/logging"
	"github.com/SlpAus/life-gacha-backend/internal/platform/shutdown"
	"github.com/SlpAus/life-gacha-backend/internal/platform/startup"
	"github.com/SlpAus/life-gacha-backend/internal/pull"
	"github.com/SlpAus/life-gacha-backend/internal/timer"
	"github.com/SlpAus/life-gacha-backend/internal/user"
	"github.com/SlpAus/life-gacha-backend/internal/voucher"
	"github.com/SlpAus/life-gacha-backend/pkg/lifecycle"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("加载配置失败")
	}
	logging.Init(cfg.Log.Level, cfg.Log.Pretty)

	ctx := context.Background()

	db, err := database.OpenDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("数据库初始化失败")
	}
	rdb, err := database.OpenRedis(ctx, cfg.Database.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis初始化失败")
	}

	// 1. 经济策略
	policy, err := economy.Load(cfg.Economy.PolicyFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.Economy.PolicyFile).Msg("经济策略无效，无法启动")
	}
	holder := economy.NewHolder(policy)

	// 2. 账本协调器，配置了Redis时启用余额镜像
	store := ledger.NewGormStore(db)
	var (
		coordOpts []ledger.Option
		tracker   *health.Tracker
	)
	if rdb != nil {
		tracker = health.NewTracker()
		coordOpts = append(coordOpts, ledger.WithMirror(ledger.NewRedisMirror(rdb), tracker.Healthy))
	}
	coord := ledger.NewCoordinator(store, coordOpts...)

	var checker *health.Checker
	if rdb != nil {
		checker = health.NewChecker(health.RedisRunID(rdb), coord.ResetMirror, tracker)
		if err := checker.InitializeRunID(ctx); err != nil {
			log.Fatal().Err(err).Msg("Redis健康检查初始化失败")
		}
	}

	users := user.NewService(coord, holder)

	// 3. 迁移表并创建默认用户
	if err := startup.InitializeApplication(ctx, db, users, cfg.Seed, policy.Version); err != nil {
		log.Fatal().Err(err).Msg("应用初始化失败，无法启动")
	}

	// 4. 后台服务
	stopper := shutdown.NewCoordinator(lifecycle.NewManager("graceful"), lifecycle.NewManager("forceful"))

	if checker != nil {
		if err := stopper.Go("redis-health", checker.Run); err != nil {
			log.Fatal().Err(err).Msg("无法启动健康检查器")
		}
	}
	if cfg.Economy.WatchInterval > 0 {
		watcher := economy.NewWatcher(cfg.Economy.PolicyFile, cfg.Economy.WatchInterval, holder)
		if err := stopper.Go("policy-watcher", func(h *lifecycle.Handle, _ context.Context) { watcher.Run(h) }); err != nil {
			log.Fatal().Err(err).Msg("无法启动经济策略监视器")
		}
	}

	// 5. HTTP
	now := time.Now
	handlers := api.Handlers{
		User:    user.NewHandler(users),
		Pull:    pull.NewHandler(pull.NewService(coord, holder, gacha.DefaultRNG())),
		Timer:   timer.NewHandler(timer.NewService(coord, holder, now)),
		Daily:   daily.NewHandler(daily.NewService(coord, holder, now)),
		Voucher: voucher.NewHandler(voucher.NewService(coord, holder, now)),
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	api.SetupRoutes(r, handlers)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}
	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("服务器已准备就绪")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("服务器启动失败")
		}
	}()

	finalizers := []shutdown.Finalizer{
		{Name: "database", Close: func() error { return database.CloseDB(db) }},
	}
	if rdb != nil {
		finalizers = append(finalizers, shutdown.Finalizer{Name: "redis", Close: rdb.Close})
	}
	stopper.ListenForSignalsAndShutdown(server, finalizers...)
}
