package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/SlpAus/life-gacha-backend/internal/economy"
	"github.com/SlpAus/life-gacha-backend/internal/ledger"
	"github.com/SlpAus/life-gacha-backend/internal/platform/config"
	"github.com/SlpAus/life-gacha-backend/internal/platform/database"
	"github.com/SlpAus/life-gacha-backend/internal/platform/logging"
	"github.com/SlpAus/life-gacha-backend/internal/platform/startup"
	"github.com/SlpAus/life-gacha-backend/internal/user"
	"github.com/rs/zerolog/log"
)

func main() {
	id := flag.String("id", "", "要创建的用户ID，留空时自动生成")
	username := flag.String("username", "", "用户名，留空时与ID相同")
	email := flag.String("email", "", "可选的邮箱地址")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("加载配置失败")
	}
	logging.Init(cfg.Log.Level, true)

	db, err := database.OpenDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("数据库初始化失败")
	}
	defer database.CloseDB(db)

	if err := startup.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("数据库迁移失败")
	}

	policy, err := economy.Load(cfg.Economy.PolicyFile)
	if err != nil {
		log.Fatal().Err(err).Msg("经济策略无效")
	}

	// 不经过Redis镜像，服务运行时下一次写入会重新发布余额
	coord := ledger.NewCoordinator(ledger.NewGormStore(db))
	users := user.NewService(coord, economy.NewHolder(policy))

	in := user.RegisterInput{ID: *id, Username: *username}
	if *email != "" {
		in.Email = email
	}
	l, err := users.Register(context.Background(), in)
	if err != nil {
		if errors.Is(err, ledger.ErrAlreadyExists) {
			log.Warn().Str("user", *id).Msg("用户已存在，未做任何修改")
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("创建用户失败")
	}
	log.Info().Str("user", l.ID).Uint64("astrum", l.Astrum).Uint64("astrai", l.Astrai).Int64("flux", l.Flux).Msg("用户已创建")
}
