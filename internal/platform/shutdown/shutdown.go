package shutdown

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SlpAus/life-gacha-backend/pkg/lifecycle"
	"github.com/rs/zerolog/log"
)

// Finalizer 是停机最后阶段按顺序执行的清理步骤，例如关闭数据库。
type Finalizer struct {
	Name  string
	Close func() error
}

// Coordinator 负责编排应用程序的优雅停机流程。
// 它接收外部创建的生命周期管理器，并使用它们来协调停机。
type Coordinator struct {
	GracefulManager *lifecycle.Manager
	ForcefulManager *lifecycle.Manager

	GracefulTimeout time.Duration
	ForcefulTimeout time.Duration
	HTTPTimeout     time.Duration
}

// NewCoordinator 创建一个新的停机协调器。
func NewCoordinator(gracefulMgr, forcefulMgr *lifecycle.Manager) *Coordinator {
	return &Coordinator{
		GracefulManager: gracefulMgr,
		ForcefulManager: forcefulMgr,
		GracefulTimeout: 30 * time.Second,
		ForcefulTimeout: 1 * time.Second,
		HTTPTimeout:     15 * time.Second,
	}
}

// Go 在第一阶段管理器中运行服务。work 只在第二阶段才被取消，
// 第一阶段信号到达时正在进行的工作可以用它完成。
func (c *Coordinator) Go(name string, run func(h *lifecycle.Handle, work context.Context)) error {
	abort, err := c.ForcefulManager.NewServiceHandle(name)
	if err != nil {
		return err
	}
	if err := c.GracefulManager.Go(name, func(h *lifecycle.Handle) {
		defer abort.Close()
		run(h, abort.Ctx())
	}); err != nil {
		abort.Close()
		return err
	}
	return nil
}

// ListenForSignalsAndShutdown 启动信号监听并阻塞，直到停机流程完成。
func (c *Coordinator) ListenForSignalsAndShutdown(server *http.Server, finalizers ...Finalizer) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("收到关闭信号，开始优雅停机...")
	c.Shutdown(server, finalizers...)
}

// Shutdown 依次关闭HTTP服务器、后台服务和 finalizers。
func (c *Coordinator) Shutdown(server *http.Server, finalizers ...Finalizer) {
	// 关闭HTTP服务器，正在进行的请求会先完成并提交
	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), c.HTTPTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Gin服务器关闭错误")
		} else {
			log.Info().Msg("Gin服务器已关闭。")
		}
	}

	// --- 阶段一: 优雅停机 ---
	log.Info().Dur("timeout", c.GracefulTimeout).Msg("第一阶段停机：等待后台任务完成...")
	c.GracefulManager.Shutdown()

	remainingServices := c.GracefulManager.WaitWithTimeout(c.GracefulTimeout)
	if len(remainingServices) == 0 {
		log.Info().Msg("所有服务已在第一阶段优雅关闭。")
	} else {
		// --- 阶段二: 强制停机 ---
		log.Warn().Strs("remaining", remainingServices).Dur("timeout", c.ForcefulTimeout).Msg("第一阶段超时，发送第二停机信号")
		c.ForcefulManager.Shutdown()
		c.ForcefulManager.WaitWithTimeout(c.ForcefulTimeout)
	}

	// --- 最终步骤 ---
	for _, f := range finalizers {
		if err := f.Close(); err != nil {
			log.Error().Err(err).Str("step", f.Name).Msg("停机清理失败")
		} else {
			log.Info().Str("step", f.Name).Msg("停机清理完成")
		}
	}

	log.Info().Msg("优雅停机完成。")
}
