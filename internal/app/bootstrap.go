package app

import (
	"errors"
	"fmt"
	"net"

	"github.com/undangan-next/internal/config"
	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/provider"
	"github.com/undangan-next/internal/router"
	"github.com/undangan-next/internal/worker"
)

// ErrQueueRequired worker 模式要求启用队列
var ErrQueueRequired = errors.New("worker mode requires queue.enabled")

// BuildRunner 按运行模式组装 HTTP 与 worker 服务
func BuildRunner(cfg *config.Config, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	if !ValidMode(mode) {
		return nil, nil, fmt.Errorf("unknown mode %q", mode)
	}
	if mode == ModeWorker && !cfg.Queue.Enabled {
		return nil, nil, ErrQueueRequired
	}

	container := provider.NewContainer(cfg)
	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(net.JoinHostPort(cfg.Server.Host, cfg.Server.Port), engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		if cfg.Queue.Enabled {
			workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
			if err != nil {
				container.Close()
				return nil, nil, err
			}
			services = append(services, workerService)
		} else {
			// 队列未启用时任务不会投递，all 模式只跑 HTTP
			logger.Warnw("app_worker_skipped_queue_disabled", "mode", mode)
		}
	}

	return NewRunner(services...), container, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer container.Close()

	opts.Logger.Infow("app_start",
		"addr", net.JoinHostPort(opts.Config.Server.Host, opts.Config.Server.Port),
		"mode", opts.Mode,
		"services", runner.Names(),
	)
	return RunWithOptions(runner, opts)
}
