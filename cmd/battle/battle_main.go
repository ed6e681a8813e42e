package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Skirmish/internal/battle/actor"
	"Skirmish/internal/battle/actors"
	"Skirmish/internal/battle/app"
	"Skirmish/internal/battle/app/port"
	"Skirmish/internal/battle/engine"
	"Skirmish/internal/battle/infra/persistence/memory"
	"Skirmish/internal/battle/infra/persistence/mongodb"
	"Skirmish/internal/battle/infra/persistence/mysql"
	"Skirmish/internal/battle/interfaces"
	"Skirmish/internal/battle/interfaces/handler"
	"Skirmish/internal/battle/interfaces/push"
	"Skirmish/internal/shared/infrastructure/db"
	"Skirmish/internal/shared/infrastructure/mongo"
	"Skirmish/internal/shared/logs"
	"Skirmish/internal/shared/observability"
	"Skirmish/internal/shared/serverconfig"
	"Skirmish/internal/shared/session"
	transporthttp "Skirmish/internal/shared/transport/http"
	"Skirmish/modules/kit/logx"
)

func main() {
	conf, err := serverconfig.Load("")
	if err != nil {
		panic(err)
	}
	if err := logs.Init("battle", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("battle", conf.Battle), zap.Any("httpserver", conf.HTTPServer))

	host := conf.HTTPServer.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, conf.HTTPServer.Port)
	baseLogger := logx.NewZapLogger(logs.L())

	collector, err := observability.NewBattleCollector(prometheus.NewRegistry())
	if err != nil {
		logs.Fatal("init metrics failed", zap.Error(err))
	}

	reports, closeReports, err := openReports(conf)
	if err != nil {
		logs.Fatal("open report repository failed", zap.String("backend", conf.Battle.ReportBackend), zap.Error(err))
	}
	defer closeReports()

	sessMgr := session.NewSessMgr()
	// 配置热更新后，新建的对局按 Current 取参数
	base := actors.MatchSettings{Engine: engine.DefaultConfig()}
	settings := actors.SettingsFromConfig(base, conf.Battle)
	rt := actor.NewRuntime(settings, actors.Deps{
		Publisher:     push.NewSessionPublisher(sessMgr),
		Reports:       reports,
		Metrics:       collector,
		Logger:        baseLogger.Named("match"),
		ReportBackend: conf.Battle.ReportBackend,
		Settings:      actors.FromCurrentConfig(base),
	}, conf.Battle.RequestTimeout)

	svc := app.NewBattleService(rt, reports, app.JWTIssuer(0), app.JWTParser(), collector, baseLogger.Named("app"))
	module := interfaces.NewModule(handler.NewBattle(svc, sessMgr), conf.HTTPServer.NeedSecret, collector.Handler(), baseLogger)

	httpServer := transporthttp.NewHttpServer(addr, nil, baseLogger)
	httpServer.Register(module)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logs.Info("battle server listening", zap.String("addr", addr))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("battle server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	// 停 actor 时各局的 dc 会把剩余战报写完
	rt.Shutdown()
}

// openReports 按 report_backend 选战报仓库，返回的关闭函数总是非空。
func openReports(conf serverconfig.Config) (port.ReportRepository, func(), error) {
	switch conf.Battle.ReportBackend {
	case "", "memory":
		return memory.NewReportRepository(), func() {}, nil
	case "mongodb":
		store, err := mongo.Open(context.Background(), conf.MongoDB, logs.L())
		if err != nil {
			return nil, nil, err
		}
		repo := mongodb.NewReportRepository(store.DB, conf.MongoDB.Collection)
		if err := repo.EnsureIndexes(context.Background()); err != nil {
			_ = store.Close(context.Background())
			return nil, nil, err
		}
		return repo, func() { _ = store.Close(context.Background()) }, nil
	case "mysql":
		gdb, err := db.Open(conf.MySQL)
		if err != nil {
			return nil, nil, err
		}
		repo := mysql.NewReportRepo(gdb)
		if err := repo.AutoMigrate(); err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown report backend %q", conf.Battle.ReportBackend)
	}
}
