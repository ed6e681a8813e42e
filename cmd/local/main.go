package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"Skirmish/internal/battle/engine"
	"Skirmish/internal/shared/logs"
	"Skirmish/internal/shared/serverconfig"
	"Skirmish/modules/kit/logx"
)

func main() {
	conf, err := serverconfig.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	// 终端交给 tcell，日志只进文件
	conf.Log.Quiet = true
	if err := logs.Init("local", conf.Log); err != nil {
		fmt.Fprintf(os.Stderr, "init log failed: %v\n", err)
		os.Exit(1)
	}
	defer logs.Sync()
	baseLogger := logx.NewZapLogger(logs.L())

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	e := engine.New(engine.Config{
		Width:         conf.Battle.MapWidth,
		Height:        conf.Battle.MapHeight,
		ResourceCount: conf.Battle.ResourceCount,
		StartingMoney: conf.Battle.StartingMoney,
	}, engine.WithLogger(baseLogger.Named("engine")))

	game := NewGame(screen, e, conf.Battle.RebuildThreshold, baseLogger)
	logs.Info("local match started", zap.Duration("frame", conf.Battle.TickInterval))
	game.run(conf.Battle.TickInterval)
}
