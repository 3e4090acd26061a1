package main

import (
	"context"
	"flag"
	"log"

	"github.com/arjunkrish/rival_radar/internal/config"
	"github.com/arjunkrish/rival_radar/internal/engine"
	"github.com/arjunkrish/rival_radar/internal/logger"
	"github.com/arjunkrish/rival_radar/internal/storage"
)

var flagconf string

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.LoadConfig(flagconf)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}
	if err = cfg.Validate(); err != nil {
		log.Fatalf("配置错误: %v", err)
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Infof("启动竞争雷达: product=%s provider=%s", cfg.ProductName, cfg.Search.Provider)

	ctx := context.Background()

	// 3. 初始化数据库连接
	store, err := storage.NewStorage(cfg.DB)
	if err != nil {
		logger.Log.Fatalf("无法连接数据库: %v", err)
	}
	defer store.Close()
	logger.Log.Info("已成功连接到数据库")

	// 4. 构造流水线引擎并执行一次完整分析
	eng, err := engine.NewEngine(cfg, store)
	if err != nil {
		logger.Log.Fatalf("引擎初始化失败: %v", err)
	}

	if err := eng.Run(ctx); err != nil {
		logger.Log.Fatalf("本次分析失败: %v", err)
	}
	logger.Log.Info("✅ 竞争情报分析完成")
}
