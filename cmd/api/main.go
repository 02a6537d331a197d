package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"StockAtlas/pkg/api"
	"StockAtlas/pkg/cache"
	"StockAtlas/pkg/config"
	"StockAtlas/pkg/database"
	"StockAtlas/pkg/llm"
	"StockAtlas/pkg/messaging"
	"StockAtlas/pkg/resolver"
	"StockAtlas/pkg/service"
	"StockAtlas/pkg/source"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	path := *configPath
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatal().Err(err).Msgf("加载配置失败: %s", path)
	}
	log.Info().Msgf("启动 %s API服务 (env=%s)", cfg.App.Name, cfg.App.Env)

	// 数据库
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("连接数据库失败")
	}
	defer db.Close()
	if err := db.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("数据库迁移失败")
	}

	// 数据源与回退链
	snapshot := source.NewCSVSnapshot(cfg.DataSources.Snapshot.CSVPath)
	remote := source.NewAKShareAdapter(cfg.DataSources.AKShare.BaseURL, cfg.DataSources.AKShare.Timeout)
	r := resolver.New(db.Stock(), db.Daily(), snapshot, remote, cfg.Collector.StartDate)

	// 大模型客户端
	llmClient := llm.NewClient(cfg.LLM.APIURL, cfg.LLM.APIKey, cfg.LLM.ModelName)

	// 业务服务
	analysisCache := cache.New(cfg.Cache.TTL)
	stockService := service.NewStockService(r, db.Stock(), db.Daily(), analysisCache, llmClient, cfg.Collector.StartDate)

	// 订阅日频数据更新事件，NATS不可用时降级为仅依赖TTL过期
	if nc, err := messaging.NewNATSClient(cfg.NATS.URL); err != nil {
		log.Warn().Err(err).Msg("NATS不可用，缓存只按TTL过期")
	} else {
		defer nc.Close()
		err := nc.Subscribe(messaging.DailyStreamName, "api-cache-invalidator", messaging.SubjectDailyUpdate, func(data []byte) error {
			var event messaging.DailyUpdateEvent
			if err := json.Unmarshal(data, &event); err != nil {
				return err
			}
			log.Info().Msgf("收到 %s 数据更新事件，最新交易日 %s", event.StockCode, event.LatestDay)
			stockService.InvalidateAnalysisCaches()
			return nil
		})
		if err != nil {
			log.Warn().Err(err).Msg("订阅数据更新事件失败")
		}
	}

	// HTTP服务
	handlers := api.NewHandlers(stockService)
	server := api.NewServer(cfg.API.Port, cfg.API.ReadTimeout, cfg.API.WriteTimeout)
	server.SetupRoutes(handlers)
	server.Start()
}
