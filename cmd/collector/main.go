package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StockAtlas/pkg/collector"
	"StockAtlas/pkg/config"
	"StockAtlas/pkg/database"
	"StockAtlas/pkg/messaging"
	"StockAtlas/pkg/resolver"
	"StockAtlas/pkg/scheduler"
	"StockAtlas/pkg/source"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var configPath string

	rootCmd := &cobra.Command{
		Use:           "collector",
		Short:         "A股行情数据采集器",
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径")

	collectCmd := &cobra.Command{
		Use:   "collect",
		Short: "执行一轮增量采集后退出",
		RunE: func(c *cobra.Command, args []string) error {
			coll, cleanup, err := setup(configPath)
			if err != nil {
				return err
			}
			defer cleanup()
			return coll.Run()
		},
	}

	cronCmd := &cobra.Command{
		Use:   "cron",
		Short: "按配置的cron表达式定时采集",
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			coll, cleanup, err := setupWithConfig(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			sched := scheduler.New()
			if err := sched.AddTask(cfg.Collector.CronSpec, "daily-collect", coll.Run); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			log.Info().Msg("收到退出信号，正在停止采集器...")
			return nil
		},
	}

	rootCmd.AddCommand(collectCmd, cronCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("采集器执行失败")
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	return config.LoadConfig(path)
}

// setup 按配置文件组装采集器
func setup(configPath string) (*collector.Collector, func(), error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	return setupWithConfig(cfg)
}

func setupWithConfig(cfg *config.Config) (*collector.Collector, func(), error) {
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := db.AutoMigrate(); err != nil {
		db.Close()
		return nil, nil, err
	}

	snapshot := source.NewCSVSnapshot(cfg.DataSources.Snapshot.CSVPath)
	remote := source.NewAKShareAdapter(cfg.DataSources.AKShare.BaseURL, cfg.DataSources.AKShare.Timeout)
	r := resolver.New(db.Stock(), db.Daily(), snapshot, remote, cfg.Collector.StartDate)

	// 事件发布能力缺失时只影响API侧缓存的及时失效
	var publisher collector.Publisher
	nc, err := messaging.NewNATSClient(cfg.NATS.URL)
	if err != nil {
		log.Warn().Err(err).Msg("NATS不可用，跳过数据更新事件发布")
	} else {
		publisher = nc
	}

	coll := collector.New(r, db.Stock(), db.Daily(), remote, publisher, cfg.Collector.StartDate)

	cleanup := func() {
		if nc != nil {
			nc.Close()
		}
		db.Close()
	}
	return coll, cleanup, nil
}
