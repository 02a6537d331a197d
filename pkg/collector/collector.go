// pkg/collector/collector.go
package collector

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"StockAtlas/pkg/messaging"
	"StockAtlas/pkg/model"
	"StockAtlas/pkg/resolver"
	"StockAtlas/pkg/source"
)

// 连续请求远端接口之间的间隔，避免触发限流
const fetchInterval = 500 * time.Millisecond

// DailyStore 采集器需要的日频数据存储能力
type DailyStore interface {
	SaveBatch(dailies []model.StockDaily) error
	GetLatestDate(code string) (string, error)
}

// StockStore 采集器需要的股票基础信息存储能力
type StockStore interface {
	Upsert(stock *model.StockInfo) error
}

// Publisher 采集完成后的事件发布能力，可为空
type Publisher interface {
	PublishDailyUpdate(event messaging.DailyUpdateEvent) error
}

// Collector 增量采集器：拉取股票列表、补齐基础信息、增量采集日频行情
type Collector struct {
	resolver  *resolver.Resolver
	stocks    StockStore
	dailies   DailyStore
	remote    source.DailySource
	publisher Publisher
	startDate string // YYYY-MM-DD，首次采集的起始日期下限
}

// New 创建采集器，publisher 可以为 nil，startDate 为 YYYYMMDD 或 YYYY-MM-DD
func New(r *resolver.Resolver, stocks StockStore, dailies DailyStore, remote source.DailySource, publisher Publisher, startDate string) *Collector {
	if startDate == "" {
		startDate = "20250101"
	}
	if len(startDate) == 8 {
		startDate = startDate[:4] + "-" + startDate[4:6] + "-" + startDate[6:8]
	}
	return &Collector{
		resolver:  r,
		stocks:    stocks,
		dailies:   dailies,
		remote:    remote,
		publisher: publisher,
		startDate: startDate,
	}
}

// Run 执行一轮完整采集
func (c *Collector) Run() error {
	stocks := c.resolver.ResolveStockList()
	if len(stocks) == 0 {
		return fmt.Errorf("股票列表为空，无法采集")
	}

	log.Info().Msgf("开始采集 %d 只股票的日频数据", len(stocks))

	var succeeded, failed int
	for i, stock := range stocks {
		if err := c.collectStock(&stocks[i]); err != nil {
			failed++
			log.Warn().Err(err).Msgf("采集 %s 失败", stock.StockCode)
		} else {
			succeeded++
		}
		time.Sleep(fetchInterval)
	}

	log.Info().Msgf("采集完成: 成功 %d, 失败 %d", succeeded, failed)
	if succeeded == 0 {
		return fmt.Errorf("全部 %d 只股票采集失败", failed)
	}
	return nil
}

// collectStock 增量采集单只股票：基础信息入库 + 最近日期之后的行情
func (c *Collector) collectStock(stock *model.StockInfo) error {
	if err := c.stocks.Upsert(stock); err != nil {
		return fmt.Errorf("保存基础信息失败: %w", err)
	}

	start, err := c.nextStartDate(stock.StockCode)
	if err != nil {
		return err
	}
	end := time.Now().Format("2006-01-02")
	if start > end {
		log.Debug().Msgf("%s 数据已是最新，跳过", stock.StockCode)
		return nil
	}

	bars, err := c.remote.DailySeries(stock.StockCode, start, end)
	if err != nil {
		return fmt.Errorf("拉取行情失败: %w", err)
	}
	if len(bars) == 0 {
		return nil
	}

	if err := c.dailies.SaveBatch(bars); err != nil {
		return fmt.Errorf("保存行情失败: %w", err)
	}

	c.publishUpdate(stock.StockCode, bars)
	return nil
}

// nextStartDate 计算增量起点：库内最新交易日+1，下限为配置的起始日期
func (c *Collector) nextStartDate(code string) (string, error) {
	latest, err := c.dailies.GetLatestDate(code)
	if err != nil {
		return "", fmt.Errorf("查询最新交易日失败: %w", err)
	}
	if latest == "" {
		return c.startDate, nil
	}

	day, err := time.Parse("2006-01-02", latest)
	if err != nil {
		// 库内日期格式异常时从头补采
		log.Warn().Msgf("%s 最新交易日格式异常: %s", code, latest)
		return c.startDate, nil
	}
	next := day.AddDate(0, 0, 1).Format("2006-01-02")
	if next < c.startDate {
		return c.startDate, nil
	}
	return next, nil
}

// publishUpdate 发布数据更新事件，失败只记日志
func (c *Collector) publishUpdate(code string, bars []model.StockDaily) {
	if c.publisher == nil {
		return
	}
	event := messaging.DailyUpdateEvent{
		StockCode: code,
		BarCount:  len(bars),
		LatestDay: bars[len(bars)-1].TradeDate,
	}
	if err := c.publisher.PublishDailyUpdate(event); err != nil {
		log.Warn().Err(err).Msgf("发布 %s 更新事件失败", code)
	}
}
