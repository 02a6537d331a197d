// Package resolver 实现跨来源回退解析：
// 数据库 → 本地CSV快照 → 远端数据接口 → 内置兜底列表。
// 任何单个来源失败都只记录日志并尝试下一来源，错误不会传给调用方。
package resolver

import (
	"time"

	"github.com/rs/zerolog/log"

	"StockAtlas/pkg/model"
	"StockAtlas/pkg/source"
)

// StockStore 股票基本信息的权威缓存
type StockStore interface {
	Upsert(stock *model.StockInfo) error
	GetByCode(code string) (*model.StockInfo, error)
	GetAll() ([]model.StockInfo, error)
}

// DailyStore 日频行情的权威缓存，写入按 (code, date) 去重
type DailyStore interface {
	SaveBatch(bars []model.StockDaily) error
	GetByCode(code string) ([]model.StockDaily, error)
	GetSeries(code, start, end string) ([]model.StockDaily, error)
}

// SnapshotSource 本地快照来源
type SnapshotSource interface {
	source.StockListSource
	source.BasicInfoSource
}

// RemoteSource 远端数据接口
type RemoteSource interface {
	source.BasicInfoSource
	source.DailySource
}

// Resolver 按固定优先级解析股票数据
type Resolver struct {
	stocks   StockStore
	dailies  DailyStore
	snapshot SnapshotSource
	remote   RemoteSource
	defaults source.StockListSource

	startDate string // 无区间约束时的历史起点，YYYY-MM-DD
}

// New 创建解析器，startDate 为 YYYYMMDD 或 YYYY-MM-DD
func New(stocks StockStore, dailies DailyStore, snapshot SnapshotSource, remote RemoteSource, startDate string) *Resolver {
	if len(startDate) == 8 {
		startDate = startDate[:4] + "-" + startDate[4:6] + "-" + startDate[6:8]
	}
	return &Resolver{
		stocks:    stocks,
		dailies:   dailies,
		snapshot:  snapshot,
		remote:    remote,
		defaults:  source.NewDefaultStocks(),
		startDate: startDate,
	}
}

// ResolveStockList 解析成分股列表：数据库 → 快照 → 兜底列表
func (r *Resolver) ResolveStockList() []model.StockInfo {
	if r.stocks != nil {
		stocks, err := r.stocks.GetAll()
		if err != nil {
			log.Error().Err(err).Msg("从数据库获取股票列表失败")
		} else if len(stocks) > 0 {
			log.Info().Msgf("从数据库获取到 %d 只股票", len(stocks))
			return normalizeIndustries(stocks)
		}
	}

	if r.snapshot != nil {
		stocks, err := r.snapshot.StockList()
		if err != nil {
			log.Error().Err(err).Msg("从CSV快照获取股票列表失败")
		} else if len(stocks) > 0 {
			return normalizeIndustries(stocks)
		}
	}

	log.Warn().Msg("无法从数据库和快照获取股票列表，返回默认测试股票")
	stocks, _ := r.defaults.StockList()
	return stocks
}

// ResolveStockDetail 解析股票详情：基本信息与历史行情各走一遍回退链
func (r *Resolver) ResolveStockDetail(code string) (*model.StockInfo, []model.StockDaily) {
	info := r.resolveBasicInfo(code)
	series := r.ResolveDailySeries(code, r.startDate, today())
	return info, series
}

// ResolveDailySeries 解析日频行情：数据库 → 远端，远端成功后回填数据库
func (r *Resolver) ResolveDailySeries(code, start, end string) []model.StockDaily {
	if r.dailies != nil {
		bars, err := r.dailies.GetSeries(code, start, end)
		if err != nil {
			log.Error().Err(err).Msgf("从数据库查询股票 %s 历史数据失败", code)
		} else if len(bars) > 0 {
			return bars
		}
	}

	if r.remote == nil {
		return nil
	}

	bars, err := r.remote.DailySeries(code, start, end)
	if err != nil {
		log.Error().Err(err).Msgf("从远端获取股票 %s 历史数据失败", code)
		return nil
	}
	if len(bars) == 0 {
		return nil
	}

	// 远端命中后回填权威缓存，冲突的 (code, date) 由存储层跳过
	if r.dailies != nil {
		if err := r.dailies.SaveBatch(bars); err != nil {
			log.Error().Err(err).Msgf("回填股票 %s 历史数据失败", code)
		}
	}

	return bars
}

// resolveBasicInfo 数据库 → 快照 → 远端，远端成功后回填数据库
func (r *Resolver) resolveBasicInfo(code string) *model.StockInfo {
	if r.stocks != nil {
		info, err := r.stocks.GetByCode(code)
		if err != nil {
			log.Error().Err(err).Msgf("从数据库查询股票 %s 基本信息失败", code)
		} else if info != nil {
			return normalizeIndustry(info)
		}
	}

	if r.snapshot != nil {
		info, err := r.snapshot.BasicInfo(code)
		if err != nil {
			log.Error().Err(err).Msgf("从快照查询股票 %s 基本信息失败", code)
		} else if info != nil {
			return normalizeIndustry(info)
		}
	}

	if r.remote == nil {
		return nil
	}

	info, err := r.remote.BasicInfo(code)
	if err != nil {
		log.Error().Err(err).Msgf("从远端获取股票 %s 基本信息失败", code)
		return nil
	}
	if info == nil {
		return nil
	}

	if r.stocks != nil {
		if err := r.stocks.Upsert(info); err != nil {
			log.Error().Err(err).Msgf("回填股票 %s 基本信息失败", code)
		}
	}

	return normalizeIndustry(info)
}

// normalizeIndustry 行业标签缺失时替换为占位值，保证分组总是可行
func normalizeIndustry(info *model.StockInfo) *model.StockInfo {
	if info.Industry == "" {
		info.Industry = model.UnknownIndustry
	}
	return info
}

func normalizeIndustries(stocks []model.StockInfo) []model.StockInfo {
	for i := range stocks {
		normalizeIndustry(&stocks[i])
	}
	return stocks
}

func today() string {
	return time.Now().Format("2006-01-02")
}
