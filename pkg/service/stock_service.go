package service

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"StockAtlas/pkg/analysis"
	"StockAtlas/pkg/cache"
	"StockAtlas/pkg/model"
	"StockAtlas/pkg/resolver"
)

// trendWorkers 趋势数据缺失时并发拉取的最大协程数
const trendWorkers = 10

// 行业分析相关结果的缓存键
const (
	cacheKeyIndustryAnalysis = "industry_analysis"
	cacheKeyHierarchy        = "industry_hierarchy"
)

// StockStore 服务层需要的股票基本信息查询能力
type StockStore interface {
	resolver.StockStore
	GetWithIndustry() ([]model.StockInfo, error)
	GetByIndustry(industry string) ([]model.StockInfo, error)
}

// DailyStore 服务层需要的日频行情查询能力
type DailyStore interface {
	resolver.DailyStore
	GetByCodes(codes []string) ([]model.StockDaily, error)
}

// StockService 股票数据服务，聚合解析、统计和缓存
type StockService struct {
	resolver *resolver.Resolver
	stocks   StockStore
	dailies  DailyStore
	cache    *cache.TTLCache
	llm      LLMGenerator

	startDate string // 趋势兜底拉取的历史起点，YYYY-MM-DD
}

// NewStockService 创建股票数据服务
func NewStockService(r *resolver.Resolver, stocks StockStore, dailies DailyStore, c *cache.TTLCache, llm LLMGenerator, startDate string) *StockService {
	if len(startDate) == 8 {
		startDate = startDate[:4] + "-" + startDate[4:6] + "-" + startDate[6:8]
	}
	return &StockService{
		resolver:  r,
		stocks:    stocks,
		dailies:   dailies,
		cache:     c,
		llm:       llm,
		startDate: startDate,
	}
}

// GetStockList 获取全部股票列表
func (s *StockService) GetStockList() []model.StockInfo {
	return s.resolver.ResolveStockList()
}

// GetStockDetail 获取股票详情，基本信息与历史数据都无法解析时返回 nil
func (s *StockService) GetStockDetail(code string) *model.StockDetail {
	info, series := s.resolver.ResolveStockDetail(code)
	if info == nil && len(series) == 0 {
		log.Warn().Msgf("无法获取股票 %s 的详细信息", code)
		return nil
	}

	if series == nil {
		series = []model.StockDaily{}
	}
	return &model.StockDetail{
		BasicInfo:      info,
		HistoricalData: series,
	}
}

// GetIndustryAnalysis 获取全行业统计，无有效数据时返回 nil。
// 结果按TTL缓存，日频数据更新事件会触发失效。
func (s *StockService) GetIndustryAnalysis() *model.IndustryAnalysis {
	result, err := s.cache.GetOrCompute(cacheKeyIndustryAnalysis, func() (interface{}, error) {
		return s.computeIndustryAnalysis(), nil
	})
	if err != nil {
		return nil
	}

	// 空结果也会被缓存，避免反复扫全表
	if analysisResult, ok := result.(*model.IndustryAnalysis); ok {
		return analysisResult
	}
	return nil
}

func (s *StockService) computeIndustryAnalysis() *model.IndustryAnalysis {
	stocks, err := s.stocks.GetWithIndustry()
	if err != nil {
		log.Error().Err(err).Msg("查询有效行业股票失败")
		return nil
	}
	if len(stocks) == 0 {
		log.Warn().Msg("数据库中没有有效的股票基本信息")
		return nil
	}

	codes := make([]string, len(stocks))
	for i, stock := range stocks {
		codes[i] = stock.StockCode
	}

	bars, err := s.dailies.GetByCodes(codes)
	if err != nil {
		log.Error().Err(err).Msg("批量查询历史行情失败")
		return nil
	}

	seriesByCode := make(map[string][]float64)
	for _, bar := range bars {
		if bar.ChangePercent != nil {
			seriesByCode[bar.StockCode] = append(seriesByCode[bar.StockCode], *bar.ChangePercent)
		}
	}

	stats := analysis.ComputeIndustryStats(stocks, seriesByCode)
	if len(stats) == 0 {
		log.Warn().Msg("无法计算行业分析数据")
		return nil
	}

	log.Info().Msgf("计算得到 %d 个行业的分析数据", len(stats))
	return &model.IndustryAnalysis{
		IndustryAnalysis: stats,
		TotalIndustries:  len(stats),
	}
}

// GetIndustryTrend 获取行业内所有股票的日频趋势。
// 优先读权威缓存；无入库数据时并发从远端逐股拉取（上限10个并发），
// 结果按股票代码合并，与完成顺序无关。
func (s *StockService) GetIndustryTrend(industry string) *model.IndustryTrend {
	stocks := s.industryStocks(industry)
	if len(stocks) == 0 {
		log.Warn().Msgf("行业 %s 中没有股票", industry)
		return nil
	}

	codes := make([]string, len(stocks))
	for i, stock := range stocks {
		codes[i] = stock.StockCode
	}

	trends := s.trendsFromStore(codes)
	if len(trends) == 0 {
		trends = s.fetchTrendsConcurrently(codes)
	}
	if len(trends) == 0 {
		log.Warn().Msgf("无法获取行业 %s 的趋势数据", industry)
		return nil
	}

	log.Info().Msgf("获取到行业 %s 的 %d 只股票的趋势数据", industry, len(trends))
	return &model.IndustryTrend{
		Industry:    industry,
		StockTrends: trends,
		StockCount:  len(trends),
	}
}

// industryStocks 查询行业成员，数据库为空时退回解析链的列表再过滤
func (s *StockService) industryStocks(industry string) []model.StockInfo {
	stocks, err := s.stocks.GetByIndustry(industry)
	if err != nil {
		log.Error().Err(err).Msgf("查询行业 %s 的股票失败", industry)
	}
	if len(stocks) > 0 {
		return stocks
	}

	var matched []model.StockInfo
	for _, stock := range s.resolver.ResolveStockList() {
		if stock.Industry == industry {
			matched = append(matched, stock)
		}
	}
	return matched
}

func (s *StockService) trendsFromStore(codes []string) map[string][]model.TrendPoint {
	bars, err := s.dailies.GetByCodes(codes)
	if err != nil {
		log.Error().Err(err).Msg("批量查询趋势数据失败")
		return nil
	}

	trends := make(map[string][]model.TrendPoint)
	for _, bar := range bars {
		trends[bar.StockCode] = append(trends[bar.StockCode], model.TrendPoint{
			Date:          bar.TradeDate,
			Close:         bar.Close,
			ChangePercent: bar.ChangePercent,
		})
	}
	return trends
}

// fetchTrendsConcurrently 并发逐股拉取历史数据并按代码合并
func (s *StockService) fetchTrendsConcurrently(codes []string) map[string][]model.TrendPoint {
	end := time.Now().Format("2006-01-02")

	var mu sync.Mutex
	trends := make(map[string][]model.TrendPoint)

	var g errgroup.Group
	g.SetLimit(trendWorkers)

	for _, code := range codes {
		code := code
		g.Go(func() error {
			bars := s.resolver.ResolveDailySeries(code, s.startDate, end)
			if len(bars) == 0 {
				return nil // 单只股票失败不影响其他
			}

			points := make([]model.TrendPoint, 0, len(bars))
			for _, bar := range bars {
				points = append(points, model.TrendPoint{
					Date:          bar.TradeDate,
					Close:         bar.Close,
					ChangePercent: bar.ChangePercent,
				})
			}

			mu.Lock()
			trends[code] = points
			mu.Unlock()
			return nil
		})
	}

	g.Wait()
	return trends
}

// GetIndustryHierarchy 构建行业-股票层级数据，无有效数据时返回 nil
func (s *StockService) GetIndustryHierarchy() []model.HierarchyNode {
	result, err := s.cache.GetOrCompute(cacheKeyHierarchy, func() (interface{}, error) {
		return s.computeHierarchy(), nil
	})
	if err != nil {
		return nil
	}

	if nodes, ok := result.([]model.HierarchyNode); ok {
		return nodes
	}
	return nil
}

func (s *StockService) computeHierarchy() []model.HierarchyNode {
	stocks, err := s.stocks.GetWithIndustry()
	if err != nil {
		log.Error().Err(err).Msg("查询有效行业股票失败")
		return nil
	}
	if len(stocks) == 0 {
		log.Warn().Msg("数据库中没有有效的股票信息")
		return nil
	}

	codes := make([]string, len(stocks))
	for i, stock := range stocks {
		codes[i] = stock.StockCode
	}

	// 行情按股票代码、交易日排序返回，保留每只股票最后一条即为最新涨跌幅
	latestChange := make(map[string]float64)
	bars, err := s.dailies.GetByCodes(codes)
	if err != nil {
		log.Error().Err(err).Msg("查询最新行情失败")
	}
	for _, bar := range bars {
		if bar.ChangePercent != nil {
			latestChange[bar.StockCode] = *bar.ChangePercent
		}
	}

	nodes := analysis.BuildHierarchy(stocks, latestChange)
	if len(nodes) == 0 {
		return nil
	}

	log.Info().Msgf("构建得到 %d 个行业的层级数据", len(nodes))
	return nodes
}

// AnalyzeIndustry 分析行业在最近 days 个交易日内的表现
func (s *StockService) AnalyzeIndustry(industry string, days int) *model.IndustryReport {
	trend := s.GetIndustryTrend(industry)
	if trend == nil || len(trend.StockTrends) == 0 {
		return nil
	}

	summary := analysis.SummarizeTrend(industry, trend.StockTrends, days)

	return &model.IndustryReport{
		Industry:         industry,
		Period:           periodLabel(days),
		StockCount:       trend.StockCount,
		AvgChange:        summary.AvgChange,
		Volatility:       summary.Volatility,
		PositiveDays:     summary.PositiveDays,
		NegativeDays:     summary.NegativeDays,
		PositiveRate:     summary.PositiveRate,
		DailyPerformance: summary.DailyPerformance,
		Summary:          summary.Summary,
	}
}

// InvalidateAnalysisCaches 使行业统计相关缓存失效，在日频数据更新后调用
func (s *StockService) InvalidateAnalysisCaches() {
	s.cache.Invalidate(cacheKeyIndustryAnalysis)
	s.cache.Invalidate(cacheKeyHierarchy)
	log.Info().Msg("行业分析缓存已失效")
}
