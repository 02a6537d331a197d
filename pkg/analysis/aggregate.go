package analysis

import (
	"sort"

	"StockAtlas/pkg/model"
)

// ComputeIndustryStats 计算各行业的统计指标。
// 先对每只股票求自身均值和波动率，再在行业内对股票求平均（两层平均，
// 不是把所有日频观测拉平后的整体均值）。行业标签缺失或为未知的股票、
// 没有任何有效涨跌幅观测的股票都不参与计数和平均。
// 结果按平均涨跌幅降序，相同时保持行业首次出现的顺序。
func ComputeIndustryStats(stocks []model.StockInfo, seriesByCode map[string][]float64) []model.IndustryStat {
	type industryAcc struct {
		stockCount   int
		totalChange  float64
		volatilities []float64
	}

	acc := make(map[string]*industryAcc)
	order := make([]string, 0)

	for _, stock := range stocks {
		industry := stock.Industry
		if industry == "" || industry == model.UnknownIndustry {
			continue
		}

		changes := seriesByCode[stock.StockCode]
		if len(changes) == 0 {
			continue
		}

		avgChange := Mean(changes)
		volatility := SampleStdDev(changes)

		a, ok := acc[industry]
		if !ok {
			a = &industryAcc{}
			acc[industry] = a
			order = append(order, industry)
		}
		a.stockCount++
		a.totalChange += avgChange
		a.volatilities = append(a.volatilities, volatility)
	}

	stats := make([]model.IndustryStat, 0, len(order))
	for _, industry := range order {
		a := acc[industry]
		stats = append(stats, model.IndustryStat{
			Industry:      industry,
			StockCount:    a.stockCount,
			AvgChange:     a.totalChange / float64(a.stockCount),
			AvgVolatility: Mean(a.volatilities),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].AvgChange > stats[j].AvgChange
	})

	return stats
}

// ValidChanges 提取一组日频数据中的有效涨跌幅观测
func ValidChanges(bars []model.StockDaily) []float64 {
	changes := make([]float64, 0, len(bars))
	for _, bar := range bars {
		if bar.ChangePercent != nil {
			changes = append(changes, *bar.ChangePercent)
		}
	}
	return changes
}
