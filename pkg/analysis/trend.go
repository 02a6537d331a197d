package analysis

import (
	"fmt"
	"sort"

	"StockAtlas/pkg/model"
)

// SummarizeTrend 汇总一个行业在最近 windowDays 个交易日内的表现。
// 窗口按交易日取值（非自然日），不足时取全部、不补齐。
// 每个交易日取当日有有效涨跌幅的股票的横截面平均；
// 当日无任何股票有数据时该日被丢弃，不计入上涨/下跌/总天数。
func SummarizeTrend(industry string, stockTrends map[string][]model.TrendPoint, windowDays int) *model.TrendSummary {
	// 收集所有出现过的交易日并升序排列
	dateSet := make(map[string]struct{})
	for _, points := range stockTrends {
		for _, p := range points {
			if p.Date != "" {
				dateSet[p.Date] = struct{}{}
			}
		}
	}
	allDates := make([]string, 0, len(dateSet))
	for date := range dateSet {
		allDates = append(allDates, date)
	}
	sort.Strings(allDates)

	recentDates := allDates
	if len(allDates) > windowDays {
		recentDates = allDates[len(allDates)-windowDays:]
	}

	// 逐日计算横截面平均，缺该日数据的股票仅当日跳过
	daily := make([]model.DailyPerformance, 0, len(recentDates))
	positiveDays := 0
	negativeDays := 0

	for _, date := range recentDates {
		dayChange := 0.0
		dayCount := 0

		for _, points := range stockTrends {
			for _, p := range points {
				if p.Date == date && p.ChangePercent != nil {
					dayChange += *p.ChangePercent
					dayCount++
					break
				}
			}
		}

		if dayCount == 0 {
			continue
		}

		avg := dayChange / float64(dayCount)
		daily = append(daily, model.DailyPerformance{Date: date, Change: avg})

		if avg > 0 {
			positiveDays++
		} else if avg < 0 {
			negativeDays++
		}
	}

	changes := make([]float64, len(daily))
	for i, d := range daily {
		changes[i] = d.Change
	}

	avgChange := Mean(changes)
	volatility := SampleStdDev(changes)

	positiveRate := 0.0
	if len(daily) > 0 {
		positiveRate = float64(positiveDays) / float64(len(daily)) * 100
	}

	return &model.TrendSummary{
		AvgChange:        avgChange,
		Volatility:       volatility,
		PositiveDays:     positiveDays,
		NegativeDays:     negativeDays,
		PositiveRate:     fmt.Sprintf("%.2f%%", positiveRate),
		DailyPerformance: daily,
		Summary:          buildNarrative(industry, windowDays, avgChange, volatility, positiveRate),
	}
}

// buildNarrative 按阈值分档生成模板化的文字总结。
// 阈值作用于原始涨跌幅数值，展示时乘以100按百分比输出。
func buildNarrative(industry string, days int, avgChange, volatility, positiveRate float64) string {
	summary := fmt.Sprintf("%s行业在过去%d天的表现：", industry, days)

	switch {
	case avgChange > 0.5:
		summary += fmt.Sprintf("整体表现强劲，平均涨幅为%.2f%%，", avgChange*100)
	case avgChange > 0:
		summary += fmt.Sprintf("整体表现良好，平均涨幅为%.2f%%，", avgChange*100)
	case avgChange > -0.5:
		summary += fmt.Sprintf("整体表现平稳，平均跌幅为%.2f%%，", abs(avgChange)*100)
	default:
		summary += fmt.Sprintf("整体表现较弱，平均跌幅为%.2f%%，", abs(avgChange)*100)
	}

	summary += fmt.Sprintf("上涨天数占比%.2f%%，", positiveRate)

	switch {
	case volatility > 2:
		summary += "波动性较大，"
	case volatility > 1:
		summary += "波动性适中，"
	default:
		summary += "波动性较小，"
	}

	summary += "建议关注该行业的龙头股票表现，结合宏观经济环境和行业政策进行投资决策。"
	return summary
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
