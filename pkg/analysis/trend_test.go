package analysis

import (
	"strings"
	"testing"

	"StockAtlas/pkg/model"
)

func points(pairs ...interface{}) []model.TrendPoint {
	pts := make([]model.TrendPoint, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		date := pairs[i].(string)
		var change *float64
		if pairs[i+1] != nil {
			v := pairs[i+1].(float64)
			change = &v
		}
		pts = append(pts, model.TrendPoint{Date: date, ChangePercent: change})
	}
	return pts
}

func TestSummarizeTrend_DailyCrossSection(t *testing.T) {
	trends := map[string][]model.TrendPoint{
		"000001": points("2025-01-02", 2.0, "2025-01-03", -3.0, "2025-01-06", 4.0),
		"600000": points("2025-01-02", 0.0, "2025-01-03", -1.0, "2025-01-06", 2.0),
	}

	// daily averages: 1, -2, 3
	s := SummarizeTrend("银行", trends, 3)
	if s.PositiveDays != 2 {
		t.Errorf("expected 2 positive days, got %d", s.PositiveDays)
	}
	if s.NegativeDays != 1 {
		t.Errorf("expected 1 negative day, got %d", s.NegativeDays)
	}
	if s.PositiveRate != "66.67%" {
		t.Errorf("expected positive rate 66.67%%, got %s", s.PositiveRate)
	}
	if !almostEqual(s.AvgChange, (1.0-2.0+3.0)/3.0) {
		t.Errorf("expected avg change %f, got %f", (1.0-2.0+3.0)/3.0, s.AvgChange)
	}
	if len(s.DailyPerformance) != 3 {
		t.Fatalf("expected 3 daily points, got %d", len(s.DailyPerformance))
	}
	if s.DailyPerformance[0].Date != "2025-01-02" || !almostEqual(s.DailyPerformance[0].Change, 1) {
		t.Errorf("unexpected first day: %+v", s.DailyPerformance[0])
	}
}

func TestSummarizeTrend_WindowByTradingDays(t *testing.T) {
	trends := map[string][]model.TrendPoint{
		"000001": points(
			"2025-01-02", 1.0,
			"2025-01-03", 1.0,
			"2025-01-06", -1.0,
			"2025-01-07", -1.0,
		),
	}

	s := SummarizeTrend("银行", trends, 2)
	if len(s.DailyPerformance) != 2 {
		t.Fatalf("expected window of 2 trading days, got %d", len(s.DailyPerformance))
	}
	// window takes the most recent dates
	if s.DailyPerformance[0].Date != "2025-01-06" {
		t.Errorf("expected window to start at 2025-01-06, got %s", s.DailyPerformance[0].Date)
	}
	if s.PositiveDays != 0 || s.NegativeDays != 2 {
		t.Errorf("expected 0 up / 2 down, got %d / %d", s.PositiveDays, s.NegativeDays)
	}
}

func TestSummarizeTrend_DropsZeroContributorDays(t *testing.T) {
	trends := map[string][]model.TrendPoint{
		"000001": points("2025-01-02", 1.0, "2025-01-03", nil),
	}

	s := SummarizeTrend("银行", trends, 10)
	if len(s.DailyPerformance) != 1 {
		t.Fatalf("expected day without valid changes to be dropped, got %d days", len(s.DailyPerformance))
	}
	if s.PositiveRate != "100.00%" {
		t.Errorf("expected positive rate over counted days only, got %s", s.PositiveRate)
	}
}

func TestSummarizeTrend_ZeroChangeDayCountsNeither(t *testing.T) {
	trends := map[string][]model.TrendPoint{
		"000001": points("2025-01-02", 0.0),
	}
	s := SummarizeTrend("银行", trends, 5)
	if s.PositiveDays != 0 || s.NegativeDays != 0 {
		t.Errorf("zero-change day should count neither up nor down, got %d / %d", s.PositiveDays, s.NegativeDays)
	}
	if len(s.DailyPerformance) != 1 {
		t.Errorf("zero-change day still appears in daily performance, got %d", len(s.DailyPerformance))
	}
}

func TestBuildNarrative_Bands(t *testing.T) {
	cases := []struct {
		avgChange  float64
		volatility float64
		want       []string
	}{
		{0.8, 2.5, []string{"强劲", "波动性较大"}},
		{0.3, 1.5, []string{"良好", "波动性适中"}},
		{-0.2, 0.5, []string{"平稳", "波动性较小"}},
		{-1.0, 0.5, []string{"较弱", "波动性较小"}},
	}

	for _, c := range cases {
		got := buildNarrative("银行", 90, c.avgChange, c.volatility, 50)
		for _, frag := range c.want {
			if !strings.Contains(got, frag) {
				t.Errorf("avgChange=%f volatility=%f: narrative missing %q: %s", c.avgChange, c.volatility, frag, got)
			}
		}
	}
}

func TestBuildNarrative_ClosingClause(t *testing.T) {
	got := buildNarrative("医药", 30, 0.1, 0.5, 60)
	if !strings.HasSuffix(got, "建议关注该行业的龙头股票表现，结合宏观经济环境和行业政策进行投资决策。") {
		t.Errorf("expected fixed closing clause, got: %s", got)
	}
	if !strings.Contains(got, "医药行业在过去30天的表现") {
		t.Errorf("expected industry and window in lead, got: %s", got)
	}
}
