package model

// IndustryStat 单个行业的统计指标，按请求实时重算，不落库
type IndustryStat struct {
	Industry      string  `json:"industry"`
	StockCount    int     `json:"stock_count"`
	AvgChange     float64 `json:"avg_change"`
	AvgVolatility float64 `json:"avg_volatility"`
}

// IndustryAnalysis 全行业统计结果
type IndustryAnalysis struct {
	IndustryAnalysis []IndustryStat `json:"industry_analysis"`
	TotalIndustries  int            `json:"total_industries"`
}

// StockNode 层级数据中的股票节点，value 为总市值（亿）
// 市值缺失时 value 为 0 且估值字段保持为空，由调用方自行判断
type StockNode struct {
	Name           string   `json:"name"`
	Value          float64  `json:"value"`
	Increase       float64  `json:"increase"`
	PeTTM          *float64 `json:"pe_ttm"`
	Pb             *float64 `json:"pb"`
	FloatMarketCap *float64 `json:"float_market_cap"`
}

// HierarchyNode 行业节点，value 为子节点市值之和，increase 为子节点涨跌幅简单平均
type HierarchyNode struct {
	Name       string      `json:"name"`
	Value      float64     `json:"value"`
	Increase   float64     `json:"increase"`
	StockCount int         `json:"stock_count"`
	Children   []StockNode `json:"children"`
}

// TrendPoint 单只股票某一交易日的表现
type TrendPoint struct {
	Date          string   `json:"date"`
	Close         float64  `json:"close"`
	ChangePercent *float64 `json:"change_percent"`
}

// IndustryTrend 行业趋势：行业内每只股票的日频序列
type IndustryTrend struct {
	Industry    string                  `json:"industry"`
	StockTrends map[string][]TrendPoint `json:"stock_trends"`
	StockCount  int                     `json:"stock_count"`
}

// DailyPerformance 行业某一交易日的横截面平均涨跌幅
type DailyPerformance struct {
	Date   string  `json:"date"`
	Change float64 `json:"change"`
}

// TrendSummary 行业窗口期表现汇总
type TrendSummary struct {
	AvgChange        float64            `json:"avg_change"`
	Volatility       float64            `json:"volatility"`
	PositiveDays     int                `json:"positive_days"`
	NegativeDays     int                `json:"negative_days"`
	PositiveRate     string             `json:"positive_rate"`
	DailyPerformance []DailyPerformance `json:"daily_performance"`
	Summary          string             `json:"summary"`
}

// IndustryReport 单行业分析结果（含模板化总结）
type IndustryReport struct {
	Industry         string             `json:"industry"`
	Period           string             `json:"period"`
	StockCount       int                `json:"stock_count"`
	AvgChange        float64            `json:"avg_change"`
	Volatility       float64            `json:"volatility"`
	PositiveDays     int                `json:"positive_days"`
	NegativeDays     int                `json:"negative_days"`
	PositiveRate     string             `json:"positive_rate"`
	DailyPerformance []DailyPerformance `json:"daily_performance"`
	Summary          string             `json:"summary"`
}

// LLMReport 大模型生成的行业分析报告
type LLMReport struct {
	ReportID     string `json:"report_id"`
	Industry     string `json:"industry,omitempty"`
	Period       string `json:"period"`
	AnalysisTime string `json:"analysis_time"`
	Analysis     string `json:"llm_analysis"`
}

// HotmapReport 大盘星图分析报告
type HotmapReport struct {
	ReportID      string `json:"report_id"`
	AnalysisTime  string `json:"analysis_time"`
	IndustryCount int    `json:"industry_count"`
	Report        string `json:"analysis_report"`
}
