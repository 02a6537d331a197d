package model

import (
	"time"
)

// UnknownIndustry 行业缺失时的占位标签，保证按行业分组时不出现空值
const UnknownIndustry = "未知"

// StockInfo 股票基本信息表
type StockInfo struct {
	ID             uint     `gorm:"primaryKey" json:"-"`
	StockCode      string   `gorm:"uniqueIndex;size:16" json:"stock_code"`
	StockName      string   `gorm:"size:64" json:"stock_name"`
	Industry       string   `gorm:"size:64" json:"industry"`
	ListDate       string   `gorm:"size:16" json:"list_date"`
	PeTTM          *float64 `json:"pe_ttm"`
	Pb             *float64 `json:"pb"`
	TotalMarketCap *float64 `json:"total_market_cap"`
	FloatMarketCap *float64 `json:"float_market_cap"`

	CreateTime time.Time `gorm:"autoCreateTime" json:"-"`
	UpdateTime time.Time `gorm:"autoUpdateTime" json:"-"`
}

// TableName 指定表名
func (StockInfo) TableName() string {
	return "stock_info"
}

// StockDaily 股票日频行情表，(stock_code, trade_date) 唯一，只追加不覆盖
type StockDaily struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	StockCode string  `gorm:"uniqueIndex:idx_code_date;size:16" json:"stock_code"`
	TradeDate string  `gorm:"uniqueIndex:idx_code_date;size:16" json:"date"`
	Open      float64 `gorm:"column:open_price" json:"open"`
	Close     float64 `gorm:"column:close_price" json:"close"`
	High      float64 `gorm:"column:high_price" json:"high"`
	Low       float64 `gorm:"column:low_price" json:"low"`
	Volume    float64 `json:"volume"`
	Amount    float64 `json:"amount"`
	// 涨跌幅以百分比为单位，来源缺失时保持为空，不参与统计
	ChangePercent *float64 `json:"change_percent"`

	CreateTime time.Time `gorm:"autoCreateTime" json:"-"`
	UpdateTime time.Time `gorm:"autoUpdateTime" json:"-"`
}

// TableName 指定表名
func (StockDaily) TableName() string {
	return "stock_daily"
}

// StockDetail 股票详情：基本信息加历史行情
type StockDetail struct {
	BasicInfo      *StockInfo   `json:"basic_info"`
	HistoricalData []StockDaily `json:"historical_data"`
}
