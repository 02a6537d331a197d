package source

import (
	"StockAtlas/pkg/model"
)

// StockListSource 成分股列表来源
type StockListSource interface {
	StockList() ([]model.StockInfo, error)
}

// BasicInfoSource 股票基本信息来源
type BasicInfoSource interface {
	BasicInfo(code string) (*model.StockInfo, error)
}

// DailySource 日频历史行情来源，日期为 YYYY-MM-DD
type DailySource interface {
	DailySeries(code, start, end string) ([]model.StockDaily, error)
}
