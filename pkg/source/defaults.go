package source

import (
	"StockAtlas/pkg/model"
)

// DefaultStocks 内置兜底股票列表，所有来源都失败时用于保底返回
type DefaultStocks struct{}

// NewDefaultStocks 创建兜底来源
func NewDefaultStocks() *DefaultStocks {
	return &DefaultStocks{}
}

// StockList 返回固定的测试股票列表
func (DefaultStocks) StockList() ([]model.StockInfo, error) {
	return []model.StockInfo{
		{StockCode: "000001", StockName: "平安银行", Industry: "银行", ListDate: "1991-04-03"},
		{StockCode: "000002", StockName: "万科A", Industry: "房地产", ListDate: "1991-01-29"},
		{StockCode: "000008", StockName: "神州高铁", Industry: "交通运输", ListDate: "1992-05-07"},
		{StockCode: "000009", StockName: "中国宝安", Industry: "综合", ListDate: "1991-06-25"},
		{StockCode: "000012", StockName: "南玻A", Industry: "建筑材料", ListDate: "1992-02-28"},
	}, nil
}
