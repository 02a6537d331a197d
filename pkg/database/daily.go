// pkg/database/daily.go
package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"StockAtlas/pkg/model"
)

type DailyDB struct {
	db *gorm.DB
}

// SaveBatch 批量写入日频数据，(stock_code, trade_date) 冲突时跳过，保证只追加
func (d *DailyDB) SaveBatch(bars []model.StockDaily) error {
	if len(bars) == 0 {
		return nil
	}

	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_code"}, {Name: "trade_date"}},
		DoNothing: true,
	}).CreateInBatches(bars, 500).Error

	if err != nil {
		return fmt.Errorf("写入日频数据失败: %w", err)
	}
	return nil
}

// GetByCode 查询单只股票的全部历史，按交易日升序
func (d *DailyDB) GetByCode(code string) ([]model.StockDaily, error) {
	var bars []model.StockDaily
	err := d.db.Where("stock_code = ?", code).
		Order("trade_date").
		Find(&bars).Error
	if err != nil {
		return nil, fmt.Errorf("查询历史行情失败: %w", err)
	}
	return bars, nil
}

// GetSeries 查询单只股票某区间的历史，按交易日升序
func (d *DailyDB) GetSeries(code, start, end string) ([]model.StockDaily, error) {
	var bars []model.StockDaily
	err := d.db.Where("stock_code = ? AND trade_date >= ? AND trade_date <= ?", code, start, end).
		Order("trade_date").
		Find(&bars).Error
	if err != nil {
		return nil, fmt.Errorf("查询区间行情失败: %w", err)
	}
	return bars, nil
}

// GetByCodes 批量查询多只股票的历史，按股票代码、交易日排序
func (d *DailyDB) GetByCodes(codes []string) ([]model.StockDaily, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	var bars []model.StockDaily
	err := d.db.Where("stock_code IN ?", codes).
		Order("stock_code, trade_date").
		Find(&bars).Error
	if err != nil {
		return nil, fmt.Errorf("批量查询历史行情失败: %w", err)
	}
	return bars, nil
}

// GetLatest 查询单只股票最近一个交易日的行情，不存在时返回 nil
func (d *DailyDB) GetLatest(code string) (*model.StockDaily, error) {
	var bar model.StockDaily
	err := d.db.Where("stock_code = ?", code).
		Order("trade_date DESC").
		First(&bar).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询最新行情失败: %w", err)
	}
	return &bar, nil
}

// GetLatestDate 查询单只股票已入库的最新交易日，无数据时返回空串
func (d *DailyDB) GetLatestDate(code string) (string, error) {
	bar, err := d.GetLatest(code)
	if err != nil {
		return "", err
	}
	if bar == nil {
		return "", nil
	}
	return bar.TradeDate, nil
}
