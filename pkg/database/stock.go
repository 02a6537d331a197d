// pkg/database/stock.go
package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"StockAtlas/pkg/model"
)

type StockDB struct {
	db *gorm.DB
}

// Upsert 按股票代码写入：已存在则更新可变字段，否则插入
func (s *StockDB) Upsert(stock *model.StockInfo) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stock_code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stock_name", "industry", "list_date",
			"pe_ttm", "pb", "total_market_cap", "float_market_cap",
			"update_time",
		}),
	}).Create(stock).Error

	if err != nil {
		return fmt.Errorf("写入股票基本信息失败: %w", err)
	}
	return nil
}

// GetByCode 按股票代码查询，不存在时返回 nil 而非错误
func (s *StockDB) GetByCode(code string) (*model.StockInfo, error) {
	var stock model.StockInfo
	err := s.db.First(&stock, "stock_code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询股票基本信息失败: %w", err)
	}
	return &stock, nil
}

// GetAll 查询全部股票，按主键顺序返回
func (s *StockDB) GetAll() ([]model.StockInfo, error) {
	var stocks []model.StockInfo
	if err := s.db.Order("id").Find(&stocks).Error; err != nil {
		return nil, fmt.Errorf("查询股票列表失败: %w", err)
	}
	return stocks, nil
}

// GetByIndustry 查询指定行业的股票
func (s *StockDB) GetByIndustry(industry string) ([]model.StockInfo, error) {
	var stocks []model.StockInfo
	err := s.db.Where("industry = ?", industry).Order("id").Find(&stocks).Error
	if err != nil {
		return nil, fmt.Errorf("查询行业股票失败: %w", err)
	}
	return stocks, nil
}

// GetWithIndustry 查询行业标签有效的股票（非空且非未知）
func (s *StockDB) GetWithIndustry() ([]model.StockInfo, error) {
	var stocks []model.StockInfo
	err := s.db.Where("industry <> '' AND industry <> ?", model.UnknownIndustry).
		Order("id").
		Find(&stocks).Error
	if err != nil {
		return nil, fmt.Errorf("查询有效行业股票失败: %w", err)
	}
	return stocks, nil
}

// Count 统计股票数量
func (s *StockDB) Count() (int64, error) {
	var count int64
	err := s.db.Model(&model.StockInfo{}).Count(&count).Error
	return count, err
}
