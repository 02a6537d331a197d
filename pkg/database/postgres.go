package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"StockAtlas/pkg/config"
	"StockAtlas/pkg/model"
)

// PostgresDB 数据库连接，作为各来源回填的权威缓存
type PostgresDB struct {
	db *gorm.DB
}

// NewPostgresDB 创建新的数据库连接
func NewPostgresDB(cfg *config.Config) (*PostgresDB, error) {
	dbCfg := cfg.Database.Postgres

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host, dbCfg.Port, dbCfg.User, dbCfg.Password, dbCfg.DBName, dbCfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 设置连接池参数
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库句柄失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("测试数据库连接失败: %w", err)
	}

	return &PostgresDB{db: db}, nil
}

// AutoMigrate 初始化表结构
func (p *PostgresDB) AutoMigrate() error {
	if err := p.db.AutoMigrate(&model.StockInfo{}, &model.StockDaily{}); err != nil {
		return fmt.Errorf("初始化表结构失败: %w", err)
	}
	return nil
}

// Stock 股票基本信息访问器
func (p *PostgresDB) Stock() *StockDB {
	return &StockDB{db: p.db}
}

// Daily 日频行情访问器
func (p *PostgresDB) Daily() *DailyDB {
	return &DailyDB{db: p.db}
}

// Close 关闭数据库连接
func (p *PostgresDB) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
