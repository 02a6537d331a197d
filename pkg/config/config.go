package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	App struct {
		Name string `yaml:"name"`
		Env  string `yaml:"env"`
	} `yaml:"app"`

	DataSources struct {
		AKShare struct {
			BaseURL string        `yaml:"base_url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"akshare"`
		Snapshot struct {
			CSVPath string `yaml:"csv_path"`
		} `yaml:"snapshot"`
	} `yaml:"data_sources"`

	Database struct {
		Postgres struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			DBName   string `yaml:"dbname"`
			SSLMode  string `yaml:"sslmode"`
		} `yaml:"postgres"`
	} `yaml:"database"`

	NATS struct {
		URL string `yaml:"url"`
	} `yaml:"nats"`

	LLM struct {
		APIURL    string `yaml:"api_url"`
		APIKey    string `yaml:"api_key"`
		ModelName string `yaml:"model_name"`
	} `yaml:"llm"`

	Cache struct {
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"cache"`

	Collector struct {
		StartDate string `yaml:"start_date"` // 无历史数据时的导入起点，YYYYMMDD
		CronSpec  string `yaml:"cron_spec"`
	} `yaml:"collector"`

	API struct {
		Port         string        `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"api"`
}

// LoadConfig 从文件加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	applyDefaults(&config)
	overrideFromEnv(&config)

	return &config, nil
}

// applyDefaults 填充缺省值
func applyDefaults(config *Config) {
	if config.API.Port == "" {
		config.API.Port = "8000"
	}
	if config.Cache.TTL == 0 {
		config.Cache.TTL = time.Hour
	}
	if config.Collector.StartDate == "" {
		config.Collector.StartDate = "20250101"
	}
	if config.Collector.CronSpec == "" {
		config.Collector.CronSpec = "0 0 17 * * 1-5" // 工作日收盘后采集
	}
	if config.DataSources.AKShare.Timeout == 0 {
		config.DataSources.AKShare.Timeout = 120 * time.Second
	}
	if config.API.ReadTimeout == 0 {
		config.API.ReadTimeout = 30 * time.Second
	}
	if config.API.WriteTimeout == 0 {
		config.API.WriteTimeout = 60 * time.Second
	}
}

// overrideFromEnv 使用环境变量覆盖配置
func overrideFromEnv(config *Config) {
	if env := os.Getenv("APP_NAME"); env != "" {
		config.App.Name = env
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		config.App.Env = env
	}

	// 数据源配置
	if env := os.Getenv("AKSHARE_BASE_URL"); env != "" {
		config.DataSources.AKShare.BaseURL = env
	}
	if env := os.Getenv("SNAPSHOT_CSV_PATH"); env != "" {
		config.DataSources.Snapshot.CSVPath = env
	}

	// 数据库配置
	if env := os.Getenv("DB_HOST"); env != "" {
		config.Database.Postgres.Host = env
	}
	if env := os.Getenv("DB_PORT"); env != "" {
		var port int
		fmt.Sscanf(env, "%d", &port)
		if port > 0 {
			config.Database.Postgres.Port = port
		}
	}
	if env := os.Getenv("DB_USER"); env != "" {
		config.Database.Postgres.User = env
	}
	if env := os.Getenv("DB_PASSWORD"); env != "" {
		config.Database.Postgres.Password = env
	}
	if env := os.Getenv("DB_NAME"); env != "" {
		config.Database.Postgres.DBName = env
	}

	// NATS配置
	if env := os.Getenv("NATS_URL"); env != "" {
		config.NATS.URL = env
	}

	// 大模型配置
	if env := os.Getenv("LLM_API_URL"); env != "" {
		config.LLM.APIURL = env
	}
	if env := os.Getenv("LLM_API_KEY"); env != "" {
		config.LLM.APIKey = env
	}
	if env := os.Getenv("LLM_MODEL_NAME"); env != "" {
		config.LLM.ModelName = env
	}

	// API配置
	if env := os.Getenv("API_PORT"); env != "" {
		config.API.Port = env
	}
}

// GetDefaultConfigPath 获取默认配置文件路径
func GetDefaultConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev" // 默认开发环境
	}

	return fmt.Sprintf("configs/%s/app.yaml", env)
}
