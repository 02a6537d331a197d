package source

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"StockAtlas/pkg/model"
)

// AKShareAdapter AKShare数据适配器，调用aktools风格的HTTP服务
// 远端被视为不可靠来源：任何异常或空响应都等价于无数据
type AKShareAdapter struct {
	baseURL    string
	httpClient *http.Client
}

// NewAKShareAdapter 创建新的AKShare数据适配器
func NewAKShareAdapter(baseURL string, timeout time.Duration) *AKShareAdapter {
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &AKShareAdapter{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// DailySeries 获取前复权日频历史行情，日期为 YYYY-MM-DD
func (a *AKShareAdapter) DailySeries(code, start, end string) ([]model.StockDaily, error) {
	params := url.Values{}
	params.Set("symbol", code)
	params.Set("start_date", compactDate(start))
	params.Set("end_date", compactDate(end))
	params.Set("adjust", "qfq")

	rows, err := a.getRows("/api/public/stock_zh_a_hist", params)
	if err != nil {
		return nil, fmt.Errorf("获取股票 %s 历史数据失败: %w", code, err)
	}

	bars := make([]model.StockDaily, 0, len(rows))
	for _, row := range rows {
		date := normalizeDate(fmt.Sprintf("%v", row["日期"]))
		if date == "" {
			// 无法解析日期的记录跳过，不中断整批
			continue
		}

		bar := model.StockDaily{
			StockCode: code,
			TradeDate: date,
			Open:      parseFloat(row["开盘"]),
			Close:     parseFloat(row["收盘"]),
			High:      parseFloat(row["最高"]),
			Low:       parseFloat(row["最低"]),
			Volume:    parseFloat(row["成交量"]),
			Amount:    parseFloat(row["成交额"]),
		}
		if v, ok := row["涨跌幅"]; ok && v != nil {
			change := parseFloat(v)
			bar.ChangePercent = &change
		}
		bars = append(bars, bar)
	}

	log.Info().Msgf("从akshare获取到股票 %s 的 %d 条历史数据", code, len(bars))
	return bars, nil
}

// BasicInfo 获取股票基本信息，响应为 item/value 键值对列表
func (a *AKShareAdapter) BasicInfo(code string) (*model.StockInfo, error) {
	params := url.Values{}
	params.Set("symbol", code)

	rows, err := a.getRows("/api/public/stock_individual_info_em", params)
	if err != nil {
		return nil, fmt.Errorf("获取股票 %s 基本信息失败: %w", code, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	info := &model.StockInfo{
		StockCode: code,
		StockName: code,
		Industry:  model.UnknownIndustry,
	}

	for _, row := range rows {
		item := fmt.Sprintf("%v", row["item"])
		value := row["value"]
		switch item {
		case "股票简称", "股票名称":
			if name := fmt.Sprintf("%v", value); name != "" {
				info.StockName = name
			}
		case "行业", "所属行业":
			if industry := fmt.Sprintf("%v", value); industry != "" {
				info.Industry = industry
			}
		case "上市时间", "上市日期":
			info.ListDate = normalizeDate(fmt.Sprintf("%v", value))
		case "总市值":
			cap := parseFloat(value)
			info.TotalMarketCap = &cap
		case "流通市值":
			cap := parseFloat(value)
			info.FloatMarketCap = &cap
		}
	}

	return info, nil
}

// getRows 请求接口并解析JSON数组响应，带重试
func (a *AKShareAdapter) getRows(apiPath string, params url.Values) ([]map[string]interface{}, error) {
	apiURL := fmt.Sprintf("%s%s?%s", a.baseURL, apiPath, params.Encode())

	var resp *http.Response
	var err error
	for retries := 0; retries < 3; retries++ {
		resp, err = a.httpClient.Get(apiURL)
		if err == nil {
			break
		}
		log.Warn().Err(err).Msgf("akshare请求失败，重试 %d/3", retries+1)
		time.Sleep(time.Duration(retries+1) * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("返回错误状态码: %d", resp.StatusCode)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("解析JSON失败: %w", err)
	}

	return rows, nil
}

// compactDate 将 YYYY-MM-DD 转为接口要求的 YYYYMMDD
func compactDate(date string) string {
	return strings.ReplaceAll(date, "-", "")
}

// normalizeDate 将接口返回的日期统一为 YYYY-MM-DD
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "<nil>" {
		return ""
	}
	// 形如 2025-01-02T00:00:00.000 的值只取日期部分
	if len(raw) > 10 {
		raw = raw[:10]
	}
	if len(raw) == 8 && !strings.Contains(raw, "-") {
		return raw[:4] + "-" + raw[4:6] + "-" + raw[6:8]
	}
	return raw
}

// parseFloat 将接口类型转换为float64
func parseFloat(v interface{}) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case float32:
		return float64(value)
	case int:
		return float64(value)
	case int64:
		return float64(value)
	case string:
		var f float64
		fmt.Sscanf(value, "%f", &f)
		return f
	default:
		return 0
	}
}
