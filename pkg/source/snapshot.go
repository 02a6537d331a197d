package source

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"StockAtlas/pkg/model"
)

// 快照文件各字段接受的列名别名，按优先级依次探测
var (
	codeAliases     = []string{"股票代码", "品种代码", "code"}
	nameAliases     = []string{"股票名称", "品种名称", "name"}
	industryAliases = []string{"行业", "所属行业", "industry"}
	listDateAliases = []string{"上市时间", "list_date", "纳入日期"}
)

// codeWidth 股票代码固定宽度，不足时左侧补零
const codeWidth = 6

// CSVSnapshot 本地成分股快照，作为数据库之后、远端之前的回退来源
type CSVSnapshot struct {
	path string
}

// NewCSVSnapshot 创建快照来源
func NewCSVSnapshot(path string) *CSVSnapshot {
	return &CSVSnapshot{path: path}
}

// StockList 读取快照中的全部成分股
func (c *CSVSnapshot) StockList() ([]model.StockInfo, error) {
	rows, header, err := c.readAll()
	if err != nil {
		return nil, err
	}

	stocks := make([]model.StockInfo, 0, len(rows))
	for _, row := range rows {
		code := resolveField(header, row, codeAliases)
		if code == "" {
			// 缺少代码的行跳过，不中断整批
			continue
		}

		industry := resolveField(header, row, industryAliases)
		if industry == "" {
			industry = model.UnknownIndustry
		}

		stocks = append(stocks, model.StockInfo{
			StockCode: padCode(code),
			StockName: resolveField(header, row, nameAliases),
			Industry:  industry,
			ListDate:  resolveField(header, row, listDateAliases),
		})
	}

	log.Info().Msgf("从CSV快照读取到 %d 只成分股", len(stocks))
	return stocks, nil
}

// BasicInfo 在快照中按股票代码查找基本信息，未找到时返回 nil
func (c *CSVSnapshot) BasicInfo(code string) (*model.StockInfo, error) {
	stocks, err := c.StockList()
	if err != nil {
		return nil, err
	}

	target := padCode(code)
	for i := range stocks {
		if stocks[i].StockCode == target {
			return &stocks[i], nil
		}
	}
	return nil, nil
}

// readAll 读取整个快照文件，返回数据行和表头索引
func (c *CSVSnapshot) readAll() ([][]string, map[string]int, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, nil, fmt.Errorf("打开快照文件失败: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // 容忍列数不一致的行

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("解析快照文件失败: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("快照文件为空: %s", c.path)
	}

	header := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		header[strings.TrimSpace(col)] = i
	}

	return records[1:], header, nil
}

// resolveField 按别名优先级在一行中取第一个非空字段
func resolveField(header map[string]int, row []string, aliases []string) string {
	for _, alias := range aliases {
		idx, ok := header[alias]
		if !ok || idx >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[idx]); v != "" {
			return v
		}
	}
	return ""
}

// padCode 将数字型股票代码补齐到固定宽度
func padCode(code string) string {
	code = strings.TrimSpace(code)
	for len(code) < codeWidth {
		code = "0" + code
	}
	return code
}
