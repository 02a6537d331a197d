package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"StockAtlas/pkg/model"
)

// LLMGenerator 报告生成依赖的大模型能力
type LLMGenerator interface {
	GenerateIndustryReport(industry string, days int, industryData string) (string, error)
	GenerateAllIndustriesReport(days int, industriesData string) (string, error)
	GenerateHotmapReport(currentTime, hotmapDigest string) (string, error)
}

// fallbackReport 大模型不可用时的降级文案，数值计算结果不受影响
const fallbackReport = "由于模型服务暂时不可用，无法提供详细分析。建议关注以下几个方面：" +
	"1. 行业分布情况；2. 涨跌行业比例；3. 市值分布特征；4. 潜在的投资机会。"

// hotmapDigest 压缩后的星图摘要，控制prompt大小
type hotmapDigest struct {
	TotalIndustries  int                 `json:"total_industries"`
	TopByValue       []hotmapDigestEntry `json:"top_by_value"`
	TopByIncrease    []hotmapDigestEntry `json:"top_by_increase"`
	BottomByIncrease []hotmapDigestEntry `json:"bottom_by_increase"`
}

type hotmapDigestEntry struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Increase   float64 `json:"increase"`
	StockCount int     `json:"stock_count"`
}

// AnalyzeIndustryWithLLM 使用大模型分析单个行业，
// 数值部分始终来自本地计算，大模型失败时只降级文字报告
func (s *StockService) AnalyzeIndustryWithLLM(industry string, days int) *model.LLMReport {
	report := s.AnalyzeIndustry(industry, days)
	if report == nil {
		return nil
	}

	analysisText := s.generateText(func() (string, error) {
		data, err := json.Marshal(report)
		if err != nil {
			return "", err
		}
		return s.llm.GenerateIndustryReport(industry, days, string(data))
	})

	return &model.LLMReport{
		ReportID:     uuid.New().String(),
		Industry:     industry,
		Period:       periodLabel(days),
		AnalysisTime: time.Now().Format("2006-01-02 15:04:05"),
		Analysis:     analysisText,
	}
}

// AnalyzeAllIndustriesWithLLM 使用大模型生成全行业综合报告
func (s *StockService) AnalyzeAllIndustriesWithLLM(days int) *model.LLMReport {
	industryAnalysis := s.GetIndustryAnalysis()
	if industryAnalysis == nil || len(industryAnalysis.IndustryAnalysis) == 0 {
		return nil
	}

	analysisText := s.generateText(func() (string, error) {
		data, err := json.Marshal(industryAnalysis.IndustryAnalysis)
		if err != nil {
			return "", err
		}
		return s.llm.GenerateAllIndustriesReport(days, string(data))
	})

	return &model.LLMReport{
		ReportID:     uuid.New().String(),
		Period:       periodLabel(days),
		AnalysisTime: time.Now().Format("2006-01-02 15:04:05"),
		Analysis:     analysisText,
	}
}

// AnalyzeHotmap 分析大盘星图数据并生成投资建议
func (s *StockService) AnalyzeHotmap() *model.HotmapReport {
	nodes := s.GetIndustryHierarchy()
	if len(nodes) == 0 {
		log.Warn().Msg("无法获取大盘星图数据，分析失败")
		return nil
	}

	currentTime := time.Now().Format("2006-01-02 15:04:05")

	analysisText := s.generateText(func() (string, error) {
		digest := buildHotmapDigest(nodes)
		data, err := json.Marshal(digest)
		if err != nil {
			return "", err
		}
		return s.llm.GenerateHotmapReport(currentTime, string(data))
	})

	return &model.HotmapReport{
		ReportID:      uuid.New().String(),
		AnalysisTime:  currentTime,
		IndustryCount: len(nodes),
		Report:        analysisText,
	}
}

// generateText 调用大模型生成文字报告，任何失败都替换为降级文案
func (s *StockService) generateText(generate func() (string, error)) string {
	if s.llm == nil {
		return fallbackReport
	}

	text, err := generate()
	if err != nil {
		log.Error().Err(err).Msg("调用大模型失败，返回降级文案")
		return fallbackReport
	}
	return text
}

// buildHotmapDigest 取市值前10、涨幅前5和后5的行业构建摘要
func buildHotmapDigest(nodes []model.HierarchyNode) hotmapDigest {
	byValue := make([]model.HierarchyNode, len(nodes))
	copy(byValue, nodes)
	sort.SliceStable(byValue, func(i, j int) bool { return byValue[i].Value > byValue[j].Value })

	byIncrease := make([]model.HierarchyNode, len(nodes))
	copy(byIncrease, nodes)
	sort.SliceStable(byIncrease, func(i, j int) bool { return byIncrease[i].Increase > byIncrease[j].Increase })

	digest := hotmapDigest{TotalIndustries: len(nodes)}
	digest.TopByValue = digestEntries(byValue[:minInt(10, len(byValue))])
	digest.TopByIncrease = digestEntries(byIncrease[:minInt(5, len(byIncrease))])

	bottom := byIncrease
	if len(bottom) > 5 {
		bottom = bottom[len(bottom)-5:]
	}
	digest.BottomByIncrease = digestEntries(bottom)

	return digest
}

func digestEntries(nodes []model.HierarchyNode) []hotmapDigestEntry {
	entries := make([]hotmapDigestEntry, 0, len(nodes))
	for _, node := range nodes {
		entries = append(entries, hotmapDigestEntry{
			Name:       node.Name,
			Value:      node.Value,
			Increase:   node.Increase,
			StockCount: node.StockCount,
		})
	}
	return entries
}

func periodLabel(days int) string {
	return fmt.Sprintf("%d天", days)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
