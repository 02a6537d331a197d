package analysis

import (
	"StockAtlas/pkg/model"
)

// capUnit 市值换算单位：元 → 亿
const capUnit = 1e8

// BuildHierarchy 构建行业-股票两级层级，用于treemap可视化。
// latestChange 为各股票最近一个交易日的涨跌幅，缺失按0计。
// 行业标签缺失或为未知的股票不参与；行业节点间无序，
// 行业内股票保持传入顺序。市值缺失的股票 value 记0且估值字段保持为空，
// 不伪造占位数据。
func BuildHierarchy(stocks []model.StockInfo, latestChange map[string]float64) []model.HierarchyNode {
	grouped := make(map[string][]model.StockInfo)
	order := make([]string, 0)

	for _, stock := range stocks {
		industry := stock.Industry
		if industry == "" || industry == model.UnknownIndustry {
			continue
		}
		if _, ok := grouped[industry]; !ok {
			order = append(order, industry)
		}
		grouped[industry] = append(grouped[industry], stock)
	}

	nodes := make([]model.HierarchyNode, 0, len(order))
	for _, industry := range order {
		members := grouped[industry]

		children := make([]model.StockNode, 0, len(members))
		industryValue := 0.0
		totalIncrease := 0.0

		for _, stock := range members {
			child := model.StockNode{
				Name:     stock.StockName,
				Increase: latestChange[stock.StockCode],
				PeTTM:    stock.PeTTM,
				Pb:       stock.Pb,
			}
			if stock.TotalMarketCap != nil {
				child.Value = *stock.TotalMarketCap / capUnit
			}
			if stock.FloatMarketCap != nil {
				floatCap := *stock.FloatMarketCap / capUnit
				child.FloatMarketCap = &floatCap
			}

			children = append(children, child)
			industryValue += child.Value
			totalIncrease += child.Increase
		}

		nodes = append(nodes, model.HierarchyNode{
			Name:       industry,
			Value:      industryValue,
			Increase:   totalIncrease / float64(len(children)),
			StockCount: len(children),
			Children:   children,
		})
	}

	return nodes
}
