package analysis

import (
	"testing"

	"StockAtlas/pkg/model"
)

func fptr(v float64) *float64 { return &v }

func TestBuildHierarchy_ValuesAndIncrease(t *testing.T) {
	stocks := []model.StockInfo{
		{StockCode: "000001", StockName: "平安银行", Industry: "银行", TotalMarketCap: fptr(1e9), FloatMarketCap: fptr(8e8)},
		{StockCode: "600000", StockName: "浦发银行", Industry: "银行", TotalMarketCap: fptr(2e8)},
	}
	latest := map[string]float64{
		"000001": 1.5,
		"600000": -0.5,
	}

	nodes := BuildHierarchy(stocks, latest)
	if len(nodes) != 1 {
		t.Fatalf("expected 1 industry node, got %d", len(nodes))
	}

	node := nodes[0]
	if node.Name != "银行" {
		t.Errorf("expected industry 银行, got %s", node.Name)
	}
	// market caps scaled to 亿: 10 + 2
	if !almostEqual(node.Value, 12) {
		t.Errorf("expected industry value 12, got %f", node.Value)
	}
	if !almostEqual(node.Increase, 0.5) {
		t.Errorf("expected industry increase 0.5, got %f", node.Increase)
	}
	if node.StockCount != 2 {
		t.Errorf("expected 2 children, got %d", node.StockCount)
	}

	child := node.Children[0]
	if !almostEqual(child.Value, 10) {
		t.Errorf("expected child value 10, got %f", child.Value)
	}
	if child.FloatMarketCap == nil || !almostEqual(*child.FloatMarketCap, 8) {
		t.Errorf("expected float cap 8, got %v", child.FloatMarketCap)
	}
	if child.Increase != 1.5 {
		t.Errorf("expected child increase 1.5, got %f", child.Increase)
	}
}

func TestBuildHierarchy_ExcludesUnknownIndustry(t *testing.T) {
	stocks := []model.StockInfo{
		{StockCode: "000001", StockName: "a", Industry: model.UnknownIndustry, TotalMarketCap: fptr(1e9)},
		{StockCode: "000002", StockName: "b", Industry: "", TotalMarketCap: fptr(1e9)},
	}
	nodes := BuildHierarchy(stocks, nil)
	if len(nodes) != 0 {
		t.Errorf("expected no nodes for unknown-only stocks, got %d", len(nodes))
	}
}

func TestBuildHierarchy_MissingMarketCap(t *testing.T) {
	stocks := []model.StockInfo{
		{StockCode: "000001", StockName: "a", Industry: "银行"},
	}
	nodes := BuildHierarchy(stocks, nil)
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	child := nodes[0].Children[0]
	// missing cap surfaces as 0, valuation fields stay null
	if child.Value != 0 {
		t.Errorf("expected value 0 for missing cap, got %f", child.Value)
	}
	if child.FloatMarketCap != nil || child.PeTTM != nil || child.Pb != nil {
		t.Error("expected nil valuation fields when source data is absent")
	}
	// missing latest change defaults to 0
	if child.Increase != 0 {
		t.Errorf("expected increase 0, got %f", child.Increase)
	}
}

func TestBuildHierarchy_PreservesMemberOrder(t *testing.T) {
	stocks := []model.StockInfo{
		{StockCode: "000001", StockName: "first", Industry: "银行", TotalMarketCap: fptr(1e8)},
		{StockCode: "000002", StockName: "second", Industry: "银行", TotalMarketCap: fptr(1e8)},
	}
	nodes := BuildHierarchy(stocks, nil)
	if nodes[0].Children[0].Name != "first" || nodes[0].Children[1].Name != "second" {
		t.Error("expected children in input order")
	}
}
