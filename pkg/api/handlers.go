// pkg/api/handlers.go
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"StockAtlas/pkg/service"
)

// Handlers API处理程序
type Handlers struct {
	stockService *service.StockService
}

// NewHandlers 创建新的API处理程序
func NewHandlers(stockService *service.StockService) *Handlers {
	return &Handlers{
		stockService: stockService,
	}
}

// HealthCheck 健康检查处理程序
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ReadinessCheck 就绪检查处理程序
func (h *Handlers) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// parsePageParams 解析并校验分页参数：page>=1, 1<=page_size<=100
func parsePageParams(c *gin.Context) (page, pageSize int, ok bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "page参数必须是不小于1的整数",
		})
		return 0, 0, false
	}

	pageSize, err = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "page_size参数必须在1到100之间",
		})
		return 0, 0, false
	}

	return page, pageSize, true
}

// GetStockList 获取股票列表（分页）
func (h *Handlers) GetStockList(c *gin.Context) {
	page, pageSize, ok := parsePageParams(c)
	if !ok {
		return
	}

	stocks := h.stockService.GetStockList()
	if len(stocks) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "未找到股票数据",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     len(stocks),
		"page":      page,
		"page_size": pageSize,
		"data":      service.Paginate(stocks, page, pageSize),
	})
}

// GetStockDetail 获取单只股票详情
func (h *Handlers) GetStockDetail(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "股票代码不能为空",
		})
		return
	}

	detail := h.stockService.GetStockDetail(code)
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "未找到股票 " + code + " 的数据",
		})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetIndustryAnalysis 获取行业涨跌分析（分页）
func (h *Handlers) GetIndustryAnalysis(c *gin.Context) {
	page, pageSize, ok := parsePageParams(c)
	if !ok {
		return
	}

	analysis := h.stockService.GetIndustryAnalysis()
	if analysis == nil || len(analysis.IndustryAnalysis) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "暂无行业分析数据",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     analysis.TotalIndustries,
		"page":      page,
		"page_size": pageSize,
		"data":      service.Paginate(analysis.IndustryAnalysis, page, pageSize),
	})
}

// GetIndustryTrend 获取指定行业的个股走势
func (h *Handlers) GetIndustryTrend(c *gin.Context) {
	industry := c.Query("industry")
	if industry == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "industry参数不能为空",
		})
		return
	}

	trend := h.stockService.GetIndustryTrend(industry)
	if trend == nil || len(trend.StockTrends) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "未找到行业 " + industry + " 的走势数据",
		})
		return
	}

	c.JSON(http.StatusOK, trend)
}

// GetStockHierarchy 获取行业-个股层级结构
func (h *Handlers) GetStockHierarchy(c *gin.Context) {
	hierarchy := h.stockService.GetIndustryHierarchy()
	if len(hierarchy) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "暂无行业层级数据",
		})
		return
	}

	c.JSON(http.StatusOK, hierarchy)
}

// parseDaysParam 解析分析天数参数：1<=days<=365，默认90
func parseDaysParam(c *gin.Context) (int, bool) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "90"))
	if err != nil || days < 1 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "days参数必须在1到365之间",
		})
		return 0, false
	}
	return days, true
}

// AnalyzeIndustry 行业趋势分析报告
func (h *Handlers) AnalyzeIndustry(c *gin.Context) {
	industry := c.Query("industry")
	if industry == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "industry参数不能为空",
		})
		return
	}

	days, ok := parseDaysParam(c)
	if !ok {
		return
	}

	report := h.stockService.AnalyzeIndustry(industry, days)
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "未找到行业 " + industry + " 的分析数据",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// AnalyzeIndustryWithLLM 单行业LLM分析报告
func (h *Handlers) AnalyzeIndustryWithLLM(c *gin.Context) {
	industry := c.Query("industry")
	if industry == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "industry参数不能为空",
		})
		return
	}

	days, ok := parseDaysParam(c)
	if !ok {
		return
	}

	report := h.stockService.AnalyzeIndustryWithLLM(industry, days)
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "未找到行业 " + industry + " 的分析数据",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// AnalyzeAllIndustriesWithLLM 全行业LLM分析报告
func (h *Handlers) AnalyzeAllIndustriesWithLLM(c *gin.Context) {
	days, ok := parseDaysParam(c)
	if !ok {
		return
	}

	report := h.stockService.AnalyzeAllIndustriesWithLLM(days)
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "暂无行业分析数据",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// AnalyzeHotmap 市场热力图LLM解读
func (h *Handlers) AnalyzeHotmap(c *gin.Context) {
	report := h.stockService.AnalyzeHotmap()
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "暂无市场热力图数据",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}
