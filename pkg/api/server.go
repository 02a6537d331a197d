// pkg/api/server.go
package api

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Server API服务器
type Server struct {
	router *gin.Engine
	srv    *http.Server
}

// NewServer 创建新的API服务器
func NewServer(port string, readTimeout, writeTimeout time.Duration) *Server {
	router := gin.Default()

	// 设置中间件
	router.Use(gin.Recovery())

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	return &Server{
		router: router,
		srv:    srv,
	}
}

// SetupRoutes 设置路由
func (s *Server) SetupRoutes(handlers *Handlers) {
	// 健康检查
	s.router.GET("/health", handlers.HealthCheck)
	s.router.GET("/ready", handlers.ReadinessCheck)

	// API v1 路由组
	v1 := s.router.Group("/api/v1")
	{
		// 股票基础数据接口
		v1.GET("/stock/list", handlers.GetStockList)
		v1.GET("/stock/detail/:code", handlers.GetStockDetail)

		// 行业分析接口
		v1.GET("/stock/industry/analysis", handlers.GetIndustryAnalysis)
		v1.GET("/stock/industry/trend", handlers.GetIndustryTrend)
		v1.GET("/stock/industry/stock-hierarchy", handlers.GetStockHierarchy)
		v1.GET("/stock/industry/analyze", handlers.AnalyzeIndustry)

		// LLM分析接口
		v1.GET("/stock/industry/analyze/llm", handlers.AnalyzeIndustryWithLLM)
		v1.GET("/stock/industry/analyze/all/llm", handlers.AnalyzeAllIndustriesWithLLM)
		v1.GET("/stock/analyze/hotmap", handlers.AnalyzeHotmap)
	}
}

// Start 启动服务器并等待中断信号
func (s *Server) Start() {
	go func() {
		log.Info().Msgf("API服务器启动在 %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("启动服务器失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("服务器关闭失败")
	}

	log.Info().Msg("服务器已关闭")
}
