// pkg/scheduler/task.go
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler 定时任务调度器
type Scheduler struct {
	cron *cron.Cron
}

// New 创建调度器，支持秒级表达式
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
	}
}

// AddTask 注册定时任务
func (s *Scheduler) AddTask(spec, name string, task func() error) error {
	_, err := s.cron.AddFunc(spec, func() {
		log.Info().Msgf("定时任务 %s 开始执行", name)
		if err := task(); err != nil {
			log.Error().Err(err).Msgf("定时任务 %s 执行失败", name)
			return
		}
		log.Info().Msgf("定时任务 %s 执行完成", name)
	})
	if err != nil {
		return fmt.Errorf("注册定时任务 %s 失败: %w", name, err)
	}
	return nil
}

// Start 启动调度器
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("定时任务调度器已启动")
}

// Stop 停止调度器，等待正在执行的任务结束
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("定时任务调度器已停止")
}
