// pkg/messaging/nats.go
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// 日频数据更新事件的Stream与主题
const (
	DailyStreamName    = "DAILY_STREAM"
	SubjectDailyPrefix = "daily."
	SubjectDailyAll    = "daily.*"
	SubjectDailyUpdate = "daily.updated"
)

// DailyUpdateEvent 采集器写入新日频数据后发布的事件
type DailyUpdateEvent struct {
	StockCode string `json:"stock_code"`
	BarCount  int    `json:"bar_count"`
	LatestDay string `json:"latest_day"`
}

// MessageHandler 通用消息处理函数类型
type MessageHandler func(data []byte) error

// NATSClient NATS JetStream客户端 - 纯基础能力封装
type NATSClient struct {
	conn      *nats.Conn
	jetStream jetstream.JetStream
	ctx       context.Context
	cancel    context.CancelFunc
	consumers map[string]jetstream.Consumer
	mu        sync.RWMutex
}

// NewNATSClient 创建新的NATS客户端
func NewNATSClient(natsURL string) (*NATSClient, error) {
	nc, err := nats.Connect(natsURL,
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1), // 无限重连
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS连接断开")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Msg("NATS重新连接成功")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("连接NATS失败: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("创建JetStream失败: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	client := &NATSClient{
		conn:      nc,
		jetStream: js,
		ctx:       ctx,
		cancel:    cancel,
		consumers: make(map[string]jetstream.Consumer),
	}

	if err := client.setupStreams(); err != nil {
		log.Warn().Err(err).Msg("设置Streams失败")
	}

	return client, nil
}

// setupStreams 设置基础的Streams
func (c *NATSClient) setupStreams() error {
	streamConfig := jetstream.StreamConfig{
		Name:        DailyStreamName,
		Subjects:    []string{SubjectDailyAll},
		Description: "日频数据更新事件流",
		Retention:   jetstream.LimitsPolicy,
		MaxMsgs:     50000,
		MaxBytes:    50 * 1024 * 1024,   // 50MB
		MaxAge:      7 * 24 * time.Hour, // 保留7天
	}

	if _, err := c.jetStream.CreateOrUpdateStream(c.ctx, streamConfig); err != nil {
		return fmt.Errorf("创建/更新Stream %s 失败: %w", streamConfig.Name, err)
	}

	log.Info().Msgf("Stream %s 设置成功", streamConfig.Name)
	return nil
}

// PublishDailyUpdate 发布日频数据更新事件
func (c *NATSClient) PublishDailyUpdate(event DailyUpdateEvent) error {
	return c.Publish(SubjectDailyUpdate, event)
}

// Publish 发布消息到指定主题
func (c *NATSClient) Publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化数据失败: %w", err)
	}

	if _, err := c.jetStream.Publish(c.ctx, subject, payload); err != nil {
		return fmt.Errorf("发布消息到 %s 失败: %w", subject, err)
	}

	return nil
}

// Subscribe 订阅指定主题的消息
func (c *NATSClient) Subscribe(streamName, consumerName, filterSubject string, handler MessageHandler) error {
	consumerConfig := jetstream.ConsumerConfig{
		Name:          consumerName,
		Description:   fmt.Sprintf("%s 消费者", consumerName),
		FilterSubject: filterSubject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverNewPolicy,
		ReplayPolicy:  jetstream.ReplayInstantPolicy,
	}

	consumer, err := c.jetStream.CreateOrUpdateConsumer(c.ctx, streamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("创建消费者 %s 失败: %w", consumerName, err)
	}

	c.mu.Lock()
	c.consumers[consumerName] = consumer
	c.mu.Unlock()

	go c.consumeMessages(consumer, consumerName, handler)

	log.Info().Msgf("已订阅 %s (Stream: %s, Consumer: %s)", filterSubject, streamName, consumerName)
	return nil
}

// consumeMessages 消费消息的通用逻辑
func (c *NATSClient) consumeMessages(consumer jetstream.Consumer, consumerName string, handler MessageHandler) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("消费者 %s 异常退出: %v", consumerName, r)
		}
	}()

	iter, err := consumer.Messages(jetstream.PullMaxMessages(10))
	if err != nil {
		log.Error().Err(err).Msgf("获取 %s 消息迭代器失败", consumerName)
		return
	}

	for {
		select {
		case <-c.ctx.Done():
			log.Info().Msgf("消费者 %s 收到停止信号", consumerName)
			return
		default:
			msg, err := iter.Next()
			if err != nil {
				if err == jetstream.ErrNoMessages {
					continue
				}
				log.Error().Err(err).Msgf("获取 %s 消息失败", consumerName)
				time.Sleep(1 * time.Second)
				continue
			}

			if err := handler(msg.Data()); err != nil {
				log.Error().Err(err).Msgf("消费者 %s 处理消息失败", consumerName)
				msg.Nak()
			} else {
				msg.Ack()
			}
		}
	}
}

// Close 关闭连接
func (c *NATSClient) Close() error {
	log.Info().Msg("正在关闭NATS连接...")

	c.cancel()

	// 等待消费者退出
	time.Sleep(1 * time.Second)

	c.mu.Lock()
	c.consumers = make(map[string]jetstream.Consumer)
	c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
	}

	log.Info().Msg("NATS连接已关闭")
	return nil
}

// IsConnected 检查连接状态
func (c *NATSClient) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}
