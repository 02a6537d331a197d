package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client 大模型客户端，对接OpenAI兼容的聊天接口
type Client struct {
	apiURL    string
	apiKey    string
	modelName string
	client    *http.Client
}

// Message 表示对话中的一条消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest 表示聊天请求
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// ChatResponse 表示聊天响应
type ChatResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient 创建新的大模型客户端
func NewClient(apiURL, apiKey, modelName string) *Client {
	return &Client{
		apiURL:    apiURL,
		apiKey:    apiKey,
		modelName: modelName,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Chat 发送聊天请求并获取响应
func (c *Client) Chat(messages []Message) (string, error) {
	reqBody := ChatRequest{
		Model:    c.modelName,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequest("POST", c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("发送请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API返回错误: %s", string(body))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("解析响应失败: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("API返回空响应")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// GenerateIndustryReport 生成单个行业的分析报告
func (c *Client) GenerateIndustryReport(industry string, days int, industryData string) (string, error) {
	systemPrompt := "你是一位专业的行业分析师，请根据提供的行业统计数据给出客观、简明的分析报告。"

	userPrompt := fmt.Sprintf(
		"请分析%s行业最近%d天的表现，数据如下：\n%s\n请从整体趋势、波动情况和投资关注点三个方面给出分析。",
		industry, days, industryData)

	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}

	return c.Chat(messages)
}

// GenerateAllIndustriesReport 生成全行业综合分析报告
func (c *Client) GenerateAllIndustriesReport(days int, industriesData string) (string, error) {
	systemPrompt := "你是一位专业的行业分析师，请根据提供的各行业统计数据给出综合分析报告。"

	userPrompt := fmt.Sprintf(
		"以下是最近%d天各行业的统计数据：\n%s\n请对比各行业表现，指出强势行业与弱势行业，并给出整体判断。",
		days, industriesData)

	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}

	return c.Chat(messages)
}

// GenerateHotmapReport 根据大盘星图摘要生成投资建议
func (c *Client) GenerateHotmapReport(currentTime, hotmapDigest string) (string, error) {
	systemPrompt := "你是一位专业的市场分析师，请根据大盘行业分布数据给出分析和投资建议。"

	userPrompt := fmt.Sprintf(
		"分析时间：%s\n大盘星图摘要数据：\n%s\n请分析行业分布情况、涨跌结构和市值特征，并给出投资建议。",
		currentTime, hotmapDigest)

	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}

	return c.Chat(messages)
}
