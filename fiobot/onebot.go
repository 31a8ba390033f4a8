package fiobot

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// MessageEvent OneBot v11 消息事件（go-cqhttp正向ws上报）
type MessageEvent struct {
	MessageType string    // group / private
	SubType     string
	MessageID   int64
	UserID      int64
	GroupID     int64
	SelfID      int64
	Time        int64
	RawMessage  string
	Segments    []Segment
	SenderName  string
}

// IsGroupMessage 是否为群消息
func (e *MessageEvent) IsGroupMessage() bool {
	return e.MessageType == "group"
}

// PlainText 消息中的纯文本部分
func (e *MessageEvent) PlainText() string {
	return plainText(e.Segments)
}

type rawEvent struct {
	PostType      string          `json:"post_type"`
	MessageType   string          `json:"message_type"`
	SubType       string          `json:"sub_type"`
	MetaEventType string          `json:"meta_event_type"`
	MessageID     json.RawMessage `json:"message_id"`
	UserID        json.RawMessage `json:"user_id"`
	GroupID       json.RawMessage `json:"group_id"`
	SelfID        json.RawMessage `json:"self_id"`
	Time          json.RawMessage `json:"time"`
	RawMessage    string          `json:"raw_message"`
	Message       json.RawMessage `json:"message"`
	Sender        rawSender       `json:"sender"`
	Echo          string          `json:"echo"`
}

type rawSender struct {
	Nickname string `json:"nickname"`
	Card     string `json:"card"`
}

type apiRequest struct {
	Action string      `json:"action"`
	Params interface{} `json:"params"`
	Echo   string      `json:"echo,omitempty"`
}

type apiResponse struct {
	Status  string          `json:"status"`
	RetCode int64           `json:"retcode"`
	Data    json.RawMessage `json:"data"`
	Echo    string          `json:"echo"`
}

// OneBotClient 通过正向websocket连接OneBot v11协议端（如go-cqhttp）
type OneBotClient struct {
	wsURL       string
	accessToken string
	callTimeout time.Duration

	// 发送限速，避免风控
	limiter *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc

	connMu  sync.Mutex
	conn    *websocket.Conn
	writeMu sync.Mutex

	waiterMu    sync.Mutex
	apiWaiters  map[string]chan apiResponse
	echoCounter int64

	onMessage func(*MessageEvent)
}

// NewOneBotClient 创建客户端，onMessage在独立goroutine中被调用
func NewOneBotClient(cfg *RobotConfig, onMessage func(*MessageEvent)) *OneBotClient {
	sendInterval := time.Duration(cfg.SendInterval * float64(time.Second))
	if sendInterval <= 0 {
		sendInterval = time.Second
	}

	return &OneBotClient{
		wsURL:       cfg.WsURL,
		accessToken: cfg.AccessToken,
		callTimeout: time.Duration(cfg.Timeout) * time.Second,
		limiter:     rate.NewLimiter(rate.Every(sendInterval), 1),
		apiWaiters:  make(map[string]chan apiResponse),
		onMessage:   onMessage,
	}
}

// Connect 建立连接并启动读取循环，连接断开后自动重连
func (c *OneBotClient) Connect(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	if err := c.dial(); err != nil {
		return errors.Wrap(err, "连接OneBot失败")
	}

	go c.listenLoop()
	return nil
}

// Close 关闭连接
func (c *OneBotClient) Close() {
	if c.cancel != nil {
		c.cancel()
	}

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()
}

func (c *OneBotClient) dial() error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	header := make(map[string][]string)
	if c.accessToken != "" {
		header["Authorization"] = []string{"Bearer " + c.accessToken}
	}

	conn, _, err := dialer.Dial(c.wsURL, header)
	if err != nil {
		return err
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	logger.Infof("已连接到OneBot服务: %v", c.wsURL)
	return nil
}

// listenLoop 读取事件并分发，读取失败后等待重连
func (c *OneBotClient) listenLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			if err := c.dial(); err != nil {
				logger.Errorf("重连OneBot失败，5秒后重试: %v", err)
				select {
				case <-c.ctx.Done():
					return
				case <-time.After(5 * time.Second):
				}
			}
			continue
		}

		_, payload, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.ctx.Done():
				return
			default:
			}
			logger.Errorf("读取OneBot消息失败: %v", err)
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.Close()
				c.conn = nil
			}
			c.connMu.Unlock()
			continue
		}

		var raw rawEvent
		if err := json.Unmarshal(payload, &raw); err != nil {
			logger.Warnf("解析OneBot事件失败: %v, payload=%s", err, payload)
			continue
		}

		// api响应通过echo路由给等待者
		if raw.Echo != "" {
			c.dispatchAPIResponse(payload, raw.Echo)
			continue
		}

		switch raw.PostType {
		case "message":
			evt := normalizeMessageEvent(&raw)
			go c.onMessage(evt)
		case "meta_event":
			if raw.MetaEventType == "lifecycle" {
				logger.Infof("OneBot生命周期事件: %v", raw.SubType)
			}
		}
	}
}

func (c *OneBotClient) dispatchAPIResponse(payload []byte, echo string) {
	var resp apiResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		resp = apiResponse{Echo: echo, Status: "failed"}
	}

	c.waiterMu.Lock()
	waiter := c.apiWaiters[resp.Echo]
	c.waiterMu.Unlock()
	if waiter == nil {
		return
	}

	select {
	case waiter <- resp:
	default:
	}
}

func normalizeMessageEvent(raw *rawEvent) *MessageEvent {
	messageID, _ := rawInt64(raw.MessageID)
	userID, _ := rawInt64(raw.UserID)
	groupID, _ := rawInt64(raw.GroupID)
	selfID, _ := rawInt64(raw.SelfID)
	ts, _ := rawInt64(raw.Time)

	senderName := raw.Sender.Card
	if senderName == "" {
		senderName = raw.Sender.Nickname
	}

	return &MessageEvent{
		MessageType: raw.MessageType,
		SubType:     raw.SubType,
		MessageID:   messageID,
		UserID:      userID,
		GroupID:     groupID,
		SelfID:      selfID,
		Time:        ts,
		RawMessage:  raw.RawMessage,
		Segments:    parseSegments(raw.Message, raw.RawMessage),
		SenderName:  senderName,
	}
}

// rawInt64 兼容数字和字符串两种编码
func rawInt64(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, nil
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseInt(s, 10, 64)
	}
	return 0, errors.Errorf("无法解析为int64: %s", raw)
}

// parseSegments 解析消息段数组，字符串格式的消息整体视为文本段
func parseSegments(raw json.RawMessage, rawMessage string) []Segment {
	if len(raw) == 0 {
		if rawMessage == "" {
			return nil
		}
		return []Segment{Text(rawMessage)}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []Segment{Text(s)}
	}

	var segments []Segment
	if err := json.Unmarshal(raw, &segments); err != nil {
		return []Segment{Text(rawMessage)}
	}
	return segments
}

func (c *OneBotClient) nextEcho() string {
	c.waiterMu.Lock()
	c.echoCounter++
	echo := fmt.Sprintf("api_%d", c.echoCounter)
	c.waiterMu.Unlock()
	return echo
}

// CallAPI 调用OneBot api并等待响应
func (c *OneBotClient) CallAPI(action string, params interface{}) (*apiResponse, error) {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return nil, errors.New("OneBot连接未建立")
	}

	timeout := c.callTimeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	echo := c.nextEcho()
	waiter := make(chan apiResponse, 1)

	c.waiterMu.Lock()
	c.apiWaiters[echo] = waiter
	c.waiterMu.Unlock()
	defer func() {
		c.waiterMu.Lock()
		delete(c.apiWaiters, echo)
		c.waiterMu.Unlock()
	}()

	payload, err := json.Marshal(apiRequest{Action: action, Params: params, Echo: echo})
	if err != nil {
		return nil, errors.Wrap(err, "序列化api请求失败")
	}

	c.writeMu.Lock()
	err = conn.WriteMessage(websocket.TextMessage, payload)
	c.writeMu.Unlock()
	if err != nil {
		return nil, errors.Wrap(err, "发送api请求失败")
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case resp := <-waiter:
		return &resp, nil
	case <-timer.C:
		return nil, errors.Errorf("api请求超时: action=%s", action)
	case <-c.ctx.Done():
		return nil, errors.New("客户端已停止")
	}
}

// SendGroupMessage 发送群消息，过长时分为多段发送，返回第一段的消息id，失败返回-1
func (c *OneBotClient) SendGroupMessage(groupID int64, segments []Segment) int64 {
	return c.sendMessage("send_group_msg", func(part []Segment) interface{} {
		return map[string]interface{}{"group_id": groupID, "message": part}
	}, segments)
}

// SendPrivateMessage 发送私聊消息，失败返回-1
func (c *OneBotClient) SendPrivateMessage(userID int64, segments []Segment) int64 {
	return c.sendMessage("send_private_msg", func(part []Segment) interface{} {
		return map[string]interface{}{"user_id": userID, "message": part}
	}, segments)
}

func (c *OneBotClient) sendMessage(action string, makeParams func([]Segment) interface{}, segments []Segment) int64 {
	firstMessageID := int64(-1)

	for _, part := range splitLongMessage(segments) {
		// 限制发送频率
		if err := c.limiter.Wait(c.ctx); err != nil {
			return firstMessageID
		}

		resp, err := c.CallAPI(action, makeParams(part))
		if err != nil {
			logger.Errorf("发送消息失败: action=%v err=%v", action, err)
			return firstMessageID
		}
		if !strings.EqualFold(resp.Status, "ok") {
			logger.Errorf("发送消息被拒绝: action=%v status=%v retcode=%v", action, resp.Status, resp.RetCode)
			return firstMessageID
		}

		if firstMessageID == -1 && len(resp.Data) != 0 {
			var data struct {
				MessageID int64 `json:"message_id"`
			}
			if err := json.Unmarshal(resp.Data, &data); err == nil && data.MessageID != 0 {
				firstMessageID = data.MessageID
			}
		}
	}

	return firstMessageID
}
