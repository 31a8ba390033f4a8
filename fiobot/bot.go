package fiobot

import (
	"context"
	"net/http"
	"regexp"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/fiobot/fiobot/fiobot/recruit"
)

// 内置指令
var (
	recruitUpdateRegex = regexp.MustCompile(`^\s*(公招更新|更新公招)\s*$`)
	recruitRegex       = regexp.MustCompile(`^\s*(公招|公开招募|gk|gz)`)
	rollRegex          = regexp.MustCompile(`^\s*(roll|fioll)\s*`)
	helpRegex          = regexp.MustCompile(`^\s*(fiop|fio帮助|fiohelp)\s*$`)
)

// Robot 机器人本体
type Robot struct {
	Config    Config
	StartTime time.Time

	client *OneBotClient

	recruitData *recruit.Manager
	imgRenderer *recruit.ImageRenderer

	Rules []*Rule

	httpClient http.Client
	ocr        *BaiduOCR

	quitCtx  context.Context
	quitFunc context.CancelFunc
}

// NewRobot 创建机器人
func NewRobot(config Config) *Robot {
	r := &Robot{
		Config:      config,
		recruitData: recruit.NewManager(),
		httpClient:  http.Client{Timeout: time.Duration(config.Robot.Timeout) * time.Second},
	}

	r.client = NewOneBotClient(&config.Robot, r.onMessage)

	if config.Ocr.Enable {
		r.ocr = NewBaiduOCR(config.Ocr, &r.httpClient)
	}

	if fontPath := config.Recruit.FontPath; fontPath != "" {
		renderer, err := recruit.NewImageRenderer(fontPath)
		if err != nil {
			logger.Warnf("加载字体失败，公招结果将使用文字回复: %v", err)
		} else {
			r.imgRenderer = renderer
		}
	}

	for _, ruleConfig := range config.Rules {
		r.Rules = append(r.Rules, NewRule(ruleConfig))
	}

	return r
}

// Start 开始运行
func (r *Robot) Start() error {
	initLogger(r.Config.Robot.LogDir)

	r.StartTime = time.Now()
	r.quitCtx, r.quitFunc = context.WithCancel(context.Background())

	// 公招数据优先使用本地缓存，没有则尝试下载
	if err := r.ensureGameData(false); err != nil {
		logger.Warnf("初始化公招数据失败，首次使用时将重试: %v", err)
	}

	if err := r.client.Connect(r.quitCtx); err != nil {
		return err
	}

	r.notify(r.Config.Robot.OnStart)
	return nil
}

// Stop 停止运行
func (r *Robot) Stop() {
	r.notify(r.Config.Robot.OnStop)
	r.quitFunc()
	r.client.Close()
}

func (r *Robot) notify(cfg NotifyConfig) {
	if cfg.Message == "" || len(cfg.NotifyGroups) == 0 {
		return
	}
	if r.Config.Robot.Debug {
		logger.Debug("debug mode, do not notify", cfg.Name, cfg.NotifyGroups, cfg.Message)
		return
	}

	nowStr := r.currentTime()
	for _, groupID := range cfg.NotifyGroups {
		rspID := r.client.SendGroupMessage(groupID, []Segment{Text(cfg.Message)})
		if rspID == -1 {
			logger.Errorf("【%v Failed】 %v groupID=%v message=%v", cfg.Name, nowStr, groupID, cfg.Message)
			continue
		}
		logger.Infof("【%v】 %v groupID=%v message=%v", cfg.Name, nowStr, groupID, cfg.Message)
	}
	logger.Infof("robot on %v finished", cfg.Name)
}

// onMessage 消息入口，依次尝试内置指令和自动回复规则
func (r *Robot) onMessage(m *MessageEvent) {
	text := m.PlainText()

	switch {
	case recruitUpdateRegex.MatchString(text):
		r.onRecruitUpdate(m)
	case recruitRegex.MatchString(text) || (firstImageURL(m.Segments) != "" && recruitRegex.MatchString(m.RawMessage)):
		r.onRecruit(m)
	case rollRegex.MatchString(text):
		r.onRoll(m)
	case helpRegex.MatchString(text):
		r.onHelp(m)
	default:
		if !m.IsGroupMessage() {
			return
		}
		for _, rule := range r.Rules {
			if replied := r.applyRule(m, rule); replied {
				return
			}
		}
	}
}

// reply 回复一条消息，群消息附带reply引用
func (r *Robot) reply(m *MessageEvent, segments ...Segment) int64 {
	if m.IsGroupMessage() {
		segments = append([]Segment{Reply(m.MessageID)}, segments...)
		return r.client.SendGroupMessage(m.GroupID, segments)
	}
	return r.client.SendPrivateMessage(m.UserID, segments)
}

func (r *Robot) isAdmin(qq int64) bool {
	for _, adminQQ := range r.Config.Robot.AdminQQs {
		if adminQQ == qq {
			return true
		}
	}
	return false
}
