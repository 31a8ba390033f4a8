package fiobot

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
	logger "github.com/sirupsen/logrus"
)

// 游戏数据默认下载地址
const (
	defaultCharacterTableURL = "https://raw.githubusercontent.com/Kengxxiao/ArknightsGameData/master/zh_CN/gamedata/excel/character_table.json"
	defaultGachaTableURL     = "https://raw.githubusercontent.com/Kengxxiao/ArknightsGameData/master/zh_CN/gamedata/excel/gacha_table.json"
)

// NotifyConfig 机器人上下线时的通知配置
type NotifyConfig struct {
	Name         string  `toml:"name"`          // 操作名称
	NotifyGroups []int64 `toml:"notify_groups"` // 通知的群
	Message      string  `toml:"message"`       // 通知的消息
}

// RobotConfig 机器人基础配置
type RobotConfig struct {
	WsURL        string       `toml:"ws_url"`        // OneBot正向ws地址
	AccessToken  string       `toml:"access_token"`  // OneBot access token
	Timeout      int64        `toml:"timeout"`       // http请求超时（秒）
	Debug        bool         `toml:"debug"`         // 是否是调试模式
	AdminQQs     []int64      `toml:"admin_qqs"`     // 管理员QQ列表
	LogDir       string       `toml:"log_dir"`       // 日志目录
	DataDir      string       `toml:"data_dir"`      // 数据缓存目录
	SendInterval float64      `toml:"send_interval"` // 发送消息的最小间隔（秒），防风控
	OnStart      NotifyConfig `toml:"on_start"`      // 机器人上线时的操作
	OnStop       NotifyConfig `toml:"on_stop"`       // 机器人下线时的操作
}

// RecruitConfig 公招插件配置
type RecruitConfig struct {
	CharacterTableURL string `toml:"character_table_url"` // character_table.json 下载地址
	GachaTableURL     string `toml:"gacha_table_url"`     // gacha_table.json 下载地址
	FontPath          string `toml:"font_path"`           // 渲染图片用的中文字体路径，留空则只回复文字
	MaxSelectTags     int    `toml:"max_select_tags"`     // 一次最多识别的标签数
	PreferImage       bool   `toml:"prefer_image"`        // 有结果时优先回复图片
}

// OcrConfig 百度OCR配置
type OcrConfig struct {
	Enable    bool   `toml:"enable"`
	APIKey    string `toml:"api_key"`
	SecretKey string `toml:"secret_key"`
}

// RuleConfig 自动回复规则配置
type RuleConfig struct {
	Name                  string             `toml:"name"`                // 规则名称
	RawGroupIds           []int64            `toml:"group_ids"`           // 适用的QQ群ID列表，为空则全部群适用
	GroupIds              map[int64]struct{} `toml:"-"`                   //
	RawKeywords           []string           `toml:"keywords"`            // 适用的关键词列表
	KeywordRegexes        []*regexp.Regexp   `toml:"-"`                   // 适用的关键词的正则表达式列表
	RawExcludeKeywords    []string           `toml:"exclude_keywords"`    // 需要过滤的关键词列表
	ExcludeKeywordRegexes []*regexp.Regexp   `toml:"-"`                   // 需要过滤的关键词的正则表达式列表
	ExcludeQQs            []int64            `toml:"exclude_qqs"`         // 排除的QQ列表
	GuideContent          string             `toml:"guide_content"`       // 回复内容
	ImageURL              string             `toml:"image_url"`           // 图片URL，若有，则会额外附加图片
	CD                    int64              `toml:"cd"`                  // cd时长（秒），0表示不设定
	GuideContentInCD      string             `toml:"guide_content_in_cd"` // cd内触发规则时的回复内容
}

// Config 总配置
type Config struct {
	Robot   RobotConfig   `toml:"robot"`
	Recruit RecruitConfig `toml:"recruit"`
	Ocr     OcrConfig     `toml:"ocr"`
	Rules   []RuleConfig  `toml:"rules"`
}

// LoadConfig 读取并初始化配置
func LoadConfig(configPath string) Config {
	var config Config
	_, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		logger.Fatalf("load toml file fail, err=%v", err)
	}
	config.Init()

	return config
}

// Init 填充默认值并编译规则
func (c *Config) Init() {
	if c.Robot.WsURL == "" {
		c.Robot.WsURL = "ws://127.0.0.1:3001"
	}
	if c.Robot.Timeout <= 0 {
		c.Robot.Timeout = 60
	}
	if c.Robot.LogDir == "" {
		c.Robot.LogDir = "logs"
	}
	if c.Robot.DataDir == "" {
		c.Robot.DataDir = "data"
	}
	if c.Robot.SendInterval <= 0 {
		c.Robot.SendInterval = 1
	}

	if c.Recruit.CharacterTableURL == "" {
		c.Recruit.CharacterTableURL = defaultCharacterTableURL
	}
	if c.Recruit.GachaTableURL == "" {
		c.Recruit.GachaTableURL = defaultGachaTableURL
	}
	if c.Recruit.MaxSelectTags <= 0 {
		c.Recruit.MaxSelectTags = 5
	}

	for idx := range c.Rules {
		rule := &c.Rules[idx]

		for _, keyword := range rule.RawKeywords {
			rule.KeywordRegexes = append(rule.KeywordRegexes, regexp.MustCompile(keyword))
		}
		for _, keyword := range rule.RawExcludeKeywords {
			rule.ExcludeKeywordRegexes = append(rule.ExcludeKeywordRegexes, regexp.MustCompile(keyword))
		}

		rule.GroupIds = map[int64]struct{}{}
		for _, groupID := range rule.RawGroupIds {
			rule.GroupIds[groupID] = struct{}{}
		}
	}

	if err := c.check(); err != nil {
		logger.Errorf("check config failed, err=%v", err)
		os.Exit(-1)
	}
}

func (c *Config) check() error {
	for _, rule := range c.Rules {
		if rule.Name == "" {
			return fmt.Errorf("rule without name, keywords=%v", rule.RawKeywords)
		}
		if len(rule.RawKeywords) == 0 {
			return fmt.Errorf("rule=%v has no keywords", rule.Name)
		}
	}
	if c.Ocr.Enable && (c.Ocr.APIKey == "" || c.Ocr.SecretKey == "") {
		return fmt.Errorf("ocr enabled but api_key/secret_key not set")
	}

	return nil
}
