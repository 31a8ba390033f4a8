package fiobot

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gookit/color"
	logger "github.com/sirupsen/logrus"
)

const templateargsCd = "{cd}"

// Rule 规则，附带一些运行期状态
type Rule struct {
	Config RuleConfig

	Locker            sync.Mutex
	ProcessedMessages map[int64]struct{}
	// group => 上次在cd外成功触发的时间戳
	GroupToLastSuccessTriggerTimestamp map[int64]int64
}

// NewRule 创建新的规则
func NewRule(config RuleConfig) *Rule {
	return &Rule{
		Config:                             config,
		ProcessedMessages:                  map[int64]struct{}{},
		GroupToLastSuccessTriggerTimestamp: map[int64]int64{},
	}
}

// applyRule 尝试对群消息应用自动回复规则，返回是否实际回复
func (r *Robot) applyRule(m *MessageEvent, rule *Rule) bool {
	// rule内部有些状态可能会改变，这里加锁保护一下
	rule.Locker.Lock()
	defer rule.Locker.Unlock()

	config := rule.Config
	nowStr := r.currentTime()
	nowUnix := time.Now().Unix()

	groupID := m.GroupID
	senderQQ := m.UserID

	if len(config.GroupIds) != 0 {
		if _, ok := config.GroupIds[groupID]; !ok {
			return false
		}
	}

	// 判断匹配了关键词
	text := m.PlainText()
	var hitKeyWords bool
	var hitKeyWordString string
OuterLoop:
	for _, keywordRegex := range config.KeywordRegexes {
		if keywordRegex.MatchString(text) {
			for _, excludeKeywordRegex := range config.ExcludeKeywordRegexes {
				if excludeKeywordRegex.MatchString(text) {
					continue OuterLoop
				}
			}

			hitKeyWords = true
			hitKeyWordString = keywordRegex.String()
			break
		}
	}
	if !hitKeyWords {
		return false
	}

	// 是否已经回复
	if _, replied := rule.ProcessedMessages[m.MessageID]; replied {
		logger.Warn("【似乎消息混了，不过没办法，继续处理吧-。-】", nowStr, config.Name, p(m))
	}

	// 判断是否是排除的用户列表
	for _, excludeQQ := range config.ExcludeQQs {
		if excludeQQ == senderQQ {
			logger.Info("【ExcludedQQ】", nowStr, config.Name, p(m))
			return false
		}
	}

	guideContent := config.GuideContent
	// 判断是否在cd内触发了规则
	if config.CD != 0 {
		lastTriggerTime := rule.GroupToLastSuccessTriggerTimestamp[groupID]
		if nowUnix < lastTriggerTime+config.CD {
			if len(config.GuideContentInCD) == 0 {
				// 未设置cd内回复内容，则视为未触发
				logger.Info("【InCD】", nowStr, config.Name, p(m))
				return false
			}

			// 替换回复内容为cd回复内容
			guideContent = strings.ReplaceAll(config.GuideContentInCD, templateargsCd, strconv.FormatInt(config.CD, 10))
		} else {
			rule.GroupToLastSuccessTriggerTimestamp[groupID] = nowUnix
		}
	}

	// ok

	// 回复消息
	var replies []Segment
	if len(guideContent) != 0 {
		replies = append(replies, Text(guideContent))
	}

	// 如配置了图片url，则额外发送图片
	if config.ImageURL != "" {
		replies = append(replies, ImageURL(config.ImageURL))
	}

	if len(replies) == 0 {
		return false
	}

	keyWord := "hitKeyWordString=" + hitKeyWordString

	rspID := r.reply(m, replies...)
	if rspID == -1 {
		logger.Error("【ReplyFail】", nowStr, config.Name, keyWord, p(m), p(replies))
		return false
	}
	logger.Info(bold(color.Green).Renderln("【OK】", nowStr, config.Name, keyWord, p(m), m.MessageID, p(replies), rspID))

	rule.ProcessedMessages[m.MessageID] = struct{}{}

	return true
}
