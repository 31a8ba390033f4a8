package fiobot

import (
	"math/rand"
	"regexp"
	"strings"
	"time"
)

var rollSeparatorRegex = regexp.MustCompile(`[,，\s]+`)

// splitRollOptions 解析roll指令的选项列表
func splitRollOptions(text string) []string {
	var options []string
	for _, opt := range rollSeparatorRegex.Split(text, -1) {
		if opt != "" {
			options = append(options, opt)
		}
	}
	return options
}

// rollChoose 从选项中随机选一个，结尾的"喵"去掉，避免回复时叠词
func rollChoose(options []string) string {
	chosen := options[rand.Intn(len(options))]
	chosen = strings.TrimSuffix(chosen, "喵")
	return chosen + "喵！"
}

// onRoll 处理roll指令，帮选择困难症做决定
func (r *Robot) onRoll(m *MessageEvent) {
	text := strings.TrimSpace(rollRegex.ReplaceAllString(m.PlainText(), ""))

	options := splitRollOptions(text)
	if len(options) == 0 {
		r.reply(m, Text("没有识别到选项喵"))
		return
	}

	r.reply(m, Text("命运开始转动喵..."))
	time.Sleep(time.Second)

	r.reply(m, Text(rollChoose(options)))
}
