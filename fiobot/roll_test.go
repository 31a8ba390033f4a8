package fiobot

import (
	"strings"
	"testing"
)

func Test_splitRollOptions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "空格分隔", text: "吃饭 睡觉 打游戏", want: []string{"吃饭", "睡觉", "打游戏"}},
		{name: "逗号分隔", text: "吃饭,睡觉，打游戏", want: []string{"吃饭", "睡觉", "打游戏"}},
		{name: "混合分隔带多余空白", text: "  吃饭 ， 睡觉  ", want: []string{"吃饭", "睡觉"}},
		{name: "空输入", text: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitRollOptions(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("splitRollOptions(%v) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitRollOptions(%v)[%v] = %v, want %v", tt.text, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func Test_rollChoose(t *testing.T) {
	// 单选项时结果确定，结尾的喵会被去掉再补上
	if got := rollChoose([]string{"睡觉喵"}); got != "睡觉喵！" {
		t.Errorf("rollChoose = %v, want 睡觉喵！", got)
	}
	if got := rollChoose([]string{"吃饭"}); got != "吃饭喵！" {
		t.Errorf("rollChoose = %v, want 吃饭喵！", got)
	}

	// 多选项时结果必须来自选项列表
	options := []string{"a", "b", "c"}
	for i := 0; i < 20; i++ {
		got := rollChoose(options)
		chosen := strings.TrimSuffix(got, "喵！")
		found := false
		for _, opt := range options {
			if opt == chosen {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("rollChoose = %v, not from options %v", got, options)
		}
	}
}
