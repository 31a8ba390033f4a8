package recruit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 测试用的合法标签表，与游戏内公招界面一致
var testValidTags = []string{
	"高级资深干员", "资深干员", "支援机械",
	"近战位", "远程位",
	"先锋干员", "近卫干员", "狙击干员", "重装干员",
	"医疗干员", "辅助干员", "术师干员", "特种干员",
	"新手", "治疗", "支援", "输出", "群攻", "减速", "生存",
	"防护", "削弱", "位移", "控场", "爆发", "召唤", "快速复活", "费用回复",
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "空格分隔", text: "高资 近卫 输出", want: []string{"高资", "近卫", "输出"}},
		{name: "逗号分隔", text: "高资,近卫，输出", want: []string{"高资", "近卫", "输出"}},
		{name: "顿号分隔", text: "治疗、支援", want: []string{"治疗", "支援"}},
		{name: "无分隔连写", text: "高资近卫输出", want: []string{"高资", "近卫", "输出"}},
		{name: "完整标签连写", text: "高级资深干员近战位", want: []string{"高级资深干员", "近战位"}},
		{name: "混合分隔与连写", text: "高资近卫 输出", want: []string{"高资", "近卫", "输出"}},
		{name: "中间夹未知字符", text: "高资x输出", want: []string{"高资", "输出"}},
		{name: "完全未知片段原样保留", text: "不存在的词", want: []string{"不存在的词"}},
		{name: "空输入", text: "   ", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTags(tt.text, testValidTags)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitTagsPrefersLongestKeyword(t *testing.T) {
	// "高级资深"比"高级"长，贪婪匹配应当优先取长的
	got := SplitTags("高级资深近卫", testValidTags)
	assert.Equal(t, []string{"高级资深", "近卫"}, got)
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{name: "完全匹配", raw: []string{"治疗", "近战位"}, want: []string{"治疗", "近战位"}},
		{name: "别名映射", raw: []string{"高资", "近卫", "回费"}, want: []string{"高级资深干员", "近卫干员", "费用回复"}},
		{name: "常见错字", raw: []string{"术士", "高姿"}, want: []string{"术师干员", "高级资深干员"}},
		// 子串模糊匹配取标签表里第一个包含该输入的标签
		{name: "子串模糊匹配", raw: []string{"资深干"}, want: []string{"高级资深干员"}},
		{name: "子串模糊匹配唯一候选", raw: []string{"快速复"}, want: []string{"快速复活"}},
		{name: "无效输入被丢弃", raw: []string{"治疗", "不存在的标签"}, want: []string{"治疗"}},
		{name: "全部无效返回空", raw: []string{"abc", "xyz"}, want: nil},
		{name: "去重保持首次顺序", raw: []string{"高资", "高级资深干员", "治疗"}, want: []string{"高级资深干员", "治疗"}},
		{name: "空白输入被跳过", raw: []string{"", "  ", "输出"}, want: []string{"输出"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.raw, testValidTags)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTagsIdempotent(t *testing.T) {
	// 标准化结果再次标准化应保持不变
	first := NormalizeTags([]string{"高资", "近卫", "输出"}, testValidTags)
	second := NormalizeTags(first, testValidTags)
	assert.Equal(t, first, second)
}

func TestSplitThenNormalize(t *testing.T) {
	// 连写输入的完整流程
	raw := SplitTags("高资近卫输出", testValidTags)
	tags := NormalizeTags(raw, testValidTags)
	assert.Equal(t, []string{"高级资深干员", "近卫干员", "输出"}, tags)
}

func TestExtractTagsFromOCR(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "标准标签行",
			lines: []string{"招募说明", "高级资深干员", "近战位", "输出"},
			want:  []string{"高级资深干员", "近战位", "输出"},
		},
		{
			name:  "长文本行内搜索",
			lines: []string{"标签：治疗支援减速"},
			want:  []string{"治疗", "支援", "减速"},
		},
		{
			name:  "去重保持顺序",
			lines: []string{"治疗", "治疗 输出", "输出"},
			want:  []string{"治疗", "输出"},
		},
		{
			name:  "无标签行不产生输出",
			lines: []string{"公开招募", "点击刷新", ""},
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTagsFromOCR(tt.lines, testValidTags)
			assert.Equal(t, tt.want, got)
		})
	}
}
