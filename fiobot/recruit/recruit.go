// Package recruit 实现明日方舟公开招募的标签解析与组合计算
package recruit

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// 几个行为上有特殊含义的标签
const (
	TagTopOperator    = "高级资深干员" // 6★专属标签，组合中不含该标签时不会显示6★干员
	TagSeniorOperator = "资深干员"
	TagRobot          = "支援机械" // 1★小车专属标签
	TagMelee          = "近战位"
	TagRanged         = "远程位"
)

// TagAliases 用户输入的缩写/常见错字 => 标准标签名，标准标签自身也包含在内
var TagAliases = map[string]string{
	// 资质类
	"高资": TagTopOperator, "高姿": TagTopOperator, "高级": TagTopOperator, "高级资深": TagTopOperator,
	"资深": TagSeniorOperator, "资干": TagSeniorOperator,
	"机械": TagRobot, "支机": TagRobot,
	// 位置类
	"近战": TagMelee, "远程": TagRanged,
	// 职业类（缩写 => 全称）
	"近卫": "近卫干员", "狙击": "狙击干员", "重装": "重装干员",
	"医疗": "医疗干员", "辅助": "辅助干员", "术师": "术师干员",
	"术士": "术师干员", // 常见错字
	"特种": "特种干员", "先锋": "先锋干员",
	// 能力类
	"回费": "费用回复", "费回": "费用回复", "恢复": "费用回复",
	"快活": "快速复活", "复活": "快速复活", "快速": "快速复活",
	// 完整标签的自身映射（用户直接输入完整标签）
	TagTopOperator:    TagTopOperator,
	TagSeniorOperator: TagSeniorOperator,
	TagRobot:          TagRobot,
	TagMelee:          TagMelee, TagRanged: TagRanged,
	"近卫干员": "近卫干员", "狙击干员": "狙击干员", "重装干员": "重装干员",
	"医疗干员": "医疗干员", "辅助干员": "辅助干员", "术师干员": "术师干员",
	"特种干员": "特种干员", "先锋干员": "先锋干员",
	"控场": "控场", "爆发": "爆发", "治疗": "治疗", "支援": "支援",
	"费用回复": "费用回复", "输出": "输出", "生存": "生存",
	"群攻": "群攻", "防护": "防护", "减速": "减速", "削弱": "削弱",
	"快速复活": "快速复活", "位移": "位移", "召唤": "召唤", "元素": "元素",
	"新手": "新手",
}

// tagSeparators 常规分隔符：空白、半角/全角逗号、顿号
func isTagSeparator(r rune) bool {
	switch r {
	case ',', '，', '、', ' ', '\t', '\n', '\r', '　':
		return true
	}
	return false
}

// SplitTags 智能分词，支持用户把标签连写在一起（如"高资近卫输出"）。
//
// 先按分隔符拆分；无法直接识别的片段再从已知关键词（别名+合法标签）中
// 按长度从长到短贪婪匹配拆分，匹配不上时跳过一个字符继续。
// 整段一个关键词都没匹配到时，原样保留该片段，交由 NormalizeTags 判定。
func SplitTags(text string, validTags []string) []string {
	parts := strings.FieldsFunc(strings.TrimSpace(text), isTagSeparator)

	validSet := make(map[string]struct{}, len(validTags))
	for _, tag := range validTags {
		validSet[tag] = struct{}{}
	}
	keywords := allKeywords(validTags)

	var result []string
	for _, part := range parts {
		// 片段本身就可识别（别名或合法标签），直接保留
		if _, ok := TagAliases[part]; ok {
			result = append(result, part)
			continue
		}
		if _, ok := validSet[part]; ok {
			result = append(result, part)
			continue
		}

		// 贪婪拆分
		remaining := part
		foundAny := false
		for remaining != "" {
			matched := false
			for _, kw := range keywords {
				if strings.HasPrefix(remaining, kw) {
					result = append(result, kw)
					remaining = remaining[len(kw):]
					matched = true
					foundAny = true
					break
				}
			}
			if !matched {
				// 跳过一个字符继续尝试
				_, size := utf8.DecodeRuneInString(remaining)
				remaining = remaining[size:]
			}
		}

		// 完全没匹配到时保留原始片段
		if !foundAny {
			result = append(result, part)
		}
	}

	return result
}

// allKeywords 所有可识别的关键词（别名+合法标签），按长度从长到短、同长度字典序排列
func allKeywords(validTags []string) []string {
	set := make(map[string]struct{}, len(TagAliases)+len(validTags))
	for alias := range TagAliases {
		set[alias] = struct{}{}
	}
	for _, tag := range validTags {
		set[tag] = struct{}{}
	}

	keywords := make([]string, 0, len(set))
	for kw := range set {
		keywords = append(keywords, kw)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if len(keywords[i]) != len(keywords[j]) {
			return len(keywords[i]) > len(keywords[j])
		}
		return keywords[i] < keywords[j]
	})
	return keywords
}

// NormalizeTags 将用户输入的原始标签标准化为合法游戏标签，去重并保持首次出现顺序。
//
// 匹配优先级：完全匹配合法标签 > 别名映射（映射结果须合法）> 子串模糊匹配
// （取合法标签列表中第一个包含该输入的标签）。三者都不中的输入被静默丢弃，
// 因此本函数从不报错，返回空列表即表示没有任何有效标签。
func NormalizeTags(rawTags []string, validTags []string) []string {
	validSet := make(map[string]struct{}, len(validTags))
	for _, tag := range validTags {
		validSet[tag] = struct{}{}
	}

	var result []string
	seen := map[string]struct{}{}
	appendTag := func(tag string) {
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}

	for _, raw := range rawTags {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		if _, ok := validSet[raw]; ok {
			appendTag(raw)
			continue
		}

		if mapped, ok := TagAliases[raw]; ok {
			if _, valid := validSet[mapped]; valid {
				appendTag(mapped)
				continue
			}
		}

		// 模糊匹配：用户输入是某个合法标签的子串
		for _, tag := range validTags {
			if strings.Contains(tag, raw) {
				appendTag(tag)
				break
			}
		}
	}

	return result
}

// ExtractTagsFromOCR 从OCR识别出的文字行中提取公招标签。
//
// 截图里的标签通常是标准标签名，按 完全匹配 > 别名匹配 > 行内子串搜索
// 的顺序累积，去重并保持首次出现顺序。没贡献标签的行直接跳过，
// 不会像 SplitTags 那样产生保底的原样片段。
func ExtractTagsFromOCR(ocrLines []string, validTags []string) []string {
	validSet := make(map[string]struct{}, len(validTags))
	for _, tag := range validTags {
		validSet[tag] = struct{}{}
	}

	var found []string
	seen := map[string]struct{}{}
	appendTag := func(tag string) {
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		found = append(found, tag)
	}

	for _, line := range ocrLines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if _, ok := validSet[line]; ok {
			appendTag(line)
			continue
		}

		if mapped, ok := TagAliases[line]; ok {
			if _, valid := validSet[mapped]; valid {
				appendTag(mapped)
				continue
			}
		}

		// OCR识别的长文本里搜索已知标签
		for _, tag := range validTags {
			if strings.Contains(line, tag) {
				appendTag(tag)
			}
		}
	}

	return found
}
