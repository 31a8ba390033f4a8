package recruit

import (
	"fmt"
	"strings"
)

// NoResultMessage 没有任何有价值组合时的固定回复
const NoResultMessage = "没有找到有价值的标签组合喵~\n（只显示保底 4★ 及以上和必出 1★ 的组合）"

// RarityStars 0-based 稀有度 => 星级显示
var RarityStars = map[int]string{
	0: "★", 1: "★★", 2: "★★★", 3: "★★★★", 4: "★★★★★", 5: "★★★★★★",
}

// RarityDisplay 将 0-based 稀有度转换为星级显示
func RarityDisplay(rarity int) string {
	if stars, ok := RarityStars[rarity]; ok {
		return stars
	}
	return fmt.Sprintf("%d★", rarity+1)
}

// FormatResults 将组合计算结果格式化为文本，顺序与求解结果完全一致。
// 1-based 的星级换算只发生在这里，求解过程始终使用 0-based 稀有度。
func FormatResults(results []Combination) string {
	if len(results) == 0 {
		return NoResultMessage
	}

	var lines []string
	for i, r := range results {
		tagStr := strings.Join(r.Tags, " + ")
		minStar := r.MinRarity + 1

		// 标记高价值组合
		var prefix string
		switch {
		case minStar >= 5:
			prefix = "🌟"
		case minStar >= 4:
			prefix = "⭐"
		case minStar == 1:
			prefix = "🤖"
		default:
			prefix = "▪️"
		}

		lines = append(lines, fmt.Sprintf("%s【%s】(保底 %d★)", prefix, tagStr, minStar))

		for _, op := range r.Operators {
			lines = append(lines, fmt.Sprintf("  %s %s", RarityDisplay(op.Rarity), op.Name))
		}

		if i < len(results)-1 {
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n")
}
