package recruit

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Operator 一个可参与公开招募的干员
type Operator struct {
	Name   string
	Rarity int // 0-based：0=1★，5=6★
	Tags   map[string]struct{}
}

// HasTag 干员是否具有指定标签
func (op *Operator) HasTag(tag string) bool {
	_, ok := op.Tags[tag]
	return ok
}

// Dataset 公招数据快照：可招募干员列表 + 全部合法标签。
// 构建完成后不再修改，刷新数据时整体替换。
type Dataset struct {
	Operators []Operator
	ValidTags []string

	validTagSet map[string]struct{}
}

// IsValidTag 是否是合法公招标签
func (ds *Dataset) IsValidTag(tag string) bool {
	_, ok := ds.validTagSet[tag]
	return ok
}

// ProfessionTags 职业代号 => 职业标签
var ProfessionTags = map[string]string{
	"PIONEER": "先锋干员",
	"WARRIOR": "近卫干员",
	"SNIPER":  "狙击干员",
	"TANK":    "重装干员",
	"MEDIC":   "医疗干员",
	"SUPPORT": "辅助干员",
	"CASTER":  "术师干员",
	"SPECIAL": "特种干员",
}

// rarityTiers 新版 TIER_X 稀有度编码 => 0-based 数字
var rarityTiers = map[string]int{
	"TIER_1": 0, "TIER_2": 1, "TIER_3": 2,
	"TIER_4": 3, "TIER_5": 4, "TIER_6": 5,
}

// parseRarity 将 rarity 字段统一转换为 0-based 数字，无法识别时返回 -1。
// 兼容旧版数字编码和新版 TIER_X 字符串编码。
func parseRarity(raw gjson.Result) int {
	switch raw.Type {
	case gjson.Number:
		return int(raw.Int())
	case gjson.String:
		if tier, ok := rarityTiers[raw.Str]; ok {
			return tier
		}
		if n, err := strconv.Atoi(raw.Str); err == nil {
			return n
		}
	}
	return -1
}

var htmlTagRegex = regexp.MustCompile(`<[^>]+>`)

// parseRecruitPool 从卡池表的 recruitDetail 字段解析当前可公开招募的干员名单。
//
// 格式举例：★\n干员1/干员2\n\n★★\n干员3/干员4
// 星标行、空行、富文本标记行直接跳过，多名字行按斜杠拆开，"-"是占位符。
func parseRecruitPool(recruitDetail string) map[string]struct{} {
	// 部分数据源里换行以字面 \n 存在
	recruitDetail = strings.ReplaceAll(recruitDetail, `\n`, "\n")

	names := map[string]struct{}{}
	for _, line := range strings.Split(recruitDetail, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "★") || strings.HasPrefix(line, "<") {
			continue
		}
		line = htmlTagRegex.ReplaceAllString(line, "")
		line = strings.ReplaceAll(line, "/", " ")
		line = strings.ReplaceAll(line, "／", " ")
		for _, name := range strings.Fields(line) {
			if name != "" && name != "-" {
				names[name] = struct{}{}
			}
		}
	}
	return names
}

// BuildDataset 从角色表和卡池表的原始 JSON 构建公招数据。
//
// 数据的下载和缓存由调用方负责，这里只做解析与整形。结构性解析失败返回
// 错误；解析成功但没有任何可招募干员时返回空数据集而非错误。
func BuildDataset(charTableRaw, gachaTableRaw []byte) (*Dataset, error) {
	if !gjson.ValidBytes(charTableRaw) {
		return nil, errors.New("character table is not valid json")
	}
	if !gjson.ValidBytes(gachaTableRaw) {
		return nil, errors.New("gacha table is not valid json")
	}

	charTable := gjson.ParseBytes(charTableRaw)
	gachaTable := gjson.ParseBytes(gachaTableRaw)
	if !charTable.IsObject() || !gachaTable.IsObject() {
		return nil, errors.New("game data tables must be json objects")
	}

	// 合法标签保持卡池表的声明顺序
	var validTags []string
	validTagSet := map[string]struct{}{}
	gachaTable.Get("gachaTags").ForEach(func(_, tag gjson.Result) bool {
		name := tag.Get("tagName").String()
		if name != "" {
			validTags = append(validTags, name)
			validTagSet[name] = struct{}{}
		}
		return true
	})

	recruitPool := parseRecruitPool(gachaTable.Get("recruitDetail").String())

	var operators []Operator
	charTable.ForEach(func(_, charData gjson.Result) bool {
		if !charData.IsObject() {
			return true
		}

		name := charData.Get("name").String()
		if name == "" {
			return true
		}
		if _, ok := recruitPool[name]; !ok {
			return true
		}

		rarity := parseRarity(charData.Get("rarity"))
		if rarity < 0 || rarity > 5 {
			return true
		}

		tags := map[string]struct{}{}
		charData.Get("tagList").ForEach(func(_, tag gjson.Result) bool {
			if tag.Str != "" {
				tags[tag.Str] = struct{}{}
			}
			return true
		})

		// 职业标签
		if profTag, ok := ProfessionTags[charData.Get("profession").String()]; ok {
			tags[profTag] = struct{}{}
		}

		// 位置标签
		switch charData.Get("position").String() {
		case "MELEE":
			tags[TagMelee] = struct{}{}
		case "RANGED":
			tags[TagRanged] = struct{}{}
		}

		// 稀有度标签
		switch rarity {
		case 0:
			tags[TagRobot] = struct{}{}
		case 4:
			tags[TagSeniorOperator] = struct{}{}
		case 5:
			tags[TagTopOperator] = struct{}{}
		}

		operators = append(operators, Operator{
			Name:   name,
			Rarity: rarity,
			Tags:   tags,
		})
		return true
	})

	return &Dataset{
		Operators:   operators,
		ValidTags:   validTags,
		validTagSet: validTagSet,
	}, nil
}
