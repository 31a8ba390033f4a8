package recruit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testCharTable = `{
	"char_002_amiya": {
		"name": "阿米娅",
		"rarity": "TIER_5",
		"profession": "CASTER",
		"position": "RANGED",
		"tagList": ["输出", "群攻"]
	},
	"char_285_medic2": {
		"name": "Lancet-2",
		"rarity": "TIER_1",
		"profession": "MEDIC",
		"position": "RANGED",
		"tagList": ["治疗"]
	},
	"char_123_fang": {
		"name": "芬",
		"rarity": 2,
		"profession": "PIONEER",
		"position": "MELEE",
		"tagList": ["费用回复"]
	},
	"char_188_helage": {
		"name": "赫拉格",
		"rarity": "TIER_6",
		"profession": "WARRIOR",
		"position": "MELEE",
		"tagList": ["输出", "生存"]
	},
	"char_340_shwaz": {
		"name": "黑",
		"rarity": "TIER_6",
		"profession": "SNIPER",
		"position": "RANGED",
		"tagList": ["输出"]
	},
	"char_999_bad": {
		"name": "异常稀有度",
		"rarity": "TIER_9",
		"profession": "SNIPER",
		"position": "RANGED",
		"tagList": ["输出"]
	}
}`

const testGachaTable = `{
	"gachaTags": [
		{"tagId": 1, "tagName": "新手"},
		{"tagId": 11, "tagName": "高级资深干员"},
		{"tagId": 14, "tagName": "资深干员"},
		{"tagId": 28, "tagName": "支援机械"},
		{"tagId": 9, "tagName": "近战位"},
		{"tagId": 10, "tagName": "远程位"},
		{"tagId": 2, "tagName": "治疗"},
		{"tagId": 3, "tagName": "输出"}
	],
	"recruitDetail": "<@rc.em>★</>\\nLancet-2\\n<@rc.em>★★★</>\\n芬 / 异常稀有度\\n<@rc.em>★★★★★</>\\n阿米娅\\n<@rc.em>★★★★★★</>\\n赫拉格／黑 / -"
}`

func TestBuildDataset(t *testing.T) {
	ds, err := BuildDataset([]byte(testCharTable), []byte(testGachaTable))
	assert.NoError(t, err)

	// 合法标签保持卡池表声明顺序
	assert.Equal(t, []string{"新手", "高级资深干员", "资深干员", "支援机械", "近战位", "远程位", "治疗", "输出"}, ds.ValidTags)
	assert.True(t, ds.IsValidTag("高级资深干员"))
	assert.False(t, ds.IsValidTag("不存在"))

	// TIER_9 属于无法识别的稀有度，被跳过
	assert.Len(t, ds.Operators, 5)

	byName := map[string]Operator{}
	for _, op := range ds.Operators {
		byName[op.Name] = op
	}

	// TIER_X 与数字两种稀有度编码
	assert.Equal(t, 4, byName["阿米娅"].Rarity)
	assert.Equal(t, 2, byName["芬"].Rarity)
	assert.Equal(t, 0, byName["Lancet-2"].Rarity)
	assert.Equal(t, 5, byName["赫拉格"].Rarity)

	// 职业/位置/稀有度派生标签
	amiya := byName["阿米娅"]
	assert.True(t, amiya.HasTag("术师干员"))
	assert.True(t, amiya.HasTag("远程位"))
	assert.True(t, amiya.HasTag("资深干员"))
	assert.True(t, amiya.HasTag("输出"))
	assert.False(t, amiya.HasTag("高级资深干员"))

	helage := byName["赫拉格"]
	assert.True(t, helage.HasTag("高级资深干员"))
	assert.True(t, helage.HasTag("近卫干员"))
	assert.True(t, helage.HasTag("近战位"))

	lancet := byName["Lancet-2"]
	assert.True(t, lancet.HasTag("支援机械"))
	assert.True(t, lancet.HasTag("医疗干员"))
}

func TestBuildDatasetRejectsInvalidJSON(t *testing.T) {
	_, err := BuildDataset([]byte("not json"), []byte(testGachaTable))
	assert.Error(t, err)

	_, err = BuildDataset([]byte(testCharTable), []byte("{broken"))
	assert.Error(t, err)

	// 结构合法但不是对象
	_, err = BuildDataset([]byte(`[1,2,3]`), []byte(testGachaTable))
	assert.Error(t, err)
}

func TestBuildDatasetEmptyPool(t *testing.T) {
	// 卡池为空时返回空数据集而不是错误
	ds, err := BuildDataset([]byte(testCharTable), []byte(`{"gachaTags": [], "recruitDetail": ""}`))
	assert.NoError(t, err)
	assert.Empty(t, ds.Operators)
	assert.Empty(t, ds.ValidTags)
}

func TestParseRecruitPool(t *testing.T) {
	// 星标行与富文本标记行跳过、斜杠拆分、占位符丢弃
	names := parseRecruitPool("<@rc.em>★</>\n★\n干员A/干员B\n\n★★\n干员C ／ -")
	assert.Equal(t, map[string]struct{}{
		"干员A": {}, "干员B": {}, "干员C": {},
	}, names)
}
