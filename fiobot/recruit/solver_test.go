package recruit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeOperator(name string, rarity int, tags ...string) Operator {
	tagSet := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tagSet[tag] = struct{}{}
	}
	return Operator{Name: name, Rarity: rarity, Tags: tagSet}
}

// testDataset 一个覆盖各稀有度的小型公招数据
func testDataset() *Dataset {
	return &Dataset{
		Operators: []Operator{
			makeOperator("六星近卫", 5, "高级资深干员", "近卫干员", "近战位", "输出"),
			makeOperator("五星近卫", 4, "资深干员", "近卫干员", "近战位", "输出"),
			makeOperator("四星狙击", 3, "狙击干员", "远程位", "输出"),
			makeOperator("三星近卫", 2, "近卫干员", "近战位", "输出"),
			makeOperator("二星新手", 1, "新手", "近战位"),
			makeOperator("一星小车", 0, "支援机械", "远程位", "治疗"),
		},
		ValidTags: testValidTags,
	}
}

func TestFindCombinationsTopOperatorGate(t *testing.T) {
	ds := testDataset()

	// 不带高资标签时，任何组合都不应出现6★干员
	results := FindCombinations([]string{"近卫干员", "输出"}, ds)
	for _, res := range results {
		for _, op := range res.Operators {
			assert.NotEqual(t, 5, op.Rarity, "combo %v leaked a 6★ operator", res.Tags)
		}
	}

	// 带高资标签时，6★组合保底应为6★
	results = FindCombinations([]string{"高级资深干员", "近卫干员"}, ds)
	assert.NotEmpty(t, results)
	top := results[0]
	assert.Equal(t, 5, top.MinRarity)
	assert.Contains(t, top.Tags, "高级资深干员")
	assert.Equal(t, "六星近卫", top.Operators[0].Name)
}

func TestFindCombinationsValueFilter(t *testing.T) {
	ds := testDataset()

	// 近卫干员 单标签匹配 五星/三星（六星被门槛挡掉），保底3★，无价值
	results := FindCombinations([]string{"近卫干员"}, ds)
	assert.Empty(t, results)

	// 资深干员 单标签只匹配五星，保底5★
	results = FindCombinations([]string{"资深干员"}, ds)
	assert.Len(t, results, 1)
	assert.Equal(t, 4, results[0].MinRarity)

	// 新手 只匹配二星，保底2★，无价值
	results = FindCombinations([]string{"新手"}, ds)
	assert.Empty(t, results)
}

func TestFindCombinationsRobotRule(t *testing.T) {
	ds := testDataset()

	// 支援机械 只匹配一星小车，必出1★，保留
	results := FindCombinations([]string{"支援机械"}, ds)
	assert.Len(t, results, 1)
	assert.Equal(t, 0, results[0].MinRarity)
	assert.Equal(t, []MatchedOperator{{Name: "一星小车", Rarity: 0}}, results[0].Operators)

	// 远程位 单独匹配时混入了四星狙击，不再必出1★，整组丢弃；
	// 治疗 与 远程位+治疗 只匹配一星小车，保留且只报告1★干员
	results = FindCombinations([]string{"远程位", "治疗"}, ds)
	assert.Len(t, results, 2)
	for _, res := range results {
		assert.NotEqual(t, []string{"远程位"}, res.Tags)
		assert.Equal(t, 0, res.MinRarity)
		for _, op := range res.Operators {
			assert.Equal(t, 0, op.Rarity)
		}
	}
}

func TestFindCombinationsSortOrder(t *testing.T) {
	ds := testDataset()

	results := FindCombinations([]string{"高级资深干员", "资深干员", "近卫干员"}, ds)
	assert.NotEmpty(t, results)

	// 保底稀有度从高到低，相同保底时标签更少的组合在前
	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		if prev.MinRarity == cur.MinRarity {
			assert.LessOrEqual(t, len(prev.Tags), len(cur.Tags))
		} else {
			assert.Greater(t, prev.MinRarity, cur.MinRarity)
		}
	}

	// 组合内干员按稀有度从高到低、同稀有度按名字排序
	for _, res := range results {
		for i := 1; i < len(res.Operators); i++ {
			prev, cur := res.Operators[i-1], res.Operators[i]
			if prev.Rarity == cur.Rarity {
				assert.LessOrEqual(t, prev.Name, cur.Name)
			} else {
				assert.Greater(t, prev.Rarity, cur.Rarity)
			}
		}
	}
}

func TestFindCombinationsDeterministic(t *testing.T) {
	ds := testDataset()
	tags := []string{"高级资深干员", "近卫干员", "输出", "近战位"}

	first := FindCombinations(tags, ds)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, FindCombinations(tags, ds))
	}
}

func TestFindCombinationsComboSizeLimit(t *testing.T) {
	ds := testDataset()

	// 5个标签时也只应枚举到3元组合
	results := FindCombinations([]string{"高级资深干员", "近卫干员", "输出", "近战位", "资深干员"}, ds)
	for _, res := range results {
		assert.LessOrEqual(t, len(res.Tags), MaxComboSize)
	}
}

func TestFindCombinationsEdgeCases(t *testing.T) {
	assert.Empty(t, FindCombinations(nil, testDataset()))
	assert.Empty(t, FindCombinations([]string{"高级资深干员"}, nil))
	assert.Empty(t, FindCombinations([]string{"不存在的标签"}, testDataset()))
}

func TestForEachCombination(t *testing.T) {
	var got [][]int
	forEachCombination(4, 2, func(indexes []int) {
		combo := make([]int, len(indexes))
		copy(combo, indexes)
		got = append(got, combo)
	})
	assert.Equal(t, [][]int{
		{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3},
	}, got)
}
