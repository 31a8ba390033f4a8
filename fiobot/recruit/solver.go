package recruit

import "sort"

// MaxComboSize 公招一次最多可以勾选的标签数
const MaxComboSize = 3

// MatchedOperator 一个组合下匹配到的干员
type MatchedOperator struct {
	Name   string
	Rarity int
}

// Combination 一个有价值的标签组合及其匹配结果
type Combination struct {
	Tags      []string          // 组合标签，保持用户输入顺序
	Operators []MatchedOperator // 匹配干员，按稀有度从高到低
	MinRarity int               // 最低保底稀有度（0-based）
}

// FindCombinations 计算所有有价值的标签组合及匹配干员。
//
// 枚举用户标签的 1~MaxComboSize 元组合，对每个组合收集标签集包含它的
// 全部干员，再按价值规则过滤：
//   - 6★ 保护：组合不含"高级资深干员"时不计入6★干员；
//   - 只保留保底 4★+ 的组合，跳过保底 2★/3★ 的组合；
//   - 1★ 组合仅在必出时保留（所有匹配干员都是1★），且只报告1★干员。
//
// 结果按最低保底稀有度从高到低排序，相同保底时标签少的组合在前。
func FindCombinations(userTags []string, ds *Dataset) []Combination {
	var results []Combination
	if ds == nil {
		return results
	}

	maxSize := MaxComboSize
	if len(userTags) < maxSize {
		maxSize = len(userTags)
	}

	for size := 1; size <= maxSize; size++ {
		forEachCombination(len(userTags), size, func(indexes []int) {
			combo := make([]string, 0, size)
			for _, idx := range indexes {
				combo = append(combo, userTags[idx])
			}

			matched := matchOperators(combo, ds)
			if len(matched) == 0 {
				return
			}

			minRarity, maxRarity := rarityRange(matched)

			// 保底 2★/3★ 不是有效信号，跳过
			if minRarity == 1 || minRarity == 2 {
				return
			}

			// 1★ 组合仅在必出时保留
			if minRarity == 0 {
				if maxRarity > 0 {
					return
				}
				matched = keepLowestRarity(matched)
			}

			sort.Slice(matched, func(i, j int) bool {
				if matched[i].Rarity != matched[j].Rarity {
					return matched[i].Rarity > matched[j].Rarity
				}
				return matched[i].Name < matched[j].Name
			})

			results = append(results, Combination{
				Tags:      combo,
				Operators: matched,
				MinRarity: minRarity,
			})
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MinRarity != results[j].MinRarity {
			return results[i].MinRarity > results[j].MinRarity
		}
		return len(results[i].Tags) < len(results[j].Tags)
	})

	return results
}

// matchOperators 收集标签集包含该组合全部标签的干员，并应用6★保护
func matchOperators(combo []string, ds *Dataset) []MatchedOperator {
	comboHasTop := false
	for _, tag := range combo {
		if tag == TagTopOperator {
			comboHasTop = true
			break
		}
	}

	var matched []MatchedOperator
	for i := range ds.Operators {
		op := &ds.Operators[i]

		if op.Rarity == 5 && !comboHasTop {
			continue
		}

		containsAll := true
		for _, tag := range combo {
			if !op.HasTag(tag) {
				containsAll = false
				break
			}
		}
		if !containsAll {
			continue
		}

		matched = append(matched, MatchedOperator{Name: op.Name, Rarity: op.Rarity})
	}
	return matched
}

func rarityRange(matched []MatchedOperator) (minRarity, maxRarity int) {
	minRarity, maxRarity = matched[0].Rarity, matched[0].Rarity
	for _, m := range matched[1:] {
		if m.Rarity < minRarity {
			minRarity = m.Rarity
		}
		if m.Rarity > maxRarity {
			maxRarity = m.Rarity
		}
	}
	return minRarity, maxRarity
}

func keepLowestRarity(matched []MatchedOperator) []MatchedOperator {
	kept := matched[:0]
	for _, m := range matched {
		if m.Rarity == 0 {
			kept = append(kept, m)
		}
	}
	return kept
}

// forEachCombination 按字典序枚举 [0,n) 的全部 k 元组合
func forEachCombination(n, k int, visit func(indexes []int)) {
	if k <= 0 || k > n {
		return
	}

	indexes := make([]int, k)
	for i := range indexes {
		indexes[i] = i
	}

	for {
		visit(indexes)

		// 找到可以进位的位置
		pos := k - 1
		for pos >= 0 && indexes[pos] == n-k+pos {
			pos--
		}
		if pos < 0 {
			return
		}
		indexes[pos]++
		for i := pos + 1; i < k; i++ {
			indexes[i] = indexes[i-1] + 1
		}
	}
}
