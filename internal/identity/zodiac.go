package identity

import (
	"time"

	"github.com/zarlcorp/zident/internal/refdata"
)

const (
	defaultZodiacSign     = "摩羯座"
	defaultZodiacBaseYear = 1900
)

var defaultZodiacAnimals = []string{"鼠", "牛", "虎", "兔", "龙", "蛇", "马", "羊", "猴", "鸡", "狗", "猪"}

// zodiacSign resolves a birthdate to its western zodiac name. The one
// range that spans the year boundary (Capricorn, Dec 22 – Jan 19) is
// matched by its two half-ranges.
func (g *Generator) zodiacSign(birth time.Time) string {
	month, day := int(birth.Month()), birth.Day()
	for _, s := range g.tables.Rules.Zodiac.Signs {
		if zodiacContains(s, month, day) {
			return s.Name
		}
	}
	if d := g.tables.Rules.Zodiac.DefaultSign; d != "" {
		return d
	}
	return defaultZodiacSign
}

func zodiacContains(s refdata.ZodiacSign, month, day int) bool {
	if s.StartMonth <= s.EndMonth {
		afterStart := month > s.StartMonth || (month == s.StartMonth && day >= s.StartDay)
		beforeEnd := month < s.EndMonth || (month == s.EndMonth && day <= s.EndDay)
		return afterStart && beforeEnd
	}
	// wraps the year boundary
	return (month == s.StartMonth && day >= s.StartDay) ||
		(month == s.EndMonth && day <= s.EndDay)
}

// chineseZodiac returns animals[(year - base) mod 12] over the fixed
// 12-animal cycle. The base year corresponds to the first animal.
func (g *Generator) chineseZodiac(year int) string {
	animals := g.tables.Rules.ChineseZodiac.Animals
	if len(animals) == 0 {
		animals = defaultZodiacAnimals
	}
	base := g.tables.Rules.ChineseZodiac.BaseYear
	if base == 0 {
		base = defaultZodiacBaseYear
	}
	idx := (year - base) % len(animals)
	if idx < 0 {
		idx += len(animals)
	}
	return animals[idx]
}
