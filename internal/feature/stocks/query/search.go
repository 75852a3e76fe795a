package query

import "gorm.io/gorm"

// SearchScope はフリーテキスト検索のスコープを返します。
// SymbolまたはCompanyNameにtermを含む銘柄に一致します（OR合成）。
func SearchScope(term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		p := containsPattern(term)
		return db.Where("symbol LIKE ? ESCAPE '\\' OR company_name LIKE ? ESCAPE '\\'", p, p)
	}
}

// SymbolPatternScope はSQL LIKE形式のワイルドカード（% = 任意の文字列、
// _ = 任意の1文字）をSymbolに対してそのまま適用するスコープを返します。
// パターンはエスケープせず呼び出し側の指定どおりに渡します。
func SymbolPatternScope(pattern string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("symbol LIKE ?", pattern)
	}
}
