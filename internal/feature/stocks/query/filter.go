// Package query は銘柄コレクションに対するフィルタ・ソート・検索・ページング条件を
// 合成可能なGORMスコープとして構築します。条件の構築は純粋でストアには触れません。
package query

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Filter は銘柄の絞り込み条件です。未設定のフィールドは制約を課しません。
// 設定された条件はすべて論理ANDで合成されます。
type Filter struct {
	Symbol        string     // Symbolの部分一致
	CompanyName   string     // CompanyNameの部分一致
	MinPrice      *float64   // 価格下限（両端含む）
	MaxPrice      *float64   // 価格上限（両端含む）
	UpdatedAfter  *time.Time // LastUpdated下限（両端含む）
	UpdatedBefore *time.Time // LastUpdated上限（両端含む）
	HasComment    *bool      // true: コメント1件以上 / false: コメント0件
}

// IsZero はフィルタが何の制約も課さないことを報告します。
func (f Filter) IsZero() bool {
	return f.Symbol == "" && f.CompanyName == "" &&
		f.MinPrice == nil && f.MaxPrice == nil &&
		f.UpdatedAfter == nil && f.UpdatedBefore == nil &&
		f.HasComment == nil
}

// Scope はフィルタをGORMスコープに変換します。ゼロ値のフィルタは恒等スコープ
// （全件一致）になります。MinPrice > MaxPrice の場合はエラーではなく
// 単に何にも一致しない条件になります。
func (f Filter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Symbol != "" {
			db = db.Where("symbol LIKE ? ESCAPE '\\'", containsPattern(f.Symbol))
		}
		if f.CompanyName != "" {
			db = db.Where("company_name LIKE ? ESCAPE '\\'", containsPattern(f.CompanyName))
		}
		if f.MinPrice != nil {
			db = db.Where("price >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			db = db.Where("price <= ?", *f.MaxPrice)
		}
		if f.UpdatedAfter != nil {
			db = db.Where("last_updated >= ?", *f.UpdatedAfter)
		}
		if f.UpdatedBefore != nil {
			db = db.Where("last_updated <= ?", *f.UpdatedBefore)
		}
		if f.HasComment != nil {
			if *f.HasComment {
				db = db.Where("EXISTS (SELECT 1 FROM comments WHERE comments.stock_id = stocks.id)")
			} else {
				db = db.Where("NOT EXISTS (SELECT 1 FROM comments WHERE comments.stock_id = stocks.id)")
			}
		}
		return db
	}
}

// containsPattern は部分一致用のLIKEパターンを生成します。
// 値に含まれるワイルドカードをエスケープし、純粋な包含一致に保ちます。
func containsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}

// escapeLike はLIKEメタ文字（% _ \）をエスケープします。
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
