package query

import (
	"strings"

	"gorm.io/gorm"
)

// Ordering は銘柄コレクション上の全順序です。常にid昇順のタイブレークを
// 持つため、ページングは決定的になります。
type Ordering struct {
	column     string
	descending bool
}

// sortColumns はソートキーの許可リストです。キーはここに列挙された
// クローズドな集合に限られ、文字列から直接SQLが組まれることはありません。
var sortColumns = map[string]string{
	"symbol":      "symbol",
	"companyname": "company_name",
	"price":       "price",
	"lastupdated": "last_updated",
}

// ResolveOrdering はソートキー名（大文字小文字を区別しない）と方向から
// Orderingを解決します。未知のキーや空文字はエラーにせず、descendingの
// 指定に関わらずid昇順へフォールバックします。
func ResolveOrdering(sortBy string, descending bool) Ordering {
	column, ok := sortColumns[strings.ToLower(strings.TrimSpace(sortBy))]
	if !ok {
		return Ordering{column: "id"}
	}
	return Ordering{column: column, descending: descending}
}

// Column はソート対象の列名を返します。
func (o Ordering) Column() string {
	if o.column == "" {
		return "id"
	}
	return o.column
}

// Descending はソート方向を報告します。
func (o Ordering) Descending() bool { return o.descending }

// Scope はOrderingをGORMスコープに変換します。主キー列以外でソートする場合は
// id昇順を第2キーとして付加します。
func (o Ordering) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column := o.Column()
		direction := "ASC"
		if o.descending {
			direction = "DESC"
		}
		db = db.Order(column + " " + direction)
		if column != "id" {
			db = db.Order("id ASC")
		}
		return db
	}
}
