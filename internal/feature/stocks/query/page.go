package query

const (
	// DefaultPageSize はページサイズ未指定時の件数です。
	DefaultPageSize = 10
	// MaxPageSize は1ページあたりの最大件数です。
	MaxPageSize = 100
)

// Page はページ番号とページサイズの組です。
type Page struct {
	Number int
	Size   int
}

// Normalize は範囲外の値を安全な既定値へ丸めた新しいPageを返します。
// Number < 1 は 1 に、Size < 1 は DefaultPageSize に、
// Size > MaxPageSize は MaxPageSize に丸められます。
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset はスキップするレコード数を返します。
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages は総件数から総ページ数（ceil(total/size)）を計算します。
func (p Page) TotalPages(totalCount int64) int {
	if p.Size < 1 {
		return 0
	}
	return int((totalCount + int64(p.Size) - 1) / int64(p.Size))
}
