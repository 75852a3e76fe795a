package query

// PriceBand は左閉右開の価格帯です。Upper < 0 は上限なしを意味します。
type PriceBand struct {
	Label string
	Lower float64
	Upper float64
}

// PriceBands は価格帯ヒストグラムの固定バケット定義です。
// 全バケットで [0,∞) を網羅し、互いに重なりません。ラベルは辞書順が
// 数値順と一致するように選ばれています（ASCIIでは数字が英字より前に並ぶ）。
var PriceBands = []PriceBand{
	{Label: "0-100", Lower: 0, Upper: 100},
	{Label: "100-500", Lower: 100, Upper: 500},
	{Label: "500-1000", Lower: 500, Upper: 1000},
	{Label: "Over 1000", Lower: 1000, Upper: -1},
}

// BandLabel は価格が属するバケットのラベルを返します。
// Price >= 0 の銘柄はちょうど1つのバケットに収まります。
func BandLabel(price float64) string {
	for _, b := range PriceBands {
		if price >= b.Lower && (b.Upper < 0 || price < b.Upper) {
			return b.Label
		}
	}
	// 負の価格はストア制約上存在しないが、先頭バケットに寄せる
	return PriceBands[0].Label
}

// PriceBandCaseSQL は価格帯ラベルを選択するSQLのCASE式です。
// バケット定義と同じ境界を共有します。
const PriceBandCaseSQL = "CASE WHEN price < 100 THEN '0-100' " +
	"WHEN price < 500 THEN '100-500' " +
	"WHEN price < 1000 THEN '500-1000' " +
	"ELSE 'Over 1000' END"
