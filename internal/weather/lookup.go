// Package weather は静的な観測テーブルに基づく模擬天気検索を提供する。
// 外部の気象データソースには接続しない。
package weather

import (
	"math/rand"
	"strings"
)

// Report は1都市分の気象情報を表す。
type Report struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Temp        int     `json:"temp"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`
	Wind        float64 `json:"wind"`
}

// table は既知都市の観測テーブル。
// 部分一致は宣言順の先勝ちで解決するため、順序に意味がある。
var table = []Report{
	{City: "Tokyo", Country: "Japan", Temp: 18, Description: "晴れ", Humidity: 55, Wind: 3.4},
	{City: "London", Country: "United Kingdom", Temp: 11, Description: "曇り", Humidity: 78, Wind: 5.1},
	{City: "Paris", Country: "France", Temp: 14, Description: "小雨", Humidity: 70, Wind: 4.2},
	{City: "New York", Country: "United States", Temp: 16, Description: "快晴", Humidity: 48, Wind: 6.0},
	{City: "Sydney", Country: "Australia", Temp: 23, Description: "晴れ時々曇り", Humidity: 60, Wind: 7.3},
	{City: "Moscow", Country: "Russia", Temp: 2, Description: "雪", Humidity: 85, Wind: 4.8},
	{City: "Singapore", Country: "Singapore", Temp: 31, Description: "雷雨", Humidity: 88, Wind: 2.6},
	{City: "Berlin", Country: "Germany", Temp: 12, Description: "曇り", Humidity: 72, Wind: 4.5},
}

// syntheticDescriptions は未知都市向けの説明文の候補。
var syntheticDescriptions = []string{"晴れ", "曇り", "小雨", "快晴", "にわか雨"}

// Lookup は都市名に対応する気象情報を返す。
// 照合は小文字化・前後空白除去した名前で行い、完全一致、次に部分一致
// （どちらかがどちらかを含む、テーブル宣言順の先勝ち）の順で解決する。
// どちらにも該当しない場合はrngから合成した情報を返す。
// 合成レポートはCountry="Unknown"、Tempは[5,40)の範囲を取る。
func Lookup(city string, rng *rand.Rand) Report {
	trimmed := strings.TrimSpace(city)
	normalized := strings.ToLower(trimmed)

	for _, r := range table {
		if strings.ToLower(r.City) == normalized {
			return r
		}
	}
	for _, r := range table {
		name := strings.ToLower(r.City)
		if strings.Contains(name, normalized) || strings.Contains(normalized, name) {
			return r
		}
	}

	return Report{
		City:        trimmed,
		Country:     "Unknown",
		Temp:        5 + rng.Intn(35),
		Description: syntheticDescriptions[rng.Intn(len(syntheticDescriptions))],
		Humidity:    30 + rng.Intn(60),
		Wind:        float64(rng.Intn(100)) / 10.0,
	}
}
