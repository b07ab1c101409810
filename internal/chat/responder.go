// Package chat は定型文によるチャット応答を提供する。
// 入力メッセージの内容は応答の選択に影響しない。
package chat

import "math/rand"

// cannedReplies は応答文の固定セット。一様ランダムに1つ選ばれる。
var cannedReplies = []string{
	"なるほど、もう少し詳しく教えてください。",
	"それは面白い視点ですね。",
	"メモに残しておくと良さそうです。",
	"今日のタスクに追加してみてはどうでしょう。",
	"いいですね。他に気になることはありますか？",
	"了解しました！",
}

// Reply は定型文セットから一様ランダムに応答を1つ返す。
// 乱数源を引数に取るため、シード固定で決定的にテストできる。
func Reply(rng *rand.Rand) string {
	return cannedReplies[rng.Intn(len(cannedReplies))]
}

// Replies は定型文セットのコピーを返す。テスト用。
func Replies() []string {
	out := make([]string, len(cannedReplies))
	copy(out, cannedReplies)
	return out
}
