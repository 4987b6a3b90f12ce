package challenge

// wordList is the closed set of all-uppercase safety-themed words the word
// challenge draws from. Spec leaves the exact contents open provided the
// list is closed and has at least 8 entries; kept deliberately short so the
// typing challenge stays quick for a human under time pressure.
var wordList = []string{
	"CONFIRM",
	"PROCEED",
	"DESTROY",
	"DELETE",
	"CAUTION",
	"DANGER",
	"VERIFY",
	"APPROVE",
	"IRREVERSIBLE",
	"OVERRIDE",
}

func pickWord(roll func(n int) int) string {
	return wordList[roll(len(wordList))]
}
