package schema

import "sort"

// Dataset codes of the indexed legal corpora.
const (
	DatasetBNS  = "BNS"
	DatasetBSA  = "BSA"
	DatasetBNSS = "BNSS"
)

// Datasets lists the corpora in priority order. Ties during routing and the
// load fallback walk this order.
var Datasets = []string{DatasetBNS, DatasetBSA, DatasetBNSS}

var datasetNames = map[string]string{
	DatasetBNS:  "Bharatiya Nyaya Sanhita",
	DatasetBSA:  "Bharatiya Sakshya Adhiniyam",
	DatasetBNSS: "Bharatiya Nagarik Suraksha Sanhita",
}

// IsDataset reports whether code names a known corpus.
func IsDataset(code string) bool {
	_, ok := datasetNames[code]
	return ok
}

// DatasetName returns the display name of a corpus, or the code itself when unknown.
func DatasetName(code string) string {
	if name, ok := datasetNames[code]; ok {
		return name
	}
	return code
}

// Language codes.
const (
	LangEnglish = "en"
	LangHindi   = "hi"
	LangNepali  = "ne"
)

var supportedLanguages = map[string]struct{}{
	LangEnglish: {},
	LangHindi:   {},
	LangNepali:  {},
}

func IsSupportedLanguage(lang string) bool {
	_, ok := supportedLanguages[lang]
	return ok
}

// SupportedLanguages returns the language codes sorted.
func SupportedLanguages() []string {
	out := make([]string, 0, len(supportedLanguages))
	for l := range supportedLanguages {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
