package pipeline

import "github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"

// ShortDisclaimer accompanies greeting and no-results responses.
const ShortDisclaimer = "This is for educational purposes, not legal advice."

var greetingText = map[string]string{
	schema.LangEnglish: "Hello! I'm your legal assistant. How can I help you with legal questions today?",
	schema.LangHindi:   "नमस्ते! मैं आपका कानूनी सहायक हूं। आज मैं आपकी कानूनी सवालों में कैसे मदद कर सकता हूं?",
	schema.LangNepali:  "नमस्ते! म तपाईको कानुनी सहायक हुँ। आज म तपाईका कानुनी प्रश्नहरूमा कसरी मद्दत गर्न सक्छु?",
}

var noResultsText = map[string]string{
	schema.LangEnglish: "No relevant results found. Try rephrasing your question.",
	schema.LangHindi:   "कोई प्रासंगिक परिणाम नहीं मिला। अपना प्रश्न फिर से लिखने का प्रयास करें।",
	schema.LangNepali:  "कुनै प्रासंगिक परिणाम फेला परेन। आफ्नो प्रश्न पुन: लेख्ने प्रयास गर्नुहोस्।",
}

var disclaimerText = map[string]string{
	schema.LangEnglish: "This is for educational purposes, not legal advice. Please consult a qualified legal professional for actual legal matters.",
	schema.LangHindi:   "यह शैक्षिक उद्देश्यों के लिए है, कानूनी सलाह नहीं। वास्तविक कानूनी मामलों के लिए कृपया किसी योग्य कानूनी पेशेवर से परामर्श करें।",
	schema.LangNepali:  "यो शैक्षिक उद्देश्यका लागि हो, कानुनी सल्लाह होइन। वास्तविक कानुनी मामिलाहरूका लागि कृपया योग्य कानुनी व्यावसायीको परामर्श लिनुहोस्।",
}

// sectionWord prefixes a bare section number in titles.
var sectionWord = map[string]string{
	schema.LangEnglish: "Section",
	schema.LangHindi:   "धारा",
	schema.LangNepali:  "दफा",
}

func localize(m map[string]string, lang string) string {
	if s, ok := m[lang]; ok {
		return s
	}
	return m[schema.LangEnglish]
}

// GreetingResponse is returned for greetings and very short queries.
func GreetingResponse(lang string) *schema.SearchResponse {
	return &schema.SearchResponse{
		Language:    lang,
		Title:       "Greeting",
		Explanation: localize(greetingText, lang),
		Penalties:   []string{},
		References:  []schema.Reference{},
		Disclaimer:  ShortDisclaimer,
	}
}

// NoResultsResponse is returned when nothing clears the similarity threshold.
func NoResultsResponse(lang string) *schema.SearchResponse {
	return &schema.SearchResponse{
		Language:    lang,
		Explanation: localize(noResultsText, lang),
		Penalties:   []string{},
		References:  []schema.Reference{},
		Disclaimer:  ShortDisclaimer,
	}
}

// Disclaimer returns the full localized disclaimer for answered queries.
func Disclaimer(lang string) string {
	return localize(disclaimerText, lang)
}
