package router

import "github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"

// Keywords are matched as substrings of the lowercased query. Each list holds
// English, Hindi and Nepali terms. A term listed twice counts twice.
var Keywords = map[string][]string{
	schema.DatasetBNS: {
		"murder", "theft", "assault", "rape", "kidnapping", "robbery", "criminal", "punishment", "penalty", "offense", "crime", "section", "ipc",
		"हत्या", "चोरी", "हमला", "बलात्कार", "अपहरण", "डकैती", "सजा", "दंड", "अपराध", "धारा",
		"हत्याको लागि", "चोरी गर्नु", "हमला गर्नु", "बलात्कारको", "अपहरणका लागि", "डकैतीको", "सजाय", "दण्ड", "अपराध", "दफा", "मानव तस्करी",
	},
	schema.DatasetBSA: {
		"evidence", "witness", "testimony", "document", "proof", "admission", "confession", "expert", "court", "trial",
		"साक्षी", "गवाही", "दस्तावेज", "सबूत", "स्वीकारोक्ति", "न्यायालय", "मुकदमा",
		"साक्षीहरू", "गवाहीहरू", "कागजातहरू", "प्रमाण", "स्वीकारोक्ति", "न्यायालय", "मुद्दा",
	},
	schema.DatasetBNSS: {
		"procedure", "investigation", "police", "arrest", "bail", "summons", "warrant", "search", "seizure", "crpc", "fir", "complaint", "registration", "appeal",
		"प्रक्रिया", "जांच", "पुलिस", "गिरफ्तारी", "जमानत", "समन", "वारंट", "तलाशी", "कब्जा", "एफआईआर", "शिकायत", "दर्ता", "अपील",
		"प्रक्रिया", "अनुसन्धान", "प्रहरी", "पक्राउ", "जमानत", "समन", "वारेन्ट", "खोज", "जफत", "एफआईआर", "उजुरी", "दर्ता", "अपिल",
	},
}
