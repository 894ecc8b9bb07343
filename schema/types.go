package schema

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Section is one numbered provision inside an index entry.
type Section struct {
	SectionNo FlexString `json:"section_no"`
	Title     string     `json:"title,omitempty"`
	Text      string     `json:"text,omitempty"`
}

// Metadata describes the legal unit behind one index row. ID has the form
// <source>_ch<chapter>_sec<section> when present.
type Metadata struct {
	ID           string     `json:"id,omitempty"`
	Source       string     `json:"source,omitempty"`
	Title        string     `json:"title,omitempty"`
	Type         string     `json:"type,omitempty"`
	ChapterTitle string     `json:"chapter_title,omitempty"`
	ChapterNo    FlexString `json:"chapter_no,omitempty"`
	Penalties    []string   `json:"penalties,omitempty"`
	Sections     []Section  `json:"sections,omitempty"`
}

// FirstSectionNo returns the number of the first section that has one.
func (m Metadata) FirstSectionNo() string {
	for _, s := range m.Sections {
		if no := strings.TrimSpace(string(s.SectionNo)); no != "" {
			return no
		}
	}
	return ""
}

// SectionText joins the non-empty section texts with single spaces.
func (m Metadata) SectionText() string {
	texts := make([]string, 0, len(m.Sections))
	for _, s := range m.Sections {
		if s.Text != "" {
			texts = append(texts, s.Text)
		}
	}
	return strings.Join(texts, " ")
}

// IndexEntry is one retrievable row of a dataset index.
type IndexEntry struct {
	Text      string
	Metadata  Metadata
	Embedding []float64
}

// AnswerCandidate is an extracted answer with the document it came from.
type AnswerCandidate struct {
	Text       string   `json:"answer"`
	Confidence float64  `json:"confidence"`
	DocIndex   int      `json:"doc_index"`
	Metadata   Metadata `json:"metadata"`
	Context    string   `json:"context,omitempty"`
}

type Reference struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Section    string  `json:"section"`
	Source     string  `json:"source"`
	SourceName string  `json:"source_name"`
	Type       string  `json:"type"`
	Score      float64 `json:"score"`
	Chapter    string  `json:"chapter"`
}

// ChatRequest is the inbound question.
type ChatRequest struct {
	Query    string `json:"query"`
	Language string `json:"language"`
}

// SearchResponse is the answer returned to clients.
type SearchResponse struct {
	Language    string      `json:"language"`
	Title       string      `json:"title"`
	Explanation string      `json:"explanation"`
	Penalties   []string    `json:"penalties"`
	References  []Reference `json:"references"`
	Disclaimer  string      `json:"disclaimer"`
	SourceCode  string      `json:"source_code"`
	SourceName  string      `json:"source_name"`
}

// FlexString accepts a JSON string or number. Index builders emit section and
// chapter numbers either way.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }
