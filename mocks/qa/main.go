package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/answer"
)

type qaReq struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaResp struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
}

// extract returns the sentence sharing the most tokens with the question,
// scored by the share of question tokens it covers.
func extract(question, context string) qaResp {
	q := answer.Tokens(question)
	best := qaResp{}
	if len(q) == 0 {
		return best
	}
	for _, sentence := range strings.FieldsFunc(context, func(r rune) bool { return r == '.' || r == '।' || r == '\n' }) {
		sentence = strings.TrimSpace(sentence)
		hit := 0
		for tok := range answer.Tokens(sentence) {
			if _, ok := q[tok]; ok {
				hit++
			}
		}
		if score := float64(hit) / float64(len(q)); score > best.Score {
			best = qaResp{Answer: sentence, Score: score}
		}
	}
	return best
}

func handleQA(w http.ResponseWriter, r *http.Request) {
	var req qaReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(extract(req.Question, req.Context))
}

func main() {
	addr := ":8083"
	if v := os.Getenv("QA_ADDR"); v != "" {
		addr = v
	}
	http.HandleFunc("/qa", handleQA)
	log.Printf("QA mock listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}
