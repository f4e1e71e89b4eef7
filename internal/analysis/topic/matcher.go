package topic

import "strings"

// DefaultKeywords 是护发领域的兜底关键词，用于模型分类不可用时的判断。
var DefaultKeywords = []string{
	"hair", "scalp", "shampoo", "conditioner", "dandruff", "baldness",
	"hair loss", "hair growth", "hair care", "hair treatment", "hair style",
	"hair type", "hair health", "hair products", "hair routine", "hair tips",
	"hair advice", "hair maintenance", "hair problems", "hair solutions",
}

// Match 判断消息是否包含任一关键词（忽略大小写的子串匹配）。
func Match(message string, keywords []string) bool {
	normalized := strings.ToLower(message)
	if strings.TrimSpace(normalized) == "" {
		return false
	}

	for _, word := range keywords {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		if strings.Contains(normalized, word) {
			return true
		}
	}
	return false
}
