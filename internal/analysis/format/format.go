package format

import (
	"regexp"
	"strings"
)

// Bullet 是统一后的列表符号。
const Bullet = "•"

var sentenceBreak = regexp.MustCompile(`([.!?])[ \t]*([A-Z])`)

// Response 将模型原始输出整理为前端展示用的统一格式。
// 该函数是幂等的：对已格式化的文本再次调用结果不变。
func Response(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = normalizeLine(line)
	}

	lines = collapseBlankLines(lines)

	text := strings.Join(lines, "\n")
	text = sentenceBreak.ReplaceAllString(text, "$1\n$2")
	return strings.TrimSpace(text)
}

// normalizeLine 去掉强调符号、统一列表符号并压缩行内空白。
func normalizeLine(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}

	bullet := false
	if fields[0] == "*" {
		bullet = true
		fields = fields[1:]
	}

	fields = strings.Fields(strings.ReplaceAll(strings.Join(fields, " "), "*", ""))
	if !bullet && len(fields) > 0 && isBulletMarker(fields[0]) {
		bullet = true
		fields = fields[1:]
	}

	text := strings.Join(fields, " ")
	if !bullet {
		return text
	}
	if text == "" {
		return Bullet
	}
	return Bullet + " " + text
}

func isBulletMarker(token string) bool {
	return token == "-" || token == Bullet
}

// collapseBlankLines 处理空行：连续两个及以上空行直接去掉；
// 单个空行在句末之后或列表项之前同样去掉，其余保留。
func collapseBlankLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); {
		if lines[i] != "" {
			out = append(out, lines[i])
			i++
			continue
		}

		j := i
		for j < len(lines) && lines[j] == "" {
			j++
		}
		run := j - i
		i = j

		if run > 1 || len(out) == 0 || j >= len(lines) {
			continue
		}
		if endsSentence(out[len(out)-1]) || strings.HasPrefix(lines[j], Bullet) {
			continue
		}
		out = append(out, "")
	}
	return out
}

func endsSentence(line string) bool {
	if line == "" {
		return false
	}
	switch line[len(line)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}
