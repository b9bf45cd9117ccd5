package oracle

import (
	"errors"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")

// extractJSONCandidate 从模型输出中剥离可能存在的markdown围栏和多余文字。
// 模型被要求只输出JSON，但实际输出并不总是守规矩。
func extractJSONCandidate(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("模型返回了空响应")
	}

	if strings.HasPrefix(text, "```") {
		if match := fencePattern.FindStringSubmatch(text); len(match) > 1 {
			text = strings.TrimSpace(match[1])
		}
	}

	// 截取首个 '{' 到末尾最后一个 '}' 之间的内容，容忍前后缀噪声
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", errors.New("模型响应中不包含JSON对象")
	}

	return text[start : end+1], nil
}
