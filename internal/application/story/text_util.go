package story

import (
	"regexp"
	"strings"
)

// 模型偶尔会违反"只输出正文"的指令,夹带 Markdown 粗体、标题和分隔线。
// 清洗按固定顺序执行且幂等:对已清洗文本再跑一遍结果不变。
var (
	boldMarkRe       = regexp.MustCompile(`\*\*.*?\*\*`)
	headingLineRe    = regexp.MustCompile(`###.*?\n`)
	separatorLineRe  = regexp.MustCompile(`---\n`)
	trailingNotesRe  = regexp.MustCompile(`(?s)\n\n\n###.*$`)
	excessBlankLines = regexp.MustCompile(`\n{3,}`)
)

// CleanStoryText 剥离模型输出中的 Markdown 痕迹与尾部批注,压缩多余空行。
func CleanStoryText(raw string) string {
	text := trailingNotesRe.ReplaceAllString(raw, "")
	text = boldMarkRe.ReplaceAllString(text, "")
	text = headingLineRe.ReplaceAllString(text, "")
	text = separatorLineRe.ReplaceAllString(text, "")
	text = excessBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
