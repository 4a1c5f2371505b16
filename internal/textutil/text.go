// Package textutil 提供文本清洗与展示相关的小工具。
package textutil

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags 结束时需要换行的块级元素。
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "table": true, "section": true, "article": true,
}

// PlainText 去除 HTML 标签，只保留可见文本；script/style 内容整体丢弃。
// 输入不含标签时保留原有换行与空白，只解码实体并去掉首尾空白。
func PlainText(input string) string {
	trimmed := strings.TrimSpace(input)
	if !strings.ContainsAny(trimmed, "<&") {
		return trimmed
	}

	tokenizer := html.NewTokenizer(strings.NewReader(trimmed))
	var b strings.Builder
	skip := 0
	sawTag := false
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if !sawTag {
				return strings.TrimSpace(b.String())
			}
			return collapse(b.String())
		case html.StartTagToken:
			sawTag = true
			name, _ := tokenizer.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				skip++
			}
			if tag == "br" {
				b.WriteString("\n")
			}
		case html.EndTagToken:
			sawTag = true
			name, _ := tokenizer.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
			if blockTags[tag] {
				b.WriteString("\n")
			}
		case html.SelfClosingTagToken:
			sawTag = true
			name, _ := tokenizer.TagName()
			if string(name) == "br" {
				b.WriteString("\n")
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(tokenizer.Text())
			}
		}
	}
}

// collapse 合并行内空白并去掉空行。
func collapse(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Humanize 把 snake_case 值转换为首字母大写的展示文本，如 interview_called -> Interview Called。
func Humanize(value string) string {
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, " ")
}

// Normalize 去掉首尾空白并转为小写，用于枚举值与标签比较。
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
