// Package sanitize 文本字段清洗与输出转义
package sanitize

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/cast"
)

// MaxTextLength 文本字段最大字符数（按rune计）
const MaxTextLength = 255

// strict 不允许任何标签，script/style等元素连同内容一起丢弃
// bluemonday.Policy并发安全，可以全局复用
var strict = bluemonday.StrictPolicy()

// Text 清洗单行文本字段
// 处理顺序：
// 1. 丢弃非法UTF-8字节
// 2. 去除全部HTML标签（不解码用户输入的实体）
// 3. 换行、制表符及连续空白折叠为单个空格，去掉首尾空白
// 4. 截断到MaxTextLength个字符
func Text(s string) string {
	s = strings.ToValidUTF8(s, "")
	if strings.Contains(s, "<") {
		// 先转义&，用户输入的实体（如&amp;、&lt;）原样保留；
		// bluemonday输出是转义后的HTML，还原成纯文本再入库，输出时统一转义
		s = strings.ReplaceAll(s, "&", "&amp;")
		s = html.UnescapeString(strict.Sanitize(s))
	}
	s = strings.Join(strings.Fields(s), " ")
	return Truncate(s, MaxTextLength)
}

// Truncate 按字符数截断（不会截断多字节字符）
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max]))
}

// Year 将年份转换为非负整数（绝对值）
func Year(year int) int {
	if year < 0 {
		return -year
	}
	return year
}

// Int 宽松的十进制整数转换
// 只取开头的[+-]?\d+部分（"1965abc"得1965），前导零不按八进制处理，
// 没有数字前缀或溢出时返回0
func Int(s string) int {
	s = strings.TrimSpace(s)

	start := 0
	if start < len(s) && (s[0] == '+' || s[0] == '-') {
		start++
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	digits := strings.TrimLeft(s[start:end], "0")
	if digits == "" {
		return 0
	}
	n, err := cast.ToIntE(s[:start] + digits)
	if err != nil {
		return 0
	}
	return n
}

// ID 将表单或路径中的ID转换为非负整数，规则同Int后取绝对值
func ID(s string) uint {
	n := Int(s)
	if n < 0 {
		n = -n
	}
	return uint(n)
}

// EscapeHTML 输出到HTML上下文前的转义
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}
