package slug

import (
	"regexp"
	"strings"
)

// MaxLength slug最大长度
const MaxLength = 50

var nonWordPattern = regexp.MustCompile(`[^a-z0-9_]+`)

// Make 根据名称生成slug
// 规则: 小写 -> 非字母数字下划线字符折叠为"-" -> 合并连续"-" -> 去掉首尾"-" -> 截断到50字符
func Make(name string) string {
	s := strings.ToLower(name)
	s = nonWordPattern.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxLength {
		s = s[:MaxLength]
		s = strings.TrimRight(s, "-")
	}
	return s
}
