package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"简单小写", "Hello World", "hello-world"},
		{"连续分隔符合并", "a  --  b", "a-b"},
		{"首尾分隔符去除", "  -hello-  ", "hello"},
		{"下划线保留", "snake_case_name", "snake_case_name"},
		{"标点替换", "C++ & Go!", "c-go"},
		{"数字保留", "top 10 posts", "top-10-posts"},
		{"空串", "", ""},
		{"纯符号", "!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestMakeTruncates(t *testing.T) {
	long := strings.Repeat("word ", 30)
	got := Make(long)
	assert.LessOrEqual(t, len(got), MaxLength)
	// 截断后不留悬挂的连字符
	assert.False(t, strings.HasSuffix(got, "-"))
}
