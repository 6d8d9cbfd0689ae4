package markdown

import (
	"errors"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday"
)

var (
	// ErrEmptyContent 内容不能为空
	ErrEmptyContent = errors.New("内容不能为空")

	policy = buildPolicy()
)

// buildPolicy 构建HTML白名单策略
// 白名单之外的标签被剥离（保留文本内容），href协议仅允许http/https/mailto
func buildPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "strong", "em", "u", "s", "strike", "del", "ins",
		"a", "ul", "ol", "li", "blockquote", "pre", "code", "hr",
		"h1", "h2", "h3", "h4", "h5", "h6", "img",
	)

	// 任意白名单标签上允许的通用属性
	p.AllowAttrs("class", "style", "id", "title").Globally()

	// a标签专属属性
	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")

	// img标签专属属性
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")

	return p
}

// Sanitize 按白名单策略净化HTML
// 幂等: Sanitize(Sanitize(x)) == Sanitize(x)
func Sanitize(raw string) string {
	return policy.Sanitize(raw)
}

// Render 将Markdown渲染为净化后的HTML
func Render(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	unsafe := blackfriday.MarkdownCommon([]byte(content))
	return Sanitize(string(unsafe)), nil
}

// ToMarkdown 将已存储的HTML转换回Markdown，用于编辑表单回显
func ToMarkdown(htmlContent string) (string, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return "", ErrEmptyContent
	}
	converter := md.NewConverter("", true, nil)
	return converter.ConvertString(htmlContent)
}

// Excerpt 提取HTML的纯文本摘要，用于通知预览
func Excerpt(htmlContent string, limit int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}
	text := strings.Join(strings.Fields(doc.Text()), " ")
	if limit > 0 {
		runes := []rune(text)
		if len(runes) > limit {
			text = string(runes[:limit]) + "…"
		}
	}
	return text
}
