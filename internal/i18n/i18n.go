// Package i18n holds the user-facing message catalogs. English is complete;
// other locales overlay it and fall back to English per key.
package i18n

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// localeEnv lists the variables consulted by DetectLocale, in order.
var localeEnv = []string{"TODO_LANG", "LC_ALL", "LC_MESSAGES", "LANG"}

// catalogs maps a normalized locale to its messages. Catalogs are never
// written after package init, so lookups need no locking.
var catalogs = map[string]map[string]string{
	"en":    EnMessages,
	"zh-CN": ZhCNMessages,
}

// I18n 某一语言的只读消息表
// I18n is a read-only view of one locale's messages
type I18n struct {
	locale   string
	messages map[string]string
}

var (
	global     *I18n
	globalOnce sync.Once
)

// Global 返回按环境变量检测的实例
// Global returns the instance for the locale detected from the environment
func Global() *I18n {
	globalOnce.Do(func() {
		global = New("")
	})
	return global
}

// New 创建 i18n 实例；空 locale 按环境检测
// New creates an instance; a blank locale is detected from the environment
func New(locale string) *I18n {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DetectLocale()
	}
	locale = normalizeLocale(locale)
	return &I18n{locale: locale, messages: catalogs[locale]}
}

// T 翻译；缺失的键先回退英文，再回退为键本身
// T translates key, falling back to English and then to the key itself
func (i *I18n) T(key string, args ...any) string {
	tmpl, ok := i.messages[key]
	if !ok {
		tmpl, ok = EnMessages[key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// Locale returns the normalized locale, which may have no catalog of its own.
func (i *I18n) Locale() string {
	return i.locale
}

// DetectLocale 从环境变量检测 locale，默认 en
// DetectLocale reads the locale from the environment, defaulting to en
func DetectLocale() string {
	for _, env := range localeEnv {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" && v != "C" && v != "POSIX" {
			return normalizeLocale(v)
		}
	}
	return "en"
}

func normalizeLocale(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "en"
	}
	// 去掉 .UTF-8 等后缀 / Drop the .UTF-8 style suffix
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.ReplaceAll(s, "_", "-")
	lower := strings.ToLower(s)

	switch {
	case strings.HasPrefix(lower, "zh"):
		return "zh-CN"
	case strings.HasPrefix(lower, "en"):
		return "en"
	}
	return s
}
