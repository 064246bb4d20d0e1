package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for attribute error codes.
// data provides optional values substituted into the message ({expected},
// {index}, {value}).
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"required":      "required attribute missing",
		"invalid_type":  "invalid value {value}, expected {expected}",
		"unknown_key":   "unknown attribute",
		"validator":     "validator rejected value {value}",
		"null":          "null is not allowed for a required attribute",
		"not_array":     "expected an array, got {value}",
		"nested":        "nested schema {expected} rejected the value",
		"duplicate_key": "duplicate key",
		"parse_error":   "parse error",
	},
	"ja": {
		"required":      "必須属性が不足しています",
		"invalid_type":  "値 {value} は不正です ({expected} が必要です)",
		"unknown_key":   "未知の属性です",
		"validator":     "値 {value} はバリデータに拒否されました",
		"null":          "必須属性に null は指定できません",
		"not_array":     "配列が必要です ({value})",
		"nested":        "ネストしたスキーマ {expected} が値を拒否しました",
		"duplicate_key": "キーが重複しています",
		"parse_error":   "解析エラー",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). A nil Translator restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
