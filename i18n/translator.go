package i18n

import "sync/atomic"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "min").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg := t.lookup(code)
	if msg == "" {
		return code
	}
	if exp := data["expected"]; exp != "" {
		switch t.lang {
		case "ja":
			return msg + "（期待値: " + exp + "）"
		default:
			return msg + ": expected " + exp
		}
	}
	return msg
}

func (t dictTranslator) lookup(code string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "required":
			return "必須フィールドが不足しています"
		case "unknown_key":
			return "未対応のキーです"
		case "duplicate_key":
			return "キーが重複しています"
		case "too_small":
			return "小さすぎます"
		case "too_big":
			return "大きすぎます"
		case "invalid_format":
			return "形式が不正です"
		case "discriminator_missing":
			return "型名がありません"
		case "discriminator_unknown":
			return "未登録の型名です"
		case "not_found":
			return "見つかりません"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "required":
			return "required field missing"
		case "unknown_key":
			return "unsupported field"
		case "duplicate_key":
			return "duplicate key"
		case "too_small":
			return "value too small"
		case "too_big":
			return "value too big"
		case "invalid_format":
			return "invalid format"
		case "discriminator_missing":
			return "type discriminator missing"
		case "discriminator_unknown":
			return "unknown type"
		case "not_found":
			return "not found"
		case "parse_error":
			return "parse error"
		}
	}
	return ""
}

var current atomic.Value

func init() { current.Store(holder{dictTranslator{lang: "en"}}) }

// holder keeps atomic.Value storing a single concrete type.
type holder struct{ tr Translator }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	current.Store(holder{dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(holder{tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return current.Load().(holder).tr.Message(code, data)
}
