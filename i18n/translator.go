package i18n

import "sync/atomic"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "value").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg := t.base(code)
	if exp := data["expected"]; exp != "" {
		if t.lang == "ja" {
			return msg + "（期待値: " + exp + "）"
		}
		return msg + " (expected " + exp + ")"
	}
	return msg
}

func (t dictTranslator) base(code string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "required":
			return "必須プロパティが不足しています"
		case "depth_mismatch":
			return "要素の入れ子の深さが揃っていません"
		case "rank_mismatch":
			return "テンソルの階数が一致しません"
		case "too_deep":
			return "入れ子が深すぎます"
		case "duplicate_key":
			return "キーが重複しています"
		case "invalid_format":
			return "形式が不正です"
		case "reserved_name":
			return "予約済みの名前です"
		case "invalid_kind":
			return "未知の種別です"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "required":
			return "required property missing"
		case "depth_mismatch":
			return "sibling elements differ in nesting depth"
		case "rank_mismatch":
			return "tensor rank mismatch"
		case "too_deep":
			return "nesting too deep"
		case "duplicate_key":
			return "duplicate key"
		case "invalid_format":
			return "invalid format"
		case "reserved_name":
			return "reserved name"
		case "invalid_kind":
			return "unknown kind"
		}
	}
	return code
}

type holder struct{ tr Translator }

var current atomic.Pointer[holder]

func init() { current.Store(&holder{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	current.Store(&holder{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&holder{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return current.Load().tr.Message(code, data) }
