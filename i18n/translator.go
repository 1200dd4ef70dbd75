package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "field" or "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "schema_mismatch":
			return "スキーマが一致しません"
		case "parse_error":
			return "解析エラー"
		case "count_mismatch":
			return "件数が一致しません"
		case "required":
			return "必須フィールドが不足しています"
		case "invalid_type":
			return "型が不正です"
		case "unknown_field":
			return "未知のフィールドです"
		case "type_widened":
			return "型が拡大されました"
		case "truncated":
			return "打ち切られました"
		}
	default: // "en"
		switch code {
		case "schema_mismatch":
			return "schema mismatch"
		case "parse_error":
			return "parse error"
		case "count_mismatch":
			return "record count mismatch"
		case "required":
			return "required field missing"
		case "invalid_type":
			return "invalid type"
		case "unknown_field":
			return "unknown field"
		case "type_widened":
			return "field type widened to string"
		case "truncated":
			return "truncated"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
