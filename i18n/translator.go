package i18n

// Translator retrieves localized messages for error codes. data provides
// optional metadata to embed in the message (for example, "value" or
// "target").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "required":
			return "必須項目です"
		case "not_array":
			return "配列である必要があります"
		case "invalid":
			return "不正な値です"
		case "cast":
			return data["value"] + " を " + data["target"] + " に変換できません"
		}
	default: // "en"
		switch code {
		case "required":
			return "Field is required"
		case "not_array":
			return "Must be an array"
		case "invalid":
			return "Invalid value"
		case "cast":
			return "Cannot cast " + data["value"] + " to " + data["target"]
		}
	}
	return code
}

var current Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in dictionary to the given language.
// Unknown languages fall back to English.
func SetLanguage(lang string) { current = dictTranslator{lang: lang} }

// SetTranslator replaces the active Translator entirely.
func SetTranslator(tr Translator) {
	if tr != nil {
		current = tr
	}
}

// T resolves code through the active Translator.
func T(code string, data map[string]string) string {
	return current.Message(code, data)
}
