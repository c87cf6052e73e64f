package speech

import "strings"

// Language is a speech language selectable for voice input and output.
type Language struct {
	Code       string
	Name       string
	NativeName string
}

// DefaultLanguage is used when nothing is persisted or detected.
const DefaultLanguage = "en-US"

// Languages lists the languages offered in the input-language picker.
var Languages = []Language{
	{Code: "en-US", Name: "English", NativeName: "English"},

	{Code: "hi-IN", Name: "Hindi", NativeName: "हिन्दी"},
	{Code: "te-IN", Name: "Telugu", NativeName: "తెలుగు"},
	{Code: "ta-IN", Name: "Tamil", NativeName: "தமிழ்"},
	{Code: "kn-IN", Name: "Kannada", NativeName: "ಕನ್ನಡ"},
	{Code: "ml-IN", Name: "Malayalam", NativeName: "മലയാളം"},
	{Code: "mr-IN", Name: "Marathi", NativeName: "मराठी"},
	{Code: "gu-IN", Name: "Gujarati", NativeName: "ગુજરાતી"},
	{Code: "bn-IN", Name: "Bengali", NativeName: "বাংলা"},
	{Code: "pa-IN", Name: "Punjabi", NativeName: "ਪੰਜਾਬੀ"},
	{Code: "or-IN", Name: "Odia", NativeName: "ଓଡ଼ିଆ"},
	{Code: "ur-IN", Name: "Urdu", NativeName: "اردو"},
	{Code: "as-IN", Name: "Assamese", NativeName: "অসমীয়া"},

	{Code: "es-ES", Name: "Spanish (Spain)", NativeName: "Español"},
	{Code: "fr-FR", Name: "French", NativeName: "Français"},
	{Code: "de-DE", Name: "German", NativeName: "Deutsch"},
	{Code: "it-IT", Name: "Italian", NativeName: "Italiano"},
	{Code: "pt-BR", Name: "Portuguese (Brazil)", NativeName: "Português"},
	{Code: "ja-JP", Name: "Japanese", NativeName: "日本語"},
	{Code: "ko-KR", Name: "Korean", NativeName: "한국어"},
	{Code: "zh-CN", Name: "Chinese (Simplified)", NativeName: "中文 (简体)"},
	{Code: "ar-SA", Name: "Arabic", NativeName: "العربية"},
	{Code: "ru-RU", Name: "Russian", NativeName: "Русский"},
	{Code: "nl-NL", Name: "Dutch", NativeName: "Nederlands"},
	{Code: "pl-PL", Name: "Polish", NativeName: "Polski"},
	{Code: "tr-TR", Name: "Turkish", NativeName: "Türkçe"},
	{Code: "th-TH", Name: "Thai", NativeName: "ไทย"},
	{Code: "vi-VN", Name: "Vietnamese", NativeName: "Tiếng Việt"},
}

// shortCodes maps bare language codes to full speech codes.
var shortCodes = map[string]string{
	"hi": "hi-IN", "te": "te-IN", "ta": "ta-IN", "kn": "kn-IN",
	"ml": "ml-IN", "mr": "mr-IN", "gu": "gu-IN", "bn": "bn-IN",
	"pa": "pa-IN", "or": "or-IN", "ur": "ur-IN", "as": "as-IN",
	"es": "es-ES", "fr": "fr-FR", "de": "de-DE", "it": "it-IT",
	"pt": "pt-BR", "ja": "ja-JP", "ko": "ko-KR", "zh": "zh-CN",
	"ar": "ar-SA", "ru": "ru-RU", "nl": "nl-NL", "pl": "pl-PL",
	"tr": "tr-TR", "th": "th-TH", "vi": "vi-VN", "en": "en-US",
}

// LanguageName returns the display name for a code, or the code itself.
func LanguageName(code string) string {
	for _, l := range Languages {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}

// NormalizeCode expands a bare code like "hi" to a full speech code.
// Full codes pass through unchanged; unknown codes fall back to the
// default.
func NormalizeCode(code string) string {
	if code == "" {
		return DefaultLanguage
	}
	if strings.Contains(code, "-") {
		return code
	}
	if full, ok := shortCodes[code]; ok {
		return full
	}
	return DefaultLanguage
}
