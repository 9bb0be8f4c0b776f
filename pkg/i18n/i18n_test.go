package i18n

import "testing"

func TestParseAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   Locale
	}{
		{"", LocaleEn},
		{"ja", LocaleJa},
		{"ja-JP,ja;q=0.9,en-US;q=0.8", LocaleJa},
		{"en-US,en;q=0.9", LocaleEn},
		{"fr-FR,fr;q=0.9", LocaleEn}, // unsupported → fallback
		{"ko-KR", LocaleEn},
		{"de,ja;q=0.5", LocaleJa},
	}

	for _, tt := range tests {
		got := ParseAcceptLanguage(tt.header)
		if got != tt.want {
			t.Errorf("ParseAcceptLanguage(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		value string
		want  Locale
	}{
		{"ja", LocaleJa},
		{"ja_JP", LocaleJa},
		{"ja-JP", LocaleJa},
		{"en", LocaleEn},
		{"fr", LocaleEn},
		{"", LocaleEn},
		{"!!", LocaleEn},
	}
	for _, tt := range tests {
		if got := ParseLocale(tt.value); got != tt.want {
			t.Errorf("ParseLocale(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestAmbientLocale_Env(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LANG", "ja_JP.UTF-8")
	if got := AmbientLocale(""); got != LocaleJa {
		t.Errorf("AmbientLocale from LANG = %q, want ja", got)
	}
	if got := AmbientLocale("en-US"); got != LocaleEn {
		t.Errorf("Accept-Language must win over LANG, got %q", got)
	}
}

func TestBundleTranslation(t *testing.T) {
	b := Default()

	if got := b.T(LocaleJa, "bbs.post"); got != "投稿" {
		t.Errorf("ja post = %q", got)
	}
	if got := b.T(LocaleEn, "bbs.post"); got != "Post" {
		t.Errorf("en post = %q", got)
	}
	if got := b.T(LocaleEn, "unknown.key"); got != "unknown.key" {
		t.Errorf("unknown key = %q, want key itself", got)
	}
	if got := b.T(LocaleJa, "bbs.editing", 12); got != "#12 を編集中" {
		t.Errorf("editing with args = %q", got)
	}

	// Missing ja key falls back to English
	b.LoadMessages(LocaleEn, map[string]string{"only.en": "English only"})
	if got := b.T(LocaleJa, "only.en"); got != "English only" {
		t.Errorf("fallback = %q", got)
	}
}

func TestTranslateServerError(t *testing.T) {
	b := Default()

	tests := []struct {
		name   string
		locale Locale
		msg    string
		want   string
	}{
		{"exact ja", LocaleJa, "Message not found", "メッセージが見つかりません"},
		{"exact en", LocaleEn, "Message not found", "Message not found"},
		{"parametric ja", LocaleJa, "Message must be 7 characters or less", "メッセージは7文字以内で入力してください"},
		{"parametric en", LocaleEn, "Message must be 7 characters or less", "Message must be 7 characters or less"},
		{"wait ja", LocaleJa, "Please wait 30 seconds before posting again", "30秒待ってから再度投稿してください"},
		{"author ja", LocaleJa, "Author name must be 20 characters or less", "名前は20文字以内で入力してください"},
		{"unknown", LocaleJa, "Something odd happened", "Something odd happened"},
		{"empty", LocaleJa, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.TranslateServerError(tt.locale, tt.msg); got != tt.want {
				t.Errorf("TranslateServerError(%q) = %q, want %q", tt.msg, got, tt.want)
			}
		})
	}
}
