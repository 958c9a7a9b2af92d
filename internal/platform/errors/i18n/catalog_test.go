package i18n

import "testing"

func TestGetCatalogFallback(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"", "en-US"},
		{"en-US", "en-US"},
		{"pt-BR", "pt-BR"},
		{"pt", "pt-BR"},
		{"not a locale", "en-US"},
		{"ja-JP", "en-US"},
	}
	for _, tt := range tests {
		if got := GetCatalog(tt.locale).Locale(); got != tt.want {
			t.Errorf("GetCatalog(%q).Locale() = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestFormatRendersMetadata(t *testing.T) {
	cat := GetCatalog("en-US")
	got := cat.Format(CodePasswordTooShort, map[string]string{"Min": "6"})
	if got != "Password must be at least 6 characters." {
		t.Fatalf("Format = %q", got)
	}
}

func TestFormatLocalized(t *testing.T) {
	cat := GetCatalog("pt-BR")
	if got := cat.Format(CodeForbidden, nil); got != "Você não tem permissão para fazer isso." {
		t.Fatalf("Format = %q", got)
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := GetCatalog("en-US")
	if cat.Format("NOT_A_CODE", nil) != "NOT_A_CODE" {
		t.Fatal("expected code fallback when template missing")
	}
	if got := cat.Format(CodeUnexpectedStatus, nil); got != "Unexpected server response ()." {
		t.Fatalf("expected empty metadata to render blank, got %q", got)
	}
}

func TestEveryCodeIsTranslated(t *testing.T) {
	for code := range enUS {
		if _, ok := ptBR[code]; !ok {
			t.Errorf("pt-BR missing %s", code)
		}
	}
}
