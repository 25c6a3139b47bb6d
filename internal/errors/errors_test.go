package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "config error",
			code:    "E121",
			wantMsg: "Default security profile not found",
			wantCat: CategoryConfig,
		},
		{
			name:    "routing error",
			code:    "E130",
			wantMsg: "Duplicate service path",
			wantCat: CategoryRouting,
		},
		{
			name:    "source error",
			code:    "E125",
			wantMsg: "Configuration source unavailable",
			wantCat: CategorySource,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	err := New("E121")
	if got, want := err.Error(), "E121: Default security profile not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err.WithDetail(`profile "public" is not defined`)
	if got, want := err.Error(), `E121: Default security profile not found: profile "public" is not defined`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestError_IsConfigurationDefect(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"E120", true},
		{"E121", true},
		{"E130", true},
		{"E125", false},
		{"E150", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			wrapped := fmt.Errorf("startup: %w", New(tt.code))
			if got := stderrors.Is(wrapped, ErrConfigurationDefect); got != tt.want {
				t.Errorf("errors.Is(%s, ErrConfigurationDefect) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestError_WithLocation(t *testing.T) {
	err := New("E123").WithSource("services.json").WithKey("config.url_prefix")
	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if got, want := err.Location.String(), "services.json: config.url_prefix"; got != want {
		t.Errorf("Location.String() = %q, want %q", got, want)
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{name: "nil location", loc: nil, want: ""},
		{name: "key only", loc: &Location{Key: "services.echo"}, want: "services.echo"},
		{name: "source only", loc: &Location{Source: "s3://b/k"}, want: "s3://b/k"},
		{name: "both", loc: &Location{Source: "a.yaml", Key: "services"}, want: "a.yaml: services"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Wrap(t *testing.T) {
	inner := stderrors.New("boom")
	outer := New("E125").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should see the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E120") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	e := New("E121")
	if FromError(fmt.Errorf("ctx: %w", e), "E120") != e {
		t.Error("FromError should return an *Error in the chain as-is")
	}

	std := stderrors.New("plain")
	result := FromError(std, "E130")
	if result.Wrapped != std {
		t.Error("standard error should be wrapped")
	}
	if result.Detail != "plain" {
		t.Errorf("Detail = %q, want %q", result.Detail, "plain")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E121").
		WithSource("services.json").
		WithKey("global.defaults.service.config.security").
		WithDetail(`profile "public" is not defined`).
		WithSuggestion("Define the profile")

	formatted := err.Format()

	for _, want := range []string{
		"ERROR E121: Default security profile not found",
		"services.json: global.defaults.service.config.security",
		`profile "public" is not defined`,
		"Hint: Define the profile",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E130").WithKey("services.echo").WithDetail(`path "api/v1/echo"`)
	want := `services.echo: E130: Duplicate service path: path "api/v1/echo"`
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("GetAllCodes() should return codes")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	if _, ok := GetTemplate("E130"); !ok {
		t.Error("E130 should exist")
	}
	if _, ok := GetTemplate("E999"); ok {
		t.Error("E999 should not exist")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	if got := wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}
