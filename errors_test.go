package transformer_test

import (
	"errors"
	"strings"
	"testing"

	transformer "github.com/KrtNinja/kr-transformer"
	"github.com/KrtNinja/kr-transformer/i18n"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := transformer.Issues{
		{Path: "/a", Code: transformer.CodeInvalidType},
		{Path: "/b", Code: transformer.CodeRequired},
		{Path: "/c", Code: transformer.CodeInvalidTarget},
		{Path: "/d", Code: transformer.CodeInvalidSource},
	}
	s := iss.Error()
	if s == "" {
		t.Fatalf("expected non-empty error summary")
	}
	if !strings.Contains(s, "invalid_type at /a") {
		t.Fatalf("expected first issue in summary, got %q", s)
	}
	if !strings.Contains(s, "total 4") {
		t.Fatalf("expected overflow note, got %q", s)
	}
}

func TestAsIssues(t *testing.T) {
	if _, ok := transformer.AsIssues(nil); ok {
		t.Fatalf("nil error should not yield issues")
	}
	if _, ok := transformer.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain error should not yield issues")
	}
	var err error = transformer.Issues{{Path: "/", Code: transformer.CodeInvalidType}}
	iss, ok := transformer.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected issue extraction, got %v %v", iss, ok)
	}
}

func TestIssues_SentinelKinds(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{transformer.CodeInvalidTarget, transformer.ErrInvalidTarget},
		{transformer.CodeInvalidSource, transformer.ErrInvalidSource},
		{transformer.CodeInvalidType, transformer.ErrInvalidType},
		{transformer.CodeRequired, transformer.ErrInvalidType},
		{transformer.CodeCyclicSchema, transformer.ErrCyclicSchema},
	}
	for _, tc := range cases {
		iss := transformer.Issues{transformer.Root().Issue(tc.code, "")}
		if !errors.Is(iss, tc.want) {
			t.Fatalf("code %q should match %v", tc.code, tc.want)
		}
	}
}

func TestPathRef(t *testing.T) {
	p := transformer.Root().Field("items").Index(2).Field("price")
	if got := p.Pointer(); got != "/items/2/price" {
		t.Fatalf("got %q", got)
	}
	if got := transformer.Root().Field("a/b").Pointer(); got != "/a~1b" {
		t.Fatalf("expected RFC6901 escaping, got %q", got)
	}
	if got := transformer.At("/items/2").Field("price").Pointer(); got != "/items/2/price" {
		t.Fatalf("got %q", got)
	}
	it := p.Issue(transformer.CodeInvalidType, "boom", "expected", "number")
	if it.Path != "/items/2/price" || it.Params["expected"] != "number" {
		t.Fatalf("unexpected issue %+v", it)
	}
}

func TestLocalize(t *testing.T) {
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	iss := transformer.Issues{{Path: "/a", Code: transformer.CodeRequired, Message: "required property missing"}}
	got := transformer.Localize(iss)
	if got[0].Message != "必須プロパティが不足しています" {
		t.Fatalf("expected localized message, got %q", got[0].Message)
	}
	if got[0].Path != "/a" || got[0].Code != transformer.CodeRequired {
		t.Fatalf("localization must keep path and code, got %+v", got[0])
	}
}
