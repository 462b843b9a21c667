package cfgtext

import (
	"reflect"
	"testing"
)

func TestStripComment(t *testing.T) {
	cases := map[string]string{
		"policy: disabled":          "policy: disabled",
		"policy: disabled # note":   "policy: disabled",
		"  # just a comment":        "",
		"datasource_list: [a, b]  ": "datasource_list: [a, b]",
	}
	for in, want := range cases {
		if got := StripComment(in); got != want {
			t.Errorf("StripComment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUnquote(t *testing.T) {
	cases := map[string]string{
		`"hello"`: "hello",
		`'hello'`: "hello",
		`hello`:   "hello",
		`"mismatched'`: `"mismatched'`,
		`x`:       "x",
		``:        "",
	}
	for in, want := range cases {
		if got := Unquote(in); got != want {
			t.Errorf("Unquote(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUnquoteQuoteRoundTrip(t *testing.T) {
	for _, s := range []string{"hello", "with space", ""} {
		quoted := `"` + s + `"`
		if got := Unquote(quoted); got != s {
			t.Errorf("Unquote(quote(%q)) = %q, want %q", s, got, s)
		}
	}
}

func TestSplitKV(t *testing.T) {
	k, v, ok := SplitKV("datasource: NoCloud")
	if !ok || k != "datasource" || v != "NoCloud" {
		t.Fatalf("SplitKV got (%q, %q, %v)", k, v, ok)
	}
	if _, _, ok := SplitKV("no colon here"); ok {
		t.Fatal("expected ok=false for line without ':'")
	}
}

func TestParseYAMLArray(t *testing.T) {
	want := []string{"a", "b", "c"}
	for _, in := range []string{"[a, b, c]", "a, b, c", `["a", "b", "c"]`, `[a,b,c]`} {
		got := ParseYAMLArray(in)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ParseYAMLArray(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseYAMLArrayEmpty(t *testing.T) {
	if got := ParseYAMLArray("[]"); len(got) != 0 {
		t.Errorf("ParseYAMLArray([]) = %v, want empty", got)
	}
}
