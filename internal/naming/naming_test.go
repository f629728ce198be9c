package naming

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	used := []string{"Main", "Settings"}

	tests := []struct {
		name      string
		candidate string
		rules     []Rule
		wantKind  ErrorKind
	}{
		{"valid", "Orders", []Rule{Format(), ExistingNames(used, "")}, None},
		{"empty", "", []Rule{Format()}, Empty},
		{"whitespace", "   ", []Rule{Format()}, Empty},
		{"leading digit", "1Page", []Rule{Format()}, BadFormat},
		{"dash", "My-Page", []Rule{Format()}, BadFormat},
		{"underscore ok", "My_Page2", []Rule{Format()}, None},
		{"too long", strings.Repeat("a", MaxLength+1), []Rule{Format()}, TooLong},
		{"max length ok", strings.Repeat("a", MaxLength), []Rule{Format()}, None},
		{"already exists", "Main", []Rule{ExistingNames(used, "")}, AlreadyExists},
		{"case sensitive uniqueness", "main", []Rule{ExistingNames(used, "")}, None},
		{"self excluded", "Main", []Rule{ExistingNames(used, "Main")}, None},
		{"reserved", "Page", []Rule{Reserved(DefaultReservedWords...)}, ReservedName},
		{"reserved ignores case", "pAGE", []Rule{Reserved(DefaultReservedWords...)}, ReservedName},
		{"main not reserved", "Main", []Rule{Reserved(DefaultReservedWords...)}, None},
		{"default name", "Sample", []Rule{DefaultNames("Sample")}, DefaultName},
		{"nil rule skipped", "Orders", []Rule{nil, Format()}, None},
		{
			"first failure wins",
			"Page",
			[]Rule{ExistingNames([]string{"Page"}, ""), Reserved("Page")},
			AlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.candidate, tt.rules...)
			if got.Kind != tt.wantKind {
				t.Errorf("Validate(%q).Kind = %v, want %v", tt.candidate, got.Kind, tt.wantKind)
			}
			if got.Valid != (tt.wantKind == None) {
				t.Errorf("Validate(%q).Valid = %v, want %v", tt.candidate, got.Valid, tt.wantKind == None)
			}
		})
	}
}

func TestInfer(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		rules []Rule
		want  string
	}{
		{
			name:  "base free",
			base:  "Main",
			rules: []Rule{ExistingNames(nil, "")},
			want:  "Main",
		},
		{
			name:  "skips taken suffixes",
			base:  "Main",
			rules: []Rule{ExistingNames([]string{"Main", "Main1"}, "")},
			want:  "Main2",
		},
		{
			name:  "reserved base gets suffix",
			base:  "Page",
			rules: []Rule{Reserved(DefaultReservedWords...), ExistingNames(nil, "")},
			want:  "Page1",
		},
		{
			name:  "default name collision",
			base:  "Sample",
			rules: []Rule{DefaultNames("Sample"), ExistingNames([]string{"Sample1"}, "")},
			want:  "Sample2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Infer(tt.base, tt.rules...)
			if err != nil {
				t.Fatalf("Infer(%q) error: %v", tt.base, err)
			}
			if got != tt.want {
				t.Errorf("Infer(%q) = %q, want %q", tt.base, got, tt.want)
			}
		})
	}
}

func TestInfer_Exhausted(t *testing.T) {
	// A malformed base can never be fixed by a numeric suffix.
	_, err := Infer("9lives", Format(), ExistingNames([]string{"a"}, ""))
	if !errors.Is(err, ErrInferenceExhausted) {
		t.Fatalf("expected ErrInferenceExhausted, got %v", err)
	}
}

func TestInfer_NeverReserved(t *testing.T) {
	rules := []Rule{Reserved("Item", "Item1", "Item2"), ExistingNames(nil, "")}
	got, err := Infer("Item", rules...)
	if err != nil {
		t.Fatalf("Infer error: %v", err)
	}
	if got != "Item3" {
		t.Errorf("Infer = %q, want Item3", got)
	}
	if !Validate(got, rules...).Valid {
		t.Errorf("inferred name %q fails its own rules", got)
	}
}

func TestErrorKindString(t *testing.T) {
	if got := AlreadyExists.String(); got != "already-exists" {
		t.Errorf("AlreadyExists.String() = %q", got)
	}
	if got := ErrorKind(99).String(); got != "kind(99)" {
		t.Errorf("ErrorKind(99).String() = %q", got)
	}
}
