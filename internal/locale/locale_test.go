// SPDX-License-Identifier: MPL-2.0

package locale

import "testing"

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Tag
	}{
		{"en_US.UTF-8", Tag{Language: "en", Region: "en_us"}},
		{"de_DE", Tag{Language: "de", Region: "de_de"}},
		{"pt-BR", Tag{Language: "pt", Region: "pt_br"}},
		{"fr", Tag{Language: "fr"}},
		{"FR.ISO-8859-1", Tag{Language: "fr"}},
		{"sr_RS@latin", Tag{Language: "sr", Region: "sr_rs@latin"}},
		{"zh_Hant_TW", Tag{Language: "zh", Region: "zh_hant_tw"}},
		{"C", Tag{}},
		{"C.UTF-8", Tag{}},
		{"POSIX", Tag{}},
		{"", Tag{}},
		{".utf8", Tag{}},
		{"_US", Tag{}},
		{"_US.UTF-8", Tag{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := Parse(tt.input); got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Parallel()

	unset := func(string) (string, bool) { return "", false }
	if got := FromEnv(unset); !got.IsZero() {
		t.Errorf("FromEnv(unset) = %+v, want zero", got)
	}

	set := func(key string) (string, bool) {
		if key != EnvVar {
			t.Errorf("FromEnv read %q, want %q", key, EnvVar)
		}
		return "es_AR.UTF-8", true
	}
	got := FromEnv(set)
	if got.Language != "es" || got.Region != "es_ar" {
		t.Errorf("FromEnv = %+v", got)
	}
	if got.String() != "es_ar" {
		t.Errorf("String() = %q", got.String())
	}
}
