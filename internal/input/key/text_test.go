package key

import "testing"

func TestIsSingle(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", false},
		{"a", true},
		{"A", true},
		{"ab", false},
		{"é", true},
		{"é", true},
		{"👍🏽", true},
		{"🇯🇵", true},
		{"日本", false},
		{"\r\n", true},
	}

	for _, tt := range tests {
		if got := IsSingle(tt.text); got != tt.want {
			t.Errorf("IsSingle(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		text     string
		mods     Modifier
		wantText string
		wantMods Modifier
	}{
		{"a", ModCmd, "a", ModCmd},
		{"A", ModCmd, "a", ModCmd | ModShift},
		{"A", ModCmd | ModShift, "a", ModCmd | ModShift},
		{"1", ModCmd, "1", ModCmd},
		{"!", ModCmd, "!", ModCmd},
		{"Ä", ModNone, "ä", ModShift},
		{"Ω", ModCmd, "ω", ModCmd | ModShift},
	}

	for _, tt := range tests {
		gotText, gotMods := Fold(tt.text, tt.mods)
		if gotText != tt.wantText || gotMods != tt.wantMods {
			t.Errorf("Fold(%q, %v) = (%q, %v), want (%q, %v)",
				tt.text, tt.mods, gotText, gotMods, tt.wantText, tt.wantMods)
		}
	}
}
