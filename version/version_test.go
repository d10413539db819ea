package version

import "testing"

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.2.0", "1.3.0", -1},
		{"1.3.0", "1.2.0", 1},
		{"1.2.3", "1.2.3", 0},
		{"v1.2.3", "1.2.3", 0},
		{"1.10.0", "1.9.0", 1},
		{"1.2", "1.2.0", -1},
		{"2.0.0-beta", "1.9.0", 1},
		{"1.0", "1.beta", 1},
		{"1.0rc1", "1.0rc2", -1},
		{"1.0.0_2", "1.0.0_10", -1},
		{"2024.01.15", "2024.1.15", 0},
		{"abc", "abd", -1},
		{"", "0", -1},
	}

	for _, tt := range tests {
		got := Compare(Parse(tt.a), Parse(tt.b))
		if got != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompareAntisymmetric(t *testing.T) {
	pairs := [][2]string{
		{"1.2.0", "1.3.0"},
		{"1.2", "1.2.0"},
		{"2.0.0-beta", "1.9.0"},
		{"3.4.alpha", "3.4"},
	}
	for _, p := range pairs {
		a, b := Parse(p[0]), Parse(p[1])
		if Compare(a, b) != -Compare(b, a) {
			t.Errorf("Compare(%q, %q) not antisymmetric", p[0], p[1])
		}
	}
}

func TestCompareTransitive(t *testing.T) {
	ordered := []string{"0.9", "1.0", "1.0.alpha", "1.0.1", "1.2", "1.2.0", "1.10", "2.0.0-beta", "2.0.0-rc1", "2.0.0.1"}
	for i := range ordered {
		for j := i + 1; j < len(ordered); j++ {
			if Compare(Parse(ordered[i]), Parse(ordered[j])) >= 0 {
				t.Errorf("expected %q < %q", ordered[i], ordered[j])
			}
		}
	}
}

func TestCompareSelf(t *testing.T) {
	for _, s := range []string{"1.2.3", "HEAD-ish", "", "2.0b4", "1_2_3"} {
		v := Parse(s)
		if Compare(v, v) != 0 {
			t.Errorf("Compare(%q, %q) != 0", s, s)
		}
	}
}

func TestCompareHEADPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic comparing HEAD against release version")
		}
	}()
	Compare(NewHEAD("abc123"), Parse("1.2.3"))
}

func TestSameCommit(t *testing.T) {
	a := NewHEAD("abc123")
	b := NewHEAD("abc123")
	c := NewHEAD("def456")

	if !a.SameCommit(b) {
		t.Error("identical commits should match")
	}
	if a.SameCommit(c) {
		t.Error("distinct commits should not match")
	}
	if a.SameCommit(Parse("1.2.3")) {
		t.Error("HEAD should not match a release version")
	}
}

func TestUnstable(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"1.2.3", false},
		{"2.0.0-beta", true},
		{"2.0.0-beta1", true},
		{"1.0rc2", true},
		{"3.0-preview4", true},
		{"1.5.dev0", true},
		{"0.9-alpha", true},
		{"1.0-bpo1", true},
		{"7.0-experimental", true},
		{"1.0-prerelease", true},
		{"5.4.1", false},
		{"2024.09", false},
	}
	for _, tt := range tests {
		if got := Parse(tt.raw).Unstable(); got != tt.want {
			t.Errorf("Parse(%q).Unstable() = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestMax(t *testing.T) {
	vs := []Version{Parse("1.9.0"), Parse("2.0.0"), Parse("1.10.2")}
	if got := Max(vs).String(); got != "2.0.0" {
		t.Errorf("Max = %q, want 2.0.0", got)
	}
	if !Max(nil).Empty() {
		t.Error("Max of empty slice should be the zero Version")
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"1.2.3", "v1.2.3", "2.0.0-beta", "weird build 7"} {
		if got := Parse(s).String(); got != s {
			t.Errorf("Parse(%q).String() = %q", s, got)
		}
	}
}

func TestParseNeverFails(t *testing.T) {
	// Arbitrary junk still yields a comparable version.
	v := Parse("!!??")
	if v.Empty() {
		t.Error("non-empty raw string should not be the zero Version")
	}
	if Compare(v, v) != 0 {
		t.Error("junk version should compare equal to itself")
	}
}
