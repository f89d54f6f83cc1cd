package registry

import "testing"

func TestNameWithoutRole(t *testing.T) {
	got := Name("abc123", "", 0)
	want := "loom-abc123"
	if got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
}

func TestNameWithRole(t *testing.T) {
	got := Name("abc123", "worker", 2)
	want := "loom-abc123-worker-2"
	if got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
}

func TestParseIDRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		id   string
		role string
		inst int
	}{
		{"bare", "abc123", "", 0},
		{"roled", "abc123", "worker", 2},
		{"hex-uuid-no-dashes", "1533fd2e78b041759e1adeadbeef0000", "attach", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sessionName := Name(tc.id, tc.role, tc.inst)
			gotID, ok := ParseID(sessionName)
			if !ok {
				t.Fatalf("ParseID(%q) failed", sessionName)
			}
			if gotID != tc.id {
				t.Errorf("ParseID(%q) = %q, want %q", sessionName, gotID, tc.id)
			}
		})
	}
}

func TestParseIDRejectsForeignSessions(t *testing.T) {
	if _, ok := ParseID("some-other-session"); ok {
		t.Error("ParseID matched a non-loom session name")
	}
	if _, ok := ParseID("loom-"); ok {
		t.Error("ParseID matched an empty id")
	}
	if _, ok := ParseID(""); ok {
		t.Error("ParseID matched an empty string")
	}
}

func TestHasPrefix(t *testing.T) {
	if !HasPrefix("loom-abc123") {
		t.Error("HasPrefix(loom-abc123) = false, want true")
	}
	if HasPrefix("tmux-abc123") {
		t.Error("HasPrefix(tmux-abc123) = true, want false")
	}
}
