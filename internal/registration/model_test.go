package registration

import "testing"

func TestGameIDValid(t *testing.T) {
	cases := []struct {
		game string
		id   string
		want bool
	}{
		{"Valorant", "ShadowStriker#NA1", true},
		{"valorant", "ab#123", false},
		{"Valorant", "NoTagHere", false},
		{"Valorant", "Name#toolongtag", false},
		{"PUBG", "Pro_Gamer-99", true},
		{"BGMI", "abcd", false},
		{"pubg", "has space", false},
		{"Free Fire", "1234567890", true},
		{"freefire", "123456789012", true},
		{"Free Fire", "123456789", false},
		{"Free Fire", "12345678901234", false},
		{"Chess", "anything goes", true},
	}
	for _, tc := range cases {
		if got := GameIDValid(tc.game, tc.id); got != tc.want {
			t.Errorf("GameIDValid(%q, %q) = %v, want %v", tc.game, tc.id, got, tc.want)
		}
	}
}

func TestTeamFee(t *testing.T) {
	if got := TeamFee(5000, 5); got != 25000 {
		t.Fatalf("TeamFee(5000, 5) = %d, want 25000", got)
	}
	if got := TeamFee(100, 4); got != 400 {
		t.Fatalf("TeamFee(100, 4) = %d, want 400", got)
	}
}
