package middleware

import (
	"testing"

	"github.com/straytracker/stray-tracker-backend/internal/models"
)

func TestRoleTiersAreOrdered(t *testing.T) {
	cases := []struct {
		role, min string
		want      bool
	}{
		{models.RoleUser, models.RoleUser, true},
		{models.RoleModerator, models.RoleUser, true},
		{models.RoleAdmin, models.RoleUser, true},
		{models.RoleUser, models.RoleModerator, false},
		{models.RoleModerator, models.RoleModerator, true},
		{models.RoleAdmin, models.RoleModerator, true},
		{models.RoleUser, models.RoleAdmin, false},
		{models.RoleModerator, models.RoleAdmin, false},
		{models.RoleAdmin, models.RoleAdmin, true},
	}
	for _, c := range cases {
		if got := models.RoleAtLeast(c.role, c.min); got != c.want {
			t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", c.role, c.min, got, c.want)
		}
	}
}

func TestUnknownRoleNeverPasses(t *testing.T) {
	for _, min := range []string{models.RoleUser, models.RoleModerator, models.RoleAdmin} {
		if models.RoleAtLeast("superuser", min) {
			t.Errorf("unknown role passed %q gate", min)
		}
		if models.RoleAtLeast("", min) {
			t.Errorf("empty role passed %q gate", min)
		}
	}
	if models.RoleAtLeast(models.RoleAdmin, "owner") {
		t.Error("unknown minimum tier should fail closed")
	}
}

func TestParseCSV(t *testing.T) {
	got := parseCSV(" a@x.com, ,b@x.com ")
	if len(got) != 2 || got[0] != "a@x.com" || got[1] != "b@x.com" {
		t.Errorf("parseCSV = %v", got)
	}
	if parseCSV("") != nil {
		t.Error("parseCSV(\"\") should be nil")
	}
}
