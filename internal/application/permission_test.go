package application

import "testing"

func TestCanModify(t *testing.T) {
	app := &Application{ID: "a1", ApplicantID: "u1"}
	cases := []struct {
		name     string
		roles    []string
		callerID string
		want     bool
	}{
		{"owner_user", []string{RoleUser}, "u1", true},
		{"other_user", []string{RoleUser}, "u2", false},
		{"manager_any", []string{RoleManager}, "u2", true},
		{"admin_any", []string{RoleAdmin}, "u2", true},
		{"no_roles_owner", nil, "u1", true},
		{"empty_caller", []string{RoleUser}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanModify(tc.roles, tc.callerID, app); got != tc.want {
				t.Fatalf("CanModify(%v, %q) = %v, want %v", tc.roles, tc.callerID, got, tc.want)
			}
		})
	}
}

func TestIsApprover(t *testing.T) {
	if IsApprover([]string{RoleUser}) {
		t.Fatal("user must not be approver")
	}
	if !IsApprover([]string{RoleUser, RoleManager}) {
		t.Fatal("manager must be approver")
	}
	if !IsApprover([]string{RoleAdmin}) {
		t.Fatal("admin must be approver")
	}
}
