package rbac

import (
	"context"
	"testing"
)

func TestCheckerDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)

	cases := []struct {
		role, perm string
		want       bool
	}{
		{"student", "submission:create", true},
		{"student", "assignment:view", true},
		{"student", "assignment:create", false},
		{"student", "student:manage", false},
		{"teacher", "assignment:create", true},
		{"teacher", "submission:view-all", true},
		{"teacher", "submission:create", false},
		{"admin", "anything:at-all", true},
		{"", "assignment:view", false},
		{"visitor", "assignment:view", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestCheckerAnyAndWildcard(t *testing.T) {
	c := NewChecker(map[string][]string{
		"grader": {"submission:*"},
	})
	if !c.Has("grader", "submission:view-all") {
		t.Fatal("trailing wildcard should match")
	}
	if c.Has("grader", "assignment:view") {
		t.Fatal("wildcard must not cross prefixes")
	}
	if !c.Any("grader", "assignment:view", "submission:create") {
		t.Fatal("Any should match the second permission")
	}
	if c.Any("grader", "assignment:view", "report:view-all") {
		t.Fatal("Any with no matches should be false")
	}
}

func TestRoleContextRoundTrip(t *testing.T) {
	ctx := WithRole(context.Background(), "teacher")
	if got := RoleFromContext(ctx); got != "teacher" {
		t.Fatalf("role = %q, want teacher", got)
	}
	if got := RoleFromContext(context.Background()); got != "" {
		t.Fatalf("empty context role = %q, want empty", got)
	}
}
