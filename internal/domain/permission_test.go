package domain

import "testing"

func TestHasAny(t *testing.T) {
	tests := []struct {
		name     string
		held     []Permission
		required []Permission
		want     bool
	}{
		{
			name:     "single overlap",
			held:     []Permission{PermissionUser, PermissionAdmin},
			required: []Permission{PermissionAdmin},
			want:     true,
		},
		{
			name:     "any-of not all-of",
			held:     []Permission{PermissionPermissionUpdate},
			required: []Permission{PermissionAdmin, PermissionPermissionUpdate},
			want:     true,
		},
		{
			name:     "no overlap",
			held:     []Permission{PermissionUser},
			required: []Permission{PermissionAdmin, PermissionItemDelete},
			want:     false,
		},
		{
			name:     "empty held",
			held:     nil,
			required: []Permission{PermissionAdmin},
			want:     false,
		},
		{
			name:     "empty required means no restriction",
			held:     nil,
			required: nil,
			want:     true,
		},
		{
			name:     "empty required with held permissions",
			held:     []Permission{PermissionUser},
			required: []Permission{},
			want:     true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasAny(tc.held, tc.required); got != tc.want {
				t.Errorf("HasAny(%v, %v) = %v, want %v", tc.held, tc.required, got, tc.want)
			}
		})
	}
}

func TestValidPermission(t *testing.T) {
	for _, p := range AllPermissions {
		if !ValidPermission(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}
	if ValidPermission(Permission("SUPERUSER")) {
		t.Error("expected unknown label to be invalid")
	}
}
