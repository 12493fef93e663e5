package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

var allPermissionNames = []string{"view", "upload", "delete", "manage_users"}

var allPermissions = []Permission{
	PermissionView,
	PermissionUpload,
	PermissionDelete,
	PermissionManageUsers,
}

// Every subset of the four permissions must grant exactly its members.
func TestParsePermissionsSubsets(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		var names []string
		for i, name := range allPermissionNames {
			if mask&(1<<i) != 0 {
				names = append(names, name)
			}
		}

		set, err := ParsePermissions(names)
		if err != nil {
			t.Fatalf("ParsePermissions(%v): %v", names, err)
		}

		for i, p := range allPermissions {
			want := mask&(1<<i) != 0
			if got := set.Has(p); got != want {
				t.Errorf("subset %v: Has(%s) = %v, want %v", names, p, got, want)
			}
		}
	}
}

func TestParsePermissionsRejectsUnknown(t *testing.T) {
	tests := []struct {
		name  string
		input []string
	}{
		{"unknown alone", []string{"admin"}},
		{"unknown among valid", []string{"view", "superuser", "upload"}},
		{"empty name", []string{""}},
		{"case sensitive", []string{"View"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePermissions(tt.input); err == nil {
				t.Errorf("ParsePermissions(%v) accepted unknown name", tt.input)
			}
		})
	}
}

func TestPermissionSetNames(t *testing.T) {
	tests := []struct {
		name string
		set  PermissionSet
		want []string
	}{
		{"empty", 0, []string{}},
		{"single", PermissionSet(PermissionDelete), []string{"delete"}},
		{"full", FullPermissions, allPermissionNames},
		{
			"declaration order regardless of input order",
			PermissionSet(PermissionManageUsers | PermissionView),
			[]string{"view", "manage_users"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.Names(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Names() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPermissionSetJSONRoundTrip(t *testing.T) {
	original := PermissionSet(PermissionView | PermissionUpload)
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["view","upload"]` {
		t.Fatalf("marshal = %s", data)
	}

	var decoded PermissionSet
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip = %v, want %v", decoded, original)
	}

	if err := json.Unmarshal([]byte(`["view","root"]`), &decoded); err == nil {
		t.Error("unmarshal accepted unknown permission name")
	}
}
