package model

import (
	"encoding/json"
	"fmt"
)

// Permission is a single delegate capability.
type Permission uint8

const (
	PermissionView Permission = 1 << iota
	PermissionUpload
	PermissionDelete
	PermissionManageUsers
)

// PermissionSet is a bitset of the four permissions. Stored as a tinyint
// column so an unknown permission name can never reach the database.
type PermissionSet uint8

const FullPermissions = PermissionSet(PermissionView | PermissionUpload | PermissionDelete | PermissionManageUsers)

var permissionNames = map[Permission]string{
	PermissionView:        "view",
	PermissionUpload:      "upload",
	PermissionDelete:      "delete",
	PermissionManageUsers: "manage_users",
}

var permissionByName = map[string]Permission{
	"view":         PermissionView,
	"upload":       PermissionUpload,
	"delete":       PermissionDelete,
	"manage_users": PermissionManageUsers,
}

// ParsePermissions validates a list of permission names at the boundary.
// Unknown names are rejected rather than silently dropped.
func ParsePermissions(names []string) (PermissionSet, error) {
	var set PermissionSet
	for _, name := range names {
		p, ok := permissionByName[name]
		if !ok {
			return 0, fmt.Errorf("unknown permission %q", name)
		}
		set |= PermissionSet(p)
	}
	return set, nil
}

func (s PermissionSet) Has(p Permission) bool {
	return s&PermissionSet(p) != 0
}

// Names returns the contained permissions in declaration order.
func (s PermissionSet) Names() []string {
	names := make([]string, 0, 4)
	for _, p := range []Permission{PermissionView, PermissionUpload, PermissionDelete, PermissionManageUsers} {
		if s.Has(p) {
			names = append(names, permissionNames[p])
		}
	}
	return names
}

func (s PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *PermissionSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	set, err := ParsePermissions(names)
	if err != nil {
		return err
	}
	*s = set
	return nil
}

func (p Permission) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("permission(%d)", uint8(p))
}
