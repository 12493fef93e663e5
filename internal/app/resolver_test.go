package app

import (
	"errors"
	"testing"

	"docbase/internal/model"
)

func TestResolvePrimaryAccount(t *testing.T) {
	resolver := NewResolver(
		&fakeDelegateDir{},
		&fakeAccountDir{byUserID: map[uint]*model.Account{
			10: {ID: 3, UserID: 10, AccountType: model.AccountTypePaid},
		}},
	)

	ectx, err := resolver.Resolve(10)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ectx.IsDelegate {
		t.Error("primary principal resolved as delegate")
	}
	if ectx.EffectiveUserID != 10 || ectx.AccountID != 3 {
		t.Errorf("got effective user %d account %d, want 10/3", ectx.EffectiveUserID, ectx.AccountID)
	}
	for _, p := range []model.Permission{model.PermissionView, model.PermissionUpload, model.PermissionDelete, model.PermissionManageUsers} {
		if !ectx.Allows(p) {
			t.Errorf("primary principal denied %s", p)
		}
	}
}

func TestResolvePrimaryWithoutAccountRow(t *testing.T) {
	resolver := NewResolver(&fakeDelegateDir{}, &fakeAccountDir{})

	ectx, err := resolver.Resolve(10)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ectx.AccountID != 0 {
		t.Errorf("AccountID = %d, want 0 before first settings save", ectx.AccountID)
	}
	if !ectx.Allows(model.PermissionManageUsers) {
		t.Error("primary principal without account row lost permissions")
	}
}

func TestResolveActiveDelegate(t *testing.T) {
	perms := model.PermissionSet(model.PermissionView | model.PermissionUpload)
	resolver := NewResolver(
		&fakeDelegateDir{delegates: map[uint]*model.Delegate{
			20: {ID: 5, ParentAccountID: 3, UserID: 20, Permissions: perms, Active: true},
		}},
		&fakeAccountDir{byID: map[uint]*model.Account{
			3: {ID: 3, UserID: 10, AccountType: model.AccountTypeFree},
		}},
	)

	ectx, err := resolver.Resolve(20)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !ectx.IsDelegate || ectx.DelegateID != 5 {
		t.Errorf("got IsDelegate=%v DelegateID=%d", ectx.IsDelegate, ectx.DelegateID)
	}
	if ectx.EffectiveUserID != 10 || ectx.AccountID != 3 {
		t.Errorf("delegate resolved to user %d account %d, want parent 10/3", ectx.EffectiveUserID, ectx.AccountID)
	}
	if !ectx.Allows(model.PermissionUpload) {
		t.Error("granted permission denied")
	}
	if ectx.Allows(model.PermissionDelete) || ectx.Allows(model.PermissionManageUsers) {
		t.Error("delegate allowed permission outside its stored set")
	}
}

func TestResolveInactiveDelegate(t *testing.T) {
	resolver := NewResolver(
		&fakeDelegateDir{delegates: map[uint]*model.Delegate{
			20: {ID: 5, ParentAccountID: 3, UserID: 20, Permissions: model.FullPermissions, Active: false},
		}},
		&fakeAccountDir{byID: map[uint]*model.Account{
			3: {ID: 3, UserID: 10},
		}},
	)

	// Must refuse, not fall back to treating the principal as a primary.
	if _, err := resolver.Resolve(20); !errors.Is(err, ErrDelegateInactive) {
		t.Fatalf("Resolve inactive delegate: got %v, want ErrDelegateInactive", err)
	}
}

func TestResolveLookupFailureAborts(t *testing.T) {
	lookupErr := errors.New("connection refused")
	resolver := NewResolver(&fakeDelegateDir{err: lookupErr}, &fakeAccountDir{})

	ectx, err := resolver.Resolve(20)
	if err == nil {
		t.Fatal("lookup failure did not abort resolution")
	}
	if !errors.Is(err, lookupErr) {
		t.Errorf("error %v does not wrap the lookup failure", err)
	}
	if ectx != nil {
		t.Error("lookup failure still produced an effective context")
	}
}

func TestResolveIsStable(t *testing.T) {
	resolver := NewResolver(
		&fakeDelegateDir{delegates: map[uint]*model.Delegate{
			20: {ID: 5, ParentAccountID: 3, UserID: 20, Permissions: model.PermissionSet(model.PermissionView), Active: true},
		}},
		&fakeAccountDir{byID: map[uint]*model.Account{
			3: {ID: 3, UserID: 10},
		}},
	)

	first, err := resolver.Resolve(20)
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	second, err := resolver.Resolve(20)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if *first != *second {
		t.Errorf("unchanged directory produced different contexts: %+v vs %+v", first, second)
	}
}

func TestResolveRejectsZeroUserID(t *testing.T) {
	resolver := NewResolver(&fakeDelegateDir{}, &fakeAccountDir{})
	if _, err := resolver.Resolve(0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Resolve(0): got %v, want ErrInvalidInput", err)
	}
}
