package identity

import (
	"context"
	"net"
	"testing"

	"github.com/teamstore/keeper/pkg/model"
)

func TestScopeContextRoundTrip(t *testing.T) {
	scope := NewScope(&Principal{ObjectID: "obj-1"})
	ctx := Set(context.Background(), scope)

	got, ok := Get(ctx)
	if !ok {
		t.Fatal("expected scope in context")
	}
	if got.Principal().ObjectID != "obj-1" {
		t.Errorf("ObjectID = %q, want obj-1", got.Principal().ObjectID)
	}

	if _, ok := Get(context.Background()); ok {
		t.Error("expected no scope in empty context")
	}
}

func TestScopeCaching(t *testing.T) {
	scope := NewScope(&Principal{ObjectID: "obj-1"})

	if scope.Caller() != nil {
		t.Error("expected no cached caller on a fresh scope")
	}

	id := &model.Identity{ID: 7, ObjectID: "obj-1", Kind: model.IdentityKindUser}
	scope.CacheCaller(id)
	if scope.Caller() != id {
		t.Error("expected cached caller back")
	}

	if scope.AdminCached() != nil {
		t.Error("expected no cached admin flag on a fresh scope")
	}
	scope.CacheAdmin(true)
	if flag := scope.AdminCached(); flag == nil || !*flag {
		t.Error("expected cached admin flag true")
	}

	scope.InvalidateAdmin()
	if scope.AdminCached() != nil {
		t.Error("expected admin flag invalidated")
	}
}

func TestNilScopeAccessors(t *testing.T) {
	var scope *Scope

	if scope.Principal() != nil {
		t.Error("nil scope should have no principal")
	}
	if scope.Caller() != nil {
		t.Error("nil scope should have no caller")
	}
	if scope.AdminCached() != nil {
		t.Error("nil scope should have no admin flag")
	}
	if scope.RemoteIP() != "" {
		t.Error("nil scope should have no remote ip")
	}
	scope.InvalidateAdmin() // must not panic
}

func TestScopeRemoteIP(t *testing.T) {
	scope := NewScope(&Principal{ObjectID: "obj-1"}).WithRemoteIP(net.ParseIP("10.0.0.1"))
	if scope.RemoteIP() != "10.0.0.1" {
		t.Errorf("RemoteIP() = %q, want 10.0.0.1", scope.RemoteIP())
	}
}
