package vault

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/teamstore/keeper/pkg/directory"
	"github.com/teamstore/keeper/pkg/identity"
	"github.com/teamstore/keeper/pkg/model"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(
		postgres.New(postgres.Config{Conn: db, PreferSimpleProtocol: true}),
		&gorm.Config{
			SkipDefaultTransaction: true,
			Logger:                 logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return gdb, mock
}

func identityRow(id uint, objectID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "kind", "object_id", "display_name", "tenant_id", "upn"}).
		AddRow(id, "user", objectID, "Some User", "tenant-1", "user@example.com")
}

func TestCurrentAnonymousScope(t *testing.T) {
	svc := NewIdentityService(nil, nil)

	got, err := svc.Current(context.Background(), identity.NewScope(nil))
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestCurrentResolvesOnceAndCaches(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewIdentityService(gdb, nil)

	scope := identity.NewScope(&identity.Principal{ObjectID: "obj-1"})

	mock.ExpectQuery(`SELECT \* FROM "identities"`).
		WithArgs("obj-1").
		WillReturnRows(identityRow(7, "obj-1"))

	first, err := svc.Current(context.Background(), scope)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), first.ID)

	// Second call must come from the scope cache, not the database.
	second, err := svc.Current(context.Background(), scope)
	assert.NoError(t, err)
	assert.Same(t, first, second)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrentProvisionsUnseenCaller(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewIdentityService(gdb, nil)

	scope := identity.NewScope(&identity.Principal{
		ObjectID:    "obj-new",
		DisplayName: "New User",
		Upn:         "new@example.com",
		TenantID:    "tenant-1",
	})

	mock.ExpectQuery(`SELECT \* FROM "identities"`).
		WithArgs("obj-new").
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`INSERT INTO "identities"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	got, err := svc.Current(context.Background(), scope)
	assert.NoError(t, err)
	assert.Equal(t, uint(12), got.ID)
	assert.Equal(t, model.IdentityKindUser, got.Kind)
	assert.Equal(t, "obj-new", got.ObjectID)
	assert.Equal(t, "new@example.com", got.Upn)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAdminCachesEvaluation(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewIdentityService(gdb, nil)

	scope := identity.NewScope(&identity.Principal{ObjectID: "obj-1"})

	mock.ExpectQuery(`SELECT \* FROM "identities"`).
		WithArgs("obj-1").
		WillReturnRows(identityRow(7, "obj-1"))
	mock.ExpectQuery(`SELECT count`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	isAdmin, err := svc.IsAdmin(context.Background(), scope)
	assert.NoError(t, err)
	assert.True(t, isAdmin)

	// Cached on the scope; no further query expected.
	isAdmin, err = svc.IsAdmin(context.Background(), scope)
	assert.NoError(t, err)
	assert.True(t, isAdmin)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAdminAnonymousScope(t *testing.T) {
	svc := NewIdentityService(nil, nil)

	isAdmin, err := svc.IsAdmin(context.Background(), identity.NewScope(nil))
	assert.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestResolveOrProvisionEmptyObjectID(t *testing.T) {
	svc := NewIdentityService(nil, nil)

	_, err := svc.ResolveOrProvision(context.Background(), identity.NewScope(nil), "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestResolveOrProvisionUnknownWithoutDirectory(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewIdentityService(gdb, nil)

	mock.ExpectQuery(`SELECT \* FROM "identities"`).
		WithArgs("obj-missing").
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := svc.ResolveOrProvision(context.Background(), identity.NewScope(nil), "obj-missing")
	assert.True(t, errors.Is(err, directory.ErrNotFound))
}

// fakeDirectory serves canned principals the way the LDAP service would.
type fakeDirectory struct {
	principals map[string]*directory.Principal
}

func (f *fakeDirectory) ResolveByObjectID(_ context.Context, objectID, _ string) (*directory.Principal, error) {
	if p, ok := f.principals[objectID]; ok {
		return p, nil
	}
	return nil, directory.ErrNotFound
}

func (f *fakeDirectory) ResolveByUPN(_ context.Context, upn, _ string) (*directory.Principal, error) {
	for _, p := range f.principals {
		if p.Upn == upn {
			return p, nil
		}
	}
	return nil, directory.ErrNotFound
}

func TestResolveOrProvisionFromDirectory(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewIdentityService(gdb, &fakeDirectory{principals: map[string]*directory.Principal{
		"u-9": {ObjectID: "u-9", Kind: directory.PrincipalUser, DisplayName: "Directory User", Upn: "dir@example.com", TenantID: "tenant-1"},
		"g-4": {ObjectID: "g-4", Kind: directory.PrincipalGroup, DisplayName: "Directory Group", TenantID: "tenant-1"},
	}})
	scope := identity.NewScope(&identity.Principal{ObjectID: "obj-1"})

	mock.ExpectQuery(`SELECT \* FROM "identities"`).
		WithArgs("u-9").
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`INSERT INTO "identities"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))

	user, err := svc.ResolveOrProvision(context.Background(), scope, "u-9")
	assert.NoError(t, err)
	assert.Equal(t, uint(21), user.ID)
	assert.Equal(t, model.IdentityKindUser, user.Kind)
	assert.Equal(t, "u-9", user.ObjectID)
	assert.Equal(t, "dir@example.com", user.Upn)

	mock.ExpectQuery(`SELECT \* FROM "identities"`).
		WithArgs("g-4").
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`INSERT INTO "identities"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(22))

	group, err := svc.ResolveOrProvision(context.Background(), scope, "g-4")
	assert.NoError(t, err)
	assert.Equal(t, uint(22), group.ID)
	assert.Equal(t, model.IdentityKindGroup, group.Kind)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveOrProvisionDirectoryMiss(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewIdentityService(gdb, &fakeDirectory{})

	mock.ExpectQuery(`SELECT \* FROM "identities"`).
		WithArgs("obj-gone").
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := svc.ResolveOrProvision(context.Background(), identity.NewScope(nil), "obj-gone")
	assert.ErrorIs(t, err, directory.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveByUPNFromDirectory(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewIdentityService(gdb, &fakeDirectory{principals: map[string]*directory.Principal{
		"u-5": {ObjectID: "u-5", Kind: directory.PrincipalUser, DisplayName: "Directory User", Upn: "five@example.com", TenantID: "tenant-1"},
	}})
	scope := identity.NewScope(&identity.Principal{ObjectID: "obj-1"})

	mock.ExpectQuery(`SELECT \* FROM "identities"`).
		WithArgs("five@example.com").
		WillReturnError(gorm.ErrRecordNotFound)
	// The directory hit is re-checked by object id before provisioning.
	mock.ExpectQuery(`SELECT \* FROM "identities"`).
		WithArgs("u-5").
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`INSERT INTO "identities"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(23))

	got, err := svc.ResolveByUPN(context.Background(), scope, "five@example.com")
	assert.NoError(t, err)
	assert.Equal(t, uint(23), got.ID)
	assert.Equal(t, "u-5", got.ObjectID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGrantAdministratorNilIdentity(t *testing.T) {
	svc := NewIdentityService(nil, nil)

	err := svc.GrantAdministrator(context.Background(), identity.NewScope(nil), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = svc.RevokeAdministrator(context.Background(), identity.NewScope(nil), &model.Identity{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestIdentityFromPrincipal(t *testing.T) {
	user := identityFromPrincipal(&directory.Principal{
		ObjectID:    "u-1",
		Kind:        directory.PrincipalUser,
		DisplayName: "User One",
		Upn:         "one@example.com",
		TenantID:    "tenant-1",
	})
	assert.Equal(t, model.IdentityKindUser, user.Kind)
	assert.Equal(t, "one@example.com", user.Upn)

	group := identityFromPrincipal(&directory.Principal{
		ObjectID: "g-1",
		Kind:     directory.PrincipalGroup,
	})
	assert.Equal(t, model.IdentityKindGroup, group.Kind)
	assert.Equal(t, "", group.Upn)
}
