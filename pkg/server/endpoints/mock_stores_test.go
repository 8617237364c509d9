package endpoints

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/teamstore/keeper/pkg/identity"
	"github.com/teamstore/keeper/pkg/model"
	"github.com/teamstore/keeper/pkg/vault"
)

type MockProjectsStore struct {
	mock.Mock
}

func (m *MockProjectsStore) List(ctx context.Context, scope *identity.Scope, opts vault.ListOptions) ([]model.Project, error) {
	args := m.Called(ctx, scope, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectsStore) Get(ctx context.Context, scope *identity.Scope, projectID int) (*model.Project, error) {
	args := m.Called(ctx, scope, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectsStore) Create(ctx context.Context, scope *identity.Scope, project *model.Project) (uint, error) {
	args := m.Called(ctx, scope, project)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockProjectsStore) Import(ctx context.Context, scope *identity.Scope, project *model.Project) (uint, error) {
	args := m.Called(ctx, scope, project)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockProjectsStore) Archive(ctx context.Context, scope *identity.Scope, project *model.Project) error {
	args := m.Called(ctx, scope, project)
	return args.Error(0)
}

type MockAssetsStore struct {
	mock.Mock
}

func (m *MockAssetsStore) Create(ctx context.Context, scope *identity.Scope, projectID uint, asset *model.Asset) (uint, error) {
	args := m.Called(ctx, scope, projectID, asset)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockAssetsStore) Get(ctx context.Context, scope *identity.Scope, assetID uint) (*model.Asset, error) {
	args := m.Called(ctx, scope, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetsStore) Update(ctx context.Context, scope *identity.Scope, assetID uint, update *model.Asset) error {
	args := m.Called(ctx, scope, assetID, update)
	return args.Error(0)
}

func (m *MockAssetsStore) Archive(ctx context.Context, scope *identity.Scope, assetID uint) error {
	args := m.Called(ctx, scope, assetID)
	return args.Error(0)
}

type MockAccessStore struct {
	mock.Mock
}

func (m *MockAccessStore) HasAccess(ctx context.Context, scope *identity.Scope, projectID uint) (bool, error) {
	args := m.Called(ctx, scope, projectID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessStore) EffectiveRole(ctx context.Context, scope *identity.Scope, projectID uint) (string, error) {
	args := m.Called(ctx, scope, projectID)
	return args.String(0), args.Error(1)
}

func (m *MockAccessStore) Grant(ctx context.Context, scope *identity.Scope, projectID uint, targetObjectID, role string) error {
	args := m.Called(ctx, scope, projectID, targetObjectID, role)
	return args.Error(0)
}

func (m *MockAccessStore) Revoke(ctx context.Context, scope *identity.Scope, projectID uint, targetObjectID, role string) error {
	args := m.Called(ctx, scope, projectID, targetObjectID, role)
	return args.Error(0)
}

type MockIdentitiesStore struct {
	mock.Mock
}

func (m *MockIdentitiesStore) Current(ctx context.Context, scope *identity.Scope) (*model.Identity, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Identity), args.Error(1)
}

func (m *MockIdentitiesStore) IsAdmin(ctx context.Context, scope *identity.Scope) (bool, error) {
	args := m.Called(ctx, scope)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdentitiesStore) ResolveByUPN(ctx context.Context, scope *identity.Scope, upn string) (*model.Identity, error) {
	args := m.Called(ctx, scope, upn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Identity), args.Error(1)
}
