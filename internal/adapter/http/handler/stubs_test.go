package handler

import (
	"context"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/usecase"
)

type sessionServiceStub struct {
	loginFn   func(ctx context.Context, creds domain.Credentials) (*usecase.LoginResult, error)
	logoutFn  func(ctx context.Context) error
	verifyFn  func(ctx context.Context) error
	session   *domain.Session
	expiring  bool
	verified  int
	loggedOut int
}

func (s *sessionServiceStub) Login(ctx context.Context, creds domain.Credentials) (*usecase.LoginResult, error) {
	return s.loginFn(ctx, creds)
}

func (s *sessionServiceStub) Logout(ctx context.Context) error {
	s.loggedOut++
	if s.logoutFn != nil {
		return s.logoutFn(ctx)
	}
	s.session = nil
	return nil
}

func (s *sessionServiceStub) RestoreAndVerify(ctx context.Context) error {
	s.verified++
	if s.verifyFn != nil {
		return s.verifyFn(ctx)
	}
	return nil
}

func (s *sessionServiceStub) Current() (*domain.Session, bool) {
	return s.session, s.session != nil
}

func (s *sessionServiceStub) IsExpiringSoon() bool { return s.expiring }

func (s *sessionServiceStub) Identity() (domain.Identity, bool) {
	if s.session == nil {
		return domain.Identity{}, false
	}
	return s.session.Identity, true
}

type impersonationServiceStub struct {
	startFn   func(ctx context.Context, targetUserID int64) error
	stopFn    func(ctx context.Context) error
	targetsFn func(ctx context.Context, query usecase.TargetQuery) (*usecase.TargetPage, error)
	snapshot  domain.ImpersonationSnapshot
}

func (s *impersonationServiceStub) Start(ctx context.Context, targetUserID int64) error {
	return s.startFn(ctx, targetUserID)
}

func (s *impersonationServiceStub) Stop(ctx context.Context) error {
	return s.stopFn(ctx)
}

func (s *impersonationServiceStub) Snapshot() domain.ImpersonationSnapshot { return s.snapshot }

func (s *impersonationServiceStub) ListTargets(ctx context.Context, query usecase.TargetQuery) (*usecase.TargetPage, error) {
	return s.targetsFn(ctx, query)
}

type permissionServiceStub struct {
	fullAccess bool
	auth       map[int64]domain.MenuAuth
}

func (s *permissionServiceStub) IsFullAccess() bool { return s.fullAccess }

func (s *permissionServiceStub) GetAuth(_ context.Context, menuID int64) domain.MenuAuth {
	if s.fullAccess {
		return domain.AllowAll()
	}
	return s.auth[menuID]
}

type menuServiceStub struct {
	loadFn func(ctx context.Context, force bool) (*domain.MenuTree, error)
}

func (s *menuServiceStub) LoadTree(ctx context.Context, force bool) (*domain.MenuTree, error) {
	return s.loadFn(ctx, force)
}
