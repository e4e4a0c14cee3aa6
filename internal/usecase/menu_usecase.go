package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/infrastructure/metrics"
)

// TreeLoadedFunc is called with every freshly fetched menu tree.
type TreeLoadedFunc func(ctx context.Context, userID int64, tree *domain.MenuTree)

// MenuUseCase caches the menu tree of the acting user and resolves routes
// to menu nodes.
type MenuUseCase struct {
	sessions *SessionUseCase
	gateway  MenuGateway
	logger   zerolog.Logger
	metrics  *metrics.Metrics

	mu         sync.RWMutex
	tree       *domain.MenuTree
	treeUser   int64
	generation uint64
	onLoaded   []TreeLoadedFunc

	flights singleflight.Group
}

// NewMenuUseCase creates a new menu use case.
func NewMenuUseCase(
	sessions *SessionUseCase,
	gateway MenuGateway,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *MenuUseCase {
	return &MenuUseCase{
		sessions: sessions,
		gateway:  gateway,
		logger:   logger.With().Str("component", "menu").Logger(),
		metrics:  m,
	}
}

// OnTreeLoaded registers fn to run after each successful fetch.
func (uc *MenuUseCase) OnTreeLoaded(fn TreeLoadedFunc) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.onLoaded = append(uc.onLoaded, fn)
}

// LoadTree returns the cached tree of the acting user, fetching it when
// absent or when force is set.
func (uc *MenuUseCase) LoadTree(ctx context.Context, force bool) (*domain.MenuTree, error) {
	identity, ok := uc.sessions.Identity()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	if !force {
		uc.mu.RLock()
		tree, user := uc.tree, uc.treeUser
		uc.mu.RUnlock()
		if tree != nil && user == identity.UserID {
			return tree, nil
		}
	}

	key := strconv.FormatInt(identity.UserID, 10)
	v, err, _ := uc.flights.Do(key, func() (any, error) {
		return uc.fetch(ctx, identity.UserID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.MenuTree), nil
}

func (uc *MenuUseCase) fetch(ctx context.Context, userID int64) (*domain.MenuTree, error) {
	token, ok := uc.sessions.AccessToken()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	uc.mu.RLock()
	generation := uc.generation
	uc.mu.RUnlock()

	items, err := uc.gateway.UserMenus(ctx, token, userID)
	if err != nil {
		uc.countLoad("failure")
		return nil, fmt.Errorf("load menu tree: %w", err)
	}

	tree := domain.NewMenuTree(items)

	uc.mu.Lock()
	// An invalidation during the fetch means the tree may belong to a
	// previous identity; hand it to this caller but do not cache it.
	cached := uc.generation == generation
	if cached {
		uc.tree = tree
		uc.treeUser = userID
	}
	hooks := append([]TreeLoadedFunc(nil), uc.onLoaded...)
	uc.mu.Unlock()

	uc.countLoad("success")
	uc.logger.Debug().Int64("user_id", userID).Int("nodes", tree.Len()).Msg("menu tree loaded")

	if cached {
		for _, fn := range hooks {
			fn(ctx, userID, tree)
		}
	}

	return tree, nil
}

// FindByURL looks url up in the cached tree. It never fetches.
func (uc *MenuUseCase) FindByURL(url string) *domain.MenuNode {
	return uc.cached().FindByURL(url)
}

// FindByCode looks code up in the cached tree. It never fetches.
func (uc *MenuUseCase) FindByCode(code string) *domain.MenuNode {
	return uc.cached().FindByCode(code)
}

// FindByID looks menuID up in the cached tree. It never fetches.
func (uc *MenuUseCase) FindByID(menuID int64) *domain.MenuNode {
	return uc.cached().FindByID(menuID)
}

func (uc *MenuUseCase) cached() *domain.MenuTree {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.tree
}

// Resolve maps a route path to its menu node. The tree is consulted first,
// then the backend's by-url lookup. A route without a menu yields nil and no
// error.
func (uc *MenuUseCase) Resolve(ctx context.Context, path string) (*domain.MenuNode, error) {
	tree, err := uc.LoadTree(ctx, false)
	if err != nil {
		return nil, err
	}

	for _, candidate := range routeCandidates(path) {
		if node := tree.FindByURL(candidate); node != nil {
			return node, nil
		}
	}

	token, ok := uc.sessions.AccessToken()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	item, err := uc.gateway.MenuByURL(ctx, token, path)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve menu for %s: %w", path, err)
	}
	if item == nil {
		return nil, nil
	}

	return domain.NewMenuTree([]domain.MenuItem{*item}).FindByID(item.MenuID), nil
}

// routeCandidates returns path and, for paths with a trailing slash, the
// path without it.
func routeCandidates(path string) []string {
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		return []string{path, strings.TrimRight(path, "/")}
	}
	return []string{path}
}

// Invalidate drops the cached tree.
func (uc *MenuUseCase) Invalidate() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.tree = nil
	uc.treeUser = 0
	uc.generation++
}

func (uc *MenuUseCase) countLoad(result string) {
	if uc.metrics != nil {
		uc.metrics.MenuTreeLoads.WithLabelValues(result).Inc()
	}
}
