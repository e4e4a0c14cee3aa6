package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iho/logiadmin/internal/domain"
)

// UserMenus returns the menu tree of userID with embedded auth flags.
func (c *Client) UserMenus(ctx context.Context, accessToken string, userID int64) ([]domain.MenuItem, error) {
	payload, err := c.do(ctx, request{
		endpoint: "user_menus",
		method:   http.MethodGet,
		path:     "/common/menus/users/" + strconv.FormatInt(userID, 10),
		token:    accessToken,
	})
	if err != nil {
		return nil, err
	}

	list, err := unwrapList(payload, "menus", "menuList", "data")
	if err != nil {
		return nil, fmt.Errorf("user menus: %w", err)
	}
	var dtos []menuDTO
	if err := json.Unmarshal(list, &dtos); err != nil {
		return nil, fmt.Errorf("%w: user menus: %v", domain.ErrMalformedResponse, err)
	}

	items := make([]domain.MenuItem, 0, len(dtos))
	for _, m := range dtos {
		items = append(items, m.toDomain())
	}
	return items, nil
}

// MenuAuth returns the CRUD flags of one menu. A missing record is
// domain.ErrNotFound.
func (c *Client) MenuAuth(ctx context.Context, accessToken string, userID, menuID int64) (domain.MenuAuth, error) {
	payload, err := c.do(ctx, request{
		endpoint: "menu_auth",
		method:   http.MethodGet,
		path: fmt.Sprintf("/common/menus/users/%d/menus/%d/auth",
			userID, menuID),
		token: accessToken,
	})
	if err != nil {
		return domain.DenyAll(), err
	}
	if isNull(payload) {
		return domain.DenyAll(), fmt.Errorf("menu %d auth: %w", menuID, domain.ErrNotFound)
	}

	var dto authDTO
	if err := decode("menu_auth", payload, &dto); err != nil {
		return domain.DenyAll(), err
	}
	return dto.toDomain(), nil
}

// MenuByURL resolves a route path to its menu. It returns
// domain.ErrNotFound when nothing is routed at path.
func (c *Client) MenuByURL(ctx context.Context, accessToken, path string) (*domain.MenuItem, error) {
	payload, err := c.do(ctx, request{
		endpoint: "menu_by_url",
		method:   http.MethodGet,
		path:     "/common/menus/by-url",
		query:    url.Values{"url": {path}},
		token:    accessToken,
	})
	if err != nil {
		if errors.Is(err, ErrRejected) {
			return nil, fmt.Errorf("menu for %q: %w", path, domain.ErrNotFound)
		}
		return nil, err
	}
	if isNull(payload) {
		return nil, fmt.Errorf("menu for %q: %w", path, domain.ErrNotFound)
	}

	var dto menuDTO
	if err := decode("menu_by_url", payload, &dto); err != nil {
		return nil, err
	}
	if dto.MenuID == 0 {
		return nil, fmt.Errorf("menu for %q: %w", path, domain.ErrNotFound)
	}
	item := dto.toDomain()
	return &item, nil
}
