package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/usecase"
)

var (
	_ usecase.AuthGateway = (*Client)(nil)
	_ usecase.MenuGateway = (*Client)(nil)
)

// Login exchanges credentials for a token pair. When the login payload
// carries no numeric user id the identity is taken from /common/users/me.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.TokenGrant, error) {
	payload, err := c.do(ctx, request{
		endpoint: "login",
		method:   http.MethodPost,
		path:     "/auth/login",
		body: loginRequest{
			UserID:     creds.LoginID,
			Password:   creds.Password,
			RememberMe: creds.RememberMe,
		},
	})
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode < http.StatusInternalServerError &&
			statusErr.StatusCode != http.StatusNotFound {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
		}
		return nil, err
	}

	var dto grantDTO
	if err := decode("login", payload, &dto); err != nil {
		return nil, err
	}
	grant, err := dto.grant("login")
	if err != nil {
		return nil, err
	}

	if grant.Identity.UserID == 0 {
		me, err := c.Me(ctx, grant.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("resolve identity after login: %w", err)
		}
		if me.LoginID == "" {
			me.LoginID = grant.Identity.LoginID
		}
		grant.Identity = *me
	}
	return grant, nil
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.RefreshGrant, error) {
	payload, err := c.do(ctx, request{
		endpoint: "refresh",
		method:   http.MethodPost,
		path:     "/auth/refresh",
		body:     refreshRequest{RefreshToken: refreshToken},
	})
	if err != nil {
		return nil, err
	}

	var dto refreshDTO
	if err := decode("refresh", payload, &dto); err != nil {
		return nil, err
	}
	if dto.AccessToken == "" {
		return nil, fmt.Errorf("%w: refresh: missing access token", domain.ErrMalformedResponse)
	}
	return &domain.RefreshGrant{
		AccessToken:  dto.AccessToken,
		RefreshToken: dto.RefreshToken,
		ExpiresIn:    time.Duration(dto.ExpiresIn) * time.Second,
	}, nil
}

// Logout tears down the server-side session.
func (c *Client) Logout(ctx context.Context, accessToken string, userID int64) error {
	_, err := c.do(ctx, request{
		endpoint: "logout",
		method:   http.MethodPost,
		path:     "/auth/logout/" + strconv.FormatInt(userID, 10),
		token:    accessToken,
		body:     logoutRequest{UserID: userID},
	})
	return err
}

// Me returns the identity the access token belongs to.
func (c *Client) Me(ctx context.Context, accessToken string) (*domain.Identity, error) {
	payload, err := c.do(ctx, request{
		endpoint: "me",
		method:   http.MethodGet,
		path:     "/common/users/me",
		token:    accessToken,
	})
	if err != nil {
		return nil, err
	}

	var dto userDTO
	if err := decode("me", payload, &dto); err != nil {
		return nil, err
	}
	identity := dto.identity()
	if identity.UserID == 0 {
		return nil, fmt.Errorf("%w: me: missing user id", domain.ErrMalformedResponse)
	}
	return &identity, nil
}

// Impersonate switches the session to targetUserID.
func (c *Client) Impersonate(ctx context.Context, accessToken string, targetUserID int64) (*domain.TokenGrant, error) {
	return c.grant(ctx, request{
		endpoint: "impersonate",
		method:   http.MethodPost,
		path:     "/common/auth/impersonate/" + strconv.FormatInt(targetUserID, 10),
		token:    accessToken,
	})
}

// RevertImpersonation returns to the original administrator.
func (c *Client) RevertImpersonation(ctx context.Context, accessToken string) (*domain.TokenGrant, error) {
	return c.grant(ctx, request{
		endpoint: "impersonate_revert",
		method:   http.MethodPost,
		path:     "/common/auth/impersonate/revert",
		token:    accessToken,
	})
}

func (c *Client) grant(ctx context.Context, req request) (*domain.TokenGrant, error) {
	payload, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	var dto grantDTO
	if err := decode(req.endpoint, payload, &dto); err != nil {
		return nil, err
	}
	return dto.grant(req.endpoint)
}

// ListImpersonationTargets returns one page of users an administrator may
// act as.
func (c *Client) ListImpersonationTargets(ctx context.Context, accessToken string, q usecase.TargetQuery) (*usecase.TargetPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		query.Set("size", strconv.Itoa(q.Size))
	}
	if q.Keyword != "" {
		query.Set("keyword", q.Keyword)
	}

	payload, err := c.do(ctx, request{
		endpoint: "impersonate_users",
		method:   http.MethodGet,
		path:     "/common/auth/impersonate/users",
		query:    query,
		token:    accessToken,
	})
	if err != nil {
		return nil, err
	}

	if !isNull(payload) && payload[0] == '[' {
		var users []userDTO
		if err := decode("impersonate_users", payload, &users); err != nil {
			return nil, err
		}
		return targetPageDTO{Content: users, TotalElements: len(users), TotalPages: 1}.toUsecase(), nil
	}

	var dto targetPageDTO
	if err := decode("impersonate_users", payload, &dto); err != nil {
		return nil, err
	}
	return dto.toUsecase(), nil
}
