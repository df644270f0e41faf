// Package chizen is the typed client of the ChiZen API: one method per
// remote endpoint, all going through the api client executor.
package chizen

import (
	"context"
	"net/url"
	"strconv"

	"github.com/2beens/chizen/internal/apiclient"
)

const (
	DefaultVoiceID        = "master-lee"
	DefaultHistoryLimit   = 20
	DefaultUsersLimit     = 50
	DefaultLeaderboardLen = 50
)

type Client struct {
	exec *apiclient.Executor
}

func NewClient(exec *apiclient.Executor) *Client {
	return &Client{exec: exec}
}

func (c *Client) Executor() *apiclient.Executor {
	return c.exec
}

func (c *Client) HealthCheck(ctx context.Context) apiclient.Result[Health] {
	return apiclient.Execute[Health](ctx, c.exec, apiclient.Get("/health"))
}

// auth

func (c *Client) Login(ctx context.Context, email, password string) apiclient.Result[LoginResponse] {
	return apiclient.Execute[LoginResponse](ctx, c.exec, apiclient.Post("/api/auth/login", LoginRequest{
		Email:    email,
		Password: password,
	}))
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) apiclient.Result[User] {
	return apiclient.Execute[User](ctx, c.exec, apiclient.Post("/api/auth/register", req))
}

func (c *Client) GoogleLogin(ctx context.Context, req GoogleLoginRequest) apiclient.Result[LoginResponse] {
	return apiclient.Execute[LoginResponse](ctx, c.exec, apiclient.Post("/api/auth/oauth/google", req))
}

func (c *Client) CurrentUser(ctx context.Context) apiclient.Result[User] {
	return apiclient.Execute[User](ctx, c.exec, apiclient.Get("/api/auth/me"))
}

// routines

func (c *Client) TodayRoutine(ctx context.Context) apiclient.Result[Routine] {
	return apiclient.Execute[Routine](ctx, c.exec, apiclient.Get("/api/routine/today"))
}

func (c *Client) GenerateRoutine(ctx context.Context) apiclient.Result[Routine] {
	return apiclient.Execute[Routine](ctx, c.exec, apiclient.RequestSpec{
		Path:   "/api/routine/generate",
		Method: "POST",
	})
}

func (c *Client) CompleteRoutine(ctx context.Context, routineID string, req CompleteRoutineRequest) apiclient.Result[CompleteRoutineResult] {
	req.RoutineID = routineID
	return apiclient.Execute[CompleteRoutineResult](ctx, c.exec, apiclient.Post("/api/routine/complete", req))
}

func (c *Client) RoutineHistory(ctx context.Context, page, limit int) apiclient.Result[RoutineHistory] {
	return apiclient.Execute[RoutineHistory](ctx, c.exec, apiclient.Get(withQuery("/api/routine/history", pageQuery(page, limit, DefaultHistoryLimit))))
}

// progress

func (c *Client) Progress(ctx context.Context) apiclient.Result[Progress] {
	return apiclient.Execute[Progress](ctx, c.exec, apiclient.Get("/api/progress"))
}

func (c *Client) Leaderboard(ctx context.Context, limit int) apiclient.Result[Leaderboard] {
	if limit <= 0 {
		limit = DefaultLeaderboardLen
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	return apiclient.Execute[Leaderboard](ctx, c.exec, apiclient.Get(withQuery("/api/leaderboard", query)))
}

// newsletter

func (c *Client) SubscribeNewsletter(ctx context.Context, email string) apiclient.Result[Message] {
	return apiclient.Execute[Message](ctx, c.exec, apiclient.Post("/api/newsletter/subscribe", NewsletterRequest{Email: email}))
}

func (c *Client) UnsubscribeNewsletter(ctx context.Context, email string) apiclient.Result[Message] {
	return apiclient.Execute[Message](ctx, c.exec, apiclient.Post("/api/newsletter/unsubscribe", NewsletterRequest{Email: email}))
}

// admin

func (c *Client) Users(ctx context.Context, page, limit int) apiclient.Result[UsersPage] {
	return apiclient.Execute[UsersPage](ctx, c.exec, apiclient.Get(withQuery("/api/admin/users", pageQuery(page, limit, DefaultUsersLimit))))
}

func (c *Client) User(ctx context.Context, userID string) apiclient.Result[User] {
	return apiclient.Execute[User](ctx, c.exec, apiclient.Get(userPath(userID)))
}

func (c *Client) UpdateUser(ctx context.Context, userID string, update UserUpdate) apiclient.Result[User] {
	return apiclient.Execute[User](ctx, c.exec, apiclient.Put(userPath(userID), update))
}

func (c *Client) DeleteUser(ctx context.Context, userID string) apiclient.Result[Message] {
	return apiclient.Execute[Message](ctx, c.exec, apiclient.Delete(userPath(userID)))
}

func (c *Client) Analytics(ctx context.Context) apiclient.Result[Analytics] {
	return apiclient.Execute[Analytics](ctx, c.exec, apiclient.Get("/api/admin/analytics"))
}

// voice

func (c *Client) GenerateVoice(ctx context.Context, text, voiceID string) apiclient.Result[VoiceResponse] {
	if voiceID == "" {
		voiceID = DefaultVoiceID
	}
	return apiclient.Execute[VoiceResponse](ctx, c.exec, apiclient.Post("/api/voice/generate", VoiceRequest{
		Text:    text,
		VoiceID: voiceID,
	}))
}

func userPath(userID string) string {
	return "/api/admin/users/" + url.PathEscape(userID)
}

func pageQuery(page, limit, defaultLimit int) url.Values {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	return query
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
