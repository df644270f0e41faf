package apiclient

import "context"

//go:generate mockgen -source=session.go -destination=session_mock_test.go -package=apiclient

// SessionProvider returns the current bearer token, if any.
// ok == false means the call proceeds unauthenticated.
type SessionProvider interface {
	CurrentToken(ctx context.Context) (token string, ok bool, err error)
}

type SessionProviderFunc func(ctx context.Context) (string, bool, error)

func (f SessionProviderFunc) CurrentToken(ctx context.Context) (string, bool, error) {
	return f(ctx)
}

type noSession struct{}

func (noSession) CurrentToken(context.Context) (string, bool, error) {
	return "", false, nil
}
