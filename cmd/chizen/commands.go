package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"

	"github.com/2beens/chizen/internal/apiclient"
	"github.com/2beens/chizen/internal/chizen"

	log "github.com/sirupsen/logrus"
)

var errUsage = errors.New("usage")

// tokenStore persists the token of a successful login.
type tokenStore interface {
	Store(ctx context.Context, token string) error
	Clear(ctx context.Context) (bool, error)
}

type app struct {
	client *chizen.Client
	tokens tokenStore
	out    io.Writer
	errOut io.Writer
}

type command struct {
	usage string
	args  int
	run   func(ctx context.Context, a *app, args []string) (any, bool, error)
}

var commands = map[string]command{
	"health": {
		usage: "health",
		run: func(ctx context.Context, a *app, _ []string) (any, bool, error) {
			res := a.client.HealthCheck(ctx)
			return res, res.OK, nil
		},
	},
	"login": {
		usage: "login <email> <password>",
		args:  2,
		run: func(ctx context.Context, a *app, args []string) (any, bool, error) {
			return a.login(ctx, args[0], args[1])
		},
	},
	"logout": {
		usage: "logout",
		run: func(ctx context.Context, a *app, _ []string) (any, bool, error) {
			return a.logout(ctx)
		},
	},
	"register": {
		usage: "register [-username name] [-level beginner|intermediate|advanced] <email> <password>",
		args:  2,
		run: func(ctx context.Context, a *app, args []string) (any, bool, error) {
			fs := flag.NewFlagSet("register", flag.ContinueOnError)
			fs.SetOutput(a.errOut)
			username := fs.String("username", "", "username (defaults to the email name)")
			level := fs.String("level", "", "fitness level")
			if err := fs.Parse(args); err != nil || fs.NArg() != 2 {
				return nil, false, errUsage
			}
			res := a.client.Register(ctx, chizen.RegisterRequest{
				Email:        fs.Arg(0),
				Password:     fs.Arg(1),
				Username:     *username,
				FitnessLevel: chizen.FitnessLevel(*level),
			})
			return res, res.OK, nil
		},
	},
	"me": {
		usage: "me",
		run: func(ctx context.Context, a *app, _ []string) (any, bool, error) {
			res := a.client.CurrentUser(ctx)
			return res, res.OK, nil
		},
	},
	"today": {
		usage: "today",
		run: func(ctx context.Context, a *app, _ []string) (any, bool, error) {
			res := a.client.TodayRoutine(ctx)
			return res, res.OK, nil
		},
	},
	"generate": {
		usage: "generate",
		run: func(ctx context.Context, a *app, _ []string) (any, bool, error) {
			res := a.client.GenerateRoutine(ctx)
			return res, res.OK, nil
		},
	},
	"routine": {
		usage: "routine (generates one, falls back to the template routine)",
		run: func(ctx context.Context, a *app, _ []string) (any, bool, error) {
			routine, errInfo := a.client.RoutineOrTemplate(ctx)
			if errInfo != nil {
				fmt.Fprintf(a.errOut, "using template routine: %s\n", errInfo.Message)
			}
			return apiclient.Success(routine), true, nil
		},
	},
	"complete": {
		usage: "complete [-duration min] [-exercises n] [-feedback easy|perfect|challenging] <routine_id>",
		args:  1,
		run: func(ctx context.Context, a *app, args []string) (any, bool, error) {
			fs := flag.NewFlagSet("complete", flag.ContinueOnError)
			fs.SetOutput(a.errOut)
			duration := fs.Int("duration", 0, "minutes completed")
			exercises := fs.Int("exercises", 0, "exercises completed")
			feedback := fs.String("feedback", "", "how it felt")
			if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
				return nil, false, errUsage
			}
			res := a.client.CompleteRoutine(ctx, fs.Arg(0), chizen.CompleteRoutineRequest{
				DurationCompleted:  *duration,
				ExercisesCompleted: *exercises,
				Feedback:           chizen.Feedback(*feedback),
			})
			return res, res.OK, nil
		},
	},
	"history": {
		usage: "history [-page n] [-limit n]",
		run: func(ctx context.Context, a *app, args []string) (any, bool, error) {
			page, limit, err := parsePage("history", a.errOut, args, chizen.DefaultHistoryLimit)
			if err != nil {
				return nil, false, err
			}
			res := a.client.RoutineHistory(ctx, page, limit)
			return res, res.OK, nil
		},
	},
	"progress": {
		usage: "progress",
		run: func(ctx context.Context, a *app, _ []string) (any, bool, error) {
			res := a.client.Progress(ctx)
			return res, res.OK, nil
		},
	},
	"leaderboard": {
		usage: "leaderboard [-limit n]",
		run: func(ctx context.Context, a *app, args []string) (any, bool, error) {
			_, limit, err := parsePage("leaderboard", a.errOut, args, chizen.DefaultLeaderboardLen)
			if err != nil {
				return nil, false, err
			}
			res := a.client.Leaderboard(ctx, limit)
			return res, res.OK, nil
		},
	},
	"subscribe": {
		usage: "subscribe <email>",
		args:  1,
		run: func(ctx context.Context, a *app, args []string) (any, bool, error) {
			res := a.client.SubscribeNewsletter(ctx, args[0])
			return res, res.OK, nil
		},
	},
	"unsubscribe": {
		usage: "unsubscribe <email>",
		args:  1,
		run: func(ctx context.Context, a *app, args []string) (any, bool, error) {
			res := a.client.UnsubscribeNewsletter(ctx, args[0])
			return res, res.OK, nil
		},
	},
	"users": {
		usage: "users [-page n] [-limit n]",
		run: func(ctx context.Context, a *app, args []string) (any, bool, error) {
			page, limit, err := parsePage("users", a.errOut, args, chizen.DefaultUsersLimit)
			if err != nil {
				return nil, false, err
			}
			res := a.client.Users(ctx, page, limit)
			return res, res.OK, nil
		},
	},
	"user": {
		usage: "user <id>",
		args:  1,
		run: func(ctx context.Context, a *app, args []string) (any, bool, error) {
			res := a.client.User(ctx, args[0])
			return res, res.OK, nil
		},
	},
	"update-user": {
		usage: `update-user <id> <json, e.g. {"total_xp":100}>`,
		args:  2,
		run: func(ctx context.Context, a *app, args []string) (any, bool, error) {
			var update chizen.UserUpdate
			if err := json.Unmarshal([]byte(args[1]), &update); err != nil {
				return nil, false, fmt.Errorf("%w: invalid update json: %s", errUsage, err)
			}
			res := a.client.UpdateUser(ctx, args[0], update)
			return res, res.OK, nil
		},
	},
	"delete-user": {
		usage: "delete-user <id>",
		args:  1,
		run: func(ctx context.Context, a *app, args []string) (any, bool, error) {
			res := a.client.DeleteUser(ctx, args[0])
			return res, res.OK, nil
		},
	},
	"analytics": {
		usage: "analytics",
		run: func(ctx context.Context, a *app, _ []string) (any, bool, error) {
			res := a.client.Analytics(ctx)
			return res, res.OK, nil
		},
	},
	"voice": {
		usage: "voice <text> [voice_id]",
		args:  1,
		run: func(ctx context.Context, a *app, args []string) (any, bool, error) {
			voiceID := ""
			if len(args) > 1 {
				voiceID = args[1]
			}
			res := a.client.GenerateVoice(ctx, args[0], voiceID)
			return res, res.OK, nil
		},
	},
}

func printCommands(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
}

// run executes one command and prints its result as JSON. The exit code is
// 0 on success, 1 on a failed call and 2 on bad usage.
func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		printCommands(a.errOut)
		return 2
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(a.errOut, "unknown command [%s]\n", args[0])
		printCommands(a.errOut)
		return 2
	}
	if len(args)-1 < cmd.args {
		fmt.Fprintf(a.errOut, "usage: chizen %s\n", cmd.usage)
		return 2
	}

	result, ok, err := cmd.run(ctx, a, args[1:])
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(a.errOut, "%s\nusage: chizen %s\n", err, cmd.usage)
			return 2
		}
		fmt.Fprintf(a.errOut, "%s: %s\n", args[0], err)
		return 1
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Errorf("encode %s result: %s", args[0], err)
		return 1
	}
	if !ok {
		return 1
	}
	return 0
}

func (a *app) login(ctx context.Context, email, password string) (any, bool, error) {
	res := a.client.Login(ctx, email, password)
	if !res.OK {
		return res, false, nil
	}

	if a.tokens == nil {
		fmt.Fprintf(a.errOut, "no session store configured, export CHIZEN_TOKEN=%s\n", res.Value.AccessToken)
		return res, true, nil
	}
	if err := a.tokens.Store(ctx, res.Value.AccessToken); err != nil {
		return nil, false, fmt.Errorf("store session token: %w", err)
	}
	log.Debugf("logged in as [%s], session token stored", res.Value.User.Email)
	return res, true, nil
}

func (a *app) logout(ctx context.Context) (any, bool, error) {
	if a.tokens == nil {
		return nil, false, errors.New("no session store configured")
	}
	cleared, err := a.tokens.Clear(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("clear session token: %w", err)
	}
	msg := "Logged out"
	if !cleared {
		msg = "Not logged in"
	}
	return apiclient.Success(chizen.Message{Message: msg}), true, nil
}

func parsePage(name string, errOut io.Writer, args []string, defaultLimit int) (int, int, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	page := fs.Int("page", 1, "page number, from 1")
	limit := fs.Int("limit", defaultLimit, "page size")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return 0, 0, errUsage
	}
	return *page, *limit, nil
}
