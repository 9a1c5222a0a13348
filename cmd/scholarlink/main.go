package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/scholarlink/internal/clients/engagementapi"
	"github.com/yungbote/scholarlink/internal/config"
	"github.com/yungbote/scholarlink/internal/engagement"
	"github.com/yungbote/scholarlink/internal/platform/apierr"
	"github.com/yungbote/scholarlink/internal/platform/logger"
	"github.com/yungbote/scholarlink/internal/session"
)

var configPath string

// env is everything a command needs, built once per invocation.
type env struct {
	cfg    config.Config
	log    *logger.Logger
	engine *engagement.Engine
	sess   session.Session
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "scholarlink",
		Short:         "Browse matches, apply, track improvement plans and research gaps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath+")")

	rootCmd.AddCommand(matchesCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(applyCmd())
	rootCmd.AddCommand(applicationsCmd())
	rootCmd.AddCommand(reviewCmd())
	rootCmd.AddCommand(plansCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(gapsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", displayMessage(err))
		os.Exit(exitCode(err))
	}
}

// displayError carries the message to show for an error without losing its kind.
type displayError struct {
	msg string
	err error
}

func (d *displayError) Error() string { return d.msg }
func (d *displayError) Unwrap() error { return d.err }

func displayMessage(err error) string {
	var d *displayError
	if errors.As(err, &d) {
		return d.msg
	}
	return apierr.UserMessage(err, err.Error())
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, apierr.ErrAuth):
		return 3
	case errors.Is(err, apierr.ErrNetwork):
		return 4
	default:
		return 1
	}
}

func setup() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	sess, err := sessionFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts := cfg.ClientOptions()
	opts.Log = log
	client, err := engagementapi.New(opts)
	if err != nil {
		return nil, err
	}
	eng := engagement.New(client, engagement.Options{
		Log:        log,
		PlanPolicy: engagement.PlanPolicy{AllowSkipToCompleted: cfg.Plans.AllowSkipToCompleted},
	})
	return &env{cfg: cfg, log: log, engine: eng, sess: sess}, nil
}

func (e *env) close() {
	e.engine.Close()
	e.log.Sync()
}

// sessionFromConfig takes the user id from the token subject when the config leaves it
// empty, and the role claim over the configured role. The token is not verified here.
func sessionFromConfig(cfg config.Config) (session.Session, error) {
	token := strings.TrimSpace(cfg.Session.Token)
	if token == "" {
		return session.Session{}, apierr.Auth("no token configured; set session.token or SCHOLARLINK_TOKEN")
	}
	userID := strings.TrimSpace(cfg.Session.UserID)
	role := strings.ToLower(strings.TrimSpace(cfg.Session.Role))

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if userID == "" {
			if sub, err := claims.GetSubject(); err == nil {
				userID = sub
			}
		}
		if r, ok := claims["role"].(string); ok && r != "" {
			role = strings.ToLower(r)
		}
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return session.Session{}, fmt.Errorf("session user id: %w", err)
	}
	if role == "" {
		role = string(session.RoleStudent)
	}
	return session.New(id, session.Role(role), session.StaticToken(token)), nil
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apierr.Validationf("invalid %s %q", what, raw)
	}
	return id, nil
}
