package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"writook/internal/authclient"
	"writook/internal/config"
	"writook/internal/controller"
	"writook/internal/localstate"
	"writook/internal/notify"
	"writook/internal/ownership"
	"writook/internal/session"
	"writook/internal/socialclient"
	"writook/internal/storyclient"
	"writook/internal/util"
	"writook/internal/views"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "writook",
	Short:        "Writook is a terminal client for the Writook story platform",
	Long:         `Read, write and publish serialized stories from the terminal.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config.yaml")
}

// app is one fully wired client process: config, local state, backend
// clients, session and the page controllers on top of them.
type app struct {
	cfg      config.FileConfig
	local    localstate.Store
	sessions *session.Store
	hub      *notify.Hub
	deps     controller.Deps
	unsub    func()
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	util.InitLogger(cfg.LogLevel)
	timeout, err := config.ParseRequestTimeout(cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	raw, err := localstate.Open(localstate.Config{
		Backend:       cfg.StateBackend,
		DataDir:       cfg.DataDir,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
	})
	if err != nil {
		return nil, err
	}
	// The token never touches the backend store in the clear.
	local, err := localstate.NewSealed(raw, filepath.Join(cfg.DataDir, "state.key"), localstate.KeyAuthToken)
	if err != nil {
		raw.Close()
		return nil, err
	}

	auth := authclient.NewClient(cfg.APIBaseURL, timeout)
	stories := storyclient.NewClient(cfg.APIBaseURL, timeout)
	social := socialclient.NewClient(cfg.APIBaseURL, timeout)
	sessions := session.New(local, auth)
	hub := notify.NewHub(0)

	a := &app{cfg: cfg, local: local, sessions: sessions, hub: hub}
	a.unsub = hub.Subscribe(func(n *notify.Notification) {
		if n == nil {
			return
		}
		fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Kind, n.Message)
	})
	a.deps = controller.Deps{
		Sessions:     sessions,
		Resolver:     ownership.New(stories, sessions),
		Views:        views.NewCache(local),
		Notify:       hub,
		Auth:         auth,
		Stories:      stories,
		Social:       social,
		Nav:          controller.NavigatorFunc(a.navigate),
		PublicWebURL: cfg.PublicWebURL,
	}
	return a, nil
}

// navigate prints where the web client would go next; with a public web URL
// configured the printed line is a working link.
func (a *app) navigate(r controller.Route) {
	if a.cfg.PublicWebURL != "" {
		fmt.Println(a.cfg.PublicWebURL + string(r))
		return
	}
	fmt.Println(string(r))
}

// restore brings the persisted session back before any command runs.
func (a *app) restore(ctx context.Context) {
	a.sessions.Restore(ctx)
}

func (a *app) Close() error {
	if a.unsub != nil {
		a.unsub()
	}
	return a.local.Close()
}
