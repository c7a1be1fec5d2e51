package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"

	"github.com/spainrp/awards/internal/auth"
	"github.com/spainrp/awards/internal/bot"
	"github.com/spainrp/awards/internal/config"
	"github.com/spainrp/awards/internal/envelope"
	"github.com/spainrp/awards/internal/handlers"
	"github.com/spainrp/awards/internal/logger"
	"github.com/spainrp/awards/internal/report"
	"github.com/spainrp/awards/internal/repository"
	"github.com/spainrp/awards/internal/services"
	"github.com/spainrp/awards/internal/session"
	"github.com/spainrp/awards/pkg/roblox"
)

// Mode selects which surfaces the process runs.
type Mode string

const (
	ModeAll Mode = "all"
	ModeBot Mode = "bot"
	ModeAPI Mode = "api"
)

// ParseMode validates a -mode flag value.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAll, ModeBot, ModeAPI:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want all, bot or api)", s)
	}
}

func (m Mode) bot() bool { return m == ModeAll || m == ModeBot }
func (m Mode) api() bool { return m == ModeAll || m == ModeAPI }

const shutdownTimeout = 10 * time.Second

// Deps lets callers (mostly tests) supply pre-built components. Nil fields
// are built from the config.
type Deps struct {
	Repo     repository.FullRepository
	Sessions session.Store
	Avatars  roblox.Client
	Discord  bot.API
	OAuth    auth.Authenticator
}

// App holds all application dependencies
type App struct {
	log  logger.Logger
	cfg  *config.Config
	mode Mode

	repo     repository.FullRepository
	sessions session.Store
	config   *services.ConfigService
	voting   *services.VotingService
	handlers *handlers.Handlers
	bot      *bot.Bot
	dg       *discordgo.Session

	closeOnce sync.Once
}

// New builds every component for mode from cfg.
func New(ctx context.Context, log logger.Logger, cfg *config.Config, mode Mode) (*App, error) {
	return NewWithDeps(ctx, log, cfg, mode, Deps{})
}

// NewWithDeps is New with injectable components.
func NewWithDeps(ctx context.Context, log logger.Logger, cfg *config.Config, mode Mode, deps Deps) (*App, error) {
	if err := checkSecrets(cfg, mode); err != nil {
		return nil, err
	}

	a := &App{log: log, cfg: cfg, mode: mode}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	a.repo = deps.Repo
	if a.repo == nil {
		repo, err := openRepository(ctx, cfg.Storage)
		if err != nil {
			return nil, err
		}
		a.repo = repo
	}
	log.Info("Vote store ready", "driver", cfg.Storage.Driver)

	a.config = services.NewConfigService(log, a.repo, cfg.Discord.AdminIDs)
	if _, err := a.config.Load(ctx); err != nil {
		return nil, fmt.Errorf("load award config: %w", err)
	}
	results := services.NewResultsService(log, a.repo, a.config)

	if mode.bot() {
		if err := a.buildBot(ctx, deps, results); err != nil {
			return nil, err
		}
	}
	if mode.api() {
		oauth := deps.OAuth
		if oauth == nil {
			oauth = auth.NewDiscordOAuth(cfg.Discord.ClientID, cfg.Discord.ClientSecret, cfg.Discord.RedirectURL)
		}
		a.handlers = handlers.New(
			a.config,
			services.NewVoteService(log, a.repo),
			results,
			services.NewHealthService(log, a.repo, databaseLabel(cfg.Storage.Driver), nil),
			auth.New(cfg.Server.JWTSecret, a.config.IsAdmin),
			oauth,
			envelope.New(cfg.Server.APISecretKey),
			log,
			handlers.Options{
				EventName:          cfg.Event.Name,
				FrontendURL:        cfg.Server.FrontendURL,
				ClientKey:          cfg.Server.ClientSecretKey,
				EditableCategories: cfg.Server.EditableCategories,
				RateLimit:          cfg.Server.RateLimit,
				RateWindow:         cfg.Server.RateWindow,
			},
		)
	}

	ok = true
	return a, nil
}

func (a *App) buildBot(ctx context.Context, deps Deps, results services.ResultsServicer) error {
	cfg := a.cfg

	a.sessions = deps.Sessions
	if a.sessions == nil {
		store, err := openSessions(ctx, cfg.Session)
		if err != nil {
			return err
		}
		a.sessions = store
	}

	api := deps.Discord
	if api == nil {
		dg, err := discordgo.New("Bot " + cfg.Discord.Token)
		if err != nil {
			return fmt.Errorf("create discord session: %w", err)
		}
		a.dg = dg
		api = bot.NewGateway(dg)
	}

	avatars := deps.Avatars
	if avatars == nil {
		avatars = roblox.NewHTTPClient(cfg.Roblox.UsersURL, cfg.Roblox.ThumbnailsURL, cfg.Roblox.Timeout, a.log)
	}

	renderer, err := report.NewRenderer(cfg.Event.Name)
	if err != nil {
		return fmt.Errorf("load report fonts: %w", err)
	}

	dm := bot.NewMessenger(api)
	a.voting = services.NewVotingService(a.log, a.config, a.repo, a.sessions, dm,
		bot.NewNotifier(a.config.AdminIDs, dm), avatars, services.VotingOptions{
			EventName:        cfg.Event.Name,
			DefaultAvatarURL: cfg.Roblox.DefaultAvatarURL,
			LookupTimeout:    cfg.Roblox.Timeout,
		})

	gala, _ := cfg.Event.Gala()
	a.bot = bot.New(a.log, api, a.voting, a.config, results, renderer, bot.Options{
		AppID:       cfg.Discord.ClientID,
		GuildID:     cfg.Discord.GuildID,
		EventName:   cfg.Event.Name,
		FrontendURL: cfg.Server.FrontendURL,
		Gala:        gala,
	})
	return nil
}

func checkSecrets(cfg *config.Config, mode Mode) error {
	var missing []string
	if mode.bot() && cfg.Discord.Token == "" {
		missing = append(missing, "DISCORD_TOKEN")
	}
	if mode.api() {
		for name, v := range map[string]string{
			"API_SECRET_KEY":    cfg.Server.APISecretKey,
			"CLIENT_SECRET_KEY": cfg.Server.ClientSecretKey,
			"JWT_SECRET":        cfg.Server.JWTSecret,
		} {
			if v == "" {
				missing = append(missing, name)
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required environment: %s", strings.Join(missing, ", "))
	}
	return nil
}

func openRepository(ctx context.Context, s config.Storage) (repository.FullRepository, error) {
	switch s.Driver {
	case "sqlite":
		return repository.New(s.SQLitePath)
	default:
		return repository.NewMongo(ctx, s.MongoURI, s.MongoDatabase)
	}
}

func openSessions(ctx context.Context, s config.Session) (session.Store, error) {
	if s.Driver == "redis" {
		return session.NewRedisStore(ctx, s.RedisAddr, s.RedisPassword, s.RedisDB, s.IdleTimeout)
	}
	return session.NewMemoryStore(), nil
}

func databaseLabel(driver string) string {
	if driver == "sqlite" {
		return "SQLite"
	}
	return "MongoDB"
}

// Router returns the dashboard router, or nil in bot-only mode.
func (a *App) Router() chi.Router {
	if a.handlers == nil {
		return nil
	}
	return a.handlers.Router()
}

// Run connects the bot and serves the API until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	if sweeper, ok := a.sessions.(session.Sweeper); ok && a.cfg.Session.IdleTimeout > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session.RunJanitor(ctx, a.log, sweeper, a.cfg.Session.IdleTimeout, a.cfg.Session.SweepInterval)
		}()
		a.log.Info("Idle session janitor started", "idle", a.cfg.Session.IdleTimeout)
	}

	if a.bot != nil && a.dg != nil {
		if err := a.bot.Connect(a.dg); err != nil {
			return err
		}
		a.log.Info("Discord bot connected")
	}

	if a.handlers == nil {
		<-ctx.Done()
		return nil
	}

	addr := a.cfg.Server.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	baseURL := fmt.Sprintf("http://%s%s", getPreferredIP(realNetworkProvider{}), addr)
	a.log.Info("Dashboard API starting", "url", baseURL, "frontend", a.cfg.Server.FrontendURL)

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Warn("HTTP shutdown incomplete", "error", err)
	}
	a.log.Info("Dashboard API stopped")
	return nil
}

// Close performs graceful shutdown of app resources. It is safe to call
// more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.bot != nil {
			if err := a.bot.Close(); err != nil {
				a.log.Warn("Discord session close failed", "error", err)
			}
		}
		if a.voting != nil {
			a.voting.Wait()
		}
		if a.sessions != nil {
			if err := a.sessions.Close(); err != nil {
				a.log.Warn("Session store close failed", "error", err)
			}
		}
		if a.repo != nil {
			if err := a.repo.Close(); err != nil {
				a.log.Warn("Vote store close failed", "error", err)
			}
		}
	})
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the address operators should use to reach the API
// from the LAN. Private IPv4 ranges win; localhost is the fallback.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			candidates = append(candidates, ip)
		}
	}

	for _, ip := range candidates {
		if ip.IsPrivate() {
			return ip.String()
		}
	}
	if len(candidates) > 0 {
		return candidates[0].String()
	}
	return "localhost"
}
