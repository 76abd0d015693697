package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/trace-bio/trace/internal/api"
	"github.com/trace-bio/trace/internal/cleanup"
	"github.com/trace-bio/trace/internal/config"
	"github.com/trace-bio/trace/internal/log"
	"github.com/trace-bio/trace/internal/session"
)

// tokenEnv names the environment variable consulted for a bearer token.
const tokenEnv = "TRACE_TOKEN"

// errNotLoggedIn is returned when no credential source yields a token.
var errNotLoggedIn = errors.New("not logged in; run: trace login --email <address>")

// env is the resolved configuration every command works from.
type env struct {
	dir     string
	cfg     *config.Config
	logger  *log.Logger
	client  *api.Client
	verbose bool
}

// loadEnv reads config.yaml, applies flag overrides, and builds the client.
// A missing config file means defaults.
func loadEnv(opts *globalOptions) (*env, error) {
	dir := opts.configDir
	if dir == "" {
		dir = config.DefaultDir()
	}

	cfg, err := config.ReadConfig(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = config.DefaultConfig()
	}
	if opts.apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(opts.apiURL, "/")
	}

	timeout := cfg.Timeout()
	if opts.timeout > 0 {
		timeout = opts.timeout
	}

	logger, err := log.NewLogger(dir)
	if err != nil {
		return nil, err
	}

	return &env{
		dir:    dir,
		cfg:    cfg,
		logger: logger,
		client: api.NewClient(cfg.API.BaseURL,
			api.WithTimeout(timeout),
			api.WithLogger(logger),
		),
		verbose: opts.verbose,
	}, nil
}

// describe prints the resolved backend and log location in verbose mode.
func (e *env) describe(w io.Writer) {
	if !e.verbose {
		return
	}
	fmt.Fprintf(w, "Backend: %s\n", e.cfg.API.BaseURL)
	fmt.Fprintf(w, "Log:     %s\n", e.logger.Path())
}

// openVault opens the credential vault and drops credentials the backend
// has already expired.
func (e *env) openVault() (*session.Vault, error) {
	vault, err := session.OpenVault(e.cfg.DBPath(e.dir))
	if err != nil {
		return nil, err
	}
	if _, err := cleanup.PruneByAge(vault, e.cfg.CredentialMaxAge(), time.Now(), false); err != nil {
		_ = vault.Close()
		return nil, err
	}
	return vault, nil
}

// persister opens the credential vault when session.persist is on. The
// returned persister is nil otherwise, which keeps sessions in memory.
func (e *env) persister() (*session.Persister, func(), error) {
	if !e.cfg.Session.Persist {
		return nil, func() {}, nil
	}
	vault, err := e.openVault()
	if err != nil {
		return nil, nil, err
	}
	return session.NewPersister(vault, e.cfg.API.BaseURL), func() { _ = vault.Close() }, nil
}

// token resolves the bearer credential: flag, then TRACE_TOKEN, then vault.
func (e *env) token(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if t := os.Getenv(tokenEnv); t != "" {
		return t, nil
	}

	p, closeVault, err := e.persister()
	if err != nil {
		return "", err
	}
	defer closeVault()

	store := session.NewStore()
	found, err := p.Restore(store)
	if err != nil {
		return "", err
	}
	if !found {
		return "", errNotLoggedIn
	}
	return store.Credential(), nil
}

// confirm asks a yes/no question on w and reads the answer from r.
func confirm(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(r).ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}
