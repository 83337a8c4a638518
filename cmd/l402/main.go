// Command l402 fetches URLs from L402 (LSAT) protected services. When a
// server answers 402, it surfaces the invoice to pay; given the payment
// preimage it mints a credential, stores it, and authorizes the request.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/TecharoHQ/l402"
	"github.com/TecharoHQ/l402/internal"
	libl402 "github.com/TecharoHQ/l402/lib"
	"github.com/TecharoHQ/l402/lib/store"
	"github.com/facebookgo/flagenv"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	configFname  = flag.String("config", "", "path to the YAML config file selecting the credential storage backend")
	metricsBind  = flag.String("metrics-bind", "", "network address to bind Prometheus metrics to, leave empty to disable")
	preimage     = flag.String("preimage", "", "payment preimage proving the server's invoice was paid")
	slogLevel    = flag.String("slog-level", "INFO", "logging level (see https://pkg.go.dev/log/slog#hdr-Levels)")
	storeBackend = flag.String("store-backend", "bbolt", "credential storage backend when no config file is given")
	storePath    = flag.String("store-path", "", "bbolt database path, defaults to l402/credentials.db under the user config dir")
	timeout      = flag.Duration("timeout", 30*time.Second, "HTTP request timeout")
	versionFlag  = flag.Bool("version", false, "print l402 version")
)

// errPaymentRequired means the server wants an invoice paid before it
// will serve the request. The invoice was already printed.
var errPaymentRequired = errors.New("payment required")

func defaultStoreConfig() (libl402.StoreConfig, error) {
	switch *storeBackend {
	case "bbolt":
		path := *storePath
		if path == "" {
			confDir, err := os.UserConfigDir()
			if err != nil {
				return libl402.StoreConfig{}, fmt.Errorf("can't find user config dir, set --store-path: %w", err)
			}
			path = filepath.Join(confDir, "l402", "credentials.db")
		}

		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return libl402.StoreConfig{}, fmt.Errorf("can't create %s: %w", filepath.Dir(path), err)
		}

		return libl402.StoreConfig{
			Backend:    "bbolt",
			Parameters: map[string]any{"path": path},
		}, nil
	default:
		return libl402.StoreConfig{Backend: *storeBackend}, nil
	}
}

func main() {
	flagenv.Parse()
	flag.Parse()

	if *versionFlag {
		fmt.Println("l402", l402.Version)
		return
	}

	internal.InitSlog(*slogLevel)

	if flag.NArg() != 1 {
		log.Fatalf("usage: %s [flags] <url>", os.Args[0])
	}

	ctx := context.Background()

	var storeConfig libl402.StoreConfig
	if *configFname != "" {
		config, err := libl402.LoadConfig(*configFname)
		if err != nil {
			log.Fatalf("can't load config: %v", err)
		}
		storeConfig = config.Store
	} else {
		var err error
		storeConfig, err = defaultStoreConfig()
		if err != nil {
			log.Fatal(err)
		}
		if err := storeConfig.Valid(); err != nil {
			log.Fatalf("invalid store configuration: %v", err)
		}
	}

	tokens, err := storeConfig.TokenStore(ctx)
	if err != nil {
		log.Fatalf("can't open credential store: %v", err)
	}

	if *metricsBind != "" {
		go metricsServer()
	}

	if err := run(ctx, tokens, flag.Arg(0)); err != nil {
		if errors.Is(err, errPaymentRequired) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, tokens *store.JSON[libl402.Token], target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("can't parse URL %s: %w", target, err)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %s has no host", target)
	}

	client := &http.Client{Timeout: *timeout}

	resp, err := fetch(ctx, client, tokens, target, u.Host)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPaymentRequired {
		ch, ok := libl402.ChallengeFromResponse(libl402.HeaderMap(resp.Header))
		if !ok {
			return fmt.Errorf("%s answered 402 without an L402 challenge", u.Host)
		}

		if *preimage == "" {
			slog.Info("payment required", "host", u.Host, "maxBandwidth", ch.MaxBandwidth, "expiration", ch.Expiration)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(ch); err != nil {
				return err
			}

			return fmt.Errorf("%w: pay the invoice then rerun with --preimage", errPaymentRequired)
		}

		tok := libl402.NewToken(ch, *preimage)

		ttl := l402.DefaultTokenLifetime
		if tok.Expiration != nil {
			ttl = time.Until(*tok.Expiration)
			if ttl <= 0 {
				return fmt.Errorf("challenge macaroon expired at %s", tok.Expiration)
			}
		}

		if err := tokens.Set(ctx, u.Host, tok, ttl); err != nil {
			return fmt.Errorf("can't store credential for %s: %w", u.Host, err)
		}
		slog.Info("stored credential", "host", u.Host, "expiration", tok.Expiration)

		resp.Body.Close()
		resp, err = fetch(ctx, client, tokens, target, u.Host)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
	}

	if _, err := io.Copy(os.Stdout, resp.Body); err != nil {
		return fmt.Errorf("can't read response from %s: %w", u.Host, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s answered %s", u.Host, resp.Status)
	}

	return nil
}

func fetch(ctx context.Context, client *http.Client, tokens *store.JSON[libl402.Token], target, host string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("can't build request for %s: %w", target, err)
	}

	tok, err := tokens.Get(ctx, host)
	switch {
	case err == nil:
		if libl402.SetAuthorization(req.Header, tok, time.Now()) {
			slog.Debug("attached stored credential", "host", host)
		} else {
			slog.Debug("stored credential expired", "host", host)
		}
	case errors.Is(err, store.ErrNotFound):
		// first contact with this host
	default:
		slog.Warn("can't read credential store", "host", host, "err", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("can't fetch %s: %w", target, err)
	}

	return resp, nil
}

func metricsServer() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := http.Server{Addr: *metricsBind, Handler: mux, ErrorLog: internal.GetFilteredHTTPLogger()}
	slog.Debug("listening for metrics", "addr", *metricsBind)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
