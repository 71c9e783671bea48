package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cre8worthy/appraise-cli/internal/model"
	"github.com/cre8worthy/appraise-cli/internal/revalidate"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a JSON API over the pricing engine and ledgers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		mux, ctrl := buildMux(env, time.Duration(cfg.Form.DebounceMS)*time.Millisecond)
		defer ctrl.Cancel()

		port := resolvePort(servePort, cfg.Server.Port)
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("serving", zap.Int("port", port))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			zap.L().Info("shutting down")
			return srv.Shutdown(cmd.Context())
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return eris.Wrap(err, "serve: listen")
		}
	},
}

// buildMux assembles the API routes. The returned controller owns the
// debounce timer for the live product-type classification and must be
// cancelled on shutdown.
func buildMux(env *env, debounce time.Duration) (*http.ServeMux, *revalidate.Controller) {
	// One price computation in flight per instance; concurrent triggers are
	// rejected, never run against the same ledger row state.
	var busy atomic.Bool

	// Live product-type classification: keystrokes stream in via
	// POST /api/product-type, the profile for the settled value is read back
	// via GET /api/profile.
	var (
		profileMu sync.Mutex
		profile   struct {
			ProductType string                    `json:"product_type"`
			Profile     *model.RequirementProfile `json:"profile"`
		}
	)
	ctrl := revalidate.New(
		debounce,
		env.Engine.Classify,
		func(productType string, p model.RequirementProfile) {
			profileMu.Lock()
			profile.ProductType = productType
			profile.Profile = &p
			profileMu.Unlock()
		},
	)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/price", func(w http.ResponseWriter, r *http.Request) {
		var desc model.ProductDescription
		if err := json.NewDecoder(r.Body).Decode(&desc); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		if !busy.CompareAndSwap(false, true) {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "a calculation is already in flight"})
			return
		}
		defer busy.Store(false)

		out, err := env.Engine.ComputePrice(r.Context(), &desc)
		if err != nil {
			var verr *model.ValidationError
			if errors.As(err, &verr) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
					"error": "validation failed", "field": verr.Field, "reason": verr.Reason,
				})
				return
			}
			zap.L().Error("price computation failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "computation failed"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"result":   out.Result,
			"profile":  out.Profile,
			"warnings": out.Warnings,
		})
	})

	mux.HandleFunc("POST /api/product-type", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		ctrl.TextChanged(body.Text)
		w.WriteHeader(http.StatusAccepted)
	})

	mux.HandleFunc("GET /api/profile", func(w http.ResponseWriter, r *http.Request) {
		profileMu.Lock()
		defer profileMu.Unlock()
		if profile.Profile == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no settled classification yet"})
			return
		}
		writeJSON(w, http.StatusOK, profile)
	})

	mux.HandleFunc("GET /api/history", func(w http.ResponseWriter, r *http.Request) {
		rows, err := env.Calculations.Snapshot(r.Context())
		if err != nil {
			zap.L().Error("history snapshot failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "snapshot failed"})
			return
		}
		writeJSON(w, http.StatusOK, rows)
	})

	mux.HandleFunc("GET /api/interactions", func(w http.ResponseWriter, r *http.Request) {
		rows, err := env.Interactions.Interactions(r.Context())
		if err != nil {
			zap.L().Error("interaction query failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "query failed"})
			return
		}
		writeJSON(w, http.StatusOK, rows)
	})

	return mux, ctrl
}

// resolvePort prefers the flag value over the configured one.
func resolvePort(flag, configured int) int {
	if flag != 0 {
		return flag
	}
	return configured
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
