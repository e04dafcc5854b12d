package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	seal "github.com/gcslaoli/seal-maker-go"
)

func serve(ctx context.Context, addr string, renderer *seal.Renderer, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(renderer, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving seals", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newHandler(renderer *seal.Renderer, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /seal", func(w http.ResponseWriter, r *http.Request) {
		spec := seal.SpecFromValues(r.URL.Query())

		data, filename, plan, err := renderer.RenderBytes(r.Context(), spec)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, seal.ErrInvalidDimension) {
				status = http.StatusBadRequest
			}
			logger.WarnContext(r.Context(), "render failed", "error", err)
			http.Error(w, err.Error(), status)
			return
		}

		h := w.Header()
		h.Set("Content-Type", "image/png")
		h.Set("Content-Length", strconv.Itoa(len(data)))
		h.Set("Content-Disposition", contentDisposition(filename))
		h.Set("X-Seal-Font-Size", strconv.Itoa(plan.LabelFontSize))
		if _, err := w.Write(data); err != nil {
			logger.DebugContext(r.Context(), "write response", "error", err)
		}
	})

	mux.HandleFunc("GET /fonts", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(seal.Catalog); err != nil {
			logger.DebugContext(r.Context(), "write response", "error", err)
		}
	})

	return mux
}

// contentDisposition builds an attachment header carrying filename as an
// RFC 5987 ext-value. Every byte outside attr-char is percent-encoded.
func contentDisposition(filename string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.WriteString("attachment; filename*=UTF-8''")
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}
