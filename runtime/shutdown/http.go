package shutdown

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// HTTPServer adapts *http.Server to Component. When Listener is nil Serve
// listens on Server.Addr.
type HTTPServer struct {
	Server   *http.Server
	Listener net.Listener
	Label    string
}

// NewHTTPServer serves h on addr with conservative timeouts.
func NewHTTPServer(label, addr string, h http.Handler) *HTTPServer {
	return &HTTPServer{
		Label: label,
		Server: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

func (h *HTTPServer) Name() string {
	if h.Label == "" {
		return "http"
	}
	return h.Label
}

func (h *HTTPServer) Serve(ctx context.Context) error {
	if h.Server == nil {
		return errors.New("shutdown: http server is nil")
	}
	h.Server.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		if h.Listener != nil {
			errCh <- h.Server.Serve(h.Listener)
			return
		}
		errCh <- h.Server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown drains connections and closes the server when ctx ends first.
func (h *HTTPServer) Shutdown(ctx context.Context) error {
	if h.Server == nil {
		return nil
	}
	if err := h.Server.Shutdown(ctx); err != nil {
		_ = h.Server.Close()
		return err
	}
	return nil
}
