package daemon

import (
	"fmt"
	"log/slog"
	"sync"
)

// Notifier implements service.Notifier. The device's real UI layer is
// out of scope here, so user-visible outcomes are logged and the most
// recent one is kept for status reporting.
type Notifier struct {
	mu   sync.Mutex
	last string
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Started(port int) {
	n.set(fmt.Sprintf("SSH server started on port %d", port))
	slog.Info("Service started.", "port", port)
}

func (n *Notifier) Stopped() {
	n.set("SSH server stopped")
	slog.Info("Service stopped.")
}

func (n *Notifier) StartDeferred() {
	n.set("SSH server will start when USB is plugged in")
	slog.Info("Service start deferred until plug-in.")
}

func (n *Notifier) Failed(op string, err error) {
	n.set(fmt.Sprintf("SSH server: %s failed: %v", op, err))
	slog.Error("Service operation failed.", "op", op, "err", err)
}

// Last returns the most recent user-visible message.
func (n *Notifier) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

func (n *Notifier) set(msg string) {
	n.mu.Lock()
	n.last = msg
	n.mu.Unlock()
}
