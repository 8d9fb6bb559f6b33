package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSupplyOnline(t *testing.T, root, value string) {
	t.Helper()
	dir := filepath.Join(root, "usb")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "online"), []byte(value), 0o644); err != nil {
		t.Fatalf("write online: %v", err)
	}
}
