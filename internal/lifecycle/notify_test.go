package lifecycle

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"
)

func TestNotify_NoSocketIsNoop(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")

	err := NotifyReady(context.Background())
	if err != nil {
		t.Fatalf("expected no error without NOTIFY_SOCKET, but got '%v'", err)
	}
}

func TestNotify_SendsDatagram(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "notify.sock")

	listener, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: sockPath, Net: "unixgram"})
	if err != nil {
		t.Fatalf("expected no error creating socket, but got '%v'", err)
	}
	defer listener.Close()

	t.Setenv("NOTIFY_SOCKET", sockPath)

	err = NotifyStatus(context.Background(), "simulation running")
	if err != nil {
		t.Fatalf("expected no error sending notify, but got '%v'", err)
	}

	listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	buffer := make([]byte, 256)
	n, err := listener.Read(buffer)
	if err != nil {
		t.Fatalf("expected no error reading datagram, but got '%v'", err)
	}
	if string(buffer[:n]) != "STATUS=simulation running" {
		t.Fatalf("datagram contents wrong: '%s'", buffer[:n])
	}
}
