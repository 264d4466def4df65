package server

import (
	"errors"
	"net"
	"strconv"
	"testing"
)

// grabPort reserves an ephemeral port and frees it so the test can probe a
// range known to start free.
func grabPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to grab port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

func TestFindFreePortReturnsLowWhenFree(t *testing.T) {
	port := grabPort(t)

	got, err := FindFreePort("127.0.0.1", port, port)
	if err != nil {
		t.Fatalf("FindFreePort() error: %v", err)
	}
	if got != port {
		t.Errorf("FindFreePort() = %d, want %d", got, port)
	}
}

func TestFindFreePortSkipsOccupied(t *testing.T) {
	port := grabPort(t)

	ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		t.Fatalf("failed to occupy port %d: %v", port, err)
	}
	defer ln.Close()

	got, err := FindFreePort("127.0.0.1", port, port+20)
	if err != nil {
		t.Fatalf("FindFreePort() error: %v", err)
	}
	if got == port {
		t.Errorf("FindFreePort() returned the occupied port %d", port)
	}
	if got < port || got > port+20 {
		t.Errorf("FindFreePort() = %d, outside range [%d, %d]", got, port, port+20)
	}
}

func TestFindFreePortHonorsSkipList(t *testing.T) {
	port := grabPort(t)

	// The first port is free but leased elsewhere; the probe must move on.
	got, err := FindFreePort("127.0.0.1", port, port+20, port)
	if err != nil {
		t.Fatalf("FindFreePort() error: %v", err)
	}
	if got == port {
		t.Errorf("FindFreePort() returned the skipped port %d", port)
	}

	_, err = FindFreePort("127.0.0.1", port, port, port)
	var noPort *NoPortAvailableError
	if !errors.As(err, &noPort) {
		t.Errorf("FindFreePort() error = %v, want NoPortAvailableError when the only port is skipped", err)
	}
}

func TestFindFreePortExhaustedRange(t *testing.T) {
	port := grabPort(t)

	ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		t.Fatalf("failed to occupy port %d: %v", port, err)
	}
	defer ln.Close()

	_, err = FindFreePort("127.0.0.1", port, port)
	if err == nil {
		t.Fatal("FindFreePort() expected error on exhausted range")
	}

	var noPort *NoPortAvailableError
	if !errors.As(err, &noPort) {
		t.Errorf("FindFreePort() error = %v, want NoPortAvailableError", err)
	}
}

