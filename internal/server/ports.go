package server

import (
	"fmt"
	"net"
	"strconv"
)

// NoPortAvailableError indicates the whole probe range was exhausted.
type NoPortAvailableError struct {
	Low, High int
}

func (e *NoPortAvailableError) Error() string {
	return fmt.Sprintf("no free port in range %d-%d", e.Low, e.High)
}

// FindFreePort probes the inclusive range [low, high] on host for a port the
// process can bind to and returns the first such port. Ports listed in skip
// are never considered, so a port already leased but not yet bound can be
// held out of a later probe. Fails with NoPortAvailableError if the entire
// range is occupied.
func FindFreePort(host string, low, high int, skip ...int) (int, error) {
	excluded := make(map[int]bool, len(skip))
	for _, p := range skip {
		excluded[p] = true
	}

	for port := low; port <= high; port++ {
		if excluded[port] {
			continue
		}
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err != nil {
			continue
		}
		ln.Close()
		return port, nil
	}
	return 0, &NoPortAvailableError{Low: low, High: high}
}
