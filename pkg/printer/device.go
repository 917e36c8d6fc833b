package printer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// ErrDisabled is returned by the no-op device
var ErrDisabled = errors.New("printer: no printer configured")

// Device accepts a raw ESC/POS job
type Device interface {
	Send(ctx context.Context, job []byte) error
	Name() string
}

// Config selects and addresses a device
type Config struct {
	Kind    string // "network", "file" or "none"
	Address string // host:port for network printers
	Path    string // device file such as /dev/usb/lp0
	Width   int
}

// Open returns the device described by cfg
func Open(cfg Config) (Device, error) {
	switch cfg.Kind {
	case "network":
		if cfg.Address == "" {
			return nil, errors.New("printer: network printer needs an address")
		}
		return &tcpDevice{addr: cfg.Address, dialTimeout: 5 * time.Second}, nil
	case "file":
		if cfg.Path == "" {
			return nil, errors.New("printer: file printer needs a path")
		}
		return &fileDevice{path: cfg.Path}, nil
	case "", "none":
		return noDevice{}, nil
	}
	return nil, fmt.Errorf("printer: unknown kind %q", cfg.Kind)
}

type tcpDevice struct {
	addr        string
	dialTimeout time.Duration
}

func (d *tcpDevice) Name() string { return "tcp://" + d.addr }

func (d *tcpDevice) Send(ctx context.Context, job []byte) error {
	dialer := net.Dialer{Timeout: d.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", d.addr)
	if err != nil {
		return fmt.Errorf("printer: dial %s: %w", d.addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(10 * time.Second)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(job); err != nil {
		return fmt.Errorf("printer: write %s: %w", d.addr, err)
	}
	return nil
}

type fileDevice struct {
	path string
}

func (d *fileDevice) Name() string { return "file://" + d.path }

func (d *fileDevice) Send(_ context.Context, job []byte) error {
	f, err := os.OpenFile(d.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", d.path, err)
	}
	defer f.Close()

	if _, err := f.Write(job); err != nil {
		return fmt.Errorf("printer: write %s: %w", d.path, err)
	}
	return nil
}

type noDevice struct{}

func (noDevice) Name() string { return "none" }

func (noDevice) Send(context.Context, []byte) error { return ErrDisabled }
