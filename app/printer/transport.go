package printer

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Printer connection types
const (
	TypeNetwork = "network"
	TypeSerial  = "serial"
	TypeUSB     = "usb"
	TypeFile    = "file"
)

// DefaultPort is the raw printing port used by network receipt printers
const DefaultPort = 9100

// Target describes where a station prints
type Target struct {
	Station    string `json:"station"`
	Type       string `json:"type"`
	Address    string `json:"address"`
	Port       int    `json:"port,omitempty"`
	PaperWidth int    `json:"paper_width"`
	AutoCut    bool   `json:"auto_cut"`
}

// Configured reports whether the target has somewhere to print
func (t Target) Configured() bool {
	return strings.TrimSpace(t.Address) != ""
}

func (t Target) String() string {
	if t.Type == TypeNetwork {
		return net.JoinHostPort(t.Address, strconv.Itoa(t.port()))
	}
	return t.Address
}

func (t Target) port() int {
	if t.Port <= 0 {
		return DefaultPort
	}
	return t.Port
}

// ParseTarget builds a target from a configured address string, detecting the
// connection type:
//
//	tcp://host:port, host:port, host  network (port 9100 when omitted)
//	file:///path                      file
//	/dev/usb/lp0, /dev/lp0            usb
//	/dev/ttyUSB0, COM3                serial
//
// An empty address yields an unconfigured target.
func ParseTarget(station, address string) Target {
	t := Target{Station: station, PaperWidth: 58, AutoCut: true}
	address = strings.TrimSpace(address)
	if address == "" {
		return t
	}

	switch {
	case strings.HasPrefix(address, "file://"):
		t.Type = TypeFile
		t.Address = strings.TrimPrefix(address, "file://")
	case strings.HasPrefix(address, "/dev/usb"), strings.HasPrefix(address, "/dev/lp"):
		t.Type = TypeUSB
		t.Address = address
	case strings.HasPrefix(address, "/dev/tty"), isCOMPort(address):
		t.Type = TypeSerial
		t.Address = address
	case strings.HasPrefix(address, "/"):
		t.Type = TypeFile
		t.Address = address
	default:
		t.Type = TypeNetwork
		host := strings.TrimPrefix(address, "tcp://")
		if h, p, err := net.SplitHostPort(host); err == nil {
			host = h
			if n, err := strconv.Atoi(p); err == nil {
				t.Port = n
			}
		}
		t.Address = host
		if t.Port == 0 {
			t.Port = DefaultPort
		}
	}
	return t
}

func isCOMPort(address string) bool {
	upper := strings.ToUpper(address)
	if !strings.HasPrefix(upper, "COM") || len(upper) < 4 {
		return false
	}
	_, err := strconv.Atoi(upper[3:])
	return err == nil
}

// deadlineSetter is implemented by net.Conn and pollable *os.File
type deadlineSetter interface {
	SetWriteDeadline(t time.Time) error
}

// connect opens a fresh connection to t. The caller owns closing it.
func connect(ctx context.Context, t Target, timeout time.Duration) (io.WriteCloser, error) {
	var (
		conn io.WriteCloser
		err  error
	)

	switch t.Type {
	case TypeNetwork:
		dialer := net.Dialer{Timeout: timeout}
		conn, err = dialer.DialContext(ctx, "tcp", t.String())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to network printer at %s: %w", t, err)
		}

	case TypeUSB, TypeSerial:
		conn, err = openDevice(ctx, t.Address)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s printer at %s: %w", t.Type, t.Address, err)
		}

	case TypeFile:
		conn, err = os.OpenFile(t.Address, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open output file at %s: %w", t.Address, err)
		}

	default:
		return nil, fmt.Errorf("unsupported printer type: %q", t.Type)
	}

	if d, ok := conn.(deadlineSetter); ok {
		// Regular files do not support deadlines; that error is expected
		_ = d.SetWriteDeadline(time.Now().Add(timeout))
	}
	return conn, nil
}

// openDevice opens a device node for writing, giving up when ctx ends. Opening
// a tty without carrier can block indefinitely; a file that opens after the
// deadline is closed.
func openDevice(ctx context.Context, path string) (*os.File, error) {
	type result struct {
		file *os.File
		err  error
	}
	done := make(chan result, 1)
	go func() {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		done <- result{f, err}
	}()

	select {
	case r := <-done:
		return r.file, r.err
	case <-ctx.Done():
		go func() {
			if r := <-done; r.file != nil {
				r.file.Close()
			}
		}()
		return nil, fmt.Errorf("open %s: %w", path, ctx.Err())
	}
}
