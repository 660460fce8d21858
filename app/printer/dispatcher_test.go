package printer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"RestaurantPos/app/receipt"
)

type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []error
}

func (l *recordingLogger) LogInfo(message string, details ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, message)
}

func (l *recordingLogger) LogError(message string, err error, details ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, err)
}

func sampleInstructions() []receipt.Instruction {
	return []receipt.Instruction{
		receipt.Align(receipt.AlignCenter),
		receipt.Bold(true),
		receipt.Text("KITCHEN ORDER"),
		receipt.Bold(false),
		receipt.Text("2x Burger"),
		receipt.Cut(),
	}
}

// startSink accepts one connection and returns everything written to it
func startSink(t *testing.T) (string, <-chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()
	return ln.Addr().String(), received
}

func closedAddress(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func TestDispatchNetwork(t *testing.T) {
	addr, received := startSink(t)
	logger := &recordingLogger{}
	d := NewDispatcher(logger)

	ok := d.Dispatch(context.Background(), sampleInstructions(), ParseTarget("kitchen", "tcp://"+addr))
	if !ok {
		t.Fatalf("expected dispatch to succeed, errors: %v", logger.errors)
	}

	select {
	case data := <-received:
		if !bytes.HasPrefix(data, []byte{ESC, '@'}) {
			t.Errorf("output should start with printer init, got % x", data[:2])
		}
		if !bytes.Contains(data, []byte("KITCHEN ORDER\n")) {
			t.Error("missing header text")
		}
		if !bytes.Contains(data, []byte("2x Burger\n")) {
			t.Error("missing item text")
		}
		if !bytes.HasSuffix(data, []byte{GS, 'V', 66, 0}) {
			t.Errorf("output should end with a cut, got % x", data[len(data)-4:])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sink received nothing")
	}
}

func TestDispatchUnreachableReturnsFalse(t *testing.T) {
	logger := &recordingLogger{}
	d := NewDispatcher(logger)
	d.Timeout = 500 * time.Millisecond

	ok := d.Dispatch(context.Background(), sampleInstructions(), ParseTarget("cashier", closedAddress(t)))
	if ok {
		t.Fatal("expected dispatch to fail")
	}
	if len(logger.errors) != 1 {
		t.Fatalf("expected one logged error, got %d", len(logger.errors))
	}

	var te *TransportError
	if !errors.As(logger.errors[0], &te) {
		t.Fatalf("expected TransportError, got %T", logger.errors[0])
	}
	if te.Station != "cashier" || te.Index != -1 {
		t.Errorf("unexpected transport error %+v", te)
	}
}

func TestDispatchUnconfigured(t *testing.T) {
	logger := &recordingLogger{}
	d := NewDispatcher(logger)

	if d.Dispatch(context.Background(), sampleInstructions(), ParseTarget("kitchen", "")) {
		t.Fatal("expected dispatch to fail")
	}

	err := d.Send(context.Background(), sampleInstructions(), ParseTarget("kitchen", "  "))
	if !errors.Is(err, ErrTargetUnconfigured) {
		t.Fatalf("expected ErrTargetUnconfigured, got %v", err)
	}
}

func TestDispatchNilLogger(t *testing.T) {
	d := NewDispatcher(nil)
	if d.Dispatch(context.Background(), sampleInstructions(), Target{}) {
		t.Fatal("expected dispatch to fail")
	}
}

func TestSendFileAndAutoCut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticket.bin")
	target := ParseTarget("kitchen", "file://"+path)
	target.AutoCut = false

	d := NewDispatcher(nil)
	if err := d.Send(context.Background(), sampleInstructions(), target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if bytes.Contains(data, []byte{GS, 'V', 66, 0}) {
		t.Error("cut emitted with auto cut disabled")
	}
	if !bytes.Contains(data, []byte("2x Burger\n")) {
		t.Error("missing item text")
	}
}

func TestSendAbortsOnEncodeFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	instrs := []receipt.Instruction{
		receipt.Text("first"),
		{Kind: receipt.Kind(99)},
		receipt.Text("never printed"),
	}

	err := NewDispatcher(nil).Send(context.Background(), instrs, ParseTarget("kitchen", path))
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Index != 1 {
		t.Errorf("expected failure at instruction 1, got %d", te.Index)
	}

	data, _ := os.ReadFile(path)
	if !bytes.Contains(data, []byte("first\n")) {
		t.Error("instructions before the failure should be written")
	}
	if bytes.Contains(data, []byte("never printed")) {
		t.Error("instructions after the failure must not be written")
	}
}
