// Package fsperr defines the error kinds shared by fiskread's FSP client,
// retrieval orchestrator, medium.dat decoder, config loader and local
// storage sink. The record decoder returns no errors: it stops at a
// malformed record header and keeps what it decoded.
//
// A printer-retrieval CLI tends to grow one error type per package, each
// with its own Timeout() check; fiskread collapses that into a single
// tagged error type so every package reports failures the same way.
package fsperr

import (
	"errors"
	"net"
	"strings"
)

// Kind classifies an Error by the subsystem that raised it.
type Kind int

const (
	// KindTransport covers UDP socket failures and read timeouts.
	KindTransport Kind = iota
	// KindProtocol covers undersized or malformed FSP responses.
	KindProtocol
	// KindRemote covers a server-returned FSPCommandErr response.
	KindRemote
	// KindParse covers malformed document-record headers.
	KindParse
	// KindStorage covers local filesystem write failures.
	KindStorage
	// KindConfig covers missing retrieval prerequisites (medium.dat, prefix).
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindRemote:
		return "remote"
	case KindParse:
		return "parse"
	case KindStorage:
		return "storage"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Error is the error type returned by fiskread's packages.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "fspclient.ListDirectory"
	Path string // remote or local path involved, if any
	Err  error  // underlying cause, if any
}

// New builds an *Error. err may be nil when Kind, Op and Path alone describe the failure.
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap allows errors.Is / errors.As to reach the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Timeout reports whether the failure was a transport-level timeout.
func (e *Error) Timeout() bool {
	if e == nil || e.Kind != KindTransport {
		return false
	}
	var netErr net.Error
	if errors.As(e.Err, &netErr) {
		return netErr.Timeout()
	}
	return e.Err != nil && strings.Contains(e.Err.Error(), "timeout")
}

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, fsperr.New(fsperr.KindRemote, "", "", nil)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
