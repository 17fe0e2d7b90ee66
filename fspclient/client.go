// Package fspclient is the stateful FSP transport: it owns a UDP endpoint,
// the session key and sequence counter, and exposes the four read-only
// operations the retrieval orchestrator needs (handshake, list directory,
// get file, stat) plus a best-effort farewell.
//
// Framing is delegated entirely to the packet package rather than being a
// method on a packet struct, keeping the transport free of wire-format
// knowledge.
package fspclient

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/czajorlukasz/fiskread/fsperr"
	"github.com/czajorlukasz/fiskread/internal/xlog"
	"github.com/czajorlukasz/fiskread/packet"
)

// DefaultTimeout is the default UDP receive timeout. It is configurable
// per Client via WithTimeout.
const DefaultTimeout = 5 * time.Second

// DefaultPreferredSize is the default directory-block size hint sent with
// ListDirectory requests.
const DefaultPreferredSize = 1024

// Client is a single-session FSP transport. A Client is not safe for
// concurrent use: request/response must be strictly serialized on one
// session key/sequence pair.
type Client struct {
	conn    *net.UDPConn
	addr    *net.UDPAddr
	timeout time.Duration
	log     *xlog.Logger
	session sessionState
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger overrides the default (silent at verbosity 0) logger.
func WithLogger(l *xlog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New dials a connected UDP socket to serverAddress ("host:port"; the port
// must be given, no default is applied) and returns a Client ready to
// handshake.
func New(serverAddress string, opts ...Option) (*Client, error) {
	addr, err := net.ResolveUDPAddr("udp4", serverAddress)
	if err != nil {
		return nil, fsperr.New(fsperr.KindConfig, "fspclient.New", serverAddress, err)
	}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return nil, fsperr.New(fsperr.KindTransport, "fspclient.New", serverAddress, err)
	}
	c := &Client{
		conn:    conn,
		addr:    addr,
		timeout: DefaultTimeout,
		log:     xlog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the underlying UDP socket. It does not send a farewell;
// callers should call Farewell explicitly while the session is still valid.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// transact sends one request and returns the first response packet
// received; if that packet is malformed the operation fails with
// KindProtocol. It accepts the first received packet for each request
// rather than matching on sequence, since not every server echoes it
// correctly. There is no retry at this layer.
func (c *Client) transact(op string, command uint8, position uint32, payload []byte) (packet.Packet, error) {
	seq := c.session.nextSequence()
	buf := packet.Encode(command, c.session.key, seq, position, payload)

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return packet.Packet{}, fsperr.New(fsperr.KindTransport, op, "", err)
	}
	if _, err := c.conn.Write(buf); err != nil {
		return packet.Packet{}, fsperr.New(fsperr.KindTransport, op, "", err)
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return packet.Packet{}, fsperr.New(fsperr.KindTransport, op, "", err)
	}
	raw := make([]byte, 65535)
	n, err := c.conn.Read(raw)
	if err != nil {
		return packet.Packet{}, fsperr.New(fsperr.KindTransport, op, "", err)
	}
	resp, err := packet.Decode(raw[:n])
	if err != nil {
		return packet.Packet{}, fsperr.New(fsperr.KindProtocol, op, "", err)
	}
	c.session.adopt(resp.Key)
	c.log.V(1, "%s: cmd=0x%02X seq=%d key=0x%04X len=%d", op, resp.Command, resp.Sequence, resp.Key, resp.DataLength)
	return resp, nil
}

// ensureSession lazily handshakes: every operation triggers a handshake
// first if the session has not yet been initialized.
func (c *Client) ensureSession(ctx context.Context) error {
	if c.session.initialized {
		return nil
	}
	return c.Handshake(ctx)
}

// Handshake sends CmdHandshake with an empty payload. Any well-formed
// response marks the session initialized and adopts a non-zero key.
func (c *Client) Handshake(ctx context.Context) error {
	_, err := c.transact("fspclient.Handshake", packet.CmdHandshake, 0, nil)
	if err != nil {
		return err
	}
	c.session.initialized = true
	return nil
}

// remoteError decodes an FSPCommandErr payload into a fsperr.Error of
// kind KindRemote.
func remoteError(op, path string, payload []byte) error {
	msg := strings.TrimRight(string(payload), "\x00")
	return fsperr.New(fsperr.KindRemote, op, path, errorString(msg))
}

type errorString string

func (e errorString) Error() string { return string(e) }

// ListDirectory issues CmdListDir for one page starting at position,
// returning the decoded entries and whether an end-marker was seen.
func (c *Client) ListDirectory(ctx context.Context, path string, position uint32, preferredSize uint16) ([]packet.DirEntry, bool, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, false, err
	}
	payload := make([]byte, 0, len(path)+1+2)
	payload = append(payload, path...)
	payload = append(payload, 0)
	payload = append(payload, byte(preferredSize>>8), byte(preferredSize))

	resp, err := c.transact("fspclient.ListDirectory", packet.CmdListDir, position, payload)
	if err != nil {
		return nil, false, err
	}
	if resp.Command == packet.CmdErr {
		return nil, false, remoteError("fspclient.ListDirectory", path, resp.Payload)
	}
	entries, endReached := packet.ParseDirListing(resp.Payload)
	return entries, endReached, nil
}

// GetFile issues CmdGetFile for one segment starting at position. A
// response shorter than requested (including empty) indicates EOF; the
// orchestrator interprets that, not this method.
func (c *Client) GetFile(ctx context.Context, path string, position uint32) ([]byte, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}
	payload := make([]byte, 0, len(path)+1)
	payload = append(payload, path...)
	payload = append(payload, 0)

	resp, err := c.transact("fspclient.GetFile", packet.CmdGetFile, position, payload)
	if err != nil {
		return nil, err
	}
	if resp.Command == packet.CmdErr {
		return nil, remoteError("fspclient.GetFile", path, resp.Payload)
	}
	return resp.Payload, nil
}

// ReadFile concatenates repeated GetFile calls into the full contents of
// path, stopping at a segment shorter than the previous non-empty one or
// an empty segment.
func (c *Client) ReadFile(ctx context.Context, path string) ([]byte, error) {
	var result []byte
	var position uint32
	lastLen := -1
	for {
		seg, err := c.GetFile(ctx, path, position)
		if err != nil {
			return nil, err
		}
		if len(seg) == 0 {
			break
		}
		result = append(result, seg...)
		position += uint32(len(seg))
		short := lastLen != -1 && len(seg) < lastLen
		lastLen = len(seg)
		if short {
			break
		}
	}
	return result, nil
}

// Stat issues CmdStat for path.
func (c *Client) Stat(ctx context.Context, path string) (packet.Stat, error) {
	if err := c.ensureSession(ctx); err != nil {
		return packet.Stat{}, err
	}
	payload := make([]byte, 0, len(path)+1)
	payload = append(payload, path...)
	payload = append(payload, 0)

	resp, err := c.transact("fspclient.Stat", packet.CmdStat, 0, payload)
	if err != nil {
		return packet.Stat{}, err
	}
	if resp.Command == packet.CmdErr {
		return packet.Stat{}, remoteError("fspclient.Stat", path, resp.Payload)
	}
	st, ok := packet.ParseStat(resp.Payload)
	if !ok {
		return packet.Stat{}, fsperr.New(fsperr.KindProtocol, "fspclient.Stat", path, nil)
	}
	return st, nil
}

// Farewell sends CmdFarewell and does not wait for or report a response.
// Session teardown is best-effort; errors are ignored.
func (c *Client) Farewell(ctx context.Context) {
	if err := c.ensureSession(ctx); err != nil {
		return
	}
	seq := c.session.nextSequence()
	buf := packet.Encode(packet.CmdFarewell, c.session.key, seq, 0, nil)
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	_, _ = c.conn.Write(buf)
}
