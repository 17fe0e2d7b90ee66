// Package fsptest runs a minimal in-process FSP server over loopback UDP,
// for fspclient and retrieve tests that need a real socket round-trip
// rather than a mocked transport.
package fsptest

import (
	"net"
	"sync"

	"github.com/czajorlukasz/fiskread/packet"
)

// Handler computes a response for one decoded request packet. It returns
// the response command, payload and position to echo.
type Handler func(req packet.Packet) (command uint8, payload []byte, position uint32)

// Server is a single-goroutine fake FSP server.
type Server struct {
	conn    *net.UDPConn
	key     uint16
	handler Handler

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// Start binds to 127.0.0.1:0 and serves requests with handler until Close.
// serverKey is the non-zero key returned on every response, simulating a
// server that has chosen a session key.
func Start(serverKey uint16, handler Handler) (*Server, error) {
	addr, err := net.ResolveUDPAddr("udp4", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{conn: conn, key: serverKey, handler: handler, done: make(chan struct{})}
	go s.serve()
	return s, nil
}

// Addr returns the "host:port" string clients should dial.
func (s *Server) Addr() string {
	return s.conn.LocalAddr().String()
}

func (s *Server) serve() {
	buf := make([]byte, 65535)
	for {
		n, raddr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			close(s.done)
			return
		}
		req, err := packet.Decode(buf[:n])
		if err != nil {
			continue
		}
		cmd, payload, position := s.handler(req)
		resp := packet.Encode(cmd, s.key, req.Sequence, position, payload)
		_, _ = s.conn.WriteToUDP(resp, raddr)
	}
}

// Close stops the server.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	_ = s.conn.Close()
	<-s.done
}
