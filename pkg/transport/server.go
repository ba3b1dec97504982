package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/regio-project/regio-go/pkg/log"
)

// DefaultPort is the default remote bus port.
const DefaultPort = 7483

// DefaultHandshakeTimeout bounds the authentication exchange.
const DefaultHandshakeTimeout = 5 * time.Second

// ServerConfig configures a remote bus server.
type ServerConfig struct {
	// Address to listen on (e.g., ":7483" or "127.0.0.1:0").
	Address string

	// PSK enables authentication when non-empty.
	PSK []byte

	// HandshakeTimeout bounds authentication (default: 5s).
	HandshakeTimeout time.Duration

	// MaxMessageSize is the maximum message size (default: 64KB).
	MaxMessageSize uint32

	// Logger for frame and state logging (optional).
	Logger log.Logger

	// OnConnect is called when a connection is established.
	OnConnect func(conn *Conn)

	// OnDisconnect is called when a connection is closed.
	OnDisconnect func(conn *Conn)

	// OnMessage is called for every received message, from the
	// connection's read goroutine.
	OnMessage func(conn *Conn, msg []byte)

	// OnError is called when an error occurs. conn is nil for listener
	// errors.
	OnError func(conn *Conn, err error)
}

// Server accepts remote bus connections.
type Server struct {
	config   ServerConfig
	listener net.Listener

	conns   map[*Conn]struct{}
	connsMu sync.RWMutex

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer creates a server.
func NewServer(config ServerConfig) *Server {
	if config.Address == "" {
		config.Address = fmt.Sprintf(":%d", DefaultPort)
	}
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}
	if config.HandshakeTimeout == 0 {
		config.HandshakeTimeout = DefaultHandshakeTimeout
	}
	return &Server{
		config: config,
		conns:  make(map[*Conn]struct{}),
	}
}

// Start listens and begins accepting connections.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return fmt.Errorf("server already running")
	}

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running.Store(true)

	s.wg.Add(1)
	go s.acceptLoop()

	// Stop when the parent context ends.
	go func() {
		<-s.ctx.Done()
		_ = s.Stop()
	}()
	return nil
}

// Stop closes the listener and all connections and waits for their
// goroutines.
func (s *Server) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	s.cancel()
	_ = s.listener.Close()

	s.connsMu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.connsMu.Unlock()

	s.wg.Wait()
	return nil
}

// Addr returns the listen address.
func (s *Server) Addr() net.Addr {
	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// ConnectionCount returns the number of active connections.
func (s *Server) ConnectionCount() int {
	s.connsMu.RLock()
	defer s.connsMu.RUnlock()
	return len(s.conns)
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		nc, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			s.reportError(nil, fmt.Errorf("accept error: %w", err))
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(nc)
	}
}

func (s *Server) handleConnection(nc net.Conn) {
	defer s.wg.Done()

	conn := newConn(nc, s.config.MaxMessageSize, s.config.Logger)

	// Tracked from the start so Stop can interrupt a pending handshake.
	s.connsMu.Lock()
	if !s.running.Load() {
		s.connsMu.Unlock()
		_ = conn.Close()
		return
	}
	s.conns[conn] = struct{}{}
	s.connsMu.Unlock()

	if len(s.config.PSK) > 0 {
		_ = nc.SetDeadline(time.Now().Add(s.config.HandshakeTimeout))
		err := serverHandshake(conn.framer, s.config.PSK)
		_ = nc.SetDeadline(time.Time{})
		if err != nil {
			s.connsMu.Lock()
			delete(s.conns, conn)
			s.connsMu.Unlock()
			conn.logState("", "REJECTED", err.Error())
			_ = conn.Close()
			s.reportError(nil, fmt.Errorf("handshake with %s: %w", nc.RemoteAddr(), err))
			return
		}
	}

	conn.logState("", "CONNECTED", "")
	if s.config.OnConnect != nil {
		s.config.OnConnect(conn)
	}

	s.readLoop(conn)

	s.connsMu.Lock()
	delete(s.conns, conn)
	s.connsMu.Unlock()
	_ = conn.Close()

	conn.logState("CONNECTED", "DISCONNECTED", "")
	if s.config.OnDisconnect != nil {
		s.config.OnDisconnect(conn)
	}
}

func (s *Server) readLoop(conn *Conn) {
	for {
		data, err := conn.Receive(0)
		if err != nil {
			if s.running.Load() && !errors.Is(err, ErrConnectionClosed) && !isEOF(err) {
				s.reportError(conn, err)
			}
			return
		}
		if s.config.OnMessage != nil {
			s.config.OnMessage(conn, data)
		}
	}
}

func (s *Server) reportError(conn *Conn, err error) {
	if s.config.OnError != nil {
		s.config.OnError(conn, err)
	}
}
