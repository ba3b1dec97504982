package interaction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/regio-project/regio-go/pkg/bus"
	"github.com/regio-project/regio-go/pkg/log"
	"github.com/regio-project/regio-go/pkg/mmio"
	"github.com/regio-project/regio-go/pkg/transport"
	"github.com/regio-project/regio-go/pkg/version"
	"github.com/regio-project/regio-go/pkg/wire"
)

// session is the per-connection protocol state.
type session struct {
	negotiated version.ProtocolVersion
	hello      bool
}

// Server answers remote bus requests against a backing bus.
type Server struct {
	mu sync.RWMutex

	backing bus.Bus
	regions []wire.RegionInfo
	logger  log.Logger

	sessions map[string]*session
}

// NewServer creates a server exposing the given regions of backing.
// With no regions every address is forwarded to the backing bus.
func NewServer(backing bus.Bus, regions ...wire.RegionInfo) *Server {
	return &Server{
		backing:  backing,
		regions:  regions,
		sessions: make(map[string]*session),
	}
}

// SetLogger enables remote message logging.
func (s *Server) SetLogger(logger log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// Regions returns the served regions.
func (s *Server) Regions() []wire.RegionInfo { return s.regions }

// HandleMessage decodes one request from conn and replies asynchronously.
// Wire it to transport.ServerConfig.OnMessage.
func (s *Server) HandleMessage(conn transport.Connection, data []byte) {
	go func() {
		resp := s.handle(context.Background(), conn.ID(), data)
		out, err := wire.EncodeResponse(resp)
		if err != nil {
			return
		}
		_ = conn.Send(out)
	}()
}

// Forget drops the session state of a closed connection.
// Wire it to transport.ServerConfig.OnDisconnect.
func (s *Server) Forget(conn transport.Connection) {
	s.mu.Lock()
	delete(s.sessions, conn.ID())
	s.mu.Unlock()
}

func (s *Server) handle(ctx context.Context, connID string, data []byte) *wire.Response {
	start := time.Now()
	req, err := wire.DecodeRequest(data)
	if err != nil {
		id, _ := wire.PeekMessageID(data)
		return wire.ErrorResponse(id, wire.StatusInvalidRequest, err.Error())
	}

	s.mu.RLock()
	logger := s.logger
	s.mu.RUnlock()
	if logger != nil {
		logger.Log(requestEvent(connID, log.DirectionIn, req))
	}

	resp := s.HandleRequest(ctx, connID, req)
	if logger != nil {
		logger.Log(responseEvent(connID, log.DirectionOut, resp, time.Since(start)))
	}
	return resp
}

// HandleRequest processes a decoded request for the given connection.
func (s *Server) HandleRequest(ctx context.Context, connID string, req *wire.Request) *wire.Response {
	if req.Operation == wire.OpHello {
		return s.handleHello(connID, req)
	}

	s.mu.RLock()
	sess := s.sessions[connID]
	s.mu.RUnlock()
	if sess == nil || !sess.hello {
		return wire.ErrorResponse(req.MessageID, wire.StatusInvalidRequest, "hello required")
	}

	switch req.Operation {
	case wire.OpDescribe:
		return &wire.Response{MessageID: req.MessageID, Status: wire.StatusSuccess, Regions: s.regions}
	case wire.OpRead:
		return s.handleRead(ctx, req)
	case wire.OpWrite:
		return s.handleWrite(ctx, req)
	default:
		return wire.ErrorResponse(req.MessageID, wire.StatusUnsupported, req.Operation.String())
	}
}

func (s *Server) handleHello(connID string, req *wire.Request) *wire.Response {
	v, err := version.Negotiate(version.Current, req.Version)
	if err != nil {
		return wire.ErrorResponse(req.MessageID, wire.StatusUnsupported, err.Error())
	}

	s.mu.Lock()
	s.sessions[connID] = &session{negotiated: v, hello: true}
	s.mu.Unlock()

	return &wire.Response{MessageID: req.MessageID, Status: wire.StatusSuccess, Version: v.String()}
}

func (s *Server) target(req *wire.Request) (bus.Target, *wire.Response) {
	t := bus.Target{Name: req.Register, Address: req.Address, Width: int(req.Width)}
	if !s.served(t) {
		return t, wire.ErrorResponse(req.MessageID, wire.StatusOutOfRange,
			fmt.Sprintf("0x%x not in a served region", req.Address))
	}
	return t, nil
}

func (s *Server) served(t bus.Target) bool {
	if len(s.regions) == 0 {
		return true
	}
	last := t.Address + uint64(t.Bytes()) - 1
	for _, r := range s.regions {
		if r.Contains(t.Address) && r.Contains(last) {
			return true
		}
	}
	return false
}

func (s *Server) handleRead(ctx context.Context, req *wire.Request) *wire.Response {
	t, bad := s.target(req)
	if bad != nil {
		return bad
	}
	v, err := s.backing.Read(ctx, t, req.Mask)
	if err != nil {
		return errorResponse(req.MessageID, err)
	}
	return &wire.Response{MessageID: req.MessageID, Status: wire.StatusSuccess, Value: v}
}

func (s *Server) handleWrite(ctx context.Context, req *wire.Request) *wire.Response {
	t, bad := s.target(req)
	if bad != nil {
		return bad
	}
	w := bus.Write{
		Mask:          req.Mask,
		IdentityMask:  req.IdentityMask,
		IdentityValue: req.IdentityValue,
		Value:         req.Value,
	}
	if err := s.backing.Write(ctx, t, w); err != nil {
		return errorResponse(req.MessageID, err)
	}
	return &wire.Response{MessageID: req.MessageID, Status: wire.StatusSuccess}
}

// errorResponse maps a backing bus error to a response status.
func errorResponse(id uint32, err error) *wire.Response {
	status := wire.StatusBusError
	switch {
	case errors.Is(err, mmio.ErrOutOfRange):
		status = wire.StatusOutOfRange
	case errors.Is(err, mmio.ErrMisaligned):
		status = wire.StatusMisaligned
	case errors.Is(err, bus.ErrUnsupportedWidth), errors.Is(err, mmio.ErrAccessSize):
		status = wire.StatusUnsupported
	}
	return wire.ErrorResponse(id, status, err.Error())
}
