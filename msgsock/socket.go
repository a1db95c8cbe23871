package msgsock

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/momentics/netkit/api"
	"github.com/momentics/netkit/netclient"
	"github.com/momentics/netkit/netsrv"
)

// Handlers is the message-passing endpoint's capability object: OnReceived
// carries the decoded payload (frame header already stripped) alongside
// the peer's connection identity, matching spec §6's fixed event-callback
// set applied to this endpoint.
type Handlers struct {
	OnStarted      func()
	OnStopped      func()
	OnConnected    func(peer api.Identity)
	OnDisconnected func(peer api.Identity)
	OnReceived     func(peer api.Identity, msg []byte)
	OnIdle         func()
	OnError        func(code api.ErrorCode, category api.ErrorCategory, message string)
}

// Config configures a Socket.
type Config struct {
	NUMANode   int
	BufferPool api.BufferPool
}

// Socket is one endpoint of the message-passing layer. Exactly one of
// Bind or Connect may be called, per spec §4.7's "bind/connect" contract.
type Socket struct {
	kind     Kind
	handlers Handlers
	cfg      Config

	mu  sync.Mutex
	srv *netsrv.Server   // set after Bind
	cli *netclient.Client // set after Connect

	decoders sync.Map // api.Identity -> *frameDecoder

	subMu    sync.Mutex
	subPrefs [][]byte

	awaitingResponse atomic.Bool // REQ: true while a request is outstanding

	surveyMu    sync.Mutex
	surveyRound int64
	surveyChan  chan survey
	surveyLive  atomic.Bool

	messagesSent     atomic.Int64
	messagesReceived atomic.Int64

	ctxOnce sync.Once
	ctx     *api.MemContext

	reloadMu sync.Mutex
	reloadFn []func()

	probeMu sync.Mutex
	probes  map[string]func() any
}

type survey struct {
	peer api.Identity
	data []byte
}

// New constructs a Socket of the given kind.
func New(kind Kind, handlers Handlers, cfg Config) *Socket {
	return &Socket{kind: kind, handlers: handlers, cfg: cfg}
}

func (s *Socket) streamHandlers() api.Handlers {
	return api.Handlers{
		OnStarted:      s.handlers.OnStarted,
		OnStopped:      s.handlers.OnStopped,
		OnConnected:    s.handlers.OnConnected,
		OnDisconnected: func(id api.Identity) { s.decoders.Delete(id); s.handlers.Disconnected(id) },
		OnReceived:     s.onStreamReceived,
		OnIdle:         s.handlers.OnIdle,
		OnError: func(code api.ErrorCode, cat api.ErrorCategory, msg string) {
			if s.handlers.OnError != nil {
				s.handlers.OnError(code, cat, msg)
			}
		},
	}
}

func (h Handlers) Disconnected(id api.Identity) {
	if h.OnDisconnected != nil {
		h.OnDisconnected(id)
	}
}

// Bind listens on addr and accepts any number of peers, appropriate for
// PUB/PULL/REP/RESPONDENT/SURVEYOR/PAIR/BUS hub roles.
func (s *Socket) Bind(ctx context.Context, addr string) error {
	s.mu.Lock()
	if s.srv != nil || s.cli != nil {
		s.mu.Unlock()
		return api.ErrAlreadyRunning
	}
	srv := netsrv.New(netsrv.Config{ListenAddr: addr, BufferPool: s.cfg.BufferPool, NUMANode: s.cfg.NUMANode},
		s.streamHandlers())
	s.srv = srv
	s.mu.Unlock()

	startErr := make(chan error, 1)
	go func() { startErr <- srv.Start(ctx) }()

	select {
	case <-srv.Ready():
		return nil
	case err := <-startErr:
		return err // bind failed before ever becoming ready
	}
}

// Connect dials addr as a single peer, appropriate for PUSH/SUB/REQ/
// RESPONDENT/PAIR/BUS leaf roles.
func (s *Socket) Connect(ctx context.Context, addr string) error {
	s.mu.Lock()
	if s.srv != nil || s.cli != nil {
		s.mu.Unlock()
		return api.ErrAlreadyRunning
	}
	cli := netclient.New(netclient.Config{Addr: addr, BufferPool: s.cfg.BufferPool, NUMANode: s.cfg.NUMANode},
		s.streamHandlers())
	s.cli = cli
	s.mu.Unlock()
	return cli.Connect(ctx)
}

func (s *Socket) onStreamReceived(id api.Identity, data []byte) {
	decI, _ := s.decoders.LoadOrStore(id, &frameDecoder{})
	dec := decI.(*frameDecoder)
	dec.feed(data, func(k Kind, payload []byte) {
		s.messagesReceived.Add(1)
		if s.kind == Sub && !s.matchesSubscription(payload) {
			return
		}
		if s.kind == Req {
			s.awaitingResponse.Store(false) // reply received, may send again
		}
		if s.kind == Surveyor {
			s.deliverSurveyResponse(id, payload)
			return
		}
		if s.handlers.OnReceived != nil {
			s.handlers.OnReceived(id, payload)
		}
	})
}

func (s *Socket) matchesSubscription(payload []byte) bool {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if len(s.subPrefs) == 0 {
		return true // no filters registered: accept everything
	}
	for _, p := range s.subPrefs {
		if len(payload) >= len(p) && string(payload[:len(p)]) == string(p) {
			return true
		}
	}
	return false
}

// Subscribe registers a prefix filter; only SUB sockets accept this call.
func (s *Socket) Subscribe(prefix []byte) error {
	if s.kind != Sub {
		return api.NewError(api.ErrCodeInvalidArgument, api.CategoryConfiguration,
			"Subscribe is only valid on a SUB socket")
	}
	s.subMu.Lock()
	s.subPrefs = append(s.subPrefs, append([]byte(nil), prefix...))
	s.subMu.Unlock()
	return nil
}

// Unsubscribe removes a previously registered prefix filter.
func (s *Socket) Unsubscribe(prefix []byte) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for i, p := range s.subPrefs {
		if string(p) == string(prefix) {
			s.subPrefs = append(s.subPrefs[:i], s.subPrefs[i+1:]...)
			return
		}
	}
}

// MessagesSent reports cumulative messages sent.
func (s *Socket) MessagesSent() int64 { return s.messagesSent.Load() }

// MessagesReceived reports cumulative messages received.
func (s *Socket) MessagesReceived() int64 { return s.messagesReceived.Load() }

// Context returns this socket's application-level key-value store,
// constructing it lazily on first use, the same pattern session.Session
// uses for its own Context.
func (s *Socket) Context() api.Context {
	s.ctxOnce.Do(func() { s.ctx = api.NewMemContext() })
	return s.ctx
}

// Shutdown is an alias for Close, satisfying api.GracefulShutdown.
func (s *Socket) Shutdown() error { return s.Close() }

var (
	_ api.GracefulShutdown = (*Socket)(nil)
	_ api.Control          = (*Socket)(nil)
)
