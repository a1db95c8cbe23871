package wsframe

import (
	"context"
	"crypto/rand"
	"fmt"
	"net"

	"github.com/momentics/netkit/api"
	"github.com/momentics/netkit/reactor"
	"github.com/momentics/netkit/session"
)

// Handlers is the message-level callback set a Socket user configures,
// one layer up from api.Handlers the way msgsock.Handlers sits one layer
// up from the raw byte stream — OnText/OnBinary/OnPing/OnPong receive the
// payload of a reassembled frame instead of an arbitrary byte slice.
type Handlers struct {
	OnOpen   func(id api.Identity)
	OnClose  func(id api.Identity)
	OnText   func(id api.Identity, text string)
	OnBinary func(id api.Identity, data []byte)
	OnPing   func(id api.Identity, data []byte)
	OnPong   func(id api.Identity, data []byte)
	OnError  func(code api.ErrorCode, category api.ErrorCategory, message string)
}

// Socket is a WebSocket peer running atop session.Session: the handshake
// happens once, inline, before the session takes over the connection as a
// framed byte-stream consumer.
type Socket struct {
	sess      *session.Session
	sendsMask bool
	dec       decoder
}

// NewServerSocket performs the server side of the RFC6455 handshake on
// conn, then hands the now-upgraded connection to a new session.Session
// for framed message exchange. conn must not have been read from yet.
func NewServerSocket(id api.Identity, conn net.Conn, r *reactor.Reactor, h Handlers, opts ...session.Option) (*Socket, error) {
	respHeaders, _, err := ServerAccept(conn)
	if err != nil {
		return nil, err
	}
	if err := WriteAccept(conn, respHeaders); err != nil {
		return nil, err
	}

	sock := &Socket{sendsMask: false}
	sock.sess = session.New(id, conn, r, sock.streamHandlers(h), opts...)
	return sock, nil
}

// NewClientSocket performs the client side of the handshake against addr
// (already dialed as conn) and hands the connection to a session.Session.
// Client-to-server frames are masked per RFC6455 §5.1.
func NewClientSocket(id api.Identity, conn net.Conn, host, path string, r *reactor.Reactor, h Handlers, opts ...session.Option) (*Socket, error) {
	reqBytes, key, err := ClientRequest(host, path)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(reqBytes); err != nil {
		return nil, err
	}
	if err := ReadClientResponse(conn, key); err != nil {
		return nil, err
	}

	sock := &Socket{sendsMask: true}
	sock.sess = session.New(id, conn, r, sock.streamHandlers(h), opts...)
	return sock, nil
}

// Start begins the session's receive loop. Call once after construction.
func (s *Socket) Start(ctx context.Context) { s.sess.Start(ctx) }

// ID returns the underlying session identity.
func (s *Socket) ID() api.Identity { return s.sess.ID() }

// Close sends a close frame (best effort) and tears down the session.
func (s *Socket) Close() error {
	_ = s.sendControl(OpcodeClose, nil)
	s.sess.Disconnect(true)
	return nil
}

func (s *Socket) streamHandlers(h Handlers) api.Handlers {
	return api.Handlers{
		OnConnected: func(id api.Identity) {
			if h.OnOpen != nil {
				h.OnOpen(id)
			}
		},
		OnDisconnected: func(id api.Identity) {
			if h.OnClose != nil {
				h.OnClose(id)
			}
		},
		OnReceived: func(id api.Identity, data []byte) {
			if err := s.dec.feed(data, func(f Frame) { s.dispatch(id, f, h) }); err != nil {
				if h.OnError != nil {
					h.OnError(api.ErrCodeProtocolViolation, api.CategoryProtocol, err.Error())
				}
				s.sess.Disconnect(true)
			}
		},
		OnError: func(code api.ErrorCode, category api.ErrorCategory, message string) {
			if h.OnError != nil {
				h.OnError(code, category, message)
			}
		},
	}
}

func (s *Socket) dispatch(id api.Identity, f Frame, h Handlers) {
	switch f.Opcode {
	case OpcodeText:
		if h.OnText != nil {
			h.OnText(id, string(f.Payload))
		}
	case OpcodeBinary:
		if h.OnBinary != nil {
			h.OnBinary(id, f.Payload)
		}
	case OpcodePing:
		if h.OnPing != nil {
			h.OnPing(id, f.Payload)
		}
		_ = s.sendControl(OpcodePong, f.Payload)
	case OpcodePong:
		if h.OnPong != nil {
			h.OnPong(id, f.Payload)
		}
	case OpcodeClose:
		s.sess.Disconnect(true)
	}
}

func (s *Socket) maskKey() [4]byte {
	var k [4]byte
	if s.sendsMask {
		_, _ = rand.Read(k[:])
	}
	return k
}

// SendText writes a single-frame text message.
func (s *Socket) SendText(text string) error {
	return s.sendData(OpcodeText, []byte(text))
}

// SendBinary writes a single-frame binary message.
func (s *Socket) SendBinary(data []byte) error {
	return s.sendData(OpcodeBinary, data)
}

func (s *Socket) sendData(op Opcode, payload []byte) error {
	frame, err := Encode(Frame{Final: true, Opcode: op, Payload: payload}, s.sendsMask, s.maskKey())
	if err != nil {
		return err
	}
	s.sess.Send(frame)
	return nil
}

func (s *Socket) sendControl(op Opcode, payload []byte) error {
	if len(payload) > MaxControlPayloadLen {
		return fmt.Errorf("wsframe: %w", ErrControlTooBig)
	}
	return s.sendData(op, payload)
}

// Ping sends a ping control frame.
func (s *Socket) Ping(payload []byte) error { return s.sendControl(OpcodePing, payload) }
