package msgsock

// Close tears down whichever transport (bound server or connected client)
// this socket is using. Safe to call once; a second call is a no-op.
func (s *Socket) Close() error {
	s.mu.Lock()
	srv, cli := s.srv, s.cli
	s.srv, s.cli = nil, nil
	s.mu.Unlock()

	if srv != nil {
		return srv.Stop()
	}
	if cli != nil {
		return cli.Close()
	}
	return nil
}

// Kind returns the socket's kind.
func (s *Socket) Kind() Kind { return s.kind }
