package sync

import (
	"bufio"
	"context"
	"errors"
	"net"
)

// Server accepts raw TCP feed subscribers.
type Server struct {
	Addr string
	Hub  *Hub
}

func NewServer(addr string, hub *Hub) *Server {
	return &Server{Addr: addr, Hub: hub}
}

// Run listens until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is cancelled, then closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.Hub.log.Info().Str("addr", ln.Addr().String()).Msg("tcp feed listening")

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.Hub.log.Warn().Err(err).Msg("tcp accept")
			continue
		}

		s.Hub.welcome(conn)
		s.Hub.Add(conn)
		s.Hub.log.Info().Str("remote", conn.RemoteAddr().String()).Msg("tcp client connected")

		go func(c net.Conn) {
			defer func() {
				s.Hub.Remove(c)
				s.Hub.log.Info().Str("remote", c.RemoteAddr().String()).Msg("tcp client disconnected")
			}()

			// Subscribers only listen; drain anything they send.
			sc := bufio.NewScanner(c)
			for sc.Scan() {
			}
		}(conn)
	}
}
