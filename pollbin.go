package pollbin

import (
	"errors"
	"net"

	"github.com/indigo-web/pollbin/config"
	"github.com/indigo-web/pollbin/dispatcher"
	"github.com/indigo-web/pollbin/http"
	"github.com/indigo-web/pollbin/http/status"
	"github.com/indigo-web/pollbin/internal/protocol/http1"
	"github.com/indigo-web/pollbin/internal/server/tcp"
	"github.com/rs/zerolog"
)

type hooks struct {
	OnStart, OnStop func()
}

// App glues the event loop together with the dispatcher: every complete request is parsed,
// dispatched, serialized and sent back, after which the connection is closed.
type App struct {
	cfg        *config.Config
	dispatcher *dispatcher.Dispatcher
	log        zerolog.Logger
	hooks      hooks
	server     *tcp.Server
}

func New(cfg *config.Config, d *dispatcher.Dispatcher, logger zerolog.Logger) *App {
	return &App{
		cfg:        cfg,
		dispatcher: d,
		log:        logger,
	}
}

// NotifyOnStart calls the callback right before the loop starts. The listener is already
// bound at that moment, so connections are accepted.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback after the loop has exited.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Listen binds the listening socket. It's called by Serve implicitly, if wasn't called before.
func (a *App) Listen() error {
	if a.server != nil {
		return nil
	}

	server, err := tcp.Listen(a.cfg.NET, a.reply, a.log)
	if err != nil {
		return err
	}

	a.server = server
	return nil
}

// Addr returns the bound address, or nil if the app isn't listening yet.
func (a *App) Addr() net.Addr {
	if a.server == nil {
		return nil
	}

	return a.server.Addr()
}

// Serve runs the loop until Stop is called, in which case nil is returned. Otherwise, the
// failure of the listener is returned.
func (a *App) Serve() error {
	if err := a.Listen(); err != nil {
		return err
	}

	a.log.Info().Str("addr", a.server.Addr().String()).Msgf("Serving on port %d", port(a.server.Addr()))
	callIfNotNil(a.hooks.OnStart)
	err := a.server.Run()
	callIfNotNil(a.hooks.OnStop)

	if errors.Is(err, status.ErrShutdown) {
		return nil
	}

	a.log.Error().Err(err).Msg("event loop has failed")
	return err
}

// Stop makes Serve return. It's safe to call it from another goroutine, including
// signal handlers.
func (a *App) Stop() error {
	if a.server == nil {
		return nil
	}

	return a.server.Stop()
}

// Close releases the listener and the connections left. Must be called after Serve returned.
func (a *App) Close() error {
	if a.server == nil {
		return nil
	}

	return a.server.Close()
}

func (a *App) reply(conn *tcp.Conn) error {
	request := http1.Parse(conn.Data())
	response := a.dispatcher.Dispatch(request)

	if err := conn.Write(http1.Serialize(response)); err != nil {
		return err
	}

	a.logResponse(conn, request, response)
	return nil
}

func (a *App) logResponse(conn *tcp.Conn, request *http.Request, response *http.Response) {
	a.log.Info().
		Str("ip", host(conn.Remote())).
		Stringer("conn", conn.ID()).
		Str("request", request.RequestLine()).
		Uint16("status", uint16(response.Code())).
		Int("length", response.Len()).
		Send()
}

func host(addr net.Addr) string {
	if tcpAddr, ok := addr.(*net.TCPAddr); ok {
		return tcpAddr.IP.String()
	}

	return "-"
}

func port(addr net.Addr) int {
	if tcpAddr, ok := addr.(*net.TCPAddr); ok {
		return tcpAddr.Port
	}

	return 0
}

func callIfNotNil(cb func()) {
	if cb != nil {
		cb()
	}
}
