// Package dbrouter routes list requests to named database connections
// (user_center, asset_center, ...). Connections open lazily on first use,
// are health-checked in the background and closed after a period of inactivity.
package dbrouter

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"crudcenter/internal/core/apperror"
	"crudcenter/internal/domain/query"
	"crudcenter/pkg/logger"
)

// Connection names one database and how to reach it.
type Connection struct {
	Name   string
	Driver string
	DSN    string
}

// Conn is an open connection able to run list statements.
type Conn interface {
	query.Executor
	Ping(ctx context.Context) error
	Close()
}

// Opener opens a connection for one driver.
type Opener func(ctx context.Context, c Connection) (Conn, error)

// Config configures Router behavior.
type Config struct {
	ConnectTimeout    time.Duration
	IdleTimeout       time.Duration // Close connection after inactivity (0 = never)
	HealthCheckPeriod time.Duration // 0 disables background pings
}

// DefaultConfig returns production-safe defaults.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout:    10 * time.Second,
		IdleTimeout:       30 * time.Minute,
		HealthCheckPeriod: time.Minute,
	}
}

// managedConn wraps Conn with lifecycle tracking.
type managedConn struct {
	conn     Conn
	lastUsed atomic.Int64 // Unix timestamp
	refCount atomic.Int32 // In-flight statements
	// unhealthySince is set when a ping fails (unix timestamp). 0 means healthy.
	unhealthySince atomic.Int64
}

func (mc *managedConn) touch() {
	mc.lastUsed.Store(time.Now().Unix())
}

// Router owns every named connection of the process. Safe for concurrent use.
type Router struct {
	config  Config
	conns   map[string]Connection
	openers map[string]Opener

	open      sync.Map // map[name]*managedConn
	opening   singleflight.Group
	openCount atomic.Int32

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *logger.Logger
}

// New validates the connection set and starts background workers.
func New(cfg Config, conns []Connection, openers map[string]Opener, log *logger.Logger) (*Router, error) {
	byName := make(map[string]Connection, len(conns))
	for _, c := range conns {
		if c.Name == "" {
			return nil, apperror.NewSchema("connection name is required")
		}
		if _, dup := byName[c.Name]; dup {
			return nil, apperror.NewSchema("duplicate connection").WithDetail("connection", c.Name)
		}
		if _, ok := openers[c.Driver]; !ok {
			return nil, apperror.NewSchema("no opener for driver").
				WithDetail("connection", c.Name).
				WithDetail("driver", c.Driver)
		}
		if _, ok := query.DialectByName(c.Driver); !ok {
			return nil, apperror.NewSchema("no dialect for driver").
				WithDetail("connection", c.Name).
				WithDetail("driver", c.Driver)
		}
		byName[c.Name] = c
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Router{
		config:  cfg,
		conns:   byName,
		openers: openers,
		ctx:     ctx,
		cancel:  cancel,
		log:     log.WithComponent("dbrouter"),
	}

	if cfg.IdleTimeout > 0 {
		r.wg.Add(1)
		go r.evictionLoop()
	}
	if cfg.HealthCheckPeriod > 0 {
		r.wg.Add(1)
		go r.healthCheckLoop()
	}

	r.log.Info("connection router started",
		"connections", len(byName),
		"idle_timeout", cfg.IdleTimeout,
		"health_check_period", cfg.HealthCheckPeriod,
	)
	return r, nil
}

// Names returns the configured connection names, sorted.
func (r *Router) Names() []string {
	names := make([]string, 0, len(r.conns))
	for name := range r.conns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dialect returns the statement dialect of a named connection.
func (r *Router) Dialect(name string) (query.Dialect, error) {
	c, ok := r.conns[name]
	if !ok {
		return query.Dialect{}, apperror.NewNotFound("connection", name)
	}
	d, _ := query.DialectByName(c.Driver)
	return d, nil
}

// Executor returns an executor bound to a named connection. The connection
// itself is opened on the first statement and reopened after eviction.
func (r *Router) Executor(name string) (query.Executor, error) {
	if _, ok := r.conns[name]; !ok {
		return nil, apperror.NewNotFound("connection", name)
	}
	return &routedExecutor{router: r, name: name}, nil
}

// Assembler returns a query assembler for a named connection.
func (r *Router) Assembler(name string) (*query.Assembler, error) {
	d, err := r.Dialect(name)
	if err != nil {
		return nil, err
	}
	exec, err := r.Executor(name)
	if err != nil {
		return nil, err
	}
	return query.NewAssembler(exec, d), nil
}

// acquire returns an open connection with its reference count raised.
// Callers must call release.
func (r *Router) acquire(ctx context.Context, name string) (*managedConn, error) {
	if val, ok := r.open.Load(name); ok {
		mc := val.(*managedConn)
		mc.refCount.Add(1)
		mc.touch()
		return mc, nil
	}

	// concurrent first use shares a single open
	v, err, _ := r.opening.Do(name, func() (any, error) {
		if val, ok := r.open.Load(name); ok {
			return val, nil
		}
		mc, err := r.connect(context.WithoutCancel(ctx), name)
		if err != nil {
			return nil, err
		}
		return mc, nil
	})
	if err != nil {
		return nil, err
	}
	mc := v.(*managedConn)
	mc.refCount.Add(1)
	mc.touch()
	return mc, nil
}

func release(mc *managedConn) {
	mc.touch()
	mc.refCount.Add(-1)
}

// connect opens a connection for name. Callers hold the name's singleflight slot.
func (r *Router) connect(ctx context.Context, name string) (*managedConn, error) {
	c, ok := r.conns[name]
	if !ok {
		return nil, apperror.NewNotFound("connection", name)
	}

	openCtx := ctx
	if r.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		openCtx, cancel = context.WithTimeout(ctx, r.config.ConnectTimeout)
		defer cancel()
	}

	conn, err := r.openers[c.Driver](openCtx, c)
	if err != nil {
		return nil, fmt.Errorf("open connection %s: %w", name, err)
	}

	mc := &managedConn{conn: conn}
	mc.touch()
	r.open.Store(name, mc)

	r.openCount.Add(1)
	r.log.Info("opened connection",
		"connection", name,
		"driver", c.Driver,
		"open_connections", r.openCount.Load(),
	)
	return mc, nil
}

// evictionLoop closes idle connections periodically.
func (r *Router) evictionLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.evictIdle()
		}
	}
}

func (r *Router) evictIdle() {
	threshold := time.Now().Add(-r.config.IdleTimeout).Unix()

	r.open.Range(func(key, value any) bool {
		name := key.(string)
		mc := value.(*managedConn)

		if mc.refCount.Load() > 0 {
			return true
		}
		if mc.unhealthySince.Load() > 0 {
			r.closeConn(name, mc, "unhealthy connection (no active refs)")
			return true
		}
		if mc.lastUsed.Load() < threshold {
			r.closeConn(name, mc, "idle timeout")
		}
		return true
	})
}

// healthCheckLoop pings open connections.
func (r *Router) healthCheckLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.HealthCheckPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.checkHealth()
		}
	}
}

func (r *Router) checkHealth() {
	ctx, cancel := context.WithTimeout(r.ctx, 5*time.Second)
	defer cancel()

	r.open.Range(func(key, value any) bool {
		name := key.(string)
		mc := value.(*managedConn)

		if err := mc.conn.Ping(ctx); err != nil {
			if mc.unhealthySince.Load() == 0 {
				mc.unhealthySince.Store(time.Now().Unix())
			}
			r.log.Warn("connection health check failed", "connection", name, "error", err)
			// Busy connections are closed by the eviction loop once released.
			if mc.refCount.Load() == 0 {
				r.closeConn(name, mc, "health check failed")
			}
			return true
		}

		mc.unhealthySince.Store(0)
		return true
	})
}

func (r *Router) closeConn(name string, mc *managedConn, reason string) {
	if !r.open.CompareAndDelete(name, mc) {
		return
	}
	mc.conn.Close()
	r.openCount.Add(-1)

	r.log.Info("closed connection",
		"connection", name,
		"reason", reason,
		"open_connections", r.openCount.Load(),
	)
}

// Close stops background workers and closes every open connection.
func (r *Router) Close() {
	r.cancel()
	r.wg.Wait()

	var closed int
	r.open.Range(func(key, value any) bool {
		r.open.Delete(key)
		value.(*managedConn).conn.Close()
		r.openCount.Add(-1)
		closed++
		return true
	})

	r.log.Info("connection router closed", "connections_closed", closed)
}

// Stats describes the open connections.
type Stats struct {
	Open        int
	Connections []ConnStats
}

// ConnStats describes one open connection.
type ConnStats struct {
	Name       string
	Driver     string
	ActiveRefs int
	Healthy    bool
	LastUsed   time.Time
}

// Stats returns runtime statistics, sorted by connection name.
func (r *Router) Stats() Stats {
	stats := Stats{Open: int(r.openCount.Load())}

	r.open.Range(func(key, value any) bool {
		name := key.(string)
		mc := value.(*managedConn)
		stats.Connections = append(stats.Connections, ConnStats{
			Name:       name,
			Driver:     r.conns[name].Driver,
			ActiveRefs: int(mc.refCount.Load()),
			Healthy:    mc.unhealthySince.Load() == 0,
			LastUsed:   time.Unix(mc.lastUsed.Load(), 0),
		})
		return true
	})
	sort.Slice(stats.Connections, func(i, j int) bool {
		return stats.Connections[i].Name < stats.Connections[j].Name
	})
	return stats
}

// Prewarm opens every configured connection concurrently and returns the
// first failure.
func (r *Router) Prewarm(ctx context.Context) error {
	names := r.Names()
	r.log.Info("prewarming connections", "count", len(names))

	var wg sync.WaitGroup
	errCh := make(chan error, len(names))

	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			mc, err := r.acquire(ctx, name)
			if err != nil {
				errCh <- fmt.Errorf("prewarm %s: %w", name, err)
				return
			}
			release(mc)
		}(name)
	}

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		r.log.Warn("some connections failed to prewarm", "error_count", len(errs))
		return errs[0]
	}
	return nil
}

// routedExecutor resolves its connection per statement so that evicted
// connections are transparently reopened.
type routedExecutor struct {
	router *Router
	name   string
}

func (e *routedExecutor) Count(ctx context.Context, st query.Statement) (int64, error) {
	mc, err := e.router.acquire(ctx, e.name)
	if err != nil {
		return 0, err
	}
	defer release(mc)
	return mc.conn.Count(ctx, st)
}

func (e *routedExecutor) Fetch(ctx context.Context, st query.Statement) ([]map[string]any, error) {
	mc, err := e.router.acquire(ctx, e.name)
	if err != nil {
		return nil, err
	}
	defer release(mc)
	return mc.conn.Fetch(ctx, st)
}
