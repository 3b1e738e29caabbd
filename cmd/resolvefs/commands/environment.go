package commands

import (
	"context"
	"fmt"

	"github.com/marmos91/resolvefs/internal/logger"
	"github.com/marmos91/resolvefs/pkg/config"
	"github.com/marmos91/resolvefs/pkg/resolver"
	badgerstore "github.com/marmos91/resolvefs/pkg/resolver/badger"
	"github.com/marmos91/resolvefs/pkg/resolver/memory"
)

// namespaceStore is the builder surface shared by the memory and badger
// stores, used by the namespace maintenance commands.
type namespaceStore interface {
	resolver.HandleStore
	MkDir(parent resolver.ObjectHandle, name resolver.Name, mode uint32, uid, gid uint32) (resolver.ObjectHandle, error)
	CreateFile(parent resolver.ObjectHandle, name resolver.Name, mode uint32, uid, gid uint32) (resolver.ObjectHandle, error)
	CreateJunction(parent resolver.ObjectHandle, name resolver.Name, mode uint32, uid, gid uint32) (resolver.ObjectHandle, error)
	Remove(parent resolver.ObjectHandle, name resolver.Name) error
}

// environment bundles everything a command needs to operate on a namespace.
type environment struct {
	cfg      *config.Config
	store    namespaceStore
	resolver *resolver.Resolver
	close    func() error
}

// openEnvironment loads config, initializes logging and builds the resolver
// stack on the configured store backend.
func openEnvironment() (*environment, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return nil, err
	}

	env := &environment{cfg: cfg, close: func() error { return nil }}

	var federation resolver.FederationResolver
	switch cfg.Store.Backend {
	case "memory":
		env.store = memory.New()
	case "badger":
		store, err := badgerstore.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		env.store = store
		env.close = store.Close
		// The badger store doubles as the persistent federation map.
		federation = store
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	// A static federation table in the config overrides the store's map.
	if len(cfg.Federation) > 0 {
		static := resolver.NewStaticFederation()
		for _, m := range cfg.Federation {
			junction, err := resolver.ParseHandle(m.Junction)
			if err != nil {
				env.close()
				return nil, fmt.Errorf("federation junction %q: %w", m.Junction, err)
			}
			target, err := resolver.ParseHandle(m.Target)
			if err != nil {
				env.close()
				return nil, fmt.Errorf("federation target %q: %w", m.Target, err)
			}
			static.SetMapping(junction, target)
		}
		federation = static
	}

	var metrics *resolver.ResolverMetrics
	if cfg.Metrics.Enabled {
		metrics = resolver.NewResolverMetrics(nil)

		srv, _, err := serveMetrics(cfg.Metrics.ListenAddr)
		if err != nil {
			env.close()
			return nil, err
		}
		storeClose := env.close
		env.close = func() error {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Metrics.ShutdownTimeout)
			defer cancel()
			srv.Shutdown(shutdownCtx)
			return storeClose()
		}
	}

	env.resolver = resolver.New(env.store, resolver.Options{
		Gate:       resolver.NewGate(cfg.Gate.MaxInFlight),
		Federation: federation,
		Metrics:    metrics,
	})

	return env, nil
}

// authContext builds the AuthContext for CLI operations from the uid/gid
// flags.
func (env *environment) authContext(uid, gid uint32) *resolver.AuthContext {
	return &resolver.AuthContext{
		Context: context.Background(),
		Identity: &resolver.Identity{
			UID:  resolver.Uint32Ptr(uid),
			GID:  resolver.Uint32Ptr(gid),
			GIDs: []uint32{gid},
		},
	}
}

// resolveParent splits an absolute path into its parent handle and leaf
// name, resolving the parent through the resolver.
func (env *environment) resolveParent(ctx *resolver.AuthContext, path string) (resolver.ObjectHandle, resolver.Name, error) {
	parsed, err := resolver.ParsePath(path)
	if err != nil {
		return resolver.ObjectHandle{}, "", err
	}
	if len(parsed) == 0 {
		return resolver.ObjectHandle{}, "", resolver.NewInvalidArgumentError("path must name an object below the root")
	}

	leaf := parsed[len(parsed)-1]
	parentPath := parsed[:len(parsed)-1]

	parent, _, err := env.resolver.ResolvePath(ctx, parentPath.String(), 0)
	if err != nil {
		return resolver.ObjectHandle{}, "", err
	}
	return parent, leaf, nil
}
