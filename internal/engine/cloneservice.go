package engine

import (
	"fmt"
	"strings"

	"github.com/agilira/go-errors"
	"go.uber.org/zap"

	"checkstyle/internal/api"
	"checkstyle/internal/config"
)

const undeclaredCapabilityMsg = "check should declare either the per-thread or the per-application capability"

// CloneService decides, per check instance, whether a fresh isolated clone
// must be manufactured for a worker or the original instance can be
// reused. The decision follows the check's declared concurrency
// capability; manufacturing goes through the module factory, the same
// mechanism that instantiated the original from configuration.
type CloneService struct {
	factory config.ModuleFactory
	log     *zap.Logger
}

// NewCloneService creates a clone service over the given module factory.
// A nil logger disables diagnostics.
func NewCloneService(factory config.ModuleFactory, log *zap.Logger) *CloneService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CloneService{factory: factory, log: log}
}

// CloneCheck resolves the instance to use for one more concurrent user of
// a tree check: the original for per-application checks, a fresh
// configured clone for per-thread checks.
func (s *CloneService) CloneCheck(check api.Check) (api.Check, error) {
	switch check.Concurrency() {
	case api.ConcurrencyPerApplication:
		return check, nil
	case api.ConcurrencyPerThread:
		clone, err := cloneModule(s, check)
		if err != nil {
			return nil, err
		}
		return clone, nil
	default:
		s.logUndeclared(check)
		return check, nil
	}
}

// CloneFileSetCheck is CloneCheck for file-level checks. A fresh clone is
// additionally told which original it was manufactured from.
func (s *CloneService) CloneFileSetCheck(check api.FileSetCheck) (api.FileSetCheck, error) {
	switch check.Concurrency() {
	case api.ConcurrencyPerApplication:
		return check, nil
	case api.ConcurrencyPerThread:
		clone, err := cloneModule(s, check)
		if err != nil {
			return nil, err
		}
		clone.FinishCloning(check)
		return clone, nil
	default:
		s.logUndeclared(check)
		return check, nil
	}
}

// CloneFileSetChecks maps a list of fileset checks through
// CloneFileSetCheck, preserving order.
func (s *CloneService) CloneFileSetChecks(checks []api.FileSetCheck) ([]api.FileSetCheck, error) {
	clones := make([]api.FileSetCheck, len(checks))
	for i, check := range checks {
		clone, err := s.CloneFileSetCheck(check)
		if err != nil {
			return nil, err
		}
		clones[i] = clone
	}
	return clones, nil
}

// cloneModule manufactures a new instance of the same concrete module,
// replays the original's context and configuration onto it and
// initializes it. Any failure is fatal: the caller must not continue with
// a partially configured clone.
func cloneModule[T interface {
	api.Configurable
	api.Contextualizable
	Init() error
}](s *CloneService, original T) (T, error) {
	var zero T
	cfg := original.Configuration()
	if cfg == nil {
		return zero, errors.New(ErrCodeCloneFailure,
			"check "+simpleTypeName(original)+" has no configuration to clone from")
	}
	module, err := s.factory.CreateModule(cfg.Name())
	if err != nil {
		return zero, errors.Wrap(err, ErrCodeCloneFailure,
			"an unexpected exception raised while cloning check "+cfg.Name())
	}
	clone, ok := module.(T)
	if !ok {
		return zero, errors.New(ErrCodeCloneFailure,
			"module "+cfg.Name()+" produced an incompatible instance "+simpleTypeName(module))
	}
	if err := clone.Contextualize(original.Context()); err != nil {
		return zero, errors.Wrap(err, ErrCodeCloneFailure,
			"unable to contextualize clone of "+cfg.Name())
	}
	if err := clone.Configure(cfg); err != nil {
		return zero, errors.Wrap(err, ErrCodeCloneFailure,
			"unable to configure clone of "+cfg.Name())
	}
	if err := clone.Init(); err != nil {
		return zero, errors.Wrap(err, ErrCodeCloneFailure,
			"unable to initialize clone of "+cfg.Name())
	}
	return clone, nil
}

// logUndeclared emits the one diagnostic for a check that never declared
// its capability. The zap level check keeps normal runs free of the cost.
func (s *CloneService) logUndeclared(check any) {
	if ce := s.log.Check(zap.DebugLevel, undeclaredCapabilityMsg); ce != nil {
		ce.Write(zap.String("check", simpleTypeName(check)))
	}
}

// simpleTypeName returns the concrete type name without package path and
// pointer markers.
func simpleTypeName(v any) string {
	name := strings.TrimLeft(fmt.Sprintf("%T", v), "*")
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
