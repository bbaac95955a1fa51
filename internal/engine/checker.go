package engine

import (
	"context"

	"github.com/agilira/go-errors"
	"go.uber.org/zap"

	"checkstyle/internal/api"
	"checkstyle/internal/cache"
	"checkstyle/internal/config"
)

// Checker processes a batch of files sequentially on the calling
// goroutine. It owns the configured fileset checks, the filter set, the
// audit listeners and the optional result cache, and reports the number
// of error-severity violations for the run's exit status.
type Checker struct {
	factory config.ModuleFactory
	log     *zap.Logger

	cfg      *config.Config
	settings *config.ThreadModeSettings
	charset  string

	fileSetChecks []api.FileSetCheck
	filters       *api.FilterSet
	listeners     []api.AuditListener
	results       *cache.ResultCache
}

// NewChecker creates a checker over the given module factory. A nil
// logger disables logging.
func NewChecker(factory config.ModuleFactory, log *zap.Logger) *Checker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Checker{
		factory:  factory,
		log:      log,
		settings: config.SingleThreadMode,
		charset:  "utf-8",
		filters:  api.NewFilterSet(),
	}
}

// Configure reads the root properties, adopts the thread-mode settings
// and instantiates the child modules: fileset checks, filters and audit
// listeners.
func (c *Checker) Configure(cfg *config.Config) error {
	c.cfg = cfg
	c.settings = cfg.ThreadMode()
	c.charset = cfg.PropertyOrDefault(config.CharsetProperty, "utf-8")
	if path, ok := cfg.Property(config.CacheFileProperty); ok {
		results, err := cache.Open(path, cfg)
		if err != nil {
			return err
		}
		c.results = results
	}
	for _, childCfg := range cfg.Children() {
		if err := c.setupChild(childCfg); err != nil {
			return err
		}
	}
	return nil
}

// Configuration returns the configuration passed to Configure.
func (c *Checker) Configuration() *config.Config { return c.cfg }

// ThreadMode returns the active thread-mode settings.
func (c *Checker) ThreadMode() *config.ThreadModeSettings { return c.settings }

// childContext builds the context replayed onto child modules and their
// future clones.
func (c *Checker) childContext() api.Context {
	return api.Context{
		api.ContextModuleFactory: c.factory,
		api.ContextSettings:      c.settings,
		api.ContextLogger:        c.log,
		api.ContextCharset:       c.charset,
	}
}

func (c *Checker) setupChild(childCfg *config.Config) error {
	name := childCfg.Name()
	resolved, err := c.settings.ResolveName(name)
	if err != nil {
		return err
	}
	module, err := c.factory.CreateModule(resolved)
	if err != nil {
		return err
	}
	switch m := module.(type) {
	case api.FileSetCheck:
		if err := m.Contextualize(c.childContext()); err != nil {
			return err
		}
		if err := m.Configure(childCfg); err != nil {
			return err
		}
		if err := m.Init(); err != nil {
			return err
		}
		c.AddFileSetCheck(m)
	case api.Filter:
		c.AddFilter(m)
	case api.AuditListener:
		c.AddListener(m)
	default:
		return errors.New(config.ErrCodeInvalidConfig,
			name+" is not allowed as a child of Checker")
	}
	return nil
}

// AddFileSetCheck registers a configured fileset check.
func (c *Checker) AddFileSetCheck(check api.FileSetCheck) {
	c.fileSetChecks = append(c.fileSetChecks, check)
}

// AddFilter registers a violation filter.
func (c *Checker) AddFilter(f api.Filter) { c.filters.AddFilter(f) }

// AddListener registers an audit listener.
func (c *Checker) AddListener(l api.AuditListener) {
	c.listeners = append(c.listeners, l)
}

// SetResultCache attaches a result cache. Configure does this implicitly
// when the configuration names a cache file.
func (c *Checker) SetResultCache(results *cache.ResultCache) { c.results = results }

// FileSetChecks returns the registered fileset checks in order.
func (c *Checker) FileSetChecks() []api.FileSetCheck { return c.fileSetChecks }

// Process checks every file in order and returns the number of
// error-severity violations. The first failure aborts the run with an
// error naming the offending file.
func (c *Checker) Process(ctx context.Context, files []string) (int, error) {
	c.fireAuditStarted()
	for _, check := range c.fileSetChecks {
		check.BeginProcessing(c.charset)
	}

	errorCount := 0
	for _, path := range files {
		violations, err := c.processFile(ctx, c.fileSetChecks, path)
		if err != nil {
			c.fireException(path, err)
			return 0, err
		}
		errorCount += c.fireErrors(path, violations)
	}

	c.finishChecks(c.fileSetChecks)
	c.fireAuditFinished()
	if err := c.results.Persist(); err != nil {
		return 0, err
	}
	return errorCount, nil
}

// processFile runs every given fileset check over one file and merges
// their sorted violations. Cached results are replayed for files whose
// content is unchanged.
func (c *Checker) processFile(ctx context.Context, checks []api.FileSetCheck, path string) (*api.ViolationSet, error) {
	text, err := api.LoadFileText(path)
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeProcessFailure,
			"exception was thrown while processing "+path)
	}
	if cached, ok := c.results.Get(text); ok {
		set := api.NewViolationSet()
		for _, v := range cached {
			set.Add(v)
		}
		return set, nil
	}

	set := api.NewViolationSet()
	for _, check := range checks {
		checkSet, err := check.Process(ctx, text)
		if err != nil {
			return nil, errors.Wrap(err, ErrCodeProcessFailure,
				"exception was thrown while processing "+path)
		}
		set.Merge(checkSet)
	}
	c.results.Put(text, set.Items())
	return set, nil
}

// fireErrors dispatches the accepted violations of one file to the
// listeners in position order and returns how many had error severity.
func (c *Checker) fireErrors(path string, violations *api.ViolationSet) int {
	c.fireFileStarted(path)
	errorCount := 0
	for i := range violations.Items() {
		violation := &violations.Items()[i]
		event := api.AuditEvent{FileName: path, Violation: violation}
		if !c.filters.Accept(event) {
			continue
		}
		for _, l := range c.listeners {
			l.AddError(event)
		}
		if violation.Severity == api.SeverityError {
			errorCount++
		}
	}
	c.fireFileFinished(path)
	return errorCount
}

// finishChecks fires the end-of-run lifecycle hooks once per distinct
// instance, in registration order.
func (c *Checker) finishChecks(checks []api.FileSetCheck) {
	seen := make(map[api.FileSetCheck]struct{}, len(checks))
	for _, check := range checks {
		if _, ok := seen[check]; ok {
			continue
		}
		seen[check] = struct{}{}
		check.FinishProcessing()
		check.Destroy()
	}
}

func (c *Checker) fireAuditStarted() {
	for _, l := range c.listeners {
		l.AuditStarted()
	}
}

func (c *Checker) fireAuditFinished() {
	for _, l := range c.listeners {
		l.AuditFinished()
	}
}

func (c *Checker) fireFileStarted(path string) {
	for _, l := range c.listeners {
		l.FileStarted(path)
	}
}

func (c *Checker) fireFileFinished(path string) {
	for _, l := range c.listeners {
		l.FileFinished(path)
	}
}

func (c *Checker) fireException(path string, err error) {
	c.log.Error("processing failed", zap.String("file", path), zap.Error(err))
	for _, l := range c.listeners {
		l.AddException(path, err)
	}
}
