package builtin

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/diplomacy/pkg/plugin"
	"github.com/platinummonkey/diplomacy/pkg/result"
)

const FileClerkID = "FileClerk"

// FileClerkDescriptor describes FileClerk.
var FileClerkDescriptor = plugin.Descriptor{
	PluginID:       FileClerkID,
	Provider:       ProviderID,
	Name:           "File Clerk",
	Version:        "1.0.0",
	Description:    "Submits files created in a watched directory",
	Capability:     plugin.CapabilityClerk,
	Implementation: "fileclerk",
}

// FileClerk watches a directory and submits each created file's path to
// its consul along a fixed route. Without a directory it starts and stops
// as a no-op.
type FileClerk struct {
	dir   string
	route []plugin.RouteStage
	log   *logrus.Logger

	mu      sync.Mutex
	consul  plugin.ConsulRequest
	watcher *fsnotify.Watcher
	done    chan struct{}
	files   []string
}

var _ plugin.Clerk = (*FileClerk)(nil)

// FileClerkOption configures a FileClerk.
type FileClerkOption func(*FileClerk)

// WithWatchDir sets the directory to watch.
func WithWatchDir(dir string) FileClerkOption {
	return func(f *FileClerk) {
		f.dir = dir
	}
}

// WithRoute sets the route attached to submitted requests.
func WithRoute(stages ...plugin.RouteStage) FileClerkOption {
	return func(f *FileClerk) {
		f.route = stages
	}
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Logger) FileClerkOption {
	return func(f *FileClerk) {
		f.log = log
	}
}

// NewFileClerk creates a FileClerk. The default route sends files to the
// word count ambassador.
func NewFileClerk(opts ...FileClerkOption) *FileClerk {
	f := &FileClerk{
		route: []plugin.RouteStage{{ID: WordCountID, Action: WordCountAction}},
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.log == nil {
		f.log = logrus.New()
	}
	return f
}

func (f *FileClerk) ID() string { return FileClerkID }

// SetConsul sets the request sink. Nil is InvalidArgument.
func (f *FileClerk) SetConsul(consul plugin.ConsulRequest) result.Result {
	if consul == nil {
		return result.New(result.InvalidArgument)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.consul = consul
	return result.OK()
}

// Start begins watching the directory. It returns AlreadyInitialized when
// already watching and InvalidArgument when the watch cannot be set up.
func (f *FileClerk) Start() result.Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.watcher != nil {
		return result.New(result.AlreadyInitialized)
	}
	if f.dir == "" {
		f.log.Debug("FileClerk has no watch directory, not watching")
		return result.OK()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		f.log.WithError(err).Warn("Failed to create file watcher")
		return result.New(result.InvalidArgument)
	}
	if err := watcher.Add(f.dir); err != nil {
		watcher.Close()
		f.log.WithError(err).Warnf("Failed to watch %s", f.dir)
		return result.New(result.InvalidArgument)
	}

	f.watcher = watcher
	f.done = make(chan struct{})
	go f.watch(watcher, f.done)

	f.log.Infof("FileClerk watching %s", f.dir)
	return result.OK()
}

// Stop closes the watcher and waits for the watch loop to exit. Stopping a
// clerk that is not watching succeeds.
func (f *FileClerk) Stop() result.Result {
	f.mu.Lock()
	watcher, done := f.watcher, f.done
	f.watcher, f.done = nil, nil
	f.mu.Unlock()

	if watcher == nil {
		return result.OK()
	}

	if err := watcher.Close(); err != nil {
		f.log.WithError(err).Warn("Failed to close file watcher")
	}
	<-done
	return result.OK()
}

// Files returns the paths of the files seen so far, oldest first.
func (f *FileClerk) Files() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.files...)
}

func (f *FileClerk) watch(w *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				f.submit(event.Name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			f.log.WithError(err).Warn("File watcher error")
		}
	}
}

func (f *FileClerk) submit(path string) {
	f.mu.Lock()
	f.files = append(f.files, path)
	consul := f.consul
	f.mu.Unlock()

	if consul == nil {
		f.log.Debugf("FileClerk saw %s but has no consul", path)
		return
	}

	res := consul.ProcessRequest(plugin.NewRouteInfo(f.route...), path)
	if !res.IsSuccess() {
		f.log.Warnf("Request for %s was refused: %s", path, res.Code.Message())
	}
}
