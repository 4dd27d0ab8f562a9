package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/rendercost/engine/assets/loaders"
	"github.com/spaghettifunk/rendercost/engine/core"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
)

// eventBuffer bounds how many file events wait for a slow consumer before
// new ones are dropped.
const eventBuffer = 64

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetManager indexes the images and scene descriptions below a
// directory and keeps the index current while files change.
type AssetManager struct {
	dir     string
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done      chan struct{}
	fsnotify  *fsnotify.Watcher
	isClosed  bool
	closeOnce sync.Once
	events    chan fsnotify.Event
	errors    chan error
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		fsnotify: fsWatch,
		events:   make(chan fsnotify.Event, eventBuffer),
		errors:   make(chan error, eventBuffer),
		done:     make(chan struct{}),
	}, nil
}

/**
 * @brief Indexes and starts watching the assets directory.
 * @param assetsDir The directory to watch. Empty registers the loaders only.
 */
func (am *AssetManager) Initialize(assetsDir string) error {
	// Register loaders
	am.registerLoader(metadata.ResourceTypeImage, &loaders.TextureLoader{})
	am.registerLoader(metadata.ResourceTypeScene, &loaders.SceneLoader{})

	go am.start()

	if assetsDir == "" {
		return nil
	}
	am.dir = filepath.Clean(assetsDir)
	if err := am.addRecursive(am.dir); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogDebug("indexed %d assets under %s", len(am.Assets()), am.dir)
	return nil
}

// Shutdown stops watching. The Events and Errors channels are closed.
func (am *AssetManager) Shutdown() error {
	am.closeOnce.Do(func() {
		am.mutex.Lock()
		am.isClosed = true
		am.mutex.Unlock()
		close(am.done)
	})
	return nil
}

// Dir is the watched assets directory.
func (am *AssetManager) Dir() string {
	return am.dir
}

// Events delivers every file change below the assets directory.
func (am *AssetManager) Events() <-chan fsnotify.Event {
	return am.events
}

func (am *AssetManager) Errors() <-chan error {
	return am.errors
}

// Watch starts watching a single file or directory outside the assets
// directory, such as a scene passed on the command line.
func (am *AssetManager) Watch(name string) error {
	if am.closed() {
		return core.ErrAssetManagerClosed
	}
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		am.handleFileEvent(name)
	}
	return am.fsnotify.Add(name)
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.closed() {
		return core.ErrAssetManagerClosed
	}
	return am.watchRecursive(name, false)
}

// Unwatch stops watching the named directory and all sub-directories and
// drops their files from the index.
func (am *AssetManager) Unwatch(name string) error {
	if am.closed() {
		return core.ErrAssetManagerClosed
	}
	return am.watchRecursive(name, true)
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// Assets lists the indexed assets sorted by path.
func (am *AssetManager) Assets() []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	infos := make([]AssetInfo, 0, len(am.assets))
	for _, info := range am.assets {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })
	return infos
}

// Resolve maps a name to a file on disk: the name itself when it exists,
// otherwise the name relative to the assets directory.
func (am *AssetManager) Resolve(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return filepath.Clean(name), nil
	}
	if am.dir != "" && !filepath.IsAbs(name) {
		path := filepath.Join(am.dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("asset not found: %s", name)
}

/**
 * @brief Loads an asset using the loader registered for its type.
 * @param name The file, absolute or relative to the assets directory.
 * @param resourceType The expected type. ResourceTypeNone derives it from the extension.
 * @param params Loader specific options, may be nil.
 */
func (am *AssetManager) LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	if am.closed() {
		return nil, core.ErrAssetManagerClosed
	}
	path, err := am.Resolve(name)
	if err != nil {
		return nil, err
	}
	if resourceType == metadata.ResourceTypeNone {
		resourceType = determineAssetType(path)
	}

	am.mutex.Lock()
	loader, loaderExists := am.loaders[resourceType]
	if loaderExists {
		// Load or reload asset from disk
		am.assets[path] = AssetInfo{Path: path, Type: resourceType, LastLoaded: time.Now()}
	}
	am.mutex.Unlock()

	if !loaderExists {
		return nil, fmt.Errorf("%w: no loader registered for %s", core.ErrUnknownResourceType, path)
	}
	return loader.Load(path, resourceType, params)
}

func (am *AssetManager) UnloadAsset(asset *metadata.Resource) error {
	am.mutex.RLock()
	loader, ok := am.loaders[asset.Type]
	am.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownResourceType, asset.Type)
	}
	return loader.Unload(asset)
}

func (am *AssetManager) closed() bool {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return am.isClosed
}

func (am *AssetManager) start() {
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name, false); err != nil {
						core.LogWarn("failed to watch %s: %s", e.Name, err)
					}
				}
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			// a removed path cannot be stat'ed, so always try to unwatch it
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
				_ = am.fsnotify.Remove(e.Name)
			}
			select {
			case am.events <- e:
			default:
				core.LogDebug("dropped file event %s", e)
			}

		case e, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(e.Error())
			select {
			case am.errors <- e:
			default:
			}

		case <-am.done:
			am.fsnotify.Close()
			close(am.events)
			close(am.errors)
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files it finds on the way.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if strings.HasPrefix(fi.Name(), ".") && walkPath != path {
				return filepath.SkipDir
			}
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		if unWatch {
			am.removeAsset(walkPath)
		} else {
			am.handleFileEvent(walkPath)
		}
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	info := am.assets[path]
	info.Path = path
	info.Type = assetType
	am.assets[path] = info
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
}

// IsImage reports whether a file is indexed as a texture image.
func IsImage(path string) bool {
	return determineAssetType(path) == metadata.ResourceTypeImage
}

func determineAssetType(path string) metadata.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return metadata.ResourceTypeImage
	case ".toml", ".yaml", ".yml":
		return metadata.ResourceTypeScene
	default:
		return metadata.ResourceTypeNone
	}
}
