package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/rendercost/engine/assets"
	"github.com/spaghettifunk/rendercost/engine/core"
	"github.com/spaghettifunk/rendercost/engine/cost"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
	"github.com/spaghettifunk/rendercost/engine/scene"
	"github.com/spaghettifunk/rendercost/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine was shut down and cannot be used anymore
	EngineStageShutdown
)

// watchSettleTime coalesces the burst of events an editor save produces.
const watchSettleTime = 150 * time.Millisecond

var ErrEngineNotInitialized = errors.New("engine is not initialized")

type Engine struct {
	config        *ApplicationConfig
	currentStage  Stage
	stageMutex    sync.RWMutex
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	estimator     *cost.Estimator
	metrics       *core.Metrics
	events        *core.EventSystem
}

func New(config *ApplicationConfig) (*Engine, error) {
	if config == nil {
		config = DefaultApplicationConfig()
	}
	if err := config.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	costConfig, err := config.CostConfig()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		Workers:         config.Workers,
		QueueSize:       config.Workers * 2,
		MaxTextureCount: config.MaxTextureCount,
	}, am)
	if err != nil {
		core.LogError(err.Error())
		_ = am.Shutdown()
		return nil, err
	}

	return &Engine{
		config:        config,
		currentStage:  EngineStageUninitialized,
		assetManager:  am,
		systemManager: sm,
		estimator:     cost.NewEstimator(costConfig, sm.TextureSystem()),
		metrics:       core.NewMetrics(),
		events:        core.NewEventSystem(),
	}, nil
}

func (e *Engine) Initialize() error {
	e.setStage(EngineStageInitializing)

	if err := core.SetLogLevel(e.config.LogLevel); err != nil {
		return err
	}
	if err := e.assetManager.Initialize(e.config.AssetsDir); err != nil {
		return err
	}
	if err := e.systemManager.Initialize(); err != nil {
		return err
	}

	e.setStage(EngineStageInitialized)
	core.LogDebug("%s initialized: cost version %s, %d workers", e.config.Name, e.estimator.CurrentVersion(), e.config.Workers)
	return nil
}

func (e *Engine) Config() *ApplicationConfig {
	return e.config
}

func (e *Engine) Estimator() *cost.Estimator {
	return e.estimator
}

// Metrics holds the timings of the engine's evaluations.
func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

// Events carries the notifications of Watch.
func (e *Engine) Events() *core.EventSystem {
	return e.events
}

func (e *Engine) AssetManager() *assets.AssetManager {
	return e.assetManager
}

func (e *Engine) TextureSystem() *systems.TextureSystem {
	return e.systemManager.TextureSystem()
}

/**
 * @brief Reads and builds a scene description.
 * @param path A .toml, .yaml or .yml file, absolute or relative to the assets directory.
 */
func (e *Engine) LoadScene(path string) (*scene.Scene, error) {
	if !e.initialized() {
		return nil, ErrEngineNotInitialized
	}
	res, err := e.assetManager.LoadAsset(path, metadata.ResourceTypeScene, nil)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	defer e.assetManager.UnloadAsset(res)

	desc, ok := res.Data.(*scene.Description)
	if !ok {
		return nil, fmt.Errorf("%s is not a scene description", path)
	}
	if desc.Name == "" {
		desc.Name = res.Name
	}
	return scene.Build(desc)
}

/**
 * @brief Scores every avatar and every linkset no avatar wears, in
 * parallel on the job system. The scene's textures are registered for
 * the duration of the evaluation.
 */
func (e *Engine) Evaluate(s *scene.Scene) (*Report, error) {
	if !e.initialized() {
		return nil, ErrEngineNotInitialized
	}
	if s == nil {
		return nil, fmt.Errorf("%w: nil scene", core.ErrInvalidScene)
	}

	clock := core.NewClock()
	clock.Start()

	ts := e.systemManager.TextureSystem()
	if err := ts.LoadScene(s); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	defer func() {
		if err := ts.UnloadScene(s); err != nil {
			core.LogWarn(err.Error())
		}
	}()

	// the version is fixed for the whole report
	version := e.estimator.CurrentVersion()
	report := &Report{
		Scene:   s.Name,
		Version: version.String(),
	}
	roots := s.UnattachedRoots()
	avatars := s.Avatars()
	report.Linksets = make([]*LinksetReport, len(roots))
	report.Avatars = make([]*AvatarReport, len(avatars))

	var wg sync.WaitGroup
	js := e.systemManager.JobSystem()
	for i, root := range roots {
		wg.Add(1)
		js.Submit(e.evaluationJob(func() {
			report.Linksets[i] = e.linksetReport(version, root)
		}, wg.Done))
	}
	for i, av := range avatars {
		wg.Add(1)
		js.Submit(e.evaluationJob(func() {
			report.Avatars[i] = e.avatarReport(version, av)
		}, wg.Done))
	}
	wg.Wait()

	clock.Stop()
	e.metrics.Update(clock.Elapsed())
	report.setElapsed(clock.Elapsed(), e.metrics.Average())
	core.LogInfo("evaluated %q: %d linksets, %d avatars in %s", s.Name, len(roots), len(avatars), clock.Elapsed())
	return report, nil
}

func (e *Engine) evaluationJob(fn func(), done func()) metadata.JobTask {
	return metadata.JobTask{
		JobType:  metadata.JOB_TYPE_GENERAL,
		Priority: metadata.JOB_PRIORITY_NORMAL,
		OnStart: func(interface{}, chan<- interface{}) error {
			fn()
			return nil
		},
		OnCompletionCallback: done,
	}
}

func (e *Engine) linksetReport(version cost.Version, root *scene.Object) *LinksetReport {
	return &LinksetReport{
		ID:            root.ID().String(),
		Name:          root.Name(),
		RenderCost:    e.estimator.RenderCostLinkset(version, root),
		RenderCostV1:  e.estimator.RenderCostLinkset(cost.VersionLegacy, root),
		RenderCostV2:  e.estimator.RenderCostLinkset(cost.VersionRevised, root),
		StreamingCost: e.estimator.StreamingCostLinkset(version, root),
		FrameData:     e.estimator.FrameDataLinkset(root),
	}
}

func (e *Engine) avatarReport(version cost.Version, av *scene.Avatar) *AvatarReport {
	ac := e.estimator.AvatarRenderCost(version, av)
	return &AvatarReport{
		ID:               av.ID().String(),
		Name:             av.Name(),
		VisualComplexity: ac.VisualComplexity(),
		Attachments:      ac.AttachmentCount,
		FrameData:        e.estimator.FrameDataAvatar(av),
	}
}

/**
 * @brief Evaluates a scene file and evaluates it again every time the
 * file or an image below the assets directory changes, until the context
 * is cancelled. The scene's textures stay registered between evaluations
 * and are probed again when their image changes.
 * @param onReport Receives every report, or the error that prevented it.
 */
func (e *Engine) Watch(ctx context.Context, scenePath string, onReport func(*Report, error)) error {
	if !e.initialized() {
		return ErrEngineNotInitialized
	}
	path, err := e.assetManager.Resolve(scenePath)
	if err != nil {
		return err
	}
	if err := e.assetManager.Watch(filepath.Dir(path)); err != nil {
		core.LogError(err.Error())
		return err
	}

	ts := e.systemManager.TextureSystem()
	var held *scene.Scene
	release := func() {
		if held != nil {
			_ = ts.UnloadScene(held)
			held = nil
		}
	}
	defer release()

	fail := func(err error) {
		e.events.Fire(core.EVENT_CODE_EVALUATION_FAILED, e, core.EventContext{Path: path, Err: err})
		onReport(nil, err)
	}
	evaluate := func(reloadScene bool) {
		if reloadScene || held == nil {
			s, err := e.LoadScene(path)
			if err != nil {
				fail(err)
				return
			}
			release()
			if err := ts.LoadScene(s); err != nil {
				fail(err)
				return
			}
			held = s
		}
		report, err := e.Evaluate(held)
		if err != nil {
			fail(err)
			return
		}
		e.events.Fire(core.EVENT_CODE_REPORT_READY, e, core.EventContext{Path: path, Data: report})
		onReport(report, nil)
	}
	evaluate(true)

	var (
		pending      bool
		sceneChanged bool
		settle       <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-e.assetManager.Events():
			if !ok {
				return nil
			}
			if !changes(ev) {
				continue
			}
			switch {
			case filepath.Clean(ev.Name) == path:
				sceneChanged = true
				e.events.Fire(core.EVENT_CODE_SCENE_CHANGED, e, core.EventContext{Path: path})
			case assets.IsImage(ev.Name):
				if n, err := ts.Reload(ev.Name); err == nil && n > 0 {
					core.LogDebug("reloaded %d textures from %s", n, ev.Name)
					e.events.Fire(core.EVENT_CODE_TEXTURES_RELOADED, e, core.EventContext{Path: ev.Name, Count: n})
				}
			default:
				continue
			}
			pending = true
			settle = time.After(watchSettleTime)
		case err, ok := <-e.assetManager.Errors():
			if ok {
				core.LogWarn("watch: %s", err)
			}
		case <-settle:
			if pending {
				evaluate(sceneChanged)
				pending, sceneChanged = false, false
			}
		}
	}
}

func changes(ev fsnotify.Event) bool {
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func (e *Engine) Shutdown() error {
	e.setStage(EngineStageShuttingDown)
	e.events.Shutdown()
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	e.setStage(EngineStageShutdown)
	return nil
}

func (e *Engine) setStage(stage Stage) {
	e.stageMutex.Lock()
	defer e.stageMutex.Unlock()
	e.currentStage = stage
}

func (e *Engine) initialized() bool {
	e.stageMutex.RLock()
	defer e.stageMutex.RUnlock()
	return e.currentStage == EngineStageInitialized
}
