package systems

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/spaghettifunk/rendercost/engine/assets"
	"github.com/spaghettifunk/rendercost/engine/core"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
	"github.com/spaghettifunk/rendercost/engine/scene"
)

/** @brief The configuration for the texture system. */
type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be registered at once. */
	MaxTextureCount uint32
}

/**
 * @brief Keeps the textures every loaded scene refers to, and answers
 * the estimator's texture lookups.
 */
type TextureSystem struct {
	Config *TextureSystemConfig

	assetManager *assets.AssetManager
	jobSystem    *JobSystem

	mutex                  sync.RWMutex
	registeredTextures     []*metadata.Texture
	registeredTextureTable map[uuid.UUID]*metadata.TextureReference
	texturePaths           map[uuid.UUID]string
}

// textureLoadParams travels through a texture probe job.
type textureLoadParams struct {
	ResourceName string
	TextureID    uuid.UUID
	Resource     *metadata.Resource
}

/**
 * @brief Creates the texture system.
 * @param config The configuration, MaxTextureCount must be positive.
 * @param am The asset manager used to probe textures declared with a path. May be nil.
 * @param js The job system probes run on. Nil probes on the calling goroutine.
 */
func NewTextureSystem(config *TextureSystemConfig, am *assets.AssetManager, js *JobSystem) (*TextureSystem, error) {
	if config == nil || config.MaxTextureCount == 0 {
		err := fmt.Errorf("texture system - config.MaxTextureCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &TextureSystem{
		Config:                 config,
		assetManager:           am,
		jobSystem:              js,
		registeredTextures:     make([]*metadata.Texture, config.MaxTextureCount),
		registeredTextureTable: make(map[uuid.UUID]*metadata.TextureReference),
		texturePaths:           make(map[uuid.UUID]string),
	}, nil
}

func (ts *TextureSystem) Initialize() error {
	core.LogDebug("texture system ready for %d textures", ts.Config.MaxTextureCount)
	return nil
}

func (ts *TextureSystem) Shutdown() error {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	for i := range ts.registeredTextures {
		ts.registeredTextures[i] = nil
	}
	ts.registeredTextureTable = make(map[uuid.UUID]*metadata.TextureReference)
	ts.texturePaths = make(map[uuid.UUID]string)
	return nil
}

// Texture resolves a registered texture without taking a reference. The
// returned value is a snapshot, a later probe registers a new one.
func (ts *TextureSystem) Texture(id uuid.UUID) (*metadata.Texture, bool) {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()

	ref, ok := ts.registeredTextureTable[id]
	if !ok || ref.Handle == metadata.InvalidID {
		return nil, false
	}
	return ts.registeredTextures[ref.Handle], true
}

// Generation is how many times a texture was probed from disk.
func (ts *TextureSystem) Generation(id uuid.UUID) (uint32, bool) {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()

	ref, ok := ts.registeredTextureTable[id]
	if !ok || ref.Handle == metadata.InvalidID {
		return 0, false
	}
	return ts.registeredTextures[ref.Handle].Generation, true
}

// Count is the number of textures currently registered.
func (ts *TextureSystem) Count() int {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	return len(ts.registeredTextureTable)
}

// References is the reference count of a texture, 0 when unknown.
func (ts *TextureSystem) References(id uuid.UUID) uint64 {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()

	if ref, ok := ts.registeredTextureTable[id]; ok {
		return ref.ReferenceCount
	}
	return 0
}

/**
 * @brief Registers a texture, or takes another reference to the
 * registered one with the same identifier.
 * @param texture The texture. Its values are copied.
 * @param path The image the dimensions are probed from, may be empty.
 * @param autoRelease Forget the texture once the last reference is released.
 * @return The registered texture.
 */
func (ts *TextureSystem) Acquire(texture *metadata.Texture, path string, autoRelease bool) (*metadata.Texture, error) {
	t, created, err := ts.processTextureReference(texture, 1, autoRelease)
	if err != nil {
		return nil, err
	}
	if created && path != "" {
		ts.mutex.Lock()
		ts.texturePaths[texture.ID] = path
		ts.mutex.Unlock()

		if err := ts.loadTexture(path, texture.ID, nil); err != nil {
			return nil, err
		}
		if current, ok := ts.Texture(texture.ID); ok {
			return current, nil
		}
	}
	return t, nil
}

/**
 * @brief Releases a reference to a texture.
 * @param id The texture identifier.
 */
func (ts *TextureSystem) Release(id uuid.UUID) error {
	_, _, err := ts.processTextureReference(&metadata.Texture{ID: id}, -1, false)
	return err
}

/**
 * @brief Registers every texture a scene declares. Textures with a path
 * are probed concurrently on the job system. A texture whose image cannot
 * be probed keeps its declared values.
 */
func (ts *TextureSystem) LoadScene(s *scene.Scene) error {
	var (
		wg       sync.WaitGroup
		firstErr error
	)
	for _, tex := range s.Textures() {
		_, created, err := ts.processTextureReference(tex, 1, true)
		if err != nil {
			return err
		}
		path, ok := s.TexturePath(tex.ID)
		if !created || !ok {
			continue
		}
		ts.mutex.Lock()
		ts.texturePaths[tex.ID] = path
		ts.mutex.Unlock()

		wg.Add(1)
		if err := ts.loadTexture(path, tex.ID, wg.Done); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	wg.Wait()
	return firstErr
}

// UnloadScene releases the references LoadScene took.
func (ts *TextureSystem) UnloadScene(s *scene.Scene) error {
	for _, tex := range s.Textures() {
		if err := ts.Release(tex.ID); err != nil {
			return err
		}
	}
	return nil
}

/**
 * @brief Probes again every registered texture loaded from the given
 * file, e.g. after it changed on disk. Returns once every probe finished.
 * @return The number of textures reloaded.
 */
func (ts *TextureSystem) Reload(path string) (int, error) {
	ts.mutex.RLock()
	var targets []uuid.UUID
	for id, p := range ts.texturePaths {
		if !samePath(ts.assetManager, p, path) {
			continue
		}
		if ref, ok := ts.registeredTextureTable[id]; ok && ref.Handle != metadata.InvalidID {
			targets = append(targets, id)
		}
	}
	ts.mutex.RUnlock()

	var wg sync.WaitGroup
	for _, id := range targets {
		wg.Add(1)
		if err := ts.loadTexture(path, id, wg.Done); err != nil {
			wg.Wait()
			return 0, err
		}
	}
	wg.Wait()
	return len(targets), nil
}

func samePath(am *assets.AssetManager, a, b string) bool {
	if a == b {
		return true
	}
	if am == nil {
		return false
	}
	ra, errA := am.Resolve(a)
	rb, errB := am.Resolve(b)
	return errA == nil && errB == nil && ra == rb
}

// processTextureReference adds referenceDiff to the reference count of a
// texture, registering it in a free slot when it is new.
func (ts *TextureSystem) processTextureReference(texture *metadata.Texture, referenceDiff int8, autoRelease bool) (*metadata.Texture, bool, error) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	id := texture.ID
	ref, ok := ts.registeredTextureTable[id]
	if !ok {
		if referenceDiff < 0 {
			core.LogWarn("tried to release non-existent texture: '%s'", id)
			return nil, false, nil
		}
		// This can only be changed the first time a texture is registered.
		ref = &metadata.TextureReference{
			Handle:      metadata.InvalidID,
			AutoRelease: autoRelease,
		}
	}

	// If decrementing, this means a release.
	if referenceDiff < 0 {
		if ref.ReferenceCount == 0 {
			core.LogWarn("tried to release texture '%s' with no references left", id)
			return nil, false, nil
		}
		ref.ReferenceCount--
		if ref.ReferenceCount == 0 && ref.AutoRelease {
			ts.registeredTextures[ref.Handle] = nil
			delete(ts.registeredTextureTable, id)
			delete(ts.texturePaths, id)
			core.LogDebug("released texture '%s', unloaded because reference count=0 and AutoRelease=true", id)
			return nil, false, nil
		}
		core.LogDebug("released texture '%s', now has a reference count of '%d'", id, ref.ReferenceCount)
		return ts.registeredTextures[ref.Handle], false, nil
	}

	ref.ReferenceCount += uint64(referenceDiff)
	if ref.Handle != metadata.InvalidID {
		ts.registeredTextureTable[id] = ref
		return ts.registeredTextures[ref.Handle], false, nil
	}

	// No texture exists here. Find a free slot first.
	for i := uint32(0); i < ts.Config.MaxTextureCount; i++ {
		if ts.registeredTextures[i] == nil {
			ref.Handle = i
			break
		}
	}
	if ref.Handle == metadata.InvalidID {
		err := fmt.Errorf("texture system cannot hold anymore textures. Adjust configuration to allow more")
		core.LogError(err.Error())
		return nil, false, err
	}

	t := *texture
	ts.registeredTextures[ref.Handle] = &t
	ts.registeredTextureTable[id] = ref
	return &t, true, nil
}

// loadTexture probes the image behind a texture, on the job system when
// there is one. done is called once the probe finished either way.
func (ts *TextureSystem) loadTexture(path string, id uuid.UUID, done func()) error {
	if ts.assetManager == nil {
		err := fmt.Errorf("cannot load texture '%s' without an asset manager", path)
		core.LogError(err.Error())
		if done != nil {
			done()
		}
		return err
	}

	job := metadata.JobTask{
		JobType:  metadata.JOB_TYPE_RESOURCE_LOAD,
		Priority: metadata.JOB_PRIORITY_NORMAL,
		InputParams: []interface{}{
			&textureLoadParams{
				ResourceName: path,
				TextureID:    id,
			},
		},
		OnStart:              ts.textureLoadJobStart,
		OnComplete:           ts.textureLoadJobSuccess,
		OnFailure:            ts.textureLoadJobFail,
		OnCompletionCallback: done,
	}

	if ts.jobSystem == nil {
		return runJob(job)
	}
	ts.jobSystem.Submit(job)
	return nil
}

func (ts *TextureSystem) textureLoadJobStart(params interface{}, resultChan chan<- interface{}) error {
	loadParams := params.([]interface{})[0].(*textureLoadParams)

	result, err := ts.assetManager.LoadAsset(loadParams.ResourceName, metadata.ResourceTypeImage, nil)
	if err != nil {
		resultChan <- loadParams
		return err
	}
	loadParams.Resource = result
	resultChan <- loadParams
	return nil
}

func (ts *TextureSystem) textureLoadJobSuccess(paramsChan <-chan interface{}) {
	params, ok := <-paramsChan
	if !ok {
		return
	}
	loadParams, ok := params.(*textureLoadParams)
	if !ok {
		core.LogError("params are not of type *textureLoadParams")
		return
	}
	resourceData, ok := loadParams.Resource.Data.(*metadata.ImageResourceData)
	if !ok {
		core.LogError("failed to type cast resource data to `*metadata.ImageResourceData`")
		return
	}

	ts.mutex.Lock()
	ref, ok := ts.registeredTextureTable[loadParams.TextureID]
	if !ok || ref.Handle == metadata.InvalidID {
		ts.mutex.Unlock()
		core.LogDebug("texture '%s' was released before its probe finished", loadParams.TextureID)
		_ = ts.assetManager.UnloadAsset(loadParams.Resource)
		return
	}
	// registered textures are never changed in place, readers may hold them
	t := *ts.registeredTextures[ref.Handle]
	t.Width = resourceData.Width
	t.Height = resourceData.Height
	t.ChannelCount = resourceData.ChannelCount
	t.Format = resourceData.Format
	if t.Name == "" {
		t.Name = loadParams.ResourceName
	}
	// a texture read from disk is fully decoded
	if t.DiscardLevel == metadata.DiscardLevelNone {
		t.DiscardLevel = 0
	}
	t.Generation++
	ts.registeredTextures[ref.Handle] = &t
	ts.mutex.Unlock()

	core.LogDebug("successfully loaded texture '%s' (%dx%d %s)", loadParams.ResourceName, t.Width, t.Height, t.Format)
	if err := ts.assetManager.UnloadAsset(loadParams.Resource); err != nil {
		core.LogWarn(err.Error())
	}
}

func (ts *TextureSystem) textureLoadJobFail(paramsChan <-chan interface{}) {
	if params, ok := <-paramsChan; ok {
		loadParams := params.(*textureLoadParams)
		core.LogError("failed to load texture '%s'", loadParams.ResourceName)
	}
}
