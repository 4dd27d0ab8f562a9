package systems

import (
	"github.com/spaghettifunk/rendercost/engine/assets"
)

type SystemManagerConfig struct {
	Workers         int
	QueueSize       int
	MaxTextureCount uint32
}

// SystemManager owns the long lived systems an evaluation needs.
type SystemManager struct {
	jobSystem     *JobSystem
	textureSystem *TextureSystem
}

func NewSystemManager(config SystemManagerConfig, am *assets.AssetManager) (*SystemManager, error) {
	js, err := NewJobSystem(config.Workers, config.QueueSize)
	if err != nil {
		return nil, err
	}

	ts, err := NewTextureSystem(&TextureSystemConfig{
		MaxTextureCount: config.MaxTextureCount,
	}, am, js)
	if err != nil {
		_ = js.Shutdown()
		return nil, err
	}
	return &SystemManager{
		jobSystem:     js,
		textureSystem: ts,
	}, nil
}

func (sm *SystemManager) Initialize() error {
	return sm.textureSystem.Initialize()
}

func (sm *SystemManager) JobSystem() *JobSystem {
	return sm.jobSystem
}

func (sm *SystemManager) TextureSystem() *TextureSystem {
	return sm.textureSystem
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.textureSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.jobSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
