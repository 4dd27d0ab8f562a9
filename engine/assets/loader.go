package assets

import "github.com/spaghettifunk/rendercost/engine/renderer/metadata"

// Loader reads one kind of resource from disk. The params argument lets
// loaders receive type specific options.
type Loader interface {
	Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error)
	Unload(*metadata.Resource) error
}
