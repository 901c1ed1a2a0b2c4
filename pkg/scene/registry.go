package scene

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// Options carries inputs some presets need from outside the program
type Options struct {
	TextureDir string // Directory holding image textures
}

// Builder constructs a preset, drawing all randomness from random
type Builder func(random *rand.Rand, options Options) (*Scene, error)

// Info describes a registered preset
type Info struct {
	Name        string
	Description string
	build       Builder
}

var registry = map[string]Info{
	"cover": {
		Name:        "cover",
		Description: "Random field of diffuse, metal and glass spheres around three large ones",
		build:       NewCoverScene,
	},
	"moving-cover": {
		Name:        "moving-cover",
		Description: "Cover scene with motion-blurred bouncing spheres",
		build:       NewMovingCoverScene,
	},
	"checkered-cover": {
		Name:        "checkered-cover",
		Description: "Moving cover scene on a procedural checkered ground",
		build:       NewCheckeredCoverScene,
	},
	"earth": {
		Name:        "earth",
		Description: "Image-textured globe and a red light (needs " + EarthTexture + " in the texture directory)",
		build:       NewEarthScene,
	},
	"stars": {
		Name:        "stars",
		Description: "Procedural star texture on a globe with glass and metal companions",
		build:       NewStarsScene,
	},
}

// Names returns the registered preset names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns every registered preset sorted by name
func List() []Info {
	infos := make([]Info, 0, len(registry))
	for _, name := range Names() {
		infos = append(infos, registry[name])
	}
	return infos
}

// Lookup returns the builder for a preset
func Lookup(name string) (Builder, bool) {
	info, ok := registry[name]
	if !ok {
		return nil, false
	}
	return info.build, true
}

// Build constructs a preset with a generator seeded from seed
func Build(name string, seed int64, options Options) (*Scene, error) {
	build, ok := Lookup(name)
	if !ok {
		return nil, errors.Errorf("unknown scene %q (available: %v)", name, Names())
	}
	return build(rand.New(rand.NewSource(seed)), options)
}
