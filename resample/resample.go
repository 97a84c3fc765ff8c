package resample

import (
	"fmt"
	"image"
	"sort"
	"strings"
	"sync"

	"imagesizer/contracts"

	"golang.org/x/image/draw"
)

type Resampler = contracts.Resampler

const DefaultEngine = "draw"

var (
	enginesMu sync.RWMutex
	engines   = map[string]Resampler{}
)

func init() {
	Register(Draw{})
}

// Register makes an engine selectable by name. Engines that need a C library
// register themselves from files guarded by a build tag.
func Register(r Resampler) {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	engines[strings.ToLower(r.Name())] = r
}

func Lookup(name string) (Resampler, error) {
	if name == "" {
		name = DefaultEngine
	}
	enginesMu.RLock()
	defer enginesMu.RUnlock()
	r, ok := engines[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown resize engine %q (available: %s)", name, strings.Join(namesLocked(), ", "))
	}
	return r, nil
}

func Names() []string {
	enginesMu.RLock()
	defer enginesMu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Draw resamples with golang.org/x/image/draw's Catmull-Rom kernel, a bicubic
// filter that needs no cgo.
type Draw struct{}

func (Draw) Name() string { return "draw" }

func (Draw) Scale(src image.Image, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid scale target %dx%d", width, height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// ToRGBA returns src as a zero-origin *image.RGBA, copying only when needed.
func ToRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	if rgba, ok := src.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
