package services

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/remeh/sizedwaitgroup"
	"github.com/samber/lo"
	"github.com/sergeymakinen/go-ico"
	"golang.org/x/image/draw"
)

const (
	AppIconName    = "app.ico"
	AppIcon256Name = "app256.ico"

	// MaxIconSize is the largest edge GetScaled renders, matching the
	// largest icons in the registry.
	MaxIconSize = 256
)

// IconRegistry lists every icon file the application expects in its icon
// directory.
var IconRegistry = []string{
	"about.ico", "about_dark.ico",
	"add.ico", "add_dark.ico",
	"app.ico", "app256.ico",
	"browse.ico", "browse_dark.ico",
	"cancel.ico", "cancel_dark.ico",
	"clear.ico", "clear_dark.ico",
	"collapse.ico", "collapse_dark.ico",
	"edit.ico", "edit_dark.ico",
	"error.ico", "error256.ico",
	"expand.ico", "expand_dark.ico",
	"facebook.ico", "facebook_dark.ico",
	"gen.ico", "gen_dark.ico",
	"github.ico", "github_dark.ico",
	"help.ico", "help_dark.ico",
	"hide.ico", "hide_dark.ico",
	"import.ico", "import_dark.ico",
	"info.ico", "info256.ico",
	"no.ico", "no_dark.ico",
	"ok.ico", "ok_dark.ico",
	"preset.ico", "preset_dark.ico",
	"remove.ico", "remove_dark.ico",
	"reset.ico", "reset_dark.ico",
	"save.ico", "save_dark.ico",
	"search.ico", "search_dark.ico",
	"settings.ico", "settings_dark.ico",
	"show.ico", "show_dark.ico",
	"tips.ico", "tips_dark.ico",
	"url.ico", "url_dark.ico",
	"warning.ico", "warning256.ico",
	"windows11.ico",
	"xml.ico", "xml_dark.ico",
	"youtube.ico", "youtube_dark.ico",
}

// CommonIcons are loaded ahead of first use.
var CommonIcons = []string{
	"expand.ico", "collapse.ico", "add.ico", "remove.ico",
	"save.ico", "reset.ico", "preset.ico", "gen.ico", "cancel.ico", "ok.ico",
	"settings.ico", "about.ico", "help.ico",
	"app.ico", "app256.ico",
	"info.ico", "warning.ico", "error.ico",
}

// IconStats summarizes the icon caches.
type IconStats struct {
	Icons       int    `json:"icons"`
	Scaled      int    `json:"scaled"`
	PixelBytes  uint64 `json:"pixel_bytes"`
	Initialized bool   `json:"initialized"`
}

func (s IconStats) String() string {
	return fmt.Sprintf("icons cached: %d, scaled: %d, approx memory: %s", s.Icons, s.Scaled, humanize.Bytes(s.PixelBytes))
}

// IconCache decodes .ico files on demand and keeps both the decoded image and
// every scaled copy requested from it.
type IconCache struct {
	dir         string
	defaultSize int
	logger      *slog.Logger

	mu          sync.Mutex
	icons       map[string]image.Image
	scaled      map[string]image.Image
	initialized bool
}

func NewIconCache(dir string, defaultSize int, logger *slog.Logger) *IconCache {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultSize <= 0 {
		defaultSize = 16
	}
	return &IconCache{
		dir:         dir,
		defaultSize: defaultSize,
		logger:      logger,
		icons:       make(map[string]image.Image),
		scaled:      make(map[string]image.Image),
	}
}

// DefaultSize is the edge length used when GetScaled receives no size.
func (c *IconCache) DefaultSize() int {
	return c.defaultSize
}

// Get returns the decoded icon. The largest image in the file is used.
func (c *IconCache) Get(name string) (image.Image, bool) {
	if name == "" {
		return nil, false
	}

	c.mu.Lock()
	img, ok := c.icons[name]
	c.mu.Unlock()
	if ok {
		return img, true
	}

	img, err := c.decode(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("Icon file not found", "icon", name)
		} else {
			c.logger.Warn("Failed to decode icon", "icon", name, "error", err)
		}
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.icons[name]; ok {
		return cached, true
	}
	c.icons[name] = img
	return img, true
}

func (c *IconCache) decode(name string) (image.Image, error) {
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid icon name %q", name)
	}

	f, err := os.Open(filepath.Join(c.dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ico.Decode(f)
}

// GetScaled returns the icon resized to w x h. Non-positive sizes use the
// default icon size and larger ones are clamped to MaxIconSize.
func (c *IconCache) GetScaled(name string, w, h int) (image.Image, bool) {
	w = c.clampSize(w)
	h = c.clampSize(h)
	key := fmt.Sprintf("%s_%dx%d", name, w, h)

	c.mu.Lock()
	img, ok := c.scaled[key]
	c.mu.Unlock()
	if ok {
		return img, true
	}

	src, ok := c.Get(name)
	if !ok {
		return nil, false
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.scaled[key] = dst
	return dst, true
}

func (c *IconCache) clampSize(n int) int {
	if n <= 0 {
		return c.defaultSize
	}
	return min(n, MaxIconSize)
}

// Preload decodes names concurrently and reports how many are now cached.
func (c *IconCache) Preload(names ...string) int {
	var loaded atomic.Int32
	wg := sizedwaitgroup.New(runtime.NumCPU())
	for _, name := range names {
		wg.Add()
		go func(name string) {
			defer wg.Done()
			if _, ok := c.Get(name); ok {
				loaded.Add(1)
			}
		}(name)
	}
	wg.Wait()
	return int(loaded.Load())
}

func (c *IconCache) PreloadCommon() int {
	n := c.Preload(CommonIcons...)
	c.logger.Debug("Common icons preloaded", "loaded", n, "requested", len(CommonIcons))
	return n
}

// Initialize loads every .ico file in the icon directory.
func (c *IconCache) Initialize() {
	c.mu.Lock()
	done := c.initialized
	c.mu.Unlock()
	if done {
		return
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		c.logger.Warn("Failed to read icon directory", "dir", c.dir, "error", err)
	} else {
		names := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
			return e.Name(), !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".ico")
		})
		c.Preload(names...)
	}

	c.mu.Lock()
	c.initialized = true
	c.mu.Unlock()
}

// ValidateAll lists registry icons that are missing from disk.
func (c *IconCache) ValidateAll() []string {
	return lo.Filter(IconRegistry, func(name string, _ int) bool {
		_, err := os.Stat(filepath.Join(c.dir, name))
		return err != nil
	})
}

// InitializeAndValidate loads the icon directory and reports whether every
// registry icon is present.
func (c *IconCache) InitializeAndValidate() bool {
	c.Initialize()
	c.PreloadCommon()

	missing := c.ValidateAll()
	if len(missing) > 0 {
		c.logger.Warn("Missing icons", "count", len(missing), "icons", strings.Join(missing, ", "))
		return false
	}
	return true
}

// ClearCache drops decoded and scaled icons.
func (c *IconCache) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.icons = make(map[string]image.Image)
	c.scaled = make(map[string]image.Image)
	c.initialized = false
	c.logger.Debug("Icon cache cleared")
}

// Available lists the decoded icons, sorted.
func (c *IconCache) Available() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := lo.Keys(c.icons)
	sort.Strings(names)
	return names
}

func (c *IconCache) Stats() IconStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var bytes uint64
	for _, img := range c.icons {
		bytes += pixelBytes(img)
	}
	for _, img := range c.scaled {
		bytes += pixelBytes(img)
	}

	return IconStats{
		Icons:       len(c.icons),
		Scaled:      len(c.scaled),
		PixelBytes:  bytes,
		Initialized: c.initialized,
	}
}

func pixelBytes(img image.Image) uint64 {
	b := img.Bounds()
	return uint64(b.Dx()) * uint64(b.Dy()) * 4
}

// AppIcon returns the application icon, or a generated placeholder when the
// icon file is missing.
func (c *IconCache) AppIcon() image.Image {
	if img, ok := c.Get(AppIconName); ok {
		return img
	}
	return placeholderIcon(c.defaultSize)
}

func placeholderIcon(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0xff}}, image.Point{}, draw.Src)
	return img
}
