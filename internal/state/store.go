package state

import (
	"image"
	"sync"
)

// Image is a decoded bitmap together with its natural size.
type Image struct {
	Image  image.Image
	Width  int
	Height int
}

// NewImage wraps a decoded image. It returns nil for a nil image.
func NewImage(img image.Image) *Image {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	return &Image{Image: img, Width: b.Dx(), Height: b.Dy()}
}

// Aspect returns width/height, or 1 for a degenerate image.
func (i *Image) Aspect() float64 {
	if i == nil || i.Width <= 0 || i.Height <= 0 {
		return 1
	}
	return float64(i.Width) / float64(i.Height)
}

// State is an immutable snapshot handed to the pipeline.
type State struct {
	Params Params
	Avatar *Image
	Stamp  *Image
}

// HasAvatar reports whether an avatar has been loaded.
func (s State) HasAvatar() bool { return s.Avatar != nil }

// Store owns the current parameters and bitmaps. Every mutation replaces
// references; nothing handed out by Snapshot is modified afterwards.
type Store struct {
	mu           sync.RWMutex
	params       Params
	avatar       *Image
	defaultStamp *Image
	customStamp  *Image
	useCustom    bool
}

func NewStore(defaults Params, defaultStamp *Image) *Store {
	return &Store{params: defaults, defaultStamp: defaultStamp}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return State{Params: store.params, Avatar: store.avatar, Stamp: store.activeStampLocked()}
}

func (store *Store) Params() Params {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.params
}

func (store *Store) SetParams(params Params) {
	store.mu.Lock()
	store.params = params
	store.mu.Unlock()
}

// Update applies fn to a copy of the current parameters and stores the result
// if it validates.
func (store *Store) Update(fn func(*Params)) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	next := store.params
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	store.params = next
	return nil
}

// SetAvatar replaces the avatar. A nil image returns the store to the empty state.
func (store *Store) SetAvatar(img *Image) {
	store.mu.Lock()
	store.avatar = img
	store.mu.Unlock()
}

// SetCustomStamp installs a user stamp and makes it active.
func (store *Store) SetCustomStamp(img *Image) {
	if img == nil {
		return
	}
	store.mu.Lock()
	store.customStamp = img
	store.useCustom = true
	store.mu.Unlock()
}

// UseCustomStamp toggles between the custom and the default stamp. The custom
// stamp is kept so re-enabling restores it.
func (store *Store) UseCustomStamp(enabled bool) {
	store.mu.Lock()
	store.useCustom = enabled
	store.mu.Unlock()
}

// UsingCustomStamp reports whether a custom stamp is currently active.
func (store *Store) UsingCustomStamp() bool {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.useCustom && store.customStamp != nil
}

func (store *Store) ActiveStamp() *Image {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.activeStampLocked()
}

// Reset restores defaults and reverts to the default stamp. The avatar is kept.
func (store *Store) Reset(defaults Params) {
	store.mu.Lock()
	store.params = defaults
	store.useCustom = false
	store.mu.Unlock()
}

func (store *Store) activeStampLocked() *Image {
	if store.useCustom && store.customStamp != nil {
		return store.customStamp
	}
	return store.defaultStamp
}
