package handlers

import (
	"context"
	"log"
	"sync"
	"time"

	"pitfinder-backend/internal/mapstate"
	"pitfinder-backend/internal/models"
	"pitfinder-backend/internal/services/cities"
	"pitfinder-backend/internal/session"
)

// Pusher delivers map updates to a connected device
type Pusher interface {
	PushMapState(deviceID string, view models.MapView)
	PushNotice(deviceID string, notice models.Notice)
}

// Notifier sends a push notification to an FCM token
type Notifier interface {
	SendNotice(ctx context.Context, token string, notice models.Notice) error
}

// Screens holds the mounted map screen of every device. A remount
// replaces the previous screen and its transient state.
type Screens struct {
	backend   session.Backend
	dir       *cities.Directory
	pusher    Pusher
	notifier  Notifier
	scheduler mapstate.Scheduler

	mu      sync.Mutex
	screens map[string]*mapstate.Screen
}

// ScreensOption customizes a Screens registry
type ScreensOption func(*Screens)

// WithPusher streams delayed transitions and notices to devices
func WithPusher(p Pusher) ScreensOption {
	return func(s *Screens) { s.pusher = p }
}

// WithNotifier sends notices as push notifications too
func WithNotifier(n Notifier) ScreensOption {
	return func(s *Screens) { s.notifier = n }
}

// WithScheduler replaces the timer used for the driver prompt delay
func WithScheduler(sched mapstate.Scheduler) ScreensOption {
	return func(s *Screens) { s.scheduler = sched }
}

func NewScreens(backend session.Backend, dir *cities.Directory, opts ...ScreensOption) *Screens {
	s := &Screens{
		backend: backend,
		dir:     dir,
		screens: make(map[string]*mapstate.Screen),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the session store of a device
func (s *Screens) Store(deviceID string) *session.Store {
	return session.NewStore(s.backend.Device(deviceID))
}

// Mount creates a fresh screen for the device and loads its session
func (s *Screens) Mount(ctx context.Context, deviceID string, loc mapstate.LocationService) *mapstate.Screen {
	screen := mapstate.New(mapstate.Options{
		Directory: s.dir,
		Scheduler: s.scheduler,
		OnChange: func(view models.MapView) {
			if s.pusher != nil {
				s.pusher.PushMapState(deviceID, view)
			}
		},
		OnNotice: func(notice models.Notice) {
			s.deliverNotice(deviceID, notice)
		},
	})

	s.mu.Lock()
	if old, ok := s.screens[deviceID]; ok {
		old.Close()
	}
	s.screens[deviceID] = screen
	s.mu.Unlock()

	screen.Mount(ctx, s.Store(deviceID), loc)
	log.Printf("🗺️  Map mounted for device %s", deviceID)
	return screen
}

// Get returns the device's mounted screen
func (s *Screens) Get(deviceID string) (*mapstate.Screen, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	screen, ok := s.screens[deviceID]
	return screen, ok
}

// Drop unmounts the device's screen
func (s *Screens) Drop(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if screen, ok := s.screens[deviceID]; ok {
		screen.Close()
		delete(s.screens, deviceID)
	}
}

// UpdateLocation moves the user dot on the device's screen, if mounted
func (s *Screens) UpdateLocation(deviceID string, pos models.Coordinate) {
	if screen, ok := s.Get(deviceID); ok {
		screen.UpdateUserLocation(pos)
	}
}

func (s *Screens) deliverNotice(deviceID string, notice models.Notice) {
	if s.pusher != nil {
		s.pusher.PushNotice(deviceID, notice)
	}
	if s.notifier == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		tok, err := s.Store(deviceID).PushToken(ctx)
		if err != nil {
			log.Printf("⚠️  Failed to load FCM token for %s: %v", deviceID, err)
			return
		}
		if tok == nil {
			return
		}
		if err := s.notifier.SendNotice(ctx, tok.Token, notice); err != nil {
			log.Printf("⚠️  Failed to send notice to %s: %v", deviceID, err)
		}
	}()
}
