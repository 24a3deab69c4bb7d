package mapstate

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"pitfinder-backend/internal/i18n"
	"pitfinder-backend/internal/models"
	"pitfinder-backend/internal/services/cities"
	"pitfinder-backend/internal/session"
)

// ActionPromptDelay is how long a driver waits between a matched city
// search and the Dump / Pick Up prompt
const ActionPromptDelay = 500 * time.Millisecond

const (
	siteZoomDelta    = 0.005
	userLatitudeZoom = 0.0922
	userLongZoom     = 0.0421
)

// InitialRegion is central Oklahoma, shown until a fix or search moves the map
var InitialRegion = models.Region{
	Latitude:       35.4676,
	Longitude:      -97.5164,
	LatitudeDelta:  0.5,
	LongitudeDelta: 0.5,
}

var (
	ErrInvalidTransition = errors.New("action not allowed in current mode")
	ErrUnknownMaterial   = errors.New("unknown material")
	ErrUnknownMarker     = errors.New("marker not on map")
	ErrNotLoaded         = errors.New("session still loading")
)

// Scheduler runs f once after d
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// LocationService is the device's permission prompt and position fix
type LocationService interface {
	RequestPermission(ctx context.Context) (granted bool, err error)
	CurrentPosition(ctx context.Context) (models.Coordinate, error)
}

// Options configures a Screen
type Options struct {
	Directory *cities.Directory
	Scheduler Scheduler

	// OnChange receives the view after transitions that happen outside a
	// caller's request, i.e. the delayed driver prompt
	OnChange func(models.MapView)

	// OnNotice receives user-visible alerts as they are raised
	OnNotice func(models.Notice)
}

// Screen is one mounted map screen. All state is in memory and is lost
// when the screen is closed and a new one mounted.
type Screen struct {
	mu        sync.Mutex
	dir       *cities.Directory
	catalogue []models.Site
	scheduler Scheduler
	onChange  func(models.MapView)
	onNotice  func(models.Notice)
	closed    bool

	loaded        bool
	role          *models.Role
	language      models.Language
	region        models.Region
	userLocation  *models.Coordinate
	locationError *string

	mode             models.Mode
	selectedMaterial *string
	selectedSite     *models.Site
	searchQuery      string
	searchedCity     *string
	isSearching      bool
	notices          []models.Notice
}

// New creates a screen in IDLE with the generated catalogue computed once
func New(opts Options) *Screen {
	if opts.Directory == nil {
		opts.Directory = cities.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = timerScheduler{}
	}

	return &Screen{
		dir:       opts.Directory,
		catalogue: cities.GenerateSites(opts.Directory),
		scheduler: opts.Scheduler,
		onChange:  opts.OnChange,
		onNotice:  opts.OnNotice,
		language:  models.LanguageEnglish,
		region:    InitialRegion,
		mode:      models.ModeIdle,
	}
}

// Mount reads the session, then asks for the device position.
// Neither failure is fatal.
func (s *Screen) Mount(ctx context.Context, store *session.Store, loc LocationService) {
	s.LoadSession(ctx, store)
	if loc != nil {
		s.Locate(ctx, loc)
	}
}

// LoadSession reads role and language. Until it returns the screen
// reports itself as loading and shows no markers.
func (s *Screen) LoadSession(ctx context.Context, store *session.Store) {
	sess, err := store.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	if err != nil {
		log.Printf("❌ Failed to load user role: %v", err)
		return
	}
	if sess == nil {
		return
	}

	role := sess.Role
	s.role = &role
	if sess.Language != "" {
		s.language = sess.Language.OrDefault()
	}
	log.Printf("👤 User role: %s", role)
}

// Locate requests permission and one fix. A denial leaves an inline
// error and the map at its current region.
func (s *Screen) Locate(ctx context.Context, loc LocationService) {
	granted, err := loc.RequestPermission(ctx)
	if err != nil {
		log.Printf("⚠️  Location permission request failed: %v", err)
	}
	if err != nil || !granted {
		s.mu.Lock()
		msg := i18n.MapText(s.language).LocationDenied
		s.locationError = &msg
		s.mu.Unlock()
		return
	}

	pos, err := loc.CurrentPosition(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to get current position: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.locationError = nil
	s.userLocation = &pos
	s.region = models.Region{
		Latitude:       pos.Latitude,
		Longitude:      pos.Longitude,
		LatitudeDelta:  userLatitudeZoom,
		LongitudeDelta: userLongZoom,
	}
}

// UpdateUserLocation moves the user's own dot without recentering
func (s *Screen) UpdateUserLocation(pos models.Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userLocation = &pos
}

// OpenSearch focuses the search field
func (s *Screen) OpenSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isSearching = true
}

// SetQuery records a keystroke; suggestions follow from the query
func (s *Screen) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = q
}

// ClearSearch is the search bar's close control: it empties a non-empty
// query, and closes the search field once the query is already empty
func (s *Screen) ClearSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.searchQuery) > 0 {
		s.searchQuery = ""
		return
	}
	s.isSearching = false
	s.searchQuery = ""
}

// Submit resolves the current query (enter key). The outcome depends
// on the role, so it is refused until the session read has finished.
func (s *Screen) Submit() error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	query := s.searchQuery
	s.mu.Unlock()

	s.resolve(query)
	return nil
}

// PickSuggestion fills the query with a suggestion and resolves it
func (s *Screen) PickSuggestion(suggestion string) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	s.searchQuery = suggestion
	s.mu.Unlock()

	s.resolve(suggestion)
	return nil
}

func (s *Screen) resolve(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	key, region, found := s.dir.Resolve(text)

	s.mu.Lock()
	s.isSearching = false

	var notice *models.Notice
	promptLater := false
	isDriver := s.role != nil && *s.role == models.RoleDriver

	switch {
	case found && isDriver:
		s.searchedCity = &key
		s.region = region
		promptLater = true
	case found:
		// Pit and buyer "save" the searched city as their site
		s.searchedCity = &key
		s.region = region
		s.mode = models.ModeLocationSaved
		notice = s.raiseLocationSaved()
	case isDriver:
		s.mode = models.ModeSelectingAction
	case s.role != nil:
		// Free text would be geocoded in a full system; the site stays
		// where it was
		s.mode = models.ModeLocationSaved
		notice = s.raiseLocationSaved()
	}
	s.mu.Unlock()

	if promptLater {
		s.scheduler.AfterFunc(ActionPromptDelay, s.promptDriverAction)
	}
	if notice != nil && s.onNotice != nil {
		s.onNotice(*notice)
	}
}

func (s *Screen) promptDriverAction() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mode = models.ModeSelectingAction
	view := s.viewLocked()
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(view)
	}
}

func (s *Screen) raiseLocationSaved() *models.Notice {
	t := i18n.MapText(s.language)
	n := models.Notice{Title: t.LocationSaved, Body: t.LocationSavedDesc}
	s.notices = append(s.notices, n)
	return &n
}

// SelectAction handles the driver's Dump / Pick Up choice
func (s *Screen) SelectAction(action models.DriverAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != models.ModeSelectingAction {
		return ErrInvalidTransition
	}

	switch action {
	case models.ActionPickup:
		s.mode = models.ModeSelectingMaterial
	case models.ActionDump:
		s.selectedMaterial = nil
		s.mode = models.ModeShowingPits
	default:
		return ErrInvalidTransition
	}
	return nil
}

// SelectMaterial records the material a driver wants to pick up
func (s *Screen) SelectMaterial(material string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != models.ModeSelectingMaterial {
		return ErrInvalidTransition
	}
	if !models.IsMaterialType(material) {
		return ErrUnknownMaterial
	}

	s.selectedMaterial = &material
	s.mode = models.ModeShowingPits
	return nil
}

// CancelMaterial closes the material list without choosing
func (s *Screen) CancelMaterial() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != models.ModeSelectingMaterial {
		return ErrInvalidTransition
	}
	s.mode = models.ModeIdle
	return nil
}

// TapMarker opens the detail card for a visible marker and zooms to it.
// The interaction mode is untouched.
func (s *Screen) TapMarker(id string) (models.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return models.Site{}, ErrNotLoaded
	}

	for _, m := range s.markersLocked() {
		if m.ID != id {
			continue
		}
		site := m.Site
		s.selectedSite = &site
		s.region = models.Region{
			Latitude:       site.Coordinate.Latitude,
			Longitude:      site.Coordinate.Longitude,
			LatitudeDelta:  siteZoomDelta,
			LongitudeDelta: siteZoomDelta,
		}
		return site, nil
	}
	return models.Site{}, ErrUnknownMarker
}

// Marker looks up a visible marker's site without selecting it
func (s *Screen) Marker(id string) (models.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.markersLocked() {
		if m.ID == id {
			return m.Site, nil
		}
	}
	return models.Site{}, ErrUnknownMarker
}

// SelectedSite returns the site whose detail card is open, if any
func (s *Screen) SelectedSite() (models.Site, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedSite == nil {
		return models.Site{}, false
	}
	return *s.selectedSite, true
}

// CloseDetail dismisses the detail card
func (s *Screen) CloseDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedSite = nil
}

// TapMap handles a tap on the map background
func (s *Screen) TapMap() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedSite = nil
	if s.isSearching {
		s.isSearching = false
	}
}

// DismissNotices clears alerts the user has acknowledged
func (s *Screen) DismissNotices() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = nil
}

// Role returns the loaded role, nil before or without a session
func (s *Screen) Role() *models.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.role == nil {
		return nil
	}
	r := *s.role
	return &r
}

// Language returns the session's UI language
func (s *Screen) Language() models.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// Close stops pending delayed transitions from touching this screen
func (s *Screen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// View snapshots the screen
func (s *Screen) View() models.MapView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Screen) markersLocked() []models.Marker {
	if !s.loaded {
		return []models.Marker{}
	}
	return DeriveMarkers(s.role, s.mode, s.searchedCity, s.dir, s.catalogue, s.language)
}

func (s *Screen) viewLocked() models.MapView {
	v := models.MapView{
		Loading:     !s.loaded,
		Language:    s.language,
		Mode:        s.mode,
		Region:      s.region,
		SearchQuery: s.searchQuery,
		IsSearching: s.isSearching,
		Suggestions: []string{},
		Markers:     s.markersLocked(),
		Legend:      Legend(s.role, s.language),
	}

	if s.isSearching {
		v.Suggestions = s.dir.Suggest(s.searchQuery)
	}
	if s.role != nil {
		r := *s.role
		v.Role = &r
	}
	if s.userLocation != nil {
		pos := *s.userLocation
		v.UserLocation = &pos
	}
	if s.locationError != nil {
		msg := *s.locationError
		v.LocationError = &msg
	}
	if s.searchedCity != nil {
		city := *s.searchedCity
		v.SearchedCity = &city
	}
	if s.selectedMaterial != nil {
		m := *s.selectedMaterial
		v.SelectedMaterial = &m
	}
	if s.selectedSite != nil {
		site := *s.selectedSite
		v.SelectedSite = &site
	}
	if len(s.notices) > 0 {
		v.Notices = append([]models.Notice(nil), s.notices...)
	}
	return v
}
