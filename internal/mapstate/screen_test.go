package mapstate

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"pitfinder-backend/internal/models"
	"pitfinder-backend/internal/services/cities"
	"pitfinder-backend/internal/session"
)

// manualScheduler holds delayed callbacks until the test fires them
type manualScheduler struct {
	delays []time.Duration
	funcs  []func()
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) {
	m.delays = append(m.delays, d)
	m.funcs = append(m.funcs, f)
}

func (m *manualScheduler) fireAll() {
	funcs := m.funcs
	m.funcs = nil
	for _, f := range funcs {
		f()
	}
}

type fakeLocation struct {
	granted bool
	permErr error
	pos     models.Coordinate
	posErr  error
}

func (f fakeLocation) RequestPermission(ctx context.Context) (bool, error) {
	return f.granted, f.permErr
}

func (f fakeLocation) CurrentPosition(ctx context.Context) (models.Coordinate, error) {
	return f.pos, f.posErr
}

type failingKV struct{}

func (failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}
func (failingKV) Set(ctx context.Context, key, value string) error { return nil }
func (failingKV) Remove(ctx context.Context, key string) error     { return nil }

func mountAs(t *testing.T, role models.Role, lang models.Language) (*Screen, *manualScheduler, *[]models.Notice) {
	t.Helper()
	ctx := context.Background()

	store := session.NewStore(session.NewMemoryBackend().Device("dev"))
	if err := store.Save(ctx, models.Session{Role: role, Name: "T", Phone: "1", ID: "x", Language: lang}); err != nil {
		t.Fatal(err)
	}

	sched := &manualScheduler{}
	var notices []models.Notice
	s := New(Options{
		Scheduler: sched,
		OnNotice:  func(n models.Notice) { notices = append(notices, n) },
	})
	s.Mount(ctx, store, nil)
	return s, sched, &notices
}

func search(t *testing.T, s *Screen, q string) {
	t.Helper()
	s.OpenSearch()
	s.SetQuery(q)
	if err := s.Submit(); err != nil {
		t.Fatalf("submit %q: %v", q, err)
	}
}

func TestLoadingPlaceholder(t *testing.T) {
	s := New(Options{})
	v := s.View()
	if !v.Loading {
		t.Fatal("expected loading before the session read")
	}
	if len(v.Markers) != 0 {
		t.Fatalf("no markers while loading, got %d", len(v.Markers))
	}
	if _, err := s.TapMarker("generated-0"); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestSearchWaitsForSessionRead(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore(session.NewMemoryBackend().Device("dev"))
	if err := store.Save(ctx, models.Session{
		ID: "abc123xyz", Name: "Dana", Phone: "555", Role: models.RoleDriver, Language: models.LanguageEnglish,
	}); err != nil {
		t.Fatal(err)
	}

	sched := &manualScheduler{}
	var notices []models.Notice
	s := New(Options{
		Scheduler: sched,
		OnNotice:  func(n models.Notice) { notices = append(notices, n) },
	})

	s.OpenSearch()
	s.SetQuery("Tulsa")
	if err := s.Submit(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if err := s.PickSuggestion("tulsa, ok"); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	v := s.View()
	if v.Mode != models.ModeIdle || v.SearchedCity != nil || !v.IsSearching || v.SearchQuery != "Tulsa" {
		t.Fatalf("refused search changed state: %+v", v)
	}
	if len(notices) != 0 || len(sched.funcs) != 0 {
		t.Fatal("refused search should have no side effects")
	}

	s.LoadSession(ctx, store)
	if err := s.Submit(); err != nil {
		t.Fatal(err)
	}
	v = s.View()
	if v.Mode != models.ModeIdle || len(notices) != 0 || len(sched.funcs) != 1 {
		t.Fatalf("driver should wait for the delayed prompt, got mode=%s notices=%d", v.Mode, len(notices))
	}
}

func TestSessionReadFailureIsNotFatal(t *testing.T) {
	s := New(Options{})
	s.LoadSession(context.Background(), session.NewStore(failingKV{}))

	v := s.View()
	if v.Loading || v.Role != nil {
		t.Fatalf("expected loaded with no role, got %+v", v)
	}
	if len(v.Markers) != 0 {
		t.Fatal("no role means no markers")
	}
}

func TestDriverFlowWithPickup(t *testing.T) {
	s, sched, _ := mountAs(t, models.RoleDriver, models.LanguageEnglish)

	search(t, s, "Tulsa")
	v := s.View()
	if v.Mode != models.ModeIdle {
		t.Fatalf("mode should wait for the delay, got %s", v.Mode)
	}
	if v.IsSearching {
		t.Fatal("search should close on submit")
	}
	if v.Region.Latitude != 36.1540 || v.Region.Longitude != -95.9928 {
		t.Fatalf("expected recenter on Tulsa, got %+v", v.Region)
	}
	if len(sched.delays) != 1 || sched.delays[0] != ActionPromptDelay {
		t.Fatalf("expected one %v delay, got %v", ActionPromptDelay, sched.delays)
	}

	sched.fireAll()
	if got := s.View().Mode; got != models.ModeSelectingAction {
		t.Fatalf("got %s, want SELECTING_ACTION", got)
	}

	if err := s.SelectAction(models.ActionPickup); err != nil {
		t.Fatal(err)
	}
	if got := s.View().Mode; got != models.ModeSelectingMaterial {
		t.Fatalf("got %s, want SELECTING_MATERIAL", got)
	}

	if err := s.SelectMaterial("Gravel"); err != nil {
		t.Fatal(err)
	}
	v = s.View()
	if v.Mode != models.ModeShowingPits {
		t.Fatalf("got %s, want SHOWING_PITS", v.Mode)
	}
	if v.SelectedMaterial == nil || *v.SelectedMaterial != "Gravel" {
		t.Fatalf("unexpected material %v", v.SelectedMaterial)
	}
	// material does not filter the catalogue
	if len(v.Markers) != 15 {
		t.Fatalf("driver should still see all 15 sites, got %d", len(v.Markers))
	}
}

func TestDriverNoMatchSkipsDelay(t *testing.T) {
	s, sched, _ := mountAs(t, models.RoleDriver, models.LanguageEnglish)

	search(t, s, "Nowhere, XX")
	v := s.View()
	if v.Mode != models.ModeSelectingAction {
		t.Fatalf("got %s, want SELECTING_ACTION immediately", v.Mode)
	}
	if len(sched.funcs) != 0 {
		t.Fatal("no delay expected on the no-match path")
	}
	if v.IsSearching {
		t.Fatal("search UI should close")
	}
	if v.Region != InitialRegion {
		t.Fatalf("region should not move, got %+v", v.Region)
	}
	if v.SearchedCity != nil {
		t.Fatal("searched city should stay unset")
	}
}

func TestDriverDumpClearsMaterial(t *testing.T) {
	s, _, _ := mountAs(t, models.RoleDriver, models.LanguageEnglish)

	search(t, s, "nowhere")
	s.SelectAction(models.ActionPickup)
	s.SelectMaterial("Topsoil")

	search(t, s, "nowhere")
	if err := s.SelectAction(models.ActionDump); err != nil {
		t.Fatal(err)
	}
	v := s.View()
	if v.Mode != models.ModeShowingPits || v.SelectedMaterial != nil {
		t.Fatalf("expected SHOWING_PITS with no material, got %s %v", v.Mode, v.SelectedMaterial)
	}
}

func TestMaterialCancel(t *testing.T) {
	s, _, _ := mountAs(t, models.RoleDriver, models.LanguageEnglish)
	search(t, s, "nowhere")
	s.SelectAction(models.ActionPickup)

	if err := s.SelectMaterial("Gold"); !errors.Is(err, ErrUnknownMaterial) {
		t.Fatalf("expected ErrUnknownMaterial, got %v", err)
	}
	if err := s.CancelMaterial(); err != nil {
		t.Fatal(err)
	}
	if got := s.View().Mode; got != models.ModeIdle {
		t.Fatalf("got %s, want IDLE", got)
	}
}

func TestTransitionsOutsideTheirMode(t *testing.T) {
	s, _, _ := mountAs(t, models.RoleDriver, models.LanguageEnglish)

	if err := s.SelectAction(models.ActionDump); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := s.SelectMaterial("Gravel"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := s.CancelMaterial(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if got := s.View().Mode; got != models.ModeIdle {
		t.Fatalf("mode changed to %s", got)
	}
}

func TestPitSavesLocation(t *testing.T) {
	s, sched, notices := mountAs(t, models.RolePit, models.LanguageEnglish)

	if got := s.View().Markers; len(got) != 0 {
		t.Fatalf("pit with no search sees nothing, got %d", len(got))
	}

	search(t, s, "Norman, OK")
	v := s.View()
	if v.Mode != models.ModeLocationSaved {
		t.Fatalf("got %s, want LOCATION_SAVED", v.Mode)
	}
	if len(sched.funcs) != 0 {
		t.Fatal("pit path has no delay")
	}
	if len(v.Markers) != 1 {
		t.Fatalf("expected one self marker, got %d", len(v.Markers))
	}
	m := v.Markers[0]
	if m.ID != SelfMarkerID || m.Label != "MY PIT LOCATION" || m.Color != ColorRed {
		t.Fatalf("unexpected marker %+v", m)
	}
	if m.Coordinate != (models.Coordinate{Latitude: 35.2226, Longitude: -97.4395}) {
		t.Fatalf("marker not at Norman: %+v", m.Coordinate)
	}
	if len(*notices) != 1 || (*notices)[0].Title != "Location Saved" {
		t.Fatalf("expected a Location Saved notice, got %v", *notices)
	}
	if len(v.Notices) != 1 {
		t.Fatal("notice should be pending in the view")
	}
	s.DismissNotices()
	if len(s.View().Notices) != 0 {
		t.Fatal("notices should be cleared")
	}
}

func TestPitNoMatchKeepsPreviousSite(t *testing.T) {
	s, _, notices := mountAs(t, models.RolePit, models.LanguageEnglish)

	search(t, s, "Nowhere, XX")
	v := s.View()
	if v.Mode != models.ModeLocationSaved {
		t.Fatalf("got %s, want LOCATION_SAVED", v.Mode)
	}
	if len(v.Markers) != 0 {
		t.Fatal("no previous city, so nothing to show")
	}

	search(t, s, "enid")
	search(t, s, "Atlantis")
	v = s.View()
	if v.Mode != models.ModeLocationSaved || len(v.Markers) != 1 {
		t.Fatalf("expected marker at previous city, got %s %d", v.Mode, len(v.Markers))
	}
	if v.Markers[0].Coordinate.Latitude != 36.3956 {
		t.Fatalf("expected Enid, got %+v", v.Markers[0].Coordinate)
	}
	if len(*notices) != 3 {
		t.Fatalf("every resolve raises a notice, got %d", len(*notices))
	}
}

func TestBuyerSelfMarkerInSpanish(t *testing.T) {
	s, _, _ := mountAs(t, models.RoleBuyer, models.LanguageSpanish)
	search(t, s, "yukon")

	v := s.View()
	if len(v.Markers) != 1 {
		t.Fatalf("expected one marker, got %d", len(v.Markers))
	}
	m := v.Markers[0]
	if m.Label != "MI SITIO" || m.Color != ColorOrange || m.Fill != ColorOrangeFill {
		t.Fatalf("unexpected marker %+v", m)
	}
	if m.Site.Price != "N/A" || m.Site.Phone != "My Phone" || len(m.Site.Materials) != 0 {
		t.Fatalf("unexpected placeholder fields %+v", m.Site)
	}
}

func TestBlankSubmitIsNoop(t *testing.T) {
	s, sched, notices := mountAs(t, models.RolePit, models.LanguageEnglish)
	search(t, s, "tulsa")
	s.DismissNotices()
	before := s.View()

	s.OpenSearch()
	s.SetQuery("   ")
	if err := s.Submit(); err != nil {
		t.Fatal(err)
	}

	after := s.View()
	if after.Mode != before.Mode || *after.SearchedCity != "tulsa" {
		t.Fatalf("blank submit changed state: %+v", after)
	}
	if !after.IsSearching {
		t.Fatal("blank submit should not even close the search UI")
	}
	if len(sched.funcs) != 0 || len(*notices) != 1 {
		t.Fatal("blank submit should have no side effects")
	}
}

func TestSuggestionsFollowSearchState(t *testing.T) {
	s, _, _ := mountAs(t, models.RoleDriver, models.LanguageEnglish)

	s.SetQuery("tul")
	if got := s.View().Suggestions; len(got) != 0 {
		t.Fatalf("closed search shows no suggestions, got %v", got)
	}

	s.OpenSearch()
	if got := s.View().Suggestions; !reflect.DeepEqual(got, []string{"tulsa, ok"}) {
		t.Fatalf("got %v", got)
	}

	// close control: first clears the query, then closes search
	s.ClearSearch()
	v := s.View()
	if v.SearchQuery != "" || !v.IsSearching || len(v.Suggestions) != 0 {
		t.Fatalf("expected empty query with search open, got %+v", v)
	}
	s.ClearSearch()
	if s.View().IsSearching {
		t.Fatal("second clear should close search")
	}
}

func TestPickSuggestion(t *testing.T) {
	s, sched, _ := mountAs(t, models.RoleDriver, models.LanguageEnglish)
	s.OpenSearch()
	s.SetQuery("broken")
	if err := s.PickSuggestion("broken arrow, ok"); err != nil {
		t.Fatal(err)
	}

	v := s.View()
	if v.SearchQuery != "broken arrow, ok" || v.SearchedCity == nil || *v.SearchedCity != "broken arrow, ok" {
		t.Fatalf("unexpected search state %+v", v)
	}
	if len(sched.funcs) != 1 {
		t.Fatal("expected the delayed prompt")
	}
}

func TestTapMarkerAndMap(t *testing.T) {
	s, _, _ := mountAs(t, models.RoleDriver, models.LanguageEnglish)

	site, err := s.TapMarker("generated-1")
	if err != nil {
		t.Fatal(err)
	}
	v := s.View()
	if v.SelectedSite == nil || v.SelectedSite.ID != "generated-1" || site.Name != "TULSA, OK" {
		t.Fatalf("unexpected selection %+v", v.SelectedSite)
	}
	if v.Region.LatitudeDelta != 0.005 || v.Region.Latitude != site.Coordinate.Latitude {
		t.Fatalf("expected zoom onto the site, got %+v", v.Region)
	}
	if v.Mode != models.ModeIdle {
		t.Fatal("marker taps do not change mode")
	}

	if _, err := s.TapMarker("generated-99"); !errors.Is(err, ErrUnknownMarker) {
		t.Fatalf("expected ErrUnknownMarker, got %v", err)
	}

	s.OpenSearch()
	s.TapMap()
	v = s.View()
	if v.SelectedSite != nil || v.IsSearching {
		t.Fatalf("map tap should clear selection and close search, got %+v", v)
	}
}

func TestTapMapIdempotent(t *testing.T) {
	s, _, _ := mountAs(t, models.RoleBuyer, models.LanguageEnglish)
	before := s.View()
	s.TapMap()
	if after := s.View(); !reflect.DeepEqual(before, after) {
		t.Fatalf("state changed:\n%+v\n%+v", before, after)
	}
}

func TestDelayedPromptIgnoredAfterClose(t *testing.T) {
	var changes int
	sched := &manualScheduler{}
	ctx := context.Background()
	store := session.NewStore(session.NewMemoryBackend().Device("dev"))
	store.Save(ctx, models.Session{Role: models.RoleDriver})

	s := New(Options{Scheduler: sched, OnChange: func(models.MapView) { changes++ }})
	s.Mount(ctx, store, nil)
	search(t, s, "moore")
	s.Close()
	sched.fireAll()

	if s.View().Mode != models.ModeIdle || changes != 0 {
		t.Fatal("closed screen should ignore the delayed prompt")
	}
}

func TestDelayedPromptNotifiesChange(t *testing.T) {
	var got []models.MapView
	sched := &manualScheduler{}
	ctx := context.Background()
	store := session.NewStore(session.NewMemoryBackend().Device("dev"))
	store.Save(ctx, models.Session{Role: models.RoleDriver})

	s := New(Options{Scheduler: sched, OnChange: func(v models.MapView) { got = append(got, v) }})
	s.Mount(ctx, store, nil)
	search(t, s, "lawton")
	sched.fireAll()

	if len(got) != 1 || got[0].Mode != models.ModeSelectingAction {
		t.Fatalf("expected one change to SELECTING_ACTION, got %+v", got)
	}
}

func TestLocate(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore(session.NewMemoryBackend().Device("dev"))

	denied := New(Options{})
	denied.Mount(ctx, store, fakeLocation{granted: false})
	v := denied.View()
	if v.LocationError == nil || *v.LocationError != "Permission to access location was denied" {
		t.Fatalf("expected inline error, got %v", v.LocationError)
	}
	if v.Region != InitialRegion || v.Loading {
		t.Fatal("denial should leave the map usable")
	}

	granted := New(Options{})
	pos := models.Coordinate{Latitude: 36.0, Longitude: -96.0}
	granted.Mount(ctx, store, fakeLocation{granted: true, pos: pos})
	v = granted.View()
	want := models.Region{Latitude: 36.0, Longitude: -96.0, LatitudeDelta: 0.0922, LongitudeDelta: 0.0421}
	if v.Region != want || v.UserLocation == nil || *v.UserLocation != pos {
		t.Fatalf("unexpected location state %+v %+v", v.Region, v.UserLocation)
	}

	granted.UpdateUserLocation(models.Coordinate{Latitude: 1, Longitude: 2})
	if granted.View().Region != want {
		t.Fatal("location updates must not recenter")
	}
}

func TestDeriveMarkersIsPure(t *testing.T) {
	dir := cities.Default()
	catalogue := cities.GenerateSites(dir)
	city := "tulsa"
	roles := []models.Role{models.RoleDriver, models.RolePit, models.RoleBuyer}
	modes := []models.Mode{
		models.ModeIdle, models.ModeSelectingAction, models.ModeSelectingMaterial,
		models.ModeShowingPits, models.ModeLocationSaved,
	}

	for _, role := range roles {
		for _, mode := range modes {
			for _, searched := range []*string{nil, &city} {
				r := role
				a := DeriveMarkers(&r, mode, searched, dir, catalogue, models.LanguageEnglish)
				b := DeriveMarkers(&r, mode, searched, dir, catalogue, models.LanguageEnglish)
				if !reflect.DeepEqual(a, b) {
					t.Fatalf("%s/%s not deterministic", role, mode)
				}

				switch {
				case role == models.RoleDriver:
					if len(a) != len(catalogue) {
						t.Fatalf("driver %s: got %d markers", mode, len(a))
					}
				case searched != nil && (mode == models.ModeIdle || mode == models.ModeLocationSaved):
					if len(a) != 1 {
						t.Fatalf("%s/%s: expected self marker, got %d", role, mode, len(a))
					}
				default:
					if len(a) != 0 {
						t.Fatalf("%s/%s: expected nothing, got %d", role, mode, len(a))
					}
				}
			}
		}
	}
}

func TestMarkerColors(t *testing.T) {
	driver, pit, buyer := models.RoleDriver, models.RolePit, models.RoleBuyer

	tests := []struct {
		role      *models.Role
		siteType  models.SiteType
		wantColor string
		wantFill  string
	}{
		{&driver, models.SiteTypeDump, ColorRed, ColorRedFill},
		{&driver, models.SiteTypePickup, ColorOrange, ColorOrangeFill},
		{&pit, models.SiteTypePickup, ColorRed, ColorRedFill},
		{&pit, "", ColorRed, ColorRedFill},
		{&buyer, models.SiteTypeDump, ColorOrange, ColorOrangeFill},
		{nil, models.SiteTypePickup, ColorRed, ColorRedFill},
	}

	for _, tt := range tests {
		color, fill := MarkerColors(tt.role, tt.siteType)
		if color != tt.wantColor || fill != tt.wantFill {
			t.Errorf("MarkerColors(%v, %q) = %s %s", tt.role, tt.siteType, color, fill)
		}
	}
}

func TestLegendOnlyForDrivers(t *testing.T) {
	driver, pit := models.RoleDriver, models.RolePit
	if got := Legend(&driver, models.LanguageEnglish); len(got) != 2 || got[1].Label != "Pickup Site" {
		t.Fatalf("unexpected legend %v", got)
	}
	if Legend(&pit, models.LanguageEnglish) != nil {
		t.Fatal("pit operators get no legend")
	}
}
