package directions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"pitfinder-backend/internal/i18n"
	"pitfinder-backend/internal/models"
)

// Platform is the device OS, which decides how directions are offered
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// App is the user's pick in the iOS chooser
type App string

const (
	AppApple  App = "apple"
	AppGoogle App = "google"
	AppCancel App = "cancel"
)

var (
	ErrHandlerUnavailable = errors.New("no handler for url")
	ErrChoiceRequired     = errors.New("choose a maps app")
	ErrUnknownPlatform    = errors.New("unknown platform")
	ErrUnknownApp         = errors.New("unknown maps app")
)

// Opener hands a URL to the device's OS
type Opener interface {
	OpenURL(ctx context.Context, rawURL string) error
}

// Option is one button in the iOS chooser
type Option struct {
	App   App    `json:"app"`
	Label string `json:"label"`
}

// Chooser is the iOS "which app" prompt
type Chooser struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Options []Option `json:"options"`
}

// NewChooser builds the iOS prompt in the given language
func NewChooser(lang models.Language) Chooser {
	t := i18n.MapText(lang)
	return Chooser{
		Title: t.DirectionsTitle,
		Body:  t.DirectionsBody,
		Options: []Option{
			{App: AppApple, Label: t.AppleMaps},
			{App: AppGoogle, Label: t.GoogleMaps},
			{App: AppCancel, Label: t.Cancel},
		},
	}
}

// Plan returns the URLs to try in order. Cancel yields none.
func Plan(platform Platform, app App, site models.Site) ([]string, error) {
	latLng := formatLatLng(site.Coordinate)
	label := encodeComponent(site.Name)

	switch platform {
	case PlatformIOS:
		switch app {
		case "":
			return nil, ErrChoiceRequired
		case AppCancel:
			return nil, nil
		case AppApple:
			return []string{fmt.Sprintf("maps://?daddr=%s&q=%s", latLng, label)}, nil
		case AppGoogle:
			return []string{
				fmt.Sprintf("comgooglemaps://?daddr=%s&q=%s", latLng, label),
				"https://www.google.com/maps/dir/?api=1&destination=" + latLng,
			}, nil
		default:
			return nil, ErrUnknownApp
		}
	case PlatformAndroid:
		return []string{
			"google.navigation:q=" + latLng,
			fmt.Sprintf("geo:%s?q=%s(%s)", latLng, latLng, site.Name),
		}, nil
	default:
		return nil, ErrUnknownPlatform
	}
}

// Result reports which URL, if any, the device accepted
type Result struct {
	Opened   string   `json:"opened,omitempty"`
	Attempts []string `json:"attempts"`
}

// Dispatch opens the planned URLs in order until one succeeds. Opener
// failures are logged and swallowed; only planning errors are returned.
func Dispatch(ctx context.Context, opener Opener, platform Platform, app App, site models.Site) (Result, error) {
	urls, err := Plan(platform, app, site)
	if err != nil {
		return Result{}, err
	}

	res := Result{Attempts: []string{}}
	for _, u := range urls {
		res.Attempts = append(res.Attempts, u)
		if err := opener.OpenURL(ctx, u); err != nil {
			log.Printf("⚠️  Could not open %s: %v", schemeOf(u), err)
			continue
		}
		res.Opened = u
		log.Printf("🧭 Directions to %s opened via %s", site.Name, schemeOf(u))
		return res, nil
	}

	if len(urls) > 0 {
		log.Printf("⚠️  No maps app could open directions to %s", site.Name)
	}
	return res, nil
}

func formatLatLng(c models.Coordinate) string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// encodeComponent escapes like a browser's encodeURIComponent, which
// leaves !'()* alone where QueryEscape does not
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// schemeOf returns the URL scheme, e.g. "comgooglemaps"
func schemeOf(rawURL string) string {
	if i := strings.Index(rawURL, ":"); i > 0 {
		return rawURL[:i]
	}
	return rawURL
}
