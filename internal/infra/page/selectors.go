// Package page reads a saved playlist page as the rendered host view.
package page

import (
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Selectors locates the playlist elements in the page.
type Selectors struct {
	Container     string `mapstructure:"container" default:"ytd-playlist-video-list-renderer #contents" validate:"required"`
	Item          string `mapstructure:"item" default:"ytd-playlist-video-renderer" validate:"required"`
	Duration      string `mapstructure:"duration" default:"ytd-thumbnail-overlay-time-status-renderer" validate:"required"`
	Title         string `mapstructure:"title" default:"a#video-title" validate:"required"`
	TitleAttr     string `mapstructure:"title_attr" default:"title" validate:"required"`
	Stats         string `mapstructure:"stats" default:".metadata-stats yt-formatted-string" validate:"required"`
	StatsFallback string `mapstructure:"stats_fallback" default:"#stats yt-formatted-string" validate:"required"`
	NewLayout     string `mapstructure:"new_layout_anchor" default:"ytd-playlist-header-renderer" validate:"required"`
	OldLayout     string `mapstructure:"old_layout_anchor" default:"ytd-playlist-sidebar-renderer" validate:"required"`
}

// DecodeSelectors builds selectors from a free-form settings map, filling
// unset keys with defaults. A nil map yields the selectors for the current
// playlist page markup.
func DecodeSelectors(settings map[string]any) (Selectors, error) {
	var s Selectors

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &s,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return Selectors{}, errors.Wrap(err, "failed to create decoder")
	}

	if err := decoder.Decode(settings); err != nil {
		return Selectors{}, errors.Wrap(err, "failed to decode page settings")
	}

	if err := defaults.Set(&s); err != nil {
		return Selectors{}, errors.Wrap(err, "failed to set defaults")
	}

	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return Selectors{}, errors.Wrap(err, "validation failed")
	}
	return s, nil
}
