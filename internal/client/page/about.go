package page

import (
	"context"
	"slices"

	"inkwell/internal/client/router"
)

// About shows the public site settings.
type About struct {
	API API
}

// Handle loads the site settings. title and description head the page.
func (h About) Handle(ctx context.Context, req router.Request) (any, error) {
	settings, err := h.API.PublicSettings(ctx)
	if err != nil {
		return fail("about", req.URL, View{Route: "about", Title: "About"}, err)
	}

	view := View{Route: "about", Title: "About", Subtitle: settings["description"]}
	if t := settings["title"]; t != "" {
		view.Title = escape(t)
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		if k != "title" && k != "description" && settings[k] != "" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		view.Items = append(view.Items, Item{Title: k, Summary: escape(settings[k])})
	}
	return view, nil
}

