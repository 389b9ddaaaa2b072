package page

import (
	"errors"

	"inkwell/internal/client/api"
)

// Failure is the generic failure view offering a retry of url.
func Failure(route, url string) View {
	return View{
		Route:  route,
		Title:  "Something went wrong",
		Notice: "The page could not be loaded. Try again in a moment.",
		Failed: true,
		Retry:  url,
	}
}

// NotFound is the view of unknown paths and missing articles or categories.
func NotFound(route string) View {
	return View{
		Route:   route,
		Title:   "404",
		Notice:  "The page you are looking for does not exist.",
		Filters: []Link{{Label: "Back to home", URL: "/"}},
	}
}

// fail turns a load error into a view: validation errors stay inline on
// inline, not found renders NotFound and anything else the failure view.
func fail(route, url string, inline View, err error) (View, error) {
	var apiErr *api.Error
	switch {
	case api.IsValidation(err) && errors.As(err, &apiErr):
		inline.Notice = apiErr.Message
		return inline, nil
	case api.IsNotFound(err):
		return NotFound(route), nil
	default:
		return Failure(route, url), err
	}
}
