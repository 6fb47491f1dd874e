// Package controller holds the per-route page controllers. A controller
// composes the session store, ownership resolver, local cache and
// notification hub; rendering and routing stay outside, behind Navigator.
package controller

import (
	"errors"
	"fmt"
	"sync/atomic"

	"writook/internal/apierror"
	"writook/internal/authclient"
	"writook/internal/notify"
	"writook/internal/ownership"
	"writook/internal/session"
	"writook/internal/socialclient"
	"writook/internal/storyclient"
	"writook/internal/views"
)

// Route is a client-side destination. Values mirror the web app's paths so
// share URLs and redirects stay interchangeable with the browser client.
type Route string

const (
	RouteHome  Route = "/home"
	RouteLogin Route = "/login"
)

func PublicStoryRoute(storyID string) Route {
	return Route(fmt.Sprintf("/story/%s", storyID))
}

func WorkspaceRoute(storyID string) Route {
	return Route(fmt.Sprintf("/myworks/%s", storyID))
}

func ReadRoute(storyID string, chapterNumber int) Route {
	return Route(fmt.Sprintf("/read/%s/%d", storyID, chapterNumber))
}

func EditChapterRoute(storyID string, chapterNumber int) Route {
	return Route(fmt.Sprintf("/myworks/%s/edit/%d", storyID, chapterNumber))
}

// Navigator receives redirect decisions. The CLI prints them; a GUI would
// route.
type Navigator interface {
	Navigate(Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Route)

func (f NavigatorFunc) Navigate(r Route) { f(r) }

// Deps is the wiring shared by all page controllers.
type Deps struct {
	Sessions *session.Store
	Resolver *ownership.Resolver
	Views    *views.Cache
	Notify   *notify.Hub
	Auth     *authclient.Client
	Stories  *storyclient.Client
	Social   *socialclient.Client
	Nav      Navigator
	// PublicWebURL is the base for share links, e.g. https://writook.app.
	PublicWebURL string
}

func (d Deps) navigate(r Route) {
	if d.Nav != nil {
		d.Nav.Navigate(r)
	}
}

// notifyError surfaces a failure to the user: API messages verbatim,
// anything else (network errors mostly) as the generic connection message.
func (d Deps) notifyError(err error, connectionMsg string) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		d.Notify.Error(apiErr.Message)
		return
	}
	d.Notify.Error(connectionMsg)
}

// inflight guards a form submission: the submit control stays disabled while
// a request is pending, matching the web forms.
type inflight struct {
	busy atomic.Bool
}

// begin reports whether the submission may start; end re-enables it.
func (g *inflight) begin() bool { return g.busy.CompareAndSwap(false, true) }
func (g *inflight) end()        { g.busy.Store(false) }
