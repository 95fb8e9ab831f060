package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/genrejinn/genrejinn/internal/httpserver/deps"
	"github.com/genrejinn/genrejinn/internal/httpserver/handlers"
	"github.com/genrejinn/genrejinn/internal/httpserver/mw"
)

func init() { Register(registerSessions) }

func registerSessions(r chi.Router, d deps.Deps) {
	guard := []Middleware{
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	}

	r.With(guard...).Route("/api/sessions", func(r chi.Router) {
		r.Post("/", handlers.SessionCreate(d))
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", handlers.SessionInfo(d))
			r.Delete("/", handlers.SessionClose(d))
			r.Put("/page", handlers.PageSet(d))
			r.Get("/pages/{page}", handlers.PageGet(d))
			r.Post("/save", handlers.Save(d))

			r.Get("/annotations", handlers.Annotations(d))
			r.Post("/highlights", handlers.HighlightAdd(d))
			r.Delete("/highlights", handlers.HighlightDelete(d))
			r.Put("/highlights/note", handlers.NoteUpdate(d))
			r.Put("/highlights/color", handlers.ColorUpdate(d))

			r.Post("/marks", handlers.MarkAdd(d))
			r.Delete("/marks/{markKey}", handlers.MarkDelete(d))
			r.Post("/marks/{markKey}/toggle", handlers.MarkToggle(d))
		})
	})
}
