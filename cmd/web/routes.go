package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/markbates/goth/gothic"
	"github.com/nileshk/digital-whiteboard/internal/db"
	"github.com/nileshk/digital-whiteboard/internal/httputil"
	"github.com/nileshk/digital-whiteboard/internal/metrics"
	"github.com/nileshk/digital-whiteboard/internal/middleware"
	"github.com/nileshk/digital-whiteboard/internal/service"
	"github.com/nileshk/digital-whiteboard/internal/session"
	"github.com/nileshk/digital-whiteboard/internal/store"
	users "github.com/nileshk/digital-whiteboard/internal/user"
	"github.com/nileshk/digital-whiteboard/internal/utils"
	"github.com/nileshk/digital-whiteboard/views"
)

func newRouter(pool *db.Pool, tokens *session.Manager) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// Serve static files
	fileServer := http.FileServer(http.Dir("./static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	r.Handle("/metrics", metrics.Handler())

	r.Get("/user-auth", func(w http.ResponseWriter, r *http.Request) {
		err := views.AuthPage(w, views.AuthPageData{
			ErrorMessage: views.AuthErrorMessage(r.URL.Query().Get("error")),
		})
		if err != nil {
			httputil.InternalServerError(w, "Failed to render sign-in page", err)
		}
	})

	r.Get("/auth/{provider}", func(w http.ResponseWriter, r *http.Request) {
		provider := chi.URLParam(r, "provider")
		if _, err := users.ParseProvider(provider); err != nil {
			httputil.BadRequest(w, "Unknown provider", err)
			return
		}
		r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

		gothic.BeginAuthHandler(w, r)
	})

	r.Get("/auth/{provider}/callback", func(w http.ResponseWriter, r *http.Request) {
		providerName := chi.URLParam(r, "provider")
		r = r.WithContext(context.WithValue(r.Context(), "provider", providerName))

		gothUser, err := gothic.CompleteUserAuth(w, r)
		if err != nil {
			metrics.ObserveSignIn(providerName, metrics.OutcomeError)
			httputil.RedirectWithAuthError(w, r, string(service.CodeAccessDenied), err)
			return
		}

		provider, err := users.ParseProvider(gothUser.Provider)
		if err != nil {
			metrics.ObserveSignIn(providerName, metrics.OutcomeError)
			httputil.RedirectWithAuthError(w, r, string(service.CodeConfiguration), err)
			return
		}

		dbConn, err := pool.Connect(r.Context())
		if err != nil {
			metrics.ObserveSignIn(providerName, metrics.OutcomeError)
			httputil.RedirectWithAuthError(w, r, string(service.CodeDefault), err)
			return
		}

		signInService := service.NewSignInService(dbConn, store.NewUserStore(dbConn))
		user, err := signInService.Reconcile(r.Context(), service.Identity{
			Name:      gothUser.Name,
			Email:     gothUser.Email,
			AvatarURL: gothUser.AvatarURL,
			Provider:  provider,
		})
		if err != nil {
			metrics.ObserveSignIn(providerName, metrics.OutcomeRejected)
			code := service.CodeDefault
			var authErr *service.AuthError
			if errors.As(err, &authErr) {
				code = authErr.Code
			}
			httputil.RedirectWithAuthError(w, r, string(code), err)
			return
		}

		token, err := tokens.Issue(user.ID, user.Provider)
		if err != nil {
			metrics.ObserveSignIn(providerName, metrics.OutcomeError)
			httputil.RedirectWithAuthError(w, r, string(service.CodeDefault), err)
			return
		}
		tokens.SetCookie(w, token)

		metrics.ObserveSignIn(providerName, metrics.OutcomeAccepted)
		http.Redirect(w, r, "/", http.StatusFound)
	})

	r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
		tokens.ClearCookie(w)
		http.Redirect(w, r, "/user-auth", http.StatusFound)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens, pool))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			data := views.HomePageData{}
			if user := middleware.GetAuthenticatedUser(r.Context()); user != nil {
				data.Name = user.Name
				data.Image = utils.OrZero(user.Image)
			}
			if err := views.HomePage(w, data); err != nil {
				httputil.InternalServerError(w, "Failed to render home page", err)
			}
		})
	})

	return r
}
