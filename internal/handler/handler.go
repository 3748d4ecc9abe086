package handler

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/redis/go-redis/v9"
	"github.com/unrolled/secure"

	"github.com/josphatwangui51-hash/survey-market/internal/config"
	"github.com/josphatwangui51-hash/survey-market/internal/domain"
	"github.com/josphatwangui51-hash/survey-market/internal/observability"
	"github.com/josphatwangui51-hash/survey-market/internal/reward"
	"github.com/josphatwangui51-hash/survey-market/internal/survey"
	"github.com/josphatwangui51-hash/survey-market/internal/utils"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  Repository
	translator  ut.Translator
	mailChannel MailPublisher
	redisClient *redis.Client
	catalog     *survey.Catalog
	engine      *reward.Engine
	metrics     *observability.Metrics
	hub         *Hub

	Mux *chi.Mux
}

func NewHandler(
	cfg *config.Config,
	repo Repository,
	mailCh MailPublisher,
	rdb *redis.Client,
	catalog *survey.Catalog,
	engine *reward.Engine,
	metrics *observability.Metrics,
) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// report json field names in validation messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	if err := registerPhoneValidation(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		catalog:     catalog,
		engine:      engine,
		metrics:     metrics,
		hub:         NewHub(metrics.ChatConnections),

		Mux: chi.NewRouter(),
	}, nil
}

func registerPhoneValidation(validate *validator.Validate, trans ut.Translator) error {
	if err := validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return utils.IsValidPhone(fl.Field().String())
	}); err != nil {
		return err
	}

	return validate.RegisterTranslation("phone", trans, func(ut ut.Translator) error {
		return ut.Add("phone", "{0} must be a valid Kenyan phone number", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("phone", fe.Field())
		return t
	})
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(h.metrics.Middleware)
	h.Mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           h.config.CORS.MaxAge,
	}))
	h.Mux.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !h.config.IsProduction(),
	}).Handler)

	h.Mux.Get("/healthz", h.Healthz)
	h.Mux.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Use(httprate.Limit(
			h.config.RateLimit.AuthRequests,
			time.Duration(h.config.RateLimit.AuthWindow)*time.Second,
			httprate.WithKeyFuncs(httprate.KeyByIP),
		))
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// everything below needs a logged-in account
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.myInfo)

		r.Route("/my-info", func(r chi.Router) {
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.With(h.preventBlocked).Post("/activation", h.ActivateMyAccount)
			r.With(h.preventBlocked, h.requireActivated).Post("/premium", h.UpgradeMyPremium)
		})

		r.Route("/surveys", func(r chi.Router) {
			r.Get("/", h.GetAvailableSurveys)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.surveyInfo)
				r.Get("/", h.GetSurvey)
				r.With(h.preventBlocked, h.requireActivated).Post("/submission", h.SubmitSurvey)
			})
		})

		r.Route("/withdrawals", func(r chi.Router) {
			r.Post("/quote", h.QuoteWithdrawal)
			r.With(h.preventBlocked, h.requireActivated).Post("/", h.RequestWithdrawal)
			r.Get("/mine", h.GetMyWithdrawals)
			r.With(h.requireCapability(domain.PermApproveWithdrawals)).Get("/", h.GetAllWithdrawals)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.requireCapability(domain.PermApproveWithdrawals))
				r.Use(h.withdrawalInfo)
				r.Post("/approve", h.ApproveWithdrawal)
				r.Post("/reject", h.RejectWithdrawal)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.requireStaff)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateSuperAdmin).Patch("/", h.UpdateUser)
				r.With(h.preventOperateSuperAdmin).Patch("/balance", h.UpdateUserBalance)
				r.With(h.preventOperateSuperAdmin).Post("/block-toggle", h.ToggleUserBlock)
				r.With(h.preventOperateSuperAdmin, h.RequiredRole([]domain.Role{domain.RoleSuperAdmin})).Delete("/", h.DeleteUser)
			})
		})

		r.Route("/staff", func(r chi.Router) {
			r.Use(h.requireStaff)
			r.With(h.requireCapability(domain.PermManageStaff)).Get("/", h.GetAllStaff)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Use(h.preventOperateSuperAdmin)
				r.Put("/permissions/{permission}", h.TogglePermission)
				r.Patch("/role", h.UpdateRole)
			})
		})

		r.Route("/directives", func(r chi.Router) {
			r.Use(h.requireStaff)
			r.Get("/", h.GetMyDirectives)
			r.With(h.RequiredRole([]domain.Role{domain.RoleSuperAdmin})).Post("/", h.IssueDirective)
			r.With(h.RequiredRole([]domain.Role{domain.RoleSuperAdmin})).Delete("/{id}", h.RetractDirective)
		})

		r.Route("/staff-chat", func(r chi.Router) {
			r.Use(h.requireStaff)
			r.Get("/", h.GetStaffChat)
			r.Post("/", h.PostStaffMessage)
			r.Post("/advice", h.PostAdvice)
			r.Get("/ws", h.StaffChatSocket)
		})

		r.With(h.requireCapability(domain.PermViewAnalytics)).Get("/analytics", h.GetAnalytics)
	})
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "ok", nil)
}
