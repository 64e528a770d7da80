package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/sagarc03/foldery"
)

// DefaultIdentityHeader is the request header carrying the caller's user id.
const DefaultIdentityHeader = "auth"

type Service interface {
	Create(ctx context.Context, req foldery.CreateFolder) (foldery.Folder, error)
	Get(ctx context.Context, id uuid.UUID, owner string) (foldery.Folder, error)
	List(ctx context.Context, owner string) ([]foldery.Folder, error)
	Update(ctx context.Context, id uuid.UUID, owner string, patch foldery.FolderPatch) (foldery.Folder, error)
	Delete(ctx context.Context, id uuid.UUID, owner string) error
}

// CORSConfig controls the CORS headers sent with every response.
//
// By default the fixed envelope below is written on every response. With
// Negotiate set, origins are matched per request by go-chi/cors instead.
type CORSConfig struct {
	Negotiate        bool     `mapstructure:"negotiate"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" validate:"min=0"`
}

type HandlerConfig struct {
	IdentityHeader string
	CORS           CORSConfig
}

func (c CORSConfig) isZero() bool {
	return !c.Negotiate && !c.AllowCredentials && c.MaxAge == 0 &&
		len(c.AllowedOrigins) == 0 && len(c.AllowedMethods) == 0 && len(c.AllowedHeaders) == 0
}

// negotiatedMethods returns the configured methods plus GET, which the
// envelope leaves out but list and get responses still need.
func (c CORSConfig) negotiatedMethods() []string {
	methods := make([]string, 0, len(c.AllowedMethods)+1)
	for _, m := range c.AllowedMethods {
		if strings.EqualFold(m, http.MethodGet) {
			return c.AllowedMethods
		}
		methods = append(methods, m)
	}
	return append(methods, http.MethodGet)
}

// DefaultCORSConfig returns the envelope written when nothing is configured.
func DefaultCORSConfig(identityHeader string) CORSConfig {
	if identityHeader == "" {
		identityHeader = DefaultIdentityHeader
	}
	return CORSConfig{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodOptions, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", identityHeader},
		AllowCredentials: true,
	}
}

// Handler provides HTTP handlers for folder operations.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	cfg := *config
	if cfg.IdentityHeader == "" {
		cfg.IdentityHeader = DefaultIdentityHeader
	}

	defaults := DefaultCORSConfig(cfg.IdentityHeader)
	if cfg.CORS.isZero() {
		cfg.CORS = defaults
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = defaults.AllowedOrigins
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = defaults.AllowedMethods
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = defaults.AllowedHeaders
	}

	return &Handler{
		config:  cfg,
		service: service,
	}
}

// Router returns an http.Handler serving the /folders resource.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger)

	if h.config.CORS.Negotiate {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.negotiatedMethods(),
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	} else {
		r.Use(EnvelopeHeaders(h.config.CORS))
	}

	r.Use(Preflight)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "not_found", "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method Not Allowed")
	})

	r.Route("/folders", func(r chi.Router) {
		r.Use(RequireIdentity(h.config.IdentityHeader))

		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{folderID}", h.handleGet)
		r.Put("/{folderID}", h.handleUpdate)
		r.Delete("/{folderID}", h.handleDelete)
	})

	return r
}

type createRequest struct {
	Name   string `json:"folder_name"`
	Parent string `json:"folder_parent"`
	Type   string `json:"type"`
}

type updateRequest struct {
	Name          *string                 `json:"folder_name"`
	Type          *string                 `json:"type"`
	RequiredFiles *[]foldery.RequiredFile `json:"required_files"`
	SubFolders    *[]uuid.UUID            `json:"sub_folders"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &foldery.Error{Kind: foldery.KindInvalidPayload, Op: "decode request", Message: "Invalid payload", Err: err}
	}
	return nil
}

// parseFolderID reports a malformed id the same way as a missing folder.
func parseFolderID(op, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, foldery.E(foldery.KindNotFound, op, fmt.Sprintf("Folder with ID %s not found.", raw))
	}
	return id, nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body createRequest
	if err := decode(r, &body); err != nil {
		HandleError(w, err)
		return
	}

	req := foldery.CreateFolder{
		Name:  body.Name,
		Owner: OwnerFromContext(r.Context()),
		Type:  body.Type,
	}

	if parent := strings.TrimSpace(body.Parent); parent != "" {
		id, err := parseFolderID("create folder", parent)
		if err != nil {
			HandleError(w, err)
			return
		}
		req.ParentID = &id
	}

	folder, err := h.service.Create(r.Context(), req)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, folder)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	folders, err := h.service.List(r.Context(), OwnerFromContext(r.Context()))
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, folders)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseFolderID("get folder", chi.URLParam(r, "folderID"))
	if err != nil {
		HandleError(w, err)
		return
	}

	folder, err := h.service.Get(r.Context(), id, OwnerFromContext(r.Context()))
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, folder)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseFolderID("update folder", chi.URLParam(r, "folderID"))
	if err != nil {
		HandleError(w, err)
		return
	}

	var body updateRequest
	if err := decode(r, &body); err != nil {
		HandleError(w, err)
		return
	}

	patch := foldery.FolderPatch{
		Name:          body.Name,
		Type:          body.Type,
		RequiredFiles: body.RequiredFiles,
		SubFolders:    body.SubFolders,
	}

	folder, err := h.service.Update(r.Context(), id, OwnerFromContext(r.Context()), patch)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, folder)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseFolderID("delete folder", chi.URLParam(r, "folderID"))
	if err != nil {
		HandleError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, OwnerFromContext(r.Context())); err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, messageResponse{Message: "Folder deleted successfully"})
}
