package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/electrolight/internal/auth"
	"github.com/hyperjump/electrolight/internal/importer"
	"github.com/hyperjump/electrolight/internal/models"
	"github.com/hyperjump/electrolight/internal/storage"
)

type contextKey string

const adminUserKey contextKey = "admin_user"

// adminFromContext returns the admin set by requireAdmin.
func adminFromContext(ctx context.Context) *models.AdminUser {
	user, _ := ctx.Value(adminUserKey).(*models.AdminUser)
	return user
}

// requireAdmin rejects requests without a valid session cookie.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if c, err := r.Cookie(s.auth.CookieName()); err == nil {
			token = c.Value
		}
		user, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				respondError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			s.handleError(w, r, err, "")
			return
		}
		ctx := context.WithValue(r.Context(), adminUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	session, user, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.handleError(w, r, err, "")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.auth.CookieName(),
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   s.config.Auth.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(s.auth.CookieName()); err == nil {
		if err := s.auth.Logout(r.Context(), c.Value); err != nil {
			s.handleError(w, r, err, "")
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.auth.CookieName(),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.Auth.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, adminFromContext(r.Context()))
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := p.Validate(); err != nil {
		s.handleError(w, r, err, "")
		return
	}
	if err := s.storage.CreateProduct(r.Context(), &p); err != nil {
		s.handleError(w, r, err, "")
		return
	}
	s.logger.Info("product created", zap.String("id", p.ID), zap.String("admin", adminFromContext(r.Context()).Username))
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p models.Product
	if !decodeJSON(w, r, &p) {
		return
	}
	p.ID = chi.URLParam(r, "id")
	if err := p.Validate(); err != nil {
		s.handleError(w, r, err, "")
		return
	}
	if err := s.storage.UpdateProduct(ctx, &p); err != nil {
		s.handleError(w, r, err, msgProductNotFound)
		return
	}
	updated, err := s.storage.GetProduct(ctx, p.ID)
	if err != nil {
		s.handleError(w, r, err, msgProductNotFound)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.storage.DeleteProduct(r.Context(), id); err != nil {
		s.handleError(w, r, err, msgProductNotFound)
		return
	}
	s.logger.Info("product deleted", zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateAccessory(w http.ResponseWriter, r *http.Request) {
	var a models.Accessory
	if !decodeJSON(w, r, &a) {
		return
	}
	if err := a.Validate(); err != nil {
		s.handleError(w, r, err, "")
		return
	}
	if err := s.storage.CreateAccessory(r.Context(), &a); err != nil {
		s.handleError(w, r, err, "")
		return
	}
	s.logger.Info("accessory created", zap.String("id", a.ID))
	respondJSON(w, http.StatusCreated, a)
}

func (s *Server) handleUpdateAccessory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var a models.Accessory
	if !decodeJSON(w, r, &a) {
		return
	}
	a.ID = chi.URLParam(r, "id")
	if err := a.Validate(); err != nil {
		s.handleError(w, r, err, "")
		return
	}
	if err := s.storage.UpdateAccessory(ctx, &a); err != nil {
		s.handleError(w, r, err, msgAccessoryNotFound)
		return
	}
	updated, err := s.storage.GetAccessory(ctx, a.ID)
	if err != nil {
		s.handleError(w, r, err, msgAccessoryNotFound)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAccessory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.storage.DeleteAccessory(r.Context(), id); err != nil {
		s.handleError(w, r, err, msgAccessoryNotFound)
		return
	}
	s.logger.Info("accessory deleted", zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var c models.Category
	if !decodeJSON(w, r, &c) {
		return
	}
	if err := c.Validate(); err != nil {
		s.handleError(w, r, err, "")
		return
	}
	if err := s.storage.CreateCategory(r.Context(), &c); err != nil {
		s.handleError(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var c models.Category
	if !decodeJSON(w, r, &c) {
		return
	}
	c.Slug = chi.URLParam(r, "slug")
	if err := c.Validate(); err != nil {
		s.handleError(w, r, err, "")
		return
	}
	if err := s.storage.UpdateCategory(r.Context(), &c); err != nil {
		s.handleError(w, r, err, msgCategoryNotFound)
		return
	}
	updated, err := s.storage.GetCategory(r.Context(), c.Slug)
	if err != nil {
		s.handleError(w, r, err, msgCategoryNotFound)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.DeleteCategory(r.Context(), chi.URLParam(r, "slug")); err != nil {
		s.handleError(w, r, err, msgCategoryNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.config.Server.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	if !importer.Supported(ext) {
		s.handleError(w, r, validationError("unsupported file type "+ext), "")
		return
	}
	content, err := io.ReadAll(file)
	if err != nil {
		s.handleError(w, r, err, "")
		return
	}
	report, err := s.importer.ImportBytes(r.Context(), content, ext)
	if err != nil {
		s.handleError(w, r, err, "")
		return
	}
	s.logger.Info("catalog uploaded",
		zap.String("file", header.Filename),
		zap.Int("products", report.Products),
		zap.Int("accessories", report.Accessories),
		zap.Int("categories", report.Categories),
		zap.Int("skipped", report.Skipped),
	)
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleListContact(w http.ResponseWriter, r *http.Request) {
	messages, err := s.storage.ListContactMessages(r.Context())
	if err != nil {
		s.handleError(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

// statusResponse is returned by GET /api/admin/status.
type statusResponse struct {
	Products          int64  `json:"products"`
	Accessories       int64  `json:"accessories"`
	Categories        int    `json:"categories"`
	DatabasePath      string `json:"databasePath"`
	DatabaseSizeBytes int64  `json:"databaseSizeBytes"`
	ImportDirectory   string `json:"importDirectory,omitempty"`
	ImportWatch       bool   `json:"importWatch"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	products, err := s.storage.CountProducts(ctx)
	if err != nil {
		s.handleError(w, r, err, "")
		return
	}
	accessories, err := s.storage.CountAccessories(ctx)
	if err != nil {
		s.handleError(w, r, err, "")
		return
	}
	categories, err := s.storage.ListCategories(ctx)
	if err != nil {
		s.handleError(w, r, err, "")
		return
	}
	resp := statusResponse{
		Products:        products,
		Accessories:     accessories,
		Categories:      len(categories),
		DatabasePath:    s.config.Storage.DatabasePath,
		ImportDirectory: s.config.Import.Directory,
		ImportWatch:     s.config.Import.Watch,
	}
	if size, err := storage.DatabaseSize(s.config.Storage.DatabasePath); err == nil {
		resp.DatabaseSizeBytes = size
	} else {
		s.logger.Warn("status: database size failed", zap.Error(err))
	}
	respondJSON(w, http.StatusOK, resp)
}
