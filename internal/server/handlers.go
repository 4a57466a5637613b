package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/electrolight/internal/metrics"
	"github.com/hyperjump/electrolight/internal/models"
	"github.com/hyperjump/electrolight/internal/search"
)

const (
	msgProductNotFound   = "Product not found"
	msgAccessoryNotFound = "Accessory not found"
	msgCategoryNotFound  = "Category not found"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		s.handleError(w, r, err, "")
		return
	}
	products, err := s.engine.ListProducts(r.Context(), filter)
	if err != nil {
		s.handleError(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// parseProductFilter reads category, brand, featured, inStock and sort query parameters.
func parseProductFilter(r *http.Request) (*search.ProductFilter, error) {
	q := r.URL.Query()
	sortOrder, err := search.ParseSortOrder(q.Get("sort"))
	if err != nil {
		return nil, err
	}
	filter := &search.ProductFilter{
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
		Sort:     sortOrder,
	}
	if filter.Featured, err = parseOptionalBool(q.Get("featured"), "featured"); err != nil {
		return nil, err
	}
	if filter.InStock, err = parseOptionalBool(q.Get("inStock"), "inStock"); err != nil {
		return nil, err
	}
	return filter, nil
}

func parseOptionalBool(raw, name string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, validationError("invalid " + name + " value")
	}
	return &b, nil
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.storage.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err, msgProductNotFound)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (s *Server) handleSimilarProducts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	products, err := s.engine.SimilarProducts(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err, msgProductNotFound)
		return
	}
	metrics.SimilarResults.Observe(float64(len(products)))
	respondJSON(w, http.StatusOK, products)
}

func (s *Server) handleProductAccessories(w http.ResponseWriter, r *http.Request) {
	accessories, err := s.engine.ProductAccessories(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err, msgProductNotFound)
		return
	}
	respondJSON(w, http.StatusOK, accessories)
}

func (s *Server) handleListAccessories(w http.ResponseWriter, r *http.Request) {
	accessories, err := s.engine.CompatibleAccessories(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.handleError(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, accessories)
}

func (s *Server) handleGetAccessory(w http.ResponseWriter, r *http.Request) {
	accessory, err := s.storage.GetAccessory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err, msgAccessoryNotFound)
		return
	}
	respondJSON(w, http.StatusOK, accessory)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.engine.CategoriesWithCounts(r.Context())
	if err != nil {
		s.handleError(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category, err := s.storage.GetCategory(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		s.handleError(w, r, err, msgCategoryNotFound)
		return
	}
	products, err := s.engine.ListProducts(ctx, &search.ProductFilter{Category: category.Slug})
	if err != nil {
		s.handleError(w, r, err, "")
		return
	}
	category.ProductCount = len(products)
	respondJSON(w, http.StatusOK, category)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	s.logger.Debug("search request", zap.String("q", q))
	response, err := s.engine.Search(r.Context(), q)
	if err != nil {
		s.handleError(w, r, err, "")
		return
	}
	metrics.SearchResultsTotal.WithLabelValues("product").Add(float64(len(response.Products)))
	metrics.SearchResultsTotal.WithLabelValues("accessory").Add(float64(len(response.Accessories)))
	respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var msg models.ContactMessage
	if !decodeJSON(w, r, &msg) {
		return
	}
	msg.ID = ""
	if err := msg.Validate(); err != nil {
		s.handleError(w, r, err, "")
		return
	}
	if err := s.storage.CreateContactMessage(r.Context(), &msg); err != nil {
		s.handleError(w, r, err, "")
		return
	}
	s.logger.Info("contact message received", zap.String("id", msg.ID), zap.String("email", msg.Email))
	respondJSON(w, http.StatusCreated, msg)
}
