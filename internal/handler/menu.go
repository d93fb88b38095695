package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sabor-fitness/api/internal/catalog"
)

// MenuLoader fetches the menu from the remote catalog.
// Satisfied by *catalog.Loader; narrow interface for testability.
type MenuLoader interface {
	Load(ctx context.Context) ([]catalog.Item, error)
}

// MenuHandler proxies the external menu catalog to the storefront.
type MenuHandler struct {
	loader MenuLoader
}

func NewMenuHandler(loader MenuLoader) *MenuHandler {
	return &MenuHandler{loader: loader}
}

func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
}

type menuItemResponse struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
	Rating      float64  `json:"rating"`
	Featured    bool     `json:"featured,omitempty"`
}

type menuResponse struct {
	Items []menuItemResponse `json:"items"`
}

// Get handles GET /menu. Catalog failures surface as 502 with the
// user-facing message; the client owns loading/error presentation.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	items, err := h.loader.Load(r.Context())
	if err != nil {
		var le *catalog.LoadError
		if errors.As(err, &le) && le.Err != nil {
			log.Printf("ERROR: load menu: %v", le.Err)
		} else {
			log.Printf("ERROR: load menu: %v", err)
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	resp := menuResponse{Items: make([]menuItemResponse, len(items))}
	for i, it := range items {
		resp.Items[i] = menuItemResponse{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price.StringFixed(2),
			Image:       it.Image,
			Tags:        it.Tags,
			Rating:      it.Rating,
			Featured:    it.Featured,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
