package rest

import (
	"context"
	"net/http"
	"steezestore/pkg/logger"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

// ModelImageLister pages through hosted lookbook images.
type ModelImageLister interface {
	List(ctx context.Context, prefix, cursor string) ([]string, string, error)
}

type LookbookHandler struct {
	imageLister   ModelImageLister
	defaultPrefix string
	timeout       time.Duration
}

func NewLookbookHandler(imageLister ModelImageLister, defaultPrefix string) *LookbookHandler {
	return &LookbookHandler{
		imageLister:   imageLister,
		defaultPrefix: defaultPrefix,
		timeout:       10 * time.Second,
	}
}

// ListModels serves the public lookbook: model shots hosted under a dedicated
// folder, paged by the image host's cursor. The response is marked
// uncacheable so the storefront always sees freshly uploaded shots.
func (h *LookbookHandler) ListModels(c echo.Context) error {
	prefix := c.QueryParam("prefix")
	if prefix == "" {
		prefix = h.defaultPrefix
	}
	cursor := c.QueryParam("next")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	urls, next, err := h.imageLister.List(ctx, prefix, cursor)
	if err != nil {
		logger.Error("Failed to list lookbook images", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to list images"})
	}

	c.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Response().Header().Set("Pragma", "no-cache")
	c.Response().Header().Set("Expires", "0")

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"urls": urls,
		"next": next,
	}))
}
