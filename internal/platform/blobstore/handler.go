package blobstore

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler provides the presign endpoint plus the signed blob PUT/DELETE
// endpoints the presigned URLs point at.
type Handler struct {
	store  BlobStore
	signer *Signer
}

func NewHandler(store BlobStore, signer *Signer) *Handler {
	return &Handler{store: store, signer: signer}
}

// RegisterRoutes mounts the authenticated presign/download routes on api and
// the signature-verified blob routes on root (they carry their own auth in
// the query string).
func (h *Handler) RegisterRoutes(api *echo.Group, root *echo.Echo) {
	api.POST("/documents/presign", h.handlePresign)
	api.GET("/documents/file", h.handleDownload)

	root.PUT("/blobs/*", h.handlePut)
	root.DELETE("/blobs/*", h.handleDelete)
}

type presignRequest struct {
	FilePath string `json:"file_path"`
	Method   string `json:"method"`
}

type presignResponse struct {
	URL string `json:"url"`
}

func (h *Handler) handlePresign(c echo.Context) error {
	var req presignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.FilePath == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "file_path is required")
	}

	url, err := h.signer.PresignURL(c.Request().Context(), req.FilePath, req.Method)
	if err != nil {
		if errors.Is(err, ErrMethodNotAllowed) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, presignResponse{URL: url})
}

func (h *Handler) verify(c echo.Context) (string, error) {
	path := c.Param("*")
	err := h.signer.Verify(c.Request().Method, path, c.QueryParam("expires"), c.QueryParam("sig"))
	switch {
	case errors.Is(err, ErrSignatureExpired):
		return "", echo.NewHTTPError(http.StatusForbidden, "presigned url has expired")
	case err != nil:
		return "", echo.NewHTTPError(http.StatusForbidden, "invalid signature")
	}
	return path, nil
}

func (h *Handler) handlePut(c echo.Context) error {
	path, err := h.verify(c)
	if err != nil {
		return err
	}

	contentType := c.Request().Header.Get("Content-Type")
	err = h.store.Put(c.Request().Context(), path, contentType, c.Request().Body)
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, ErrInvalidContentType):
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Uploaders assert 200, not 201.
	return c.JSON(http.StatusOK, map[string]string{"path": path})
}

func (h *Handler) handleDelete(c echo.Context) error {
	path, err := h.verify(c)
	if err != nil {
		return err
	}

	if err := h.store.Delete(c.Request().Context(), path); err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) handleDownload(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path is required")
	}

	rc, err := h.store.Get(c.Request().Context(), path)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer rc.Close()

	return c.Stream(http.StatusOK, AllowedContentType, rc)
}
