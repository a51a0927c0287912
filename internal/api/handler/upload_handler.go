package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rolemanagement/usermanager/internal/core/domain"
	"github.com/rolemanagement/usermanager/internal/core/ports"
	"github.com/rolemanagement/usermanager/internal/core/validation"
)

const uploadField = "file"

// UploadHandler stores images and serves them back.
type UploadHandler struct {
	service ports.UserService
}

func NewUploadHandler(service ports.UserService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload handles POST /v1/uploads.
//
// @Summary      Upload an image
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Image (JPEG, PNG, GIF or WebP, max 5MB)"
// @Success      201   {object}  uploadResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/uploads [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	in, err := readUpload(c)
	if err != nil {
		return err
	}

	url, err := h.service.Upload(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, uploadResponse{URL: url})
}

// Serve handles GET /uploads/:key.
//
// @Summary      Download an uploaded image
// @Tags         uploads
// @Produce      image/png,image/jpeg,image/gif,image/webp
// @Param        key  path  string  true  "Storage key"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /uploads/{key} [get]
func (h *UploadHandler) Serve(c echo.Context) error {
	file, err := h.service.OpenFile(c.Request().Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "file not found")
		}
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentLength, strconv.FormatInt(int64(len(file.Data)), 10))
	res.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	res.Header().Set("X-Content-Type-Options", "nosniff")
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}

// readUpload pulls the multipart file out of the request. At most one byte
// past the size limit is read, which is enough to reject oversized files.
func readUpload(c echo.Context) (ports.UploadInput, error) {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		return ports.UploadInput{}, echo.NewHTTPError(http.StatusBadRequest, "missing file field \""+uploadField+"\"")
	}

	f, err := fh.Open()
	if err != nil {
		return ports.UploadInput{}, echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, validation.MaxImageSize+1))
	if err != nil {
		return ports.UploadInput{}, echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}

	size := fh.Size
	if n := int64(len(data)); n > size {
		size = n
	}
	return ports.UploadInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        size,
		Data:        data,
	}, nil
}
