package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rolemanagement/usermanager/internal/core/validation"
)

// ValidateHandler runs the same field rules the mutation service uses,
// without touching the store, so form clients can show errors as the user types.
type ValidateHandler struct{}

func NewValidateHandler() *ValidateHandler {
	return &ValidateHandler{}
}

// Create handles POST /v1/validate/create.
//
// @Summary      Dry-run create validation
// @Tags         validation
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "Candidate user"
// @Success      200   {object}  validationResponse
// @Router       /v1/validate/create [post]
func (h *ValidateHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.JSON(http.StatusOK, toValidationResponse(validation.ValidateCreate(toCreateInput(req))))
}

// Update handles POST /v1/validate/update.
//
// @Summary      Dry-run update validation
// @Tags         validation
// @Accept       json
// @Produce      json
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  validationResponse
// @Router       /v1/validate/update [post]
func (h *ValidateHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.JSON(http.StatusOK, toValidationResponse(validation.ValidateUpdate(toUpdateInput(req))))
}
