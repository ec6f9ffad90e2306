package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
	"github.com/Ghosted34/natours-nest/internal/core/ports"
)

type StaffHandler struct {
	staffService ports.StaffService
}

func NewStaffHandler(staffService ports.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

type createAdminRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	OTP       string `json:"otp" validate:"required,len=5"`
}

type createStaffRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Role       string `json:"role" validate:"required,oneof=admin lead_guide guide"`
	Department string `json:"department"`
}

// GenerateOTP creates a single-use elevation code and emails it.
//
// @Summary      Request an admin-bootstrap OTP
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Target email"
// @Success      200   {object}  messageResponse
// @Router       /staff/otp [post]
func (h *StaffHandler) GenerateOTP(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.staffService.GenerateOTP(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "otp sent"})
}

// CreateAdmin bootstraps an admin account from a valid OTP.
//
// @Summary      Create the admin account
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        body  body      createAdminRequest  true  "Admin details plus OTP"
// @Success      201   {object}  ports.StaffResult
// @Failure      403   {object}  map[string]string
// @Router       /staff/admin [post]
func (h *StaffHandler) CreateAdmin(c echo.Context) error {
	var req createAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.staffService.CreateAdmin(c.Request().Context(), ports.CreateAdminInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		OTP:       req.OTP,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

// CreateStaff creates a staff member under the calling admin.
//
// @Summary      Create a staff member
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        body  body      createStaffRequest  true  "Staff details"
// @Success      201   {object}  ports.StaffResult
// @Failure      403   {object}  map[string]string
// @Security     BearerAuth
// @Router       /staff [post]
func (h *StaffHandler) CreateStaff(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createStaffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	result, err := h.staffService.CreateStaff(c.Request().Context(), ports.CreateStaffInput{
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       role,
		Department: req.Department,
	}, principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

type updateStaffRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Department string `json:"department"`
	Role       string `json:"role" validate:"omitempty,oneof=admin lead_guide guide"`
}

// ListStaff returns every staff account.
//
// @Summary      List staff members
// @Tags         staff
// @Produce      json
// @Success      200  {array}  domain.Staff
// @Security     BearerAuth
// @Router       /staff [get]
func (h *StaffHandler) ListStaff(c echo.Context) error {
	staff, err := h.staffService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, staff)
}

// GetStaff returns one staff account by ID.
//
// @Summary      Get a staff member
// @Tags         staff
// @Produce      json
// @Param        id  path  string  true  "Staff ID"
// @Success      200  {object}  domain.Staff
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /staff/{id} [get]
func (h *StaffHandler) GetStaff(c echo.Context) error {
	st, err := h.staffService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

// UpdateStaff patches a staff account.
//
// @Summary      Update a staff member
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "Staff ID"
// @Param        body  body  updateStaffRequest  true  "Fields to update"
// @Success      200  {object}  domain.Staff
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /staff/{id} [patch]
func (h *StaffHandler) UpdateStaff(c echo.Context) error {
	var req updateStaffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := ports.StaffPatch{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Department: req.Department,
	}
	if req.Role != "" {
		role, ok := domain.ParseRole(req.Role)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
		}
		patch.Role = role
	}

	st, err := h.staffService.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

// DeactivateStaff clears the active flag; the account stops authenticating on
// the next request.
//
// @Summary      Deactivate a staff member
// @Tags         staff
// @Produce      json
// @Param        id  path  string  true  "Staff ID"
// @Success      200  {object}  domain.Staff
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /staff/deactivate/{id} [patch]
func (h *StaffHandler) DeactivateStaff(c echo.Context) error {
	st, err := h.staffService.Deactivate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

// DeleteStaff removes a staff account.
//
// @Summary      Delete a staff member
// @Tags         staff
// @Param        id  path  string  true  "Staff ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /staff/{id} [delete]
func (h *StaffHandler) DeleteStaff(c echo.Context) error {
	if err := h.staffService.DeleteStaff(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
