package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bytestream/account-service/internal/adapters/http/dto"
	"github.com/bytestream/account-service/internal/app"
	"github.com/bytestream/account-service/internal/domain"
)

// Operation and argument names that prefix constraint violation paths.
const (
	opCreateAccount    = "createAccount"
	opUpdateAccount    = "updateAccount"
	paramCreateRequest = "createRequest"
	paramUpdateRequest = "accountUpdateRequest"
)

// AccountService is the account lifecycle as seen by the transport.
type AccountService interface {
	Get(ctx context.Context, id int64) (*domain.Account, error)
	Create(ctx context.Context, in app.CreateAccountInput) (*domain.Account, error)
	Update(ctx context.Context, in app.UpdateAccountInput) (*domain.Account, error)
}

// ErrorResponder writes a failure as an HTTP response.
type ErrorResponder interface {
	RespondWithError(c *gin.Context, err error)
}

// AccountHandler handles the /account resource.
type AccountHandler struct {
	service AccountService
	errors  ErrorResponder
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(service AccountService, errors ErrorResponder) *AccountHandler {
	return &AccountHandler{
		service: service,
		errors:  errors,
	}
}

// GetAccount handles GET /account/:id
//
// @Summary Get an account
// @Tags Account
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /account/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, err := dto.PathID(c, "id")
	if err != nil {
		h.errors.RespondWithError(c, err)
		return
	}

	account, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.errors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAccountResponse(account))
}

// CreateAccount handles POST /account
//
// @Summary Create an account
// @Tags Account
// @Accept json
// @Produce json
// @Param createRequest body dto.AccountCreateRequest true "Account"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /account [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req dto.AccountCreateRequest
	if err := dto.BindAndValidate(c, opCreateAccount, paramCreateRequest, &req); err != nil {
		h.errors.RespondWithError(c, err)
		return
	}

	account, err := h.service.Create(c.Request.Context(), app.CreateAccountInput{
		AccountFields: app.AccountFields{
			ConsumerID:    req.ConsumerID,
			ProductID:     req.ProductID,
			Name:          req.Name,
			DepositAcct:   req.DepositAcct,
			CollectedDate: req.CollectedDate,
			Denied:        req.Denied,
		},
	})
	if err != nil {
		h.errors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAccountResponse(account))
}

// UpdateAccount handles PUT /account
//
// @Summary Overwrite an account
// @Tags Account
// @Accept json
// @Produce json
// @Param accountUpdateRequest body dto.AccountUpdateRequest true "Account"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /account [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var req dto.AccountUpdateRequest
	if err := dto.BindAndValidate(c, opUpdateAccount, paramUpdateRequest, &req); err != nil {
		h.errors.RespondWithError(c, err)
		return
	}

	account, err := h.service.Update(c.Request.Context(), app.UpdateAccountInput{
		ID: *req.ID,
		AccountFields: app.AccountFields{
			ConsumerID:    req.ConsumerID,
			ProductID:     req.ProductID,
			Name:          req.Name,
			DepositAcct:   req.DepositAcct,
			CollectedDate: req.CollectedDate,
			Denied:        req.Denied,
		},
	})
	if err != nil {
		h.errors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAccountResponse(account))
}

// RegisterAccountRoutes registers the account routes on the given router group.
func (h *AccountHandler) RegisterAccountRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/account")
	accounts.GET("/:id", h.GetAccount)
	accounts.POST("", h.CreateAccount)
	accounts.PUT("", h.UpdateAccount)
}
