package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/priyanshuspawar/Karwaan-Backend/internal/domain"
	"github.com/priyanshuspawar/Karwaan-Backend/internal/usecase"
)

type AddressHandler struct {
	useCase usecase.AddressUseCase
	log     *logrus.Logger
}

func NewAddressHandler(uc usecase.AddressUseCase, logger *logrus.Logger) *AddressHandler {
	return &AddressHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *AddressHandler) RegisterRoutes(router gin.IRouter) {
	addresses := router.Group("/addresses")
	{
		addresses.POST("", h.AddAddress)
		addresses.GET("", h.GetAddresses)
		addresses.PATCH("/:id", h.UpdateAddress)
		addresses.DELETE("/:id", h.DeleteAddress)
	}
}

type addressRequest struct {
	HouseNumber  string `json:"house_number"`
	BuildingName string `json:"building_name"`
	Street       string `json:"street"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	Pin          string `json:"pin"`
}

func (h *AddressHandler) AddAddress(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind JSON for add address (user %d): %v", userID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	address := &domain.Address{
		UserID:       userID,
		HouseNumber:  req.HouseNumber,
		BuildingName: req.BuildingName,
		Street:       req.Street,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
		Pin:          req.Pin,
	}
	created, err := h.useCase.AddAddress(c.Request.Context(), address)
	if err != nil {
		h.log.Warnf("Handler: Failed to save address for user %d: %v", userID, err)
		respondWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Address saved", created)
}

func (h *AddressHandler) GetAddresses(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	addresses, err := h.useCase.GetAddresses(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorf("Handler: Failed to get addresses for user %d: %v", userID, err)
		respondWithError(c, err)
		return
	}
	if addresses == nil {
		addresses = []domain.Address{}
	}

	SuccessResponse(c, http.StatusOK, "Success", addresses)
}

func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	addressID, err := strconv.Atoi(c.Param("id"))
	if err != nil || addressID <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid address ID format")
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind JSON for update address %d: %v", addressID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	address := &domain.Address{
		ID:           addressID,
		HouseNumber:  req.HouseNumber,
		BuildingName: req.BuildingName,
		Street:       req.Street,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
		Pin:          req.Pin,
	}
	updated, err := h.useCase.UpdateAddress(c.Request.Context(), userID, address)
	if err != nil {
		h.log.Warnf("Handler: Failed to update address %d for user %d: %v", addressID, userID, err)
		respondWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Address updated", updated)
}

func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	addressID, err := strconv.Atoi(c.Param("id"))
	if err != nil || addressID <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid address ID format")
		return
	}

	if err := h.useCase.DeleteAddress(c.Request.Context(), userID, addressID); err != nil {
		h.log.Warnf("Handler: Failed to delete address %d for user %d: %v", addressID, userID, err)
		respondWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Address deleted successfully", nil)
}
