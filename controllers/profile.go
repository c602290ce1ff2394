// controllers/profile.go
package controllers

import (
	"net/http"

	"atelier-backend/services"
	"atelier-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateCompanyProfileInput struct {
	Name         string `json:"name" binding:"required"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	Postcode     string `json:"postcode"`
	City         string `json:"city"`
	Phone        string `json:"phone"`
	Email        string `json:"email" binding:"omitempty,email"`
}

type CompanyProfileController struct {
	Profiles *services.CompanyProfileCache
}

func (pc *CompanyProfileController) GetProfile(c *gin.Context) {
	profile, err := pc.Profiles.Get(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (pc *CompanyProfileController) UpdateProfile(c *gin.Context) {
	var input UpdateCompanyProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate phone format
	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	profile, err := pc.Profiles.Get(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	profile.Name = input.Name
	profile.AddressLine1 = input.AddressLine1
	profile.AddressLine2 = input.AddressLine2
	profile.Postcode = input.Postcode
	profile.City = input.City
	profile.Phone = input.Phone
	profile.Email = input.Email

	if err := pc.Profiles.Update(c.Request.Context(), profile); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

// InvalidateProfile drops the cached profile so the next read hits the database.
func (pc *CompanyProfileController) InvalidateProfile(c *gin.Context) {
	pc.Profiles.Invalidate()
	c.Status(http.StatusNoContent)
}
