package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kabb-server/internal/domain"
	"kabb-server/internal/service"
)

type AuthHandler struct {
	users service.UserService
}

func NewAuthHandler(users service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type signUpForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=8"`
	Name     string `form:"name" binding:"required"`
	Phone    string `form:"phone" binding:"required"`

	HospitalName    string `form:"hospitalName" binding:"required"`
	HospitalAddress string `form:"hospitalAddress" binding:"required"`
	HospitalPhone   string `form:"hospitalPhone" binding:"required"`
	BusinessNumber  string `form:"businessNumber" binding:"required"`

	PrivacyPolicyAgreed  bool `form:"privacyPolicyAgreed"`
	TermsOfServiceAgreed bool `form:"termsOfServiceAgreed"`
	SensitiveInfoAgreed  bool `form:"sensitiveInfoAgreed"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var form signUpForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{Success: false, Message: err.Error()})
		return
	}

	fileHeader, err := c.FormFile("licenseFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{Success: false, Message: "license file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{Success: false, Message: "could not read license file"})
		return
	}
	defer file.Close()

	in := service.SignUpInput{
		Email:    form.Email,
		Password: form.Password,
		Name:     form.Name,
		Phone:    form.Phone,

		HospitalName:    form.HospitalName,
		HospitalAddress: form.HospitalAddress,
		HospitalPhone:   form.HospitalPhone,
		BusinessNumber:  form.BusinessNumber,

		LicenseFileName:    fileHeader.Filename,
		LicenseContentType: fileHeader.Header.Get("Content-Type"),
		LicenseFile:        file,

		PrivacyPolicyAgreed:  form.PrivacyPolicyAgreed,
		TermsOfServiceAgreed: form.TermsOfServiceAgreed,
		SensitiveInfoAgreed:  form.SensitiveInfoAgreed,
	}

	user, err := h.users.SignUp(c.Request.Context(), in, metaFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "sign up completed", gin.H{
		"userId":         user.ID,
		"email":          user.Email,
		"approvalStatus": user.ApprovalStatus,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{Success: false, Message: err.Error()})
		return
	}

	out, err := h.users.Login(c.Request.Context(), req.Email, req.Password, metaFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "login succeeded", gin.H{
		"accessToken":    out.AccessToken,
		"userId":         out.UserID,
		"name":           out.Name,
		"role":           out.Role,
		"approvalStatus": out.ApprovalStatus,
	})
}

func metaFrom(c *gin.Context) domain.RequestMeta {
	return domain.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
