package v1

import (
	"net/http"
	"net/url"

	"github.com/bloomaccess/backend/internal/domain"
	"github.com/bloomaccess/backend/internal/service"
	"github.com/bloomaccess/backend/templates"

	"github.com/gin-gonic/gin"
)

const (
	verifiedPath = "/user/verified"

	MsgSignupPending = "Verification email sent"
	MsgMe            = "User found"
)

func (h *Handler) initUsersRoutes(api *gin.RouterGroup) {
	users := api.Group("/user")
	{
		users.POST("/signup", h.userSignUp)
		users.POST("/signin", h.userSignIn)
		users.POST("/resendVerificationLink", h.userResendVerificationLink)
		users.GET("/verify/:userId/:uniqueString", h.userVerify)
		users.GET("/verified", h.userVerified)
		users.GET("/me", h.userIdentityMiddleware, h.userMe)
	}
}

type userSignUpInput struct {
	Name        string `json:"name" example:"Jane Doe"`
	Email       string `json:"email" example:"jane@example.com"`
	Password    string `json:"password" example:"hunter22"`
	DateOfBirth string `json:"dateOfBirth" example:"2000-01-01"`
}

// @Summary User SignUp
// @Tags users-auth
// @Description Create an unverified account and mail a verification link
// @ModuleID userSignUp
// @Accept  json
// @Produce  json
// @Param input body userSignUpInput true "sign up info"
// @Success 200 {object} response "PENDING with {userId, email}, or FAILED with a message"
// @Failure 400 {object} response
// @Router /user/signup [post]
func (h *Handler) userSignUp(c *gin.Context) {
	var inp userSignUpInput
	if err := c.ShouldBindJSON(&inp); err != nil {
		badRequestResponse(c, err)
		return
	}

	pending, err := h.services.Users.Signup(c.Request.Context(), service.SignupInput{
		Name:        inp.Name,
		Email:       inp.Email,
		Password:    inp.Password,
		DateOfBirth: inp.DateOfBirth,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	newResponse(c, StatusPending, MsgSignupPending, pending)
}

type userSignInInput struct {
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"hunter22"`
}

// @Summary User SignIn
// @Tags users-auth
// @Description Check credentials. Unverified accounts may sign in.
// @ModuleID userSignIn
// @Accept  json
// @Produce  json
// @Param input body userSignInInput true "sign in info"
// @Success 200 {object} response "SUCCESS with [user] and an access token, or FAILED"
// @Failure 400 {object} response
// @Router /user/signin [post]
func (h *Handler) userSignIn(c *gin.Context) {
	var inp userSignInInput
	if err := c.ShouldBindJSON(&inp); err != nil {
		badRequestResponse(c, err)
		return
	}

	result, err := h.services.Users.Signin(c.Request.Context(), service.SigninInput{
		Email:    inp.Email,
		Password: inp.Password,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, response{
		Status:  StatusSuccess,
		Message: service.MsgSigninSuccessful,
		Data:    result.Users,
		Token:   result.AccessToken,
	})
}

type userResendInput struct {
	UserID string `json:"userId" example:"0190a0c4-7f5e-7c1a-9a52-3c1f1c2b9d10"`
	Email  string `json:"email" example:"jane@example.com"`
}

// @Summary Resend verification link
// @Tags users-auth
// @Description Replace outstanding verification links of a pending account with a new one
// @ModuleID userResendVerificationLink
// @Accept  json
// @Produce  json
// @Param input body userResendInput true "pending account"
// @Success 200 {object} response "PENDING with {userId, email}, or FAILED"
// @Failure 400 {object} response
// @Router /user/resendVerificationLink [post]
func (h *Handler) userResendVerificationLink(c *gin.Context) {
	var inp userResendInput
	if err := c.ShouldBindJSON(&inp); err != nil {
		badRequestResponse(c, err)
		return
	}

	pending, err := h.services.Verifications.Resend(c.Request.Context(), inp.UserID, inp.Email)
	if err != nil {
		errorResponse(c, err)
		return
	}

	newResponse(c, StatusPending, MsgSignupPending, pending)
}

type verifiedPage struct {
	Error   bool
	Message string
}

// @Summary Verify email
// @Tags users-auth
// @Description Consume a mailed verification link
// @ModuleID userVerify
// @Produce  html
// @Param userId path string true "user id"
// @Param uniqueString path string true "verification token"
// @Success 200 {string} string "confirmation page"
// @Success 302 {string} string "redirect to /user/verified with the error message"
// @Router /user/verify/{userId}/{uniqueString} [get]
func (h *Handler) userVerify(c *gin.Context) {
	err := h.services.Verifications.Consume(c.Request.Context(), c.Param("userId"), c.Param("uniqueString"))
	if err != nil {
		q := url.Values{}
		q.Set("error", "true")
		q.Set("message", service.Message(err))
		c.Redirect(http.StatusFound, verifiedPath+"?"+q.Encode())
		return
	}

	c.HTML(http.StatusOK, templates.VerifiedPage, verifiedPage{})
}

// @Summary Verification result page
// @Tags users-auth
// @ModuleID userVerified
// @Produce  html
// @Param error query bool false "verification failed"
// @Param message query string false "failure reason"
// @Success 200 {string} string "result page"
// @Router /user/verified [get]
func (h *Handler) userVerified(c *gin.Context) {
	page := verifiedPage{Error: c.Query("error") == "true"}
	if page.Error {
		page.Message = c.Query("message")
	}

	c.HTML(http.StatusOK, templates.VerifiedPage, page)
}

// @Summary Current user
// @Security UserAuth
// @Tags users
// @Description Return the account behind the access token
// @ModuleID userMe
// @Produce  json
// @Success 200 {object} response "SUCCESS with the user, or FAILED"
// @Failure 401 {object} response
// @Router /user/me [get]
func (h *Handler) userMe(c *gin.Context) {
	userID, err := getUserUUID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	user, err := h.services.Users.GetOneByID(c.Request.Context(), userID)
	if err != nil {
		errorResponse(c, err)
		return
	}

	newResponse(c, StatusSuccess, MsgMe, []domain.User{*user})
}
