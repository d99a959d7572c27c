package http

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mylib/internal/auth"
)

// Messages shown on the login page.
const (
	msgBadCredentials  = "Error: Username or password incorrect"
	msgUsernameTaken   = "Error: Username already exists!"
	msgMissingFields   = "Error: Username and password are required"
	msgThrottled       = "Error: Too many failed attempts, try again in %s"
	msgErrorPrefix     = "Error: "
	loginTemplateName  = "login"
	defaultRedirectURL = "/"
)

// LoginController signs visitors in and out against the backend. The token
// is kept in the durable browser storage through the request's session.
type LoginController struct {
	local    *auth.SessionManager
	throttle *auth.LoginThrottle
}

func NewLoginController(local *auth.SessionManager, throttle *auth.LoginThrottle) *LoginController {
	return &LoginController{local: local, throttle: throttle}
}

func (controller *LoginController) LoginPage(c *gin.Context) {
	st := getRequestState(c)
	next := auth.SanitizeRedirectPath(c.Query("next"))
	if st.session.State().IsAuthenticated {
		c.Redirect(http.StatusFound, next)
		return
	}
	controller.renderForm(c, http.StatusOK, next, "", "")
}

func (controller *LoginController) Login(c *gin.Context) {
	username, password, ok := controller.credentials(c)
	if !ok {
		return
	}
	controller.authenticate(c, username, password)
}

// SignUp creates the account and signs in with the same credentials.
func (controller *LoginController) SignUp(c *gin.Context) {
	username, password, ok := controller.credentials(c)
	if !ok {
		return
	}

	st := getRequestState(c)
	next := auth.SanitizeRedirectPath(c.PostForm("next"))

	status, err := st.client.SignUp(c.Request.Context(), username, password)
	if err != nil {
		controller.renderForm(c, http.StatusBadGateway, next, username, msgErrorPrefix+err.Error())
		return
	}
	if status == http.StatusConflict {
		controller.renderForm(c, http.StatusConflict, next, username, msgUsernameTaken)
		return
	}

	controller.authenticate(c, username, password)
}

func (controller *LoginController) Logout(c *gin.Context) {
	st := getRequestState(c)
	st.session.Logout()
	if err := controller.local.Renew(c.Request); err != nil {
		log.Printf("WARNING: failed to renew session on logout: %v", err)
	}
	c.Redirect(http.StatusSeeOther, defaultRedirectURL)
}

func (controller *LoginController) credentials(c *gin.Context) (string, string, bool) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		next := auth.SanitizeRedirectPath(c.PostForm("next"))
		controller.renderForm(c, http.StatusBadRequest, next, username, msgMissingFields)
		return "", "", false
	}
	return username, password, true
}

func (controller *LoginController) authenticate(c *gin.Context, username, password string) {
	st := getRequestState(c)
	next := auth.SanitizeRedirectPath(c.PostForm("next"))
	ip := c.ClientIP()

	if allowed, retry := controller.throttle.Allow(ip, username); !allowed {
		c.Header("Retry-After", fmt.Sprintf("%d", int(retry.Seconds())))
		msg := fmt.Sprintf(msgThrottled, retry.Round(time.Minute))
		controller.renderForm(c, http.StatusTooManyRequests, next, username, msg)
		return
	}

	// new token before the credentials land in the session
	if err := controller.local.Renew(c.Request); err != nil {
		log.Printf("Internal error (login): %v", err)
		c.String(http.StatusInternalServerError, "Failed to start session")
		return
	}

	status, err := st.client.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		controller.renderForm(c, http.StatusBadGateway, next, username, msgErrorPrefix+err.Error())
		return
	}
	if status == http.StatusForbidden {
		if controller.throttle.Failure(ip, username) {
			log.Printf("WARNING: login for %s from %s locked out after repeated failures", username, ip)
		}
		controller.renderForm(c, http.StatusUnauthorized, next, username, msgBadCredentials)
		return
	}

	controller.throttle.Success(ip, username)
	c.Redirect(http.StatusSeeOther, next)
}

func (controller *LoginController) renderForm(c *gin.Context, status int, next, username, errMsg string) {
	render(c, status, loginTemplateName, gin.H{
		"Title":         "Log in",
		"Next":          next,
		"LoginUsername": username,
		"Error":         errMsg,
	})
}
