package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"staffquiz-server-go/db"
	"staffquiz-server-go/models"
)

const (
	// SessionCookie is the name of the cookie carrying the session token
	SessionCookie = "quiz_session"

	staffContextKey = "staff"
)

// PageHandler holds the dependencies for the page handlers, like the SQLite
// store and the Redis session service
type PageHandler struct {
	Store    *db.Store
	Sessions *db.SessionService
	Logger   *zap.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(store *db.Store, sessions *db.SessionService, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		Store:    store,
		Sessions: sessions,
		Logger:   logger,
	}
}

// Mount registers every page route on the router
func (h *PageHandler) Mount(router *gin.Engine) {
	router.GET("/register", h.ShowRegister)
	router.POST("/register", h.Register)
	router.GET("/login", h.ShowLogin)
	router.POST("/login", h.Login)

	authed := router.Group("/", h.RequireAuth())
	{
		authed.GET("/", h.Home)
		authed.GET("/logout", h.Logout)
		authed.GET("/test", h.ShowTest)
		authed.POST("/test", h.SubmitTest)
		authed.GET("/results", h.Results)
	}
}

// --- Auth Gate ---

// resolveStaff maps the request's session cookie to a staff member, or
// returns nil when there is no usable session.
func (h *PageHandler) resolveStaff(c *gin.Context) *models.Staff {
	token, err := c.Cookie(SessionCookie)
	if err != nil {
		return nil
	}

	staffID, err := h.Sessions.StaffID(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, db.ErrNoSession) {
			h.Logger.Error("session lookup failed", zap.Error(err))
		}
		return nil
	}

	staff, err := h.Store.GetStaffByID(c.Request.Context(), staffID)
	if err != nil {
		if !errors.Is(err, db.ErrStaffNotFound) {
			h.Logger.Error("session staff lookup failed",
				zap.Int64("staffId", staffID), zap.Error(err))
		}
		return nil
	}
	return staff
}

// RequireAuth redirects requests without an authenticated session to the
// login page; otherwise it stores the staff member in the request context
func (h *PageHandler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		staff := h.resolveStaff(c)
		if staff == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(staffContextKey, staff)
		c.Next()
	}
}

func currentStaff(c *gin.Context) *models.Staff {
	value, ok := c.Get(staffContextKey)
	if !ok {
		return nil
	}
	staff, ok := value.(*models.Staff)
	if !ok {
		return nil
	}
	return staff
}

// --- Registration Handlers ---

type registerForm struct {
	// The reference flow accepts any email and password shape, so only
	// presence is validated here.
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// ShowRegister handles GET /register
func (h *PageHandler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

// Register handles POST /register
func (h *PageHandler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderError(c, http.StatusBadRequest, "Email and password are required.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Logger.Error("failed to hash password", zap.Error(err))
		h.renderError(c, http.StatusInternalServerError, "Registration failed. Please try again.")
		return
	}

	_, err = h.Store.CreateStaff(c.Request.Context(), form.Email, string(hash))
	if errors.Is(err, db.ErrEmailTaken) {
		c.HTML(http.StatusOK, "register.html", gin.H{
			"Message": "Email already exists. Please log in or use a different email.",
		})
		return
	}
	if err != nil {
		h.Logger.Error("failed to create staff member", zap.Error(err))
		h.renderError(c, http.StatusInternalServerError, "Registration failed. Please try again.")
		return
	}

	c.Redirect(http.StatusFound, "/login?registered=1")
}

// --- Login Handlers ---

type loginForm struct {
	Identifier string `form:"identifier" binding:"required"` // email or staff id
	Password   string `form:"password" binding:"required"`
}

// ShowLogin handles GET /login
func (h *PageHandler) ShowLogin(c *gin.Context) {
	if h.resolveStaff(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	data := gin.H{}
	if c.Query("registered") != "" {
		data["Message"] = "Registration successful. Please log in."
	}
	c.HTML(http.StatusOK, "login.html", data)
}

// Login handles POST /login
func (h *PageHandler) Login(c *gin.Context) {
	if h.resolveStaff(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLoginFailure(c)
		return
	}

	// A missing account and a wrong password take the same path so the
	// response never reveals which part was wrong.
	staff, err := h.Store.GetStaffByIdentifier(c.Request.Context(), form.Identifier)
	if err != nil {
		if !errors.Is(err, db.ErrStaffNotFound) {
			h.Logger.Error("staff lookup failed", zap.Error(err))
		}
		h.renderLoginFailure(c)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(form.Password)) != nil {
		h.renderLoginFailure(c)
		return
	}

	token, err := h.Sessions.Create(c.Request.Context(), staff.ID)
	if err != nil {
		h.Logger.Error("failed to create session", zap.Error(err))
		h.renderError(c, http.StatusInternalServerError, "Login failed. Please try again.")
		return
	}

	c.SetCookie(SessionCookie, token, int(h.Sessions.TTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *PageHandler) renderLoginFailure(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Message": "Invalid credentials. Please try again.",
	})
}

// Logout handles GET /logout
func (h *PageHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(SessionCookie)
	if err == nil {
		if err := h.Sessions.Destroy(c.Request.Context(), token); err != nil {
			h.Logger.Error("failed to destroy session", zap.Error(err))
		}
	}
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// --- Page Handlers ---

// Home handles GET /
func (h *PageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{
		"Staff": currentStaff(c),
	})
}

// testOption is one selectable answer with its 1-based form value
type testOption struct {
	Value int
	Label string
}

// testQuestion is a question prepared for rendering, numbered by position
type testQuestion struct {
	Number  int
	Text    string
	Options []testOption
}

// ShowTest handles GET /test
func (h *PageHandler) ShowTest(c *gin.Context) {
	questions, err := h.Store.Questions(c.Request.Context())
	if err != nil {
		h.Logger.Error("failed to load questions", zap.Error(err))
		h.renderError(c, http.StatusInternalServerError, "Could not load the test. Please try again.")
		return
	}

	view := make([]testQuestion, 0, len(questions))
	for i, q := range questions {
		tq := testQuestion{Number: i + 1, Text: q.Question}
		for j, option := range q.Options {
			tq.Options = append(tq.Options, testOption{Value: j + 1, Label: option})
		}
		view = append(view, tq)
	}

	c.HTML(http.StatusOK, "test.html", gin.H{
		"Questions": view,
	})
}

type testForm struct {
	// Answer fields are fixed at five positions to match the seeded bank.
	// required rejects the zero value, which is out of range anyway.
	Q1 int `form:"q1" binding:"required,min=1,max=4"`
	Q2 int `form:"q2" binding:"required,min=1,max=4"`
	Q3 int `form:"q3" binding:"required,min=1,max=4"`
	Q4 int `form:"q4" binding:"required,min=1,max=4"`
	Q5 int `form:"q5" binding:"required,min=1,max=4"`
}

func (f testForm) answers() []int {
	return []int{f.Q1, f.Q2, f.Q3, f.Q4, f.Q5}
}

// SubmitTest handles POST /test
func (h *PageHandler) SubmitTest(c *gin.Context) {
	var form testForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderError(c, http.StatusBadRequest,
			"Each of the five questions needs an answer between 1 and 4.")
		return
	}

	correct, err := h.Store.CorrectAnswers(c.Request.Context())
	if err != nil {
		h.Logger.Error("failed to load correct answers", zap.Error(err))
		h.renderError(c, http.StatusInternalServerError, "Could not grade the test. Please try again.")
		return
	}
	if len(correct) != len(form.answers()) {
		h.Logger.Error("question bank size does not match the test form",
			zap.Int("questions", len(correct)))
		h.renderError(c, http.StatusInternalServerError, "Could not grade the test. Please try again.")
		return
	}

	score := scoreAnswers(form.answers(), correct)
	c.Redirect(http.StatusFound, "/results?score="+strconv.Itoa(score))
}

// Results handles GET /results
func (h *PageHandler) Results(c *gin.Context) {
	score, err := strconv.Atoi(c.Query("score"))
	if err != nil || score < 0 || score > testQuestionCount {
		h.renderError(c, http.StatusBadRequest, "Invalid score value.")
		return
	}

	c.HTML(http.StatusOK, "results.html", gin.H{
		"Score": score,
		"Total": testQuestionCount,
	})
}

func (h *PageHandler) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{"Message": message})
}
