package user

import (
	"github.com/gin-gonic/gin"

	"github.com/SmartFleet/SmartFleet/internal/common/apperr"
	"github.com/SmartFleet/SmartFleet/internal/common/httpx"
	"github.com/SmartFleet/SmartFleet/internal/common/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 挂载账号路由。register/login 需配置为公开路径。
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	a := api.Group("/auth")
	a.POST("/register", h.register)
	a.POST("/login", h.login)
	a.GET("/profile", h.profile)

	g := api.Group("/users")
	g.GET("", h.list)
	g.GET("/:id", h.get)
}

type registerReq struct {
	Username string   `json:"username" binding:"required"`
	Password string   `json:"password" binding:"required"`
	Nickname string   `json:"nickname"`
	Phone    string   `json:"phone"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResp struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Nickname  string   `json:"nickname,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Email     string   `json:"email,omitempty"`
	Roles     []string `json:"roles"`
	CreatedAt int64    `json:"created_at"`
}

func toAPI(u *User) *userResp {
	if u == nil {
		return nil
	}
	return &userResp{
		ID:        u.ID,
		Username:  u.Username,
		Nickname:  u.Nickname,
		Phone:     u.Phone,
		Email:     u.Email,
		Roles:     u.RolesSlice(),
		CreatedAt: u.CreatedAt.Unix(),
	}
}

func (h *Handler) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	u, err := h.svc.Register(c.Request.Context(), RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Nickname: req.Nickname,
		Phone:    req.Phone,
		Email:    req.Email,
		Roles:    req.Roles,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, toAPI(u))
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, gin.H{
		"user":       toAPI(res.User),
		"token":      res.Token,
		"expires_at": res.ExpiresAt.Unix(),
	})
}

func (h *Handler) profile(c *gin.Context) {
	info, ok := middleware.AuthFromContext(c)
	if !ok || info.Subject == "" {
		httpx.Error(c, apperr.Unauthorized("login required"))
		return
	}
	u, err := h.svc.Get(c.Request.Context(), info.Subject)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(u))
}

func (h *Handler) get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(u))
}

func (h *Handler) list(c *gin.Context) {
	offset, limit := httpx.Pagination(c)
	users, total, err := h.svc.List(c.Request.Context(), offset, limit)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	out := make([]*userResp, 0, len(users))
	for i := range users {
		u := users[i]
		out = append(out, toAPI(&u))
	}
	httpx.OK(c, gin.H{"users": out, "total": total})
}
