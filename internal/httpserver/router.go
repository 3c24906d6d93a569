package httpserver

import (
	"context"
	"errors"
	"time"

	"canteen-ordering/internal/domain"
	cartsvc "canteen-ordering/internal/service/cart"
	checkoutsvc "canteen-ordering/internal/service/checkout"
	feedbacksvc "canteen-ordering/internal/service/feedback"
	menusvc "canteen-ordering/internal/service/menu"
	reportsvc "canteen-ordering/internal/service/report"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	sessionHeader  = "X-Session-ID"
	staffKeyHeader = "X-Staff-Key"
	actorCtxKey    = "actor"
)

type menuService interface {
	List(ctx context.Context, category, query string) ([]domain.MenuItem, error)
	Categories(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (*domain.MenuItem, error)
	Reviews(ctx context.Context, itemID string) ([]domain.Review, error)
	SubmitReview(ctx context.Context, itemID string, in menusvc.ReviewInput) (*domain.Review, error)
}

type cartService interface {
	Get(ctx context.Context, sessionID string) (domain.Cart, error)
	AddItem(ctx context.Context, sessionID, itemID string, quantity int) (domain.Cart, error)
	ChangeQuantity(ctx context.Context, sessionID, itemID string, delta int) (domain.Cart, error)
	SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) (domain.Cart, error)
	Remove(ctx context.Context, sessionID, itemID string) (domain.Cart, error)
	ApplyPromo(ctx context.Context, sessionID, code string) (domain.DiscountContext, error)
	ClearPromo(ctx context.Context, sessionID string) (domain.DiscountContext, error)
	SetRedeemLoyalty(ctx context.Context, sessionID string, redeem bool) (domain.DiscountContext, error)
	Quote(ctx context.Context, sessionID, email string) (cartsvc.View, error)
}

type checkoutService interface {
	PlaceOrder(ctx context.Context, sessionID string, in checkoutsvc.Input) (*domain.Order, *domain.LoyaltyProfile, error)
}

type orderService interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Order, error)
	Board(ctx context.Context, actor domain.Actor, statuses ...domain.Status) (map[domain.Status][]domain.Order, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id string, to domain.Status) (*domain.Order, error)
}

type reportService interface {
	Dashboard(ctx context.Context, actor domain.Actor) (*reportsvc.Dashboard, error)
}

type feedbackService interface {
	Submit(ctx context.Context, in feedbacksvc.Input) (*domain.Feedback, error)
	List(ctx context.Context, actor domain.Actor, status domain.FeedbackStatus) ([]domain.Feedback, error)
	SetStatus(ctx context.Context, actor domain.Actor, id string, status domain.FeedbackStatus) (*domain.Feedback, error)
}

type loyaltyReader interface {
	Get(ctx context.Context, email string) (*domain.LoyaltyProfile, error)
}

type actorResolver interface {
	Resolve(key string) (domain.Actor, error)
}

// Deps are the services behind the routes.
type Deps struct {
	MenuSvc     menuService
	CartSvc     cartService
	CheckoutSvc checkoutService
	OrderSvc    orderService
	ReportSvc   reportService
	FeedbackSvc feedbackService
	Loyalty     loyaltyReader
	Auth        actorResolver
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db Pinger, deps Deps) (*gin.Engine, error) {
	if deps.MenuSvc == nil || deps.CartSvc == nil || deps.CheckoutSvc == nil || deps.OrderSvc == nil ||
		deps.ReportSvc == nil || deps.FeedbackSvc == nil || deps.Loyalty == nil {
		return nil, errors.New("httpserver: all services are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Auth == nil {
		deps.Auth = NewStaffAuth("", "")
	}

	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		cfg := cors.DefaultConfig()
		if len(deps.CORSOrigins) == 1 && deps.CORSOrigins[0] == "*" {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = deps.CORSOrigins
		}
		cfg.AllowHeaders = append(cfg.AllowHeaders, sessionHeader, staffKeyHeader)
		router.Use(cors.New(cfg))
	}
	router.Use(actorMiddleware(deps.Auth))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps}

	router.GET("/menu", h.listMenu)
	router.GET("/menu/categories", h.listCategories)
	router.GET("/menu/:id", h.getMenuItem)
	router.GET("/menu/:id/reviews", h.listReviews)
	router.POST("/menu/:id/reviews", h.submitReview)

	router.GET("/cart", h.getCart)
	router.POST("/cart/items", h.addCartItem)
	router.PATCH("/cart/items/:itemId", h.updateCartItem)
	router.DELETE("/cart/items/:itemId", h.removeCartItem)
	router.POST("/cart/promo", h.applyPromo)
	router.DELETE("/cart/promo", h.clearPromo)
	router.PUT("/cart/loyalty", h.setLoyalty)
	router.GET("/cart/quote", h.quote)

	router.POST("/checkout", h.checkout)
	router.GET("/orders", h.listOrders)
	router.GET("/orders/:id", h.getOrder)
	router.GET("/loyalty/:email", h.getLoyalty)
	router.POST("/feedback", h.submitFeedback)

	staff := router.Group("/staff", requireRole(domain.RoleStaff, domain.RoleAdmin))
	staff.GET("/orders", h.staffBoard)
	staff.POST("/orders/:id/status", h.updateStatus)

	admin := router.Group("/admin", requireRole(domain.RoleAdmin))
	admin.GET("/dashboard", h.dashboard)
	admin.GET("/feedback", h.listFeedback)
	admin.POST("/feedback/:id/status", h.updateFeedbackStatus)

	return router, nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= 500:
			logger.Error("http request", fields...)
		default:
			logger.Info("http request", fields...)
		}
	}
}

func actorMiddleware(auth actorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := auth.Resolve(c.GetHeader(staffKeyHeader))
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}
		c.Set(actorCtxKey, actor)
		c.Next()
	}
}

func requireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := actorFrom(c)
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		writeError(c, domain.ErrForbidden)
		c.Abort()
	}
}

func actorFrom(c *gin.Context) domain.Actor {
	if v, ok := c.Get(actorCtxKey); ok {
		if a, ok := v.(domain.Actor); ok {
			return a
		}
	}
	return domain.Actor{Role: domain.RoleCustomer}
}

func sessionFrom(c *gin.Context) string {
	return c.GetHeader(sessionHeader)
}
