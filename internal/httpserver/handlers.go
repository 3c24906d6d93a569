package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"canteen-ordering/internal/domain"
	checkoutsvc "canteen-ordering/internal/service/checkout"
	feedbacksvc "canteen-ordering/internal/service/feedback"
	menusvc "canteen-ordering/internal/service/menu"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type handlers struct {
	deps Deps
}

// menu

func (h *handlers) listMenu(c *gin.Context) {
	items, err := h.deps.MenuSvc.List(c.Request.Context(), c.Query("category"), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "results": items})
}

func (h *handlers) listCategories(c *gin.Context) {
	cats, err := h.deps.MenuSvc.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"results": cats})
}

func (h *handlers) getMenuItem(c *gin.Context) {
	item, err := h.deps.MenuSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handlers) listReviews(c *gin.Context) {
	reviews, err := h.deps.MenuSvc.Reviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reviews), "results": reviews})
}

func (h *handlers) submitReview(c *gin.Context) {
	var req menusvc.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON")
		return
	}
	review, err := h.deps.MenuSvc.SubmitReview(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// cart

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.deps.CartSvc.Get(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	cart, err := h.deps.CartSvc.AddItem(c.Request.Context(), sessionFrom(c), req.ItemID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON")
		return
	}
	var (
		cart domain.Cart
		err  error
	)
	switch {
	case req.Quantity != nil && req.Delta != nil:
		badRequest(c, "quantity", "send either quantity or delta")
		return
	case req.Quantity != nil:
		cart, err = h.deps.CartSvc.SetQuantity(c.Request.Context(), sessionFrom(c), c.Param("itemId"), *req.Quantity)
	case req.Delta != nil:
		cart, err = h.deps.CartSvc.ChangeQuantity(c.Request.Context(), sessionFrom(c), c.Param("itemId"), *req.Delta)
	default:
		badRequest(c, "quantity", "required")
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	cart, err := h.deps.CartSvc.Remove(c.Request.Context(), sessionFrom(c), c.Param("itemId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *handlers) applyPromo(c *gin.Context) {
	var req promoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON")
		return
	}
	dc, err := h.deps.CartSvc.ApplyPromo(c.Request.Context(), sessionFrom(c), req.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dc)
}

func (h *handlers) clearPromo(c *gin.Context) {
	dc, err := h.deps.CartSvc.ClearPromo(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dc)
}

func (h *handlers) setLoyalty(c *gin.Context) {
	var req loyaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON")
		return
	}
	dc, err := h.deps.CartSvc.SetRedeemLoyalty(c.Request.Context(), sessionFrom(c), req.Redeem)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dc)
}

func (h *handlers) quote(c *gin.Context) {
	view, err := h.deps.CartSvc.Quote(c.Request.Context(), sessionFrom(c), c.Query("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(view))
}

// orders

func (h *handlers) checkout(c *gin.Context) {
	var req checkoutsvc.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON")
		return
	}
	o, profile, err := h.deps.CheckoutSvc.PlaceOrder(c.Request.Context(), sessionFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, checkoutResponse{Order: o, Loyalty: profile})
}

func (h *handlers) listOrders(c *gin.Context) {
	orders, err := h.deps.OrderSvc.ListByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "results": orders})
}

func (h *handlers) getOrder(c *gin.Context) {
	o, err := h.deps.OrderSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *handlers) getLoyalty(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Param("email")))
	profile, err := h.deps.Loyalty.Get(c.Request.Context(), email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusOK, domain.LoyaltyProfile{Email: email, Points: decimal.Zero})
	case err != nil:
		writeError(c, err)
	default:
		c.JSON(http.StatusOK, profile)
	}
}

// staff

func (h *handlers) staffBoard(c *gin.Context) {
	var statuses []domain.Status
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			st, err := domain.ParseStatus(part)
			if err != nil {
				badRequest(c, "status", err.Error())
				return
			}
			statuses = append(statuses, st)
		}
	}
	board, err := h.deps.OrderSvc.Board(c.Request.Context(), actorFrom(c), statuses...)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *handlers) updateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON")
		return
	}
	to, err := domain.ParseStatus(req.Status)
	if err != nil {
		badRequest(c, "status", err.Error())
		return
	}
	o, err := h.deps.OrderSvc.UpdateStatus(c.Request.Context(), actorFrom(c), c.Param("id"), to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *handlers) dashboard(c *gin.Context) {
	d, err := h.deps.ReportSvc.Dashboard(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// feedback

func (h *handlers) submitFeedback(c *gin.Context) {
	var req feedbacksvc.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON")
		return
	}
	f, err := h.deps.FeedbackSvc.Submit(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *handlers) listFeedback(c *gin.Context) {
	var status domain.FeedbackStatus
	if raw := c.Query("status"); raw != "" && !strings.EqualFold(raw, "all") {
		st, err := domain.ParseFeedbackStatus(raw)
		if err != nil {
			badRequest(c, "status", err.Error())
			return
		}
		status = st
	}
	entries, err := h.deps.FeedbackSvc.List(c.Request.Context(), actorFrom(c), status)
	if err != nil {
		writeError(c, err)
		return
	}
	if entries == nil {
		entries = []domain.Feedback{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(entries), "results": entries})
}

func (h *handlers) updateFeedbackStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON")
		return
	}
	st, err := domain.ParseFeedbackStatus(req.Status)
	if err != nil {
		badRequest(c, "status", err.Error())
		return
	}
	f, err := h.deps.FeedbackSvc.SetStatus(c.Request.Context(), actorFrom(c), c.Param("id"), st)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}
