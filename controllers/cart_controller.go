package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"womart-storefront/auth"
	"womart-storefront/clients"
	"womart-storefront/currency"
	apperrors "womart-storefront/errors"
	"womart-storefront/middleware"
	"womart-storefront/models"
	"womart-storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductFinder fetches a product from the catalogue.
type ProductFinder interface {
	FindProductByID(ctx context.Context, token string, id int64) (*models.Product, error)
}

// CartController handles the consumer cart page.
type CartController struct {
	products ProductFinder
	logger   *zap.Logger
}

func NewCartController(products ProductFinder, logger *zap.Logger) *CartController {
	return &CartController{products: products, logger: logger}
}

type addItemRequest struct {
	ProductID int64 `json:"produtoId" binding:"required"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantidade" binding:"required"`
}

type applyCouponRequest struct {
	Code string `json:"codigo"`
}

// LineView is one rendered cart line.
type LineView struct {
	ProductID      int64                      `json:"id"`
	Name           string                     `json:"nome"`
	UnitPrice      decimal.Decimal            `json:"preco"`
	Quantity       int                        `json:"quantity"`
	LineTotal      decimal.Decimal            `json:"total"`
	UnitPriceLabel string                     `json:"precoFormatado"`
	LineTotalLabel string                     `json:"totalFormatado"`
	Fields         map[string]json.RawMessage `json:"campos,omitempty"`
}

// CartView is the cart page model.
type CartView struct {
	Items         []LineView      `json:"itens"`
	Count         int             `json:"quantidadeTotal"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"desconto"`
	Total         decimal.Decimal `json:"total"`
	SubtotalLabel string          `json:"subtotalFormatado"`
	DiscountLabel string          `json:"descontoFormatado"`
	TotalLabel    string          `json:"totalFormatado"`
	Coupon        *models.Coupon  `json:"cupom,omitempty"`
	CouponError   string          `json:"erroCupom,omitempty"`
	Checkout      string          `json:"checkout"`
}

// View handles GET /usuario/carrinho.
func (cc *CartController) View(c *gin.Context) {
	shopper, ok := cc.shopper(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, buildCartView(shopper))
}

// AddItem handles POST /usuario/carrinho/itens. The product is fetched so
// the stored price is the catalogue price.
func (cc *CartController) AddItem(c *gin.Context) {
	shopper, ok := cc.shopper(c)
	if !ok {
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	product, err := cc.products.FindProductByID(c.Request.Context(), middleware.Token(c), req.ProductID)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			apperrors.Respond(c, apperrors.Wrap(apperrors.ErrProductNotFound, err))
			return
		}
		cc.logger.Error("Product lookup failed", zap.Int64("product_id", req.ProductID), zap.Error(err))
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrConnection, err))
		return
	}

	if err := shopper.Cart.AddItem(c.Request.Context(), *product); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, buildCartView(shopper))
}

// UpdateItem handles PATCH /usuario/carrinho/itens/:id.
func (cc *CartController) UpdateItem(c *gin.Context) {
	shopper, ok := cc.shopper(c)
	if !ok {
		return
	}
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	if err := shopper.Cart.UpdateQuantity(c.Request.Context(), id, *req.Quantity); err != nil {
		cc.respondWithCart(c, shopper, err)
		return
	}
	c.JSON(http.StatusOK, buildCartView(shopper))
}

// RemoveItem handles DELETE /usuario/carrinho/itens/:id.
func (cc *CartController) RemoveItem(c *gin.Context) {
	shopper, ok := cc.shopper(c)
	if !ok {
		return
	}
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	if err := shopper.Cart.RemoveItem(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, buildCartView(shopper))
}

// Clear handles DELETE /usuario/carrinho.
func (cc *CartController) Clear(c *gin.Context) {
	shopper, ok := cc.shopper(c)
	if !ok {
		return
	}
	if err := shopper.Cart.Clear(c.Request.Context()); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, buildCartView(shopper))
}

// ApplyCoupon handles POST /usuario/carrinho/cupom.
func (cc *CartController) ApplyCoupon(c *gin.Context) {
	shopper, ok := cc.shopper(c)
	if !ok {
		return
	}
	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	if _, err := shopper.Coupons.Resolve(c.Request.Context(), middleware.Token(c), req.Code); err != nil {
		cc.respondWithCart(c, shopper, err)
		return
	}
	c.JSON(http.StatusOK, buildCartView(shopper))
}

// RemoveCoupon handles DELETE /usuario/carrinho/cupom.
func (cc *CartController) RemoveCoupon(c *gin.Context) {
	shopper, ok := cc.shopper(c)
	if !ok {
		return
	}
	shopper.Coupons.Remove()
	c.JSON(http.StatusOK, buildCartView(shopper))
}

// Checkout handles POST /usuario/carrinho/finalizar.
func (cc *CartController) Checkout(c *gin.Context) {
	shopper, ok := cc.shopper(c)
	if !ok {
		return
	}

	receipt, err := shopper.Checkout.Submit(c.Request.Context(), middleware.Token(c))
	if err != nil {
		cc.respondWithCart(c, shopper, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Pedido realizado com sucesso!",
		"redirect": auth.PathOrders,
		"pedido": gin.H{
			"itens":       receipt.Items,
			"codigoCupom": receipt.CouponCode,
			"subtotal":    receipt.Subtotal.StringFixed(2),
			"desconto":    receipt.Discount.StringFixed(2),
			"totalPago":   receipt.TotalPaid.StringFixed(2),
		},
	})
}

func (cc *CartController) shopper(c *gin.Context) (*services.Shopper, bool) {
	shopper, ok := middleware.GetShopper(c)
	if !ok {
		cc.logger.Error("No shopper on request", zap.String("path", c.Request.URL.Path))
		apperrors.Respond(c, apperrors.ErrInternalServer)
	}
	return shopper, ok
}

// respondWithCart renders err together with the unchanged cart.
func (cc *CartController) respondWithCart(c *gin.Context, shopper *services.Shopper, err error) {
	appErr := apperrors.From(err)
	c.JSON(appErr.Code, gin.H{
		"error": appErr.Message,
		"code":  appErr.Code,
		"cart":  buildCartView(shopper),
	})
}

func productIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return 0, false
	}
	return id, true
}

func buildCartView(shopper *services.Shopper) CartView {
	lines := shopper.Cart.Lines()
	totals := shopper.Coupons.Totals(services.Subtotal(lines))

	view := CartView{
		Items:         make([]LineView, 0, len(lines)),
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Total:         totals.Total,
		SubtotalLabel: currency.Format(totals.Subtotal),
		DiscountLabel: currency.Format(totals.Discount),
		TotalLabel:    currency.Format(totals.Total),
		Coupon:        shopper.Coupons.Applied(),
		Checkout:      shopper.Checkout.State().String(),
	}
	for _, l := range lines {
		view.Count += l.Quantity
		view.Items = append(view.Items, LineView{
			ProductID:      l.ProductID,
			Name:           l.Name,
			UnitPrice:      l.UnitPrice,
			Quantity:       l.Quantity,
			LineTotal:      l.LineTotal(),
			UnitPriceLabel: currency.Format(l.UnitPrice),
			LineTotalLabel: currency.Format(l.LineTotal()),
			Fields:         l.Fields,
		})
	}
	if err := shopper.Coupons.LastError(); err != nil {
		view.CouponError = apperrors.From(err).Message
	}
	return view
}
