package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ordrz-storefront/models"
	"ordrz-storefront/repository"
)

const (
	// DefaultCheckoutURL is the hosted checkout application
	DefaultCheckoutURL = "https://checkout.ordrz.com/"
	handoffSource      = "ordrz"
	handoffIssuer      = "ordrz-storefront"
)

var (
	// ErrNoCart is returned when the session has no order id to hand off
	ErrNoCart = errors.New("no cart to check out")
	// ErrInvalidHandoff is returned when a handoff token fails verification
	ErrInvalidHandoff = errors.New("invalid handoff token")
	// ErrNoHandoffSecret is returned when no signing secret is configured
	ErrNoHandoffSecret = errors.New("handoff secret is not configured")
)

// HandoffClaims carries the handoff payload inside a signed token
type HandoffClaims struct {
	models.CheckoutHandoff
	jwt.RegisteredClaims
}

// HandoffService builds the versioned checkout handoff and signs it
type HandoffService struct {
	checkoutURL string
	secret      []byte
	ttl         time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// NewHandoffService creates a new HandoffService. An empty checkoutURL uses
// DefaultCheckoutURL; ttl 0 means fifteen minutes.
func NewHandoffService(checkoutURL, secret string, ttl time.Duration, logger *zap.Logger) *HandoffService {
	if checkoutURL == "" {
		checkoutURL = DefaultCheckoutURL
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &HandoffService{
		checkoutURL: checkoutURL,
		secret:      []byte(secret),
		ttl:         ttl,
		now:         time.Now,
		logger:      logger,
	}
}

// Build assembles the handoff for the session behind prefs.
// Missing order type, branch and coordinates fall back to pickup, the business id and "0".
func (s *HandoffService) Build(ctx context.Context, prefs repository.PreferenceRepositoryInterface, websiteLink string) (*models.CheckoutHandoffResponse, error) {
	cartID, err := prefs.GetOrderID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read order id: %w", err)
	}
	if cartID == "" {
		return nil, ErrNoCart
	}

	oc, err := prefs.GetOrderContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read order context: %w", err)
	}
	orderType := oc.OrderType
	if orderType == "" {
		orderType = models.OrderTypePickup
	}
	branchID := oc.BranchID
	if branchID == "" {
		branchID = oc.BusinessID
	}

	location := models.UserLocation{Lat: "0", Lng: "0"}
	saved, err := prefs.GetUserLocation(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read user location: %w", err)
	}
	if saved != nil {
		location = *saved
	}

	payload := models.CheckoutHandoff{
		Version:      models.HandoffVersion,
		CartID:       cartID,
		BusinessID:   oc.BusinessID,
		OrderType:    orderType,
		BranchID:     branchID,
		Source:       handoffSource,
		UserLocation: location,
		WebsiteLink:  websiteLink,
	}

	token, err := s.Issue(payload)
	if err != nil {
		return nil, err
	}

	checkoutURL, err := s.checkoutLink(payload, token)
	if err != nil {
		return nil, err
	}

	s.logger.Info("✅ Handoff: built checkout link",
		zap.String("cart_id", cartID),
		zap.String("business_id", oc.BusinessID),
		zap.String("order_type", orderType))

	return &models.CheckoutHandoffResponse{Payload: payload, Token: token, URL: checkoutURL}, nil
}

// Issue signs payload as an HS256 token
func (s *HandoffService) Issue(payload models.CheckoutHandoff) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoHandoffSecret
	}

	now := s.now()
	claims := HandoffClaims{
		CheckoutHandoff: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    handoffIssuer,
			Subject:   payload.CartID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.New().String(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign handoff: %w", err)
	}
	return token, nil
}

// Verify parses a token issued by Issue and returns its payload
func (s *HandoffService) Verify(tokenString string) (*models.CheckoutHandoff, error) {
	if len(s.secret) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHandoff, ErrNoHandoffSecret)
	}
	token, err := jwt.ParseWithClaims(tokenString, &HandoffClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithIssuer(handoffIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHandoff, err)
	}

	claims, ok := token.Claims.(*HandoffClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidHandoff
	}
	if claims.Version != models.HandoffVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidHandoff, claims.Version)
	}
	return &claims.CheckoutHandoff, nil
}

func (s *HandoffService) checkoutLink(payload models.CheckoutHandoff, token string) (string, error) {
	u, err := url.Parse(s.checkoutURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse checkout url: %w", err)
	}

	params := u.Query()
	params.Set("cartId", payload.CartID)
	params.Set("businessId", payload.BusinessID)
	params.Set("orderType", payload.OrderType)
	params.Set("branchId", payload.BranchID)
	params.Set("lat", payload.UserLocation.Lat)
	params.Set("lng", payload.UserLocation.Lng)
	params.Set("source", payload.Source)
	params.Set("websiteLink", payload.WebsiteLink)
	params.Set("handoff", token)
	u.RawQuery = params.Encode()

	return u.String(), nil
}
