package chat

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
	"github.com/nekogravitycat/cabin-booking-backend/internal/pkg/apperror"
)

var ErrInvalidDeepLink = apperror.New(http.StatusBadRequest, "booking link is invalid or has expired")

// BookingIntent is what a deep link carries to the booking page: enough to
// prefill a reservation without any server-side state.
type BookingIntent struct {
	UnitID   string
	UnitName string
	Stay     daterange.DateRange
	Guests   int
	Total    decimal.Decimal
	// Ref identifies one issued link so the booking page can refuse a replay.
	// Filled by Verify.
	Ref string
}

type DeepLinker interface {
	Link(intent BookingIntent) (string, error)
	Verify(token string) (*BookingIntent, error)
}

type deepLinkClaims struct {
	UnitID   string `json:"unit_id"`
	UnitName string `json:"unit_name"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
	Total    string `json:"total"`
	jwt.RegisteredClaims
}

// JWTDeepLinker signs booking intents as HS256 tokens appended to a booking URL.
type JWTDeepLinker struct {
	secret  []byte
	ttl     time.Duration
	baseURL string
	now     func() time.Time
}

func NewJWTDeepLinker(secret, baseURL string, ttl time.Duration) *JWTDeepLinker {
	return &JWTDeepLinker{
		secret:  []byte(secret),
		ttl:     ttl,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// Token signs intent.
func (l *JWTDeepLinker) Token(intent BookingIntent) (string, error) {
	now := l.now().UTC()
	claims := &deepLinkClaims{
		UnitID:   intent.UnitID,
		UnitName: intent.UnitName,
		CheckIn:  intent.Stay.Start.Format(daterange.Layout),
		CheckOut: intent.Stay.End.Format(daterange.Layout),
		Guests:   intent.Guests,
		Total:    intent.Total.StringFixed(2),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   intent.UnitID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(l.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign deep link: %w", err)
	}
	return signed, nil
}

// Link returns the booking URL with the signed intent in its token query parameter.
func (l *JWTDeepLinker) Link(intent BookingIntent) (string, error) {
	token, err := l.Token(intent)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(l.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid booking url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (l *JWTDeepLinker) Verify(token string) (*BookingIntent, error) {
	parsed, err := jwt.ParseWithClaims(token, &deepLinkClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %T", t.Method)
		}
		return l.secret, nil
	}, jwt.WithTimeFunc(l.now))
	if err != nil {
		return nil, ErrInvalidDeepLink.With(err)
	}
	claims, ok := parsed.Claims.(*deepLinkClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidDeepLink.With(errors.New("invalid deep link claims"))
	}

	stay, err := daterange.ParseDates(claims.CheckIn, claims.CheckOut)
	if err != nil {
		return nil, ErrInvalidDeepLink.With(err)
	}
	total, err := decimal.NewFromString(claims.Total)
	if err != nil {
		return nil, ErrInvalidDeepLink.With(err)
	}
	return &BookingIntent{
		UnitID:   claims.UnitID,
		UnitName: claims.UnitName,
		Stay:     stay,
		Guests:   claims.Guests,
		Total:    total,
		Ref:      claims.ID,
	}, nil
}
