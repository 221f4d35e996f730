package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/bookline/internal/intake"
)

// Request bodies past this size are junk, not bookings.
const maxIntakeBodyBytes = 64 << 10

func (s *Server) intakeRequest(c *gin.Context) intake.Request {
	return intake.Request{
		Host:     c.Request.Host,
		Origin:   c.GetHeader("Origin"),
		ClientIP: c.ClientIP(),
	}
}

// PublicCORS reflects the CORS headers for trusted origins on actual
// responses. Untrusted origins get no CORS headers at all; preflights are
// answered by the dedicated handler.
func (s *Server) PublicCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if headers := s.intake.CORSHeaders(c.Request.Context(), s.intakeRequest(c)); headers != nil {
			for key, values := range headers {
				for _, value := range values {
					c.Header(key, value)
				}
			}
		}
		c.Next()
	}
}

func (s *Server) IntakePreflight(c *gin.Context) {
	headers, err := s.intake.Preflight(c.Request.Context(), s.intakeRequest(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	for key, values := range headers {
		for _, value := range values {
			c.Header(key, value)
		}
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) CreateBooking(c *gin.Context) {
	raw, err := s.readBody(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.intake.CreateBooking(c.Request.Context(), s.intakeRequest(c), raw)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"booking_id":   result.Booking.ID.String(),
		"status":       result.Booking.Status,
		"total_cents":  result.Booking.TotalCents,
		"manage_token": result.ManageToken,
	})
}

func (s *Server) CreateOrder(c *gin.Context) {
	raw, err := s.readBody(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.intake.CreateOrder(c.Request.Context(), s.intakeRequest(c), raw)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	response := gin.H{
		"success":     true,
		"order_id":    result.Order.ID.String(),
		"status":      result.Order.Status,
		"total_cents": result.Order.TotalCents,
		"currency":    result.Order.Currency,
	}
	if result.PaymentClientSecret != "" {
		response["payment_client_secret"] = result.PaymentClientSecret
	}
	c.JSON(http.StatusOK, response)
}

func (s *Server) CancelBooking(c *gin.Context) {
	token := bearerToken(c)
	result, err := s.intake.CancelBooking(c.Request.Context(), s.intakeRequest(c), c.Param("id"), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"booking_id": result.Booking.ID.String(),
		"status":     result.Booking.Status,
	})
}

func (s *Server) readBody(c *gin.Context) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxIntakeBodyBytes))
	if err != nil {
		return nil, intake.Validation("unable to read request body")
	}
	return raw, nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
