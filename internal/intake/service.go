package intake

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/smallbiznis/bookline/internal/booking/domain"
	catalogdomain "github.com/smallbiznis/bookline/internal/catalog/domain"
	"github.com/smallbiznis/bookline/internal/config"
	"github.com/smallbiznis/bookline/internal/notify"
	obscontext "github.com/smallbiznis/bookline/internal/observability/context"
	"github.com/smallbiznis/bookline/internal/observability/metrics"
	orderdomain "github.com/smallbiznis/bookline/internal/order/domain"
	"github.com/smallbiznis/bookline/internal/origin"
	"github.com/smallbiznis/bookline/internal/ratelimit"
	scheduledomain "github.com/smallbiznis/bookline/internal/schedule/domain"
	tenantdomain "github.com/smallbiznis/bookline/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Request is the transport envelope every public intake call arrives with.
type Request struct {
	Host     string
	Origin   string
	ClientIP string
}

// CreateBookingResult pairs the stored booking with the bearer token the
// customer needs to manage it later.
type CreateBookingResult struct {
	Booking     bookingdomain.Booking
	ManageToken string
}

type Params struct {
	fx.In

	Cfg      config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Metrics  *metrics.Metrics
	Tenants  tenantdomain.Resolver
	Guard    *origin.Guard
	Limiter  ratelimit.Limiter
	Presets  ratelimit.Presets
	Tokens   *TokenSigner
	Schedule scheduledomain.Service
	Catalog  catalogdomain.Repository
	Bookings bookingdomain.Service
	Orders   orderdomain.Service
	Notifier notify.Dispatcher
}

// Orchestrator runs the public intake pipeline: shape validation, tenant
// resolution, origin and rate-limit enforcement, business validation,
// availability, then the durable write and its best-effort notification.
type Orchestrator struct {
	cfg      config.Config
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	metrics  *metrics.Metrics
	tenants  tenantdomain.Resolver
	guard    *origin.Guard
	limiter  ratelimit.Limiter
	presets  ratelimit.Presets
	tokens   *TokenSigner
	schedule scheduledomain.Service
	catalog  catalogdomain.Repository
	bookings bookingdomain.Service
	orders   orderdomain.Service
	notifier notify.Dispatcher
}

func New(p Params) *Orchestrator {
	return &Orchestrator{
		cfg:      p.Cfg,
		db:       p.DB,
		log:      p.Log.Named("intake"),
		genID:    p.GenID,
		metrics:  p.Metrics,
		tenants:  p.Tenants,
		guard:    p.Guard,
		limiter:  p.Limiter,
		presets:  p.Presets,
		tokens:   p.Tokens,
		schedule: p.Schedule,
		catalog:  p.Catalog,
		bookings: p.Bookings,
		orders:   p.Orders,
		notifier: p.Notifier,
	}
}

func (o *Orchestrator) CreateBooking(ctx context.Context, req Request, rawPayload []byte) (CreateBookingResult, error) {
	const flow = "booking"

	payload, err := ParseBookingPayload(rawPayload, o.cfg.Intake)
	if err != nil {
		return CreateBookingResult{}, o.reject(ctx, flow, err)
	}
	tenant, err := o.tenants.Resolve(ctx, req.Host)
	if err != nil {
		return CreateBookingResult{}, o.reject(ctx, flow, err)
	}
	ctx = obscontext.WithTenantID(ctx, tenant.ID.String())
	// Creation flows always require a trusted Origin; absent counts as untrusted.
	if !o.guard.Allowed(req.Origin, tenant) {
		return CreateBookingResult{}, o.reject(ctx, flow, ErrOriginForbidden)
	}
	if err := o.checkRateLimit(ctx, req.ClientIP, tenant, o.presets.Standard); err != nil {
		return CreateBookingResult{}, o.reject(ctx, flow, err)
	}

	var items []bookingdomain.LineItem
	if len(payload.Lines) > 0 {
		resolved, err := o.resolveLines(ctx, tenant.ID, payload.Lines)
		if err != nil {
			return CreateBookingResult{}, o.reject(ctx, flow, err)
		}
		items = make([]bookingdomain.LineItem, 0, len(resolved))
		for _, line := range resolved {
			items = append(items, bookingdomain.LineItem{
				ItemID:     line.ItemID,
				Name:       line.Name,
				Quantity:   line.Quantity,
				PriceCents: line.PriceCents,
			})
		}
	}

	if err := o.checkAvailability(ctx, tenant.ID, payload.Date, payload.TimeMinutes); err != nil {
		return CreateBookingResult{}, o.reject(ctx, flow, err)
	}

	customerID := o.genID.Generate()
	booking, err := o.bookings.Create(ctx, bookingdomain.CreateBookingRequest{
		TenantID:      tenant.ID,
		CustomerID:    customerID,
		CustomerName:  payload.CustomerName,
		CustomerPhone: payload.CustomerPhone,
		CustomerEmail: payload.CustomerEmail,
		Date:          payload.Date,
		TimeMinutes:   payload.TimeMinutes,
		Notes:         payload.Notes,
		Items:         items,
		Confirmed:     !requireApproval(tenant),
	})
	if err != nil {
		return CreateBookingResult{}, o.reject(ctx, flow, err)
	}

	o.metrics.RecordIntakeAccepted(ctx, flow)
	o.notifier.Dispatch(ctx, notify.Event{
		Type:      notify.EventBookingCreated,
		TenantID:  tenant.ID,
		SubjectID: booking.ID,
		Payload: map[string]string{
			"customer_name":  booking.CustomerName,
			"customer_phone": booking.CustomerPhone,
			"customer_email": booking.CustomerEmail,
			"date":           booking.Date,
			"time":           minutesToClock(booking.TimeMinutes),
			"status":         booking.Status,
		},
	})
	return CreateBookingResult{
		Booking:     booking,
		ManageToken: o.tokens.Issue(customerID),
	}, nil
}

func (o *Orchestrator) CreateOrder(ctx context.Context, req Request, rawPayload []byte) (orderdomain.CreateOrderResult, error) {
	const flow = "order"

	payload, err := ParseOrderPayload(rawPayload, o.cfg.Intake)
	if err != nil {
		return orderdomain.CreateOrderResult{}, o.reject(ctx, flow, err)
	}
	tenant, err := o.tenants.Resolve(ctx, req.Host)
	if err != nil {
		return orderdomain.CreateOrderResult{}, o.reject(ctx, flow, err)
	}
	ctx = obscontext.WithTenantID(ctx, tenant.ID.String())
	if !o.guard.Allowed(req.Origin, tenant) {
		return orderdomain.CreateOrderResult{}, o.reject(ctx, flow, ErrOriginForbidden)
	}

	paymentOnline := tenant.PaymentMode() == tenantdomain.PaymentModeOnline
	preset := o.presets.Standard
	if paymentOnline {
		preset = o.presets.Payments
	}
	if err := o.checkRateLimit(ctx, req.ClientIP, tenant, preset); err != nil {
		return orderdomain.CreateOrderResult{}, o.reject(ctx, flow, err)
	}

	resolved, err := o.resolveLines(ctx, tenant.ID, payload.Lines)
	if err != nil {
		return orderdomain.CreateOrderResult{}, o.reject(ctx, flow, err)
	}
	lines := make([]orderdomain.OrderLine, 0, len(resolved))
	for _, line := range resolved {
		lines = append(lines, orderdomain.OrderLine{
			ItemID:     line.ItemID,
			Name:       line.Name,
			Quantity:   line.Quantity,
			PriceCents: line.PriceCents,
		})
	}

	if err := o.checkAvailability(ctx, tenant.ID, payload.PickupDate, payload.PickupMinutes); err != nil {
		return orderdomain.CreateOrderResult{}, o.reject(ctx, flow, err)
	}

	result, err := o.orders.Create(ctx, orderdomain.CreateOrderRequest{
		TenantID:      tenant.ID,
		CustomerName:  payload.CustomerName,
		CustomerPhone: payload.CustomerPhone,
		CustomerEmail: payload.CustomerEmail,
		PickupDate:    payload.PickupDate,
		PickupMinutes: payload.PickupMinutes,
		Notes:         payload.Notes,
		Lines:         lines,
		Currency:      tenant.Currency(),
		PaymentOnline: paymentOnline,
	})
	if err != nil {
		return result, o.reject(ctx, flow, err)
	}

	o.metrics.RecordIntakeAccepted(ctx, flow)
	o.notifier.Dispatch(ctx, notify.Event{
		Type:      notify.EventOrderCreated,
		TenantID:  tenant.ID,
		SubjectID: result.Order.ID,
		Payload: map[string]string{
			"customer_name":  result.Order.CustomerName,
			"customer_phone": result.Order.CustomerPhone,
			"customer_email": result.Order.CustomerEmail,
			"pickup_date":    result.Order.PickupDate,
			"pickup_time":    minutesToClock(result.Order.PickupMinutes),
			"total_cents":    formatCents(result.Order.TotalCents),
			"currency":       result.Order.Currency,
		},
	})
	return result, nil
}

// CancelBooking authenticates by bearer token instead of Origin: an absent
// Origin is acceptable here, a present but untrusted one is not.
func (o *Orchestrator) CancelBooking(ctx context.Context, req Request, bookingID, token string) (bookingdomain.CancelBookingResult, error) {
	const flow = "cancel"

	tenant, err := o.tenants.Resolve(ctx, req.Host)
	if err != nil {
		return bookingdomain.CancelBookingResult{}, o.reject(ctx, flow, err)
	}
	ctx = obscontext.WithTenantID(ctx, tenant.ID.String())
	if req.Origin != "" && !o.guard.Allowed(req.Origin, tenant) {
		return bookingdomain.CancelBookingResult{}, o.reject(ctx, flow, ErrOriginForbidden)
	}
	if err := o.checkRateLimit(ctx, req.ClientIP, tenant, o.presets.Standard); err != nil {
		return bookingdomain.CancelBookingResult{}, o.reject(ctx, flow, err)
	}

	customerID, ok := o.tokens.Verify(token)
	if !ok {
		return bookingdomain.CancelBookingResult{}, o.reject(ctx, flow, ErrUnauthenticated)
	}
	ctx = obscontext.WithActor(ctx, "customer", customerID.String())
	id, err := snowflake.ParseString(bookingID)
	if err != nil {
		return bookingdomain.CancelBookingResult{}, o.reject(ctx, flow, bookingdomain.ErrNotFound)
	}

	result, err := o.bookings.Cancel(ctx, bookingdomain.CancelBookingRequest{
		TenantID:   tenant.ID,
		BookingID:  id,
		CustomerID: customerID,
	})
	if err != nil {
		return bookingdomain.CancelBookingResult{}, o.reject(ctx, flow, err)
	}

	o.metrics.RecordIntakeAccepted(ctx, flow)
	if result.Transitioned {
		o.notifier.Dispatch(ctx, notify.Event{
			Type:      notify.EventBookingCancelled,
			TenantID:  tenant.ID,
			SubjectID: result.Booking.ID,
			Payload: map[string]string{
				"customer_name":  result.Booking.CustomerName,
				"customer_email": result.Booking.CustomerEmail,
				"date":           result.Booking.Date,
				"time":           minutesToClock(result.Booking.TimeMinutes),
			},
		})
	}
	return result, nil
}

// Preflight answers an OPTIONS request: CORS headers for a trusted origin,
// ErrOriginForbidden otherwise.
func (o *Orchestrator) Preflight(ctx context.Context, req Request) (http.Header, error) {
	tenant, err := o.tenants.Resolve(ctx, req.Host)
	if err != nil {
		return nil, err
	}
	headers := o.guard.Headers(req.Origin, tenant)
	if headers == nil {
		return nil, ErrOriginForbidden
	}
	return headers, nil
}

// CORSHeaders returns the headers for an actual (non-preflight) response, or
// nil when the origin is not trusted for the tenant behind the host.
func (o *Orchestrator) CORSHeaders(ctx context.Context, req Request) http.Header {
	tenant, err := o.tenants.Resolve(ctx, req.Host)
	if err != nil {
		return nil
	}
	return o.guard.Headers(req.Origin, tenant)
}

func (o *Orchestrator) checkRateLimit(ctx context.Context, ip string, tenant tenantdomain.Tenant, preset ratelimit.Preset) error {
	key := ratelimit.Key(ip, tenant.ID.String(), preset.Name)
	result, err := o.limiter.Check(ctx, key, preset)
	if err != nil {
		// A limiter backend outage must not take intake down with it.
		o.log.Error("rate limit check failed, allowing request",
			zap.String("preset", preset.Name),
			zap.Error(err),
		)
		return nil
	}
	if !result.Allowed {
		o.metrics.RecordRateLimitDenied(ctx, tenant.ID.String(), preset.Name)
		return &RateLimitError{ResetAt: result.ResetAt}
	}
	o.metrics.RecordRateLimitAllowed(ctx, tenant.ID.String(), preset.Name)
	return nil
}

type resolvedLine struct {
	ItemID     snowflake.ID
	Name       string
	Quantity   int
	PriceCents int64
}

// resolveLines normalizes the requested lines and prices them from the
// catalog. A partial match is a single validation failure, never a partial
// order.
func (o *Orchestrator) resolveLines(ctx context.Context, tenantID snowflake.ID, lines []PayloadLine) ([]resolvedLine, error) {
	normalized, err := NormalizeLines(lines, o.cfg.Intake.MaxLineItems)
	if err != nil {
		return nil, err
	}
	ids := make([]snowflake.ID, 0, len(normalized))
	for _, line := range normalized {
		ids = append(ids, line.ItemID)
	}
	items, err := o.catalog.FindActiveByIDs(ctx, o.db, tenantID, ids)
	if err != nil {
		return nil, err
	}
	if len(items) != len(normalized) {
		return nil, catalogdomain.ErrUnknownItems
	}
	byID := make(map[snowflake.ID]catalogdomain.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	resolved := make([]resolvedLine, 0, len(normalized))
	for _, line := range normalized {
		item, ok := byID[line.ItemID]
		if !ok {
			return nil, catalogdomain.ErrUnknownItems
		}
		resolved = append(resolved, resolvedLine{
			ItemID:     item.ID,
			Name:       item.Name,
			Quantity:   line.Quantity,
			PriceCents: item.PriceCents,
		})
	}
	return resolved, nil
}

func (o *Orchestrator) checkAvailability(ctx context.Context, tenantID snowflake.ID, date string, minutes int) error {
	schedule, err := o.schedule.OpenWindows(ctx, tenantID, date)
	if err != nil {
		return err
	}
	if !scheduledomain.WithinWindows(minutes, schedule.Windows) {
		return ErrSlotUnavailable
	}
	return nil
}

func (o *Orchestrator) reject(ctx context.Context, flow string, err error) error {
	o.metrics.RecordIntakeRejected(ctx, flow, rejectReason(err))
	return err
}

func rejectReason(err error) string {
	var validation *ValidationError
	var limited *RateLimitError
	switch {
	case errors.As(err, &validation), errors.Is(err, catalogdomain.ErrUnknownItems):
		return "validation"
	case errors.As(err, &limited):
		return "rate_limited"
	case errors.Is(err, ErrOriginForbidden), errors.Is(err, bookingdomain.ErrNotOwner):
		return "forbidden"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrSlotUnavailable):
		return "availability"
	case errors.Is(err, tenantdomain.ErrNotFound), errors.Is(err, bookingdomain.ErrNotFound):
		return "not_found"
	case errors.Is(err, bookingdomain.ErrAlreadyDone), errors.Is(err, bookingdomain.ErrTooLateToCancel):
		return "validation"
	case errors.Is(err, orderdomain.ErrPaymentFailed):
		return "payment_failed"
	default:
		return "storage"
	}
}

func requireApproval(tenant tenantdomain.Tenant) bool {
	value, _ := tenant.Config["require_approval"].(bool)
	return value
}

func minutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func formatCents(cents int64) string {
	return strconv.FormatInt(cents, 10)
}
