package oapi

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Permissions checked by FiberServerOptions.Authorize on admin routes.
const (
	PermViewAnalytics  = "view_analytics"
	PermManageUsers    = "manage_users"
	PermManageParcels  = "manage_parcels"
	PermManagePayments = "manage_payments"
	PermManageDisputes = "manage_disputes"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /api/auth/signup)
	PostAuthSignup(c *fiber.Ctx) error
	// (POST /api/auth/signin)
	PostAuthSignin(c *fiber.Ctx) error
	// (POST /api/auth/signout)
	PostAuthSignout(c *fiber.Ctx) error
	// (GET /api/auth/me)
	GetAuthMe(c *fiber.Ctx) error
	// (POST /api/auth/change-password)
	PostAuthChangePassword(c *fiber.Ctx) error

	// (PATCH /api/users/me)
	PatchUsersMe(c *fiber.Ctx) error
	// (GET /api/users/{id})
	GetUsersId(c *fiber.Ctx, id string) error
	// (GET /api/users/{id}/reviews)
	GetUsersIdReviews(c *fiber.Ctx, id string) error

	// (GET /api/subscriptions/plans)
	GetSubscriptionsPlans(c *fiber.Ctx) error
	// (GET /api/subscriptions/me)
	GetSubscriptionsMe(c *fiber.Ctx) error
	// (POST /api/subscriptions/subscribe)
	PostSubscriptionsSubscribe(c *fiber.Ctx) error
	// (POST /api/subscriptions/cancel)
	PostSubscriptionsCancel(c *fiber.Ctx) error

	// (GET /api/insurance/tiers)
	GetInsuranceTiers(c *fiber.Ctx) error
	// (POST /api/insurance/calculate)
	PostInsuranceCalculate(c *fiber.Ctx) error
	// (POST /api/insurance/validate)
	PostInsuranceValidate(c *fiber.Ctx) error

	// (GET /api/geocode)
	GetGeocode(c *fiber.Ctx, params GetGeocodeParams) error

	// (GET /api/parcels)
	GetParcels(c *fiber.Ctx, params GetParcelsParams) error
	// (POST /api/parcels)
	PostParcels(c *fiber.Ctx) error
	// (GET /api/parcels/received)
	GetParcelsReceived(c *fiber.Ctx, params GetReceivedParcelsParams) error
	// (GET /api/parcels/{id})
	GetParcelsId(c *fiber.Ctx, id string) error
	// (PATCH /api/parcels/{id})
	PatchParcelsId(c *fiber.Ctx, id string) error
	// (PATCH /api/parcels/{id}/accept)
	PatchParcelsIdAccept(c *fiber.Ctx, id string) error
	// (GET /api/parcels/{id}/tracking-events)
	GetParcelsIdTrackingEvents(c *fiber.Ctx, id string) error
	// (POST /api/parcels/{id}/reviews)
	PostParcelsIdReviews(c *fiber.Ctx, id string) error
	// (GET /api/parcels/{id}/eta)
	GetParcelsIdEta(c *fiber.Ctx, id string) error
	// (POST /api/parcels/{id}/location)
	PostParcelsIdLocation(c *fiber.Ctx, id string) error
	// (POST /api/parcels/{id}/delivery-proof)
	PostParcelsIdDeliveryProof(c *fiber.Ctx, id string) error

	// (GET /api/receiver/stats)
	GetReceiverStats(c *fiber.Ctx) error

	// (POST /api/payments/initialize)
	PostPaymentsInitialize(c *fiber.Ctx) error
	// (POST /api/payments/wallet)
	PostPaymentsWallet(c *fiber.Ctx) error
	// (GET /api/payments/verify/{reference})
	GetPaymentsVerifyReference(c *fiber.Ctx, reference string) error
	// (GET /api/payments/history)
	GetPaymentsHistory(c *fiber.Ctx, params PageParams) error
	// (POST /api/payments/webhook)
	PostPaymentsWebhook(c *fiber.Ctx) error

	// (GET /api/wallet/balance)
	GetWalletBalance(c *fiber.Ctx) error
	// (GET /api/wallet/transactions)
	GetWalletTransactions(c *fiber.Ctx, params LimitParams) error
	// (POST /api/wallet/topup)
	PostWalletTopup(c *fiber.Ctx) error

	// (GET /api/conversations)
	GetConversations(c *fiber.Ctx) error
	// (POST /api/conversations)
	PostConversations(c *fiber.Ctx) error
	// (GET /api/conversations/{id}/messages)
	GetConversationsIdMessages(c *fiber.Ctx, id string, params LimitParams) error
	// (POST /api/conversations/{id}/messages)
	PostConversationsIdMessages(c *fiber.Ctx, id string) error

	// (GET /api/disputes)
	GetDisputes(c *fiber.Ctx, params GetDisputesParams) error
	// (POST /api/disputes)
	PostDisputes(c *fiber.Ctx) error
	// (GET /api/disputes/{id})
	GetDisputesId(c *fiber.Ctx, id string) error
	// (POST /api/disputes/{id}/messages)
	PostDisputesIdMessages(c *fiber.Ctx, id string) error

	// (GET /api/notifications)
	GetNotifications(c *fiber.Ctx, params GetNotificationsParams) error
	// (PATCH /api/notifications/{id}/read)
	PatchNotificationsIdRead(c *fiber.Ctx, id string) error

	// (GET /api/admin/stats)
	GetAdminStats(c *fiber.Ctx) error
	// (GET /api/admin/users)
	GetAdminUsers(c *fiber.Ctx, params GetAdminUsersParams) error
	// (GET /api/admin/users/{id})
	GetAdminUsersId(c *fiber.Ctx, id string) error
	// (PATCH /api/admin/users/{id})
	PatchAdminUsersId(c *fiber.Ctx, id string) error
	// (GET /api/admin/parcels)
	GetAdminParcels(c *fiber.Ctx, params GetParcelsParams) error
	// (PATCH /api/admin/parcels/{id})
	PatchAdminParcelsId(c *fiber.Ctx, id string) error
	// (GET /api/admin/payments)
	GetAdminPayments(c *fiber.Ctx, params GetAdminPaymentsParams) error
	// (GET /api/admin/disputes)
	GetAdminDisputes(c *fiber.Ctx, params GetDisputesParams) error
	// (PATCH /api/admin/disputes/{id})
	PatchAdminDisputesId(c *fiber.Ctx, id string) error
	// (POST /api/admin/disputes/{id}/resolve)
	PostAdminDisputesIdResolve(c *fiber.Ctx, id string) error
	// (POST /api/admin/disputes/{id}/messages)
	PostAdminDisputesIdMessages(c *fiber.Ctx, id string) error
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// MiddlewareFunc is a middleware applied to every route.
type MiddlewareFunc fiber.Handler

// FiberServerOptions configures route registration.
type FiberServerOptions struct {
	BaseURL     string
	Middlewares []MiddlewareFunc

	// Authenticate guards routes that need a signed-in caller.
	Authenticate fiber.Handler

	// Authorize returns a guard for an admin permission. It runs after Authenticate.
	Authorize func(permission string) fiber.Handler
}

func invalidParam(c *fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: ErrorBody{
		Code:    INVALIDARGUMENT,
		Message: "invalid query parameters: " + err.Error(),
	}})
}

func withID(fn func(c *fiber.Ctx, id string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return fn(c, c.Params("id"))
	}
}

func withQuery[P any](fn func(c *fiber.Ctx, params P) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var params P
		if err := c.QueryParser(&params); err != nil {
			return invalidParam(c, err)
		}
		return fn(c, params)
	}
}

// GetConversationsIdMessages operation middleware
func (siw *ServerInterfaceWrapper) GetConversationsIdMessages(c *fiber.Ctx) error {
	var params LimitParams
	if err := c.QueryParser(&params); err != nil {
		return invalidParam(c, err)
	}
	return siw.Handler.GetConversationsIdMessages(c, c.Params("id"), params)
}

// GetPaymentsVerifyReference operation middleware
func (siw *ServerInterfaceWrapper) GetPaymentsVerifyReference(c *fiber.Ctx) error {
	return siw.Handler.GetPaymentsVerifyReference(c, c.Params("reference"))
}

// RegisterHandlers registers every route on router without auth guards.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, FiberServerOptions{})
}

// RegisterHandlersWithOptions creates http.Handler with additional options.
func RegisterHandlersWithOptions(router fiber.Router, si ServerInterface, options FiberServerOptions) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	for _, m := range options.Middlewares {
		router.Use(fiber.Handler(m))
	}

	pass := func(c *fiber.Ctx) error { return c.Next() }
	authn := options.Authenticate
	if authn == nil {
		authn = pass
	}
	authz := func(permission string) fiber.Handler {
		if options.Authorize == nil {
			return pass
		}
		return options.Authorize(permission)
	}

	base := options.BaseURL + "/api"

	router.Post(base+"/auth/signup", si.PostAuthSignup)
	router.Post(base+"/auth/signin", si.PostAuthSignin)
	router.Post(base+"/auth/signout", si.PostAuthSignout)
	router.Get(base+"/auth/me", authn, si.GetAuthMe)
	router.Post(base+"/auth/change-password", authn, si.PostAuthChangePassword)

	router.Patch(base+"/users/me", authn, si.PatchUsersMe)
	router.Get(base+"/users/:id", authn, withID(si.GetUsersId))
	router.Get(base+"/users/:id/reviews", authn, withID(si.GetUsersIdReviews))

	router.Get(base+"/subscriptions/plans", si.GetSubscriptionsPlans)
	router.Get(base+"/subscriptions/me", authn, si.GetSubscriptionsMe)
	router.Post(base+"/subscriptions/subscribe", authn, si.PostSubscriptionsSubscribe)
	router.Post(base+"/subscriptions/cancel", authn, si.PostSubscriptionsCancel)

	router.Get(base+"/insurance/tiers", si.GetInsuranceTiers)
	router.Post(base+"/insurance/calculate", si.PostInsuranceCalculate)
	router.Post(base+"/insurance/validate", si.PostInsuranceValidate)

	router.Get(base+"/geocode", withQuery(si.GetGeocode))

	router.Get(base+"/parcels", authn, withQuery(si.GetParcels))
	router.Post(base+"/parcels", authn, si.PostParcels)
	router.Get(base+"/parcels/received", authn, withQuery(si.GetParcelsReceived))
	router.Get(base+"/parcels/:id", authn, withID(si.GetParcelsId))
	router.Patch(base+"/parcels/:id", authn, withID(si.PatchParcelsId))
	router.Patch(base+"/parcels/:id/accept", authn, withID(si.PatchParcelsIdAccept))
	router.Get(base+"/parcels/:id/tracking-events", authn, withID(si.GetParcelsIdTrackingEvents))
	router.Post(base+"/parcels/:id/reviews", authn, withID(si.PostParcelsIdReviews))
	router.Get(base+"/parcels/:id/eta", authn, withID(si.GetParcelsIdEta))
	router.Post(base+"/parcels/:id/location", authn, withID(si.PostParcelsIdLocation))
	router.Post(base+"/parcels/:id/delivery-proof", authn, withID(si.PostParcelsIdDeliveryProof))

	router.Get(base+"/receiver/stats", authn, si.GetReceiverStats)

	router.Post(base+"/payments/initialize", authn, si.PostPaymentsInitialize)
	router.Post(base+"/payments/wallet", authn, si.PostPaymentsWallet)
	router.Get(base+"/payments/verify/:reference", authn, wrapper.GetPaymentsVerifyReference)
	router.Get(base+"/payments/history", authn, withQuery(si.GetPaymentsHistory))
	router.Post(base+"/payments/webhook", si.PostPaymentsWebhook)

	router.Get(base+"/wallet/balance", authn, si.GetWalletBalance)
	router.Get(base+"/wallet/transactions", authn, withQuery(si.GetWalletTransactions))
	router.Post(base+"/wallet/topup", authn, si.PostWalletTopup)

	router.Get(base+"/conversations", authn, si.GetConversations)
	router.Post(base+"/conversations", authn, si.PostConversations)
	router.Get(base+"/conversations/:id/messages", authn, wrapper.GetConversationsIdMessages)
	router.Post(base+"/conversations/:id/messages", authn, withID(si.PostConversationsIdMessages))

	router.Get(base+"/disputes", authn, withQuery(si.GetDisputes))
	router.Post(base+"/disputes", authn, si.PostDisputes)
	router.Get(base+"/disputes/:id", authn, withID(si.GetDisputesId))
	router.Post(base+"/disputes/:id/messages", authn, withID(si.PostDisputesIdMessages))

	router.Get(base+"/notifications", authn, withQuery(si.GetNotifications))
	router.Patch(base+"/notifications/:id/read", authn, withID(si.PatchNotificationsIdRead))

	router.Get(base+"/admin/stats", authn, authz(PermViewAnalytics), si.GetAdminStats)
	router.Get(base+"/admin/users", authn, authz(PermManageUsers), withQuery(si.GetAdminUsers))
	router.Get(base+"/admin/users/:id", authn, authz(PermManageUsers), withID(si.GetAdminUsersId))
	router.Patch(base+"/admin/users/:id", authn, authz(PermManageUsers), withID(si.PatchAdminUsersId))
	router.Get(base+"/admin/parcels", authn, authz(PermManageParcels), withQuery(si.GetAdminParcels))
	router.Patch(base+"/admin/parcels/:id", authn, authz(PermManageParcels), withID(si.PatchAdminParcelsId))
	router.Get(base+"/admin/payments", authn, authz(PermManagePayments), withQuery(si.GetAdminPayments))
	router.Get(base+"/admin/disputes", authn, authz(PermManageDisputes), withQuery(si.GetAdminDisputes))
	router.Patch(base+"/admin/disputes/:id", authn, authz(PermManageDisputes), withID(si.PatchAdminDisputesId))
	router.Post(base+"/admin/disputes/:id/resolve", authn, authz(PermManageDisputes), withID(si.PostAdminDisputesIdResolve))
	router.Post(base+"/admin/disputes/:id/messages", authn, authz(PermManageDisputes), withID(si.PostAdminDisputesIdMessages))
}
