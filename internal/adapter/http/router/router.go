package router

import "net/http"

type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

func New(
	healthController RouteRegistrar,
	authController RouteRegistrar,
	accountController RouteRegistrar,
	transferController RouteRegistrar,
	balanceController RouteRegistrar,
	refundController RouteRegistrar,
	authMiddleware func(http.Handler) http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()
	registerSwaggerRoutes(mux)

	for _, registrar := range []RouteRegistrar{
		healthController,
		authController,
		accountController,
		transferController,
		balanceController,
		refundController,
	} {
		if registrar != nil {
			registrar.RegisterRoutes(mux, authMiddleware)
		}
	}

	return mux
}
