package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/blacktie-rides/limobooking/api"
	"github.com/blacktie-rides/limobooking/config"
	"github.com/blacktie-rides/limobooking/internal/domain"
	"github.com/blacktie-rides/limobooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, catalog *domain.Catalog, bookingSvc booking.BookingUseCase) error {
	srv := newServer(cfg, catalog, bookingSvc)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServer(cfg *config.Config, catalog *domain.Catalog, bookingSvc booking.BookingUseCase) *http.Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	api.NewBookingHandler(bookingSvc).Register(router.Group("/bookings"))
	api.NewVehicleHandler(catalog).Register(router.Group("/vehicles"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/bookings.swagger.json"),
		)))
	}

	return &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}
}
